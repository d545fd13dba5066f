package ffi

/*
#include <stddef.h>
#include "sfml.h"

static int isValidInputStream(sfInputStream *s) {
	return s != NULL && s->read != NULL && s->seek != NULL &&
		s->tell != NULL && s->getSize != NULL;
}

// the calls by reference, https://golang.org/cmd/cgo/#hdr-Go_references_to_C
static long long invokeRead(sfInputStream *s, void *data, long long size) {
	return s->read(data, size, s->userData);
}

static long long invokeSeek(sfInputStream *s, long long position) {
	return s->seek(position, s->userData);
}

static long long invokeTell(sfInputStream *s) {
	return s->tell(s->userData);
}

static long long invokeGetSize(sfInputStream *s) {
	return s->getSize(s->userData);
}
*/
import "C"
import (
	"fmt"
	"io"
	"unsafe"

	"github.com/gwos/gosfml/errors"
)

// ForeignStream reads an sfInputStream callback table from Go.
// It is what the native library does with a table,
// and lets Go code consume tables provided by foreign code.
type ForeignStream struct {
	ptr *C.sfInputStream
}

// NewForeignStream wraps the sfInputStream at p, all callbacks must be set
func NewForeignStream(p unsafe.Pointer) (*ForeignStream, error) {
	ptr := (*C.sfInputStream)(p)
	if C.isValidInputStream(ptr) == 0 {
		return nil, errors.ErrNilFunc
	}
	return &ForeignStream{ptr: ptr}, nil
}

func (f *ForeignStream) read(data unsafe.Pointer, size int64) int64 {
	return int64(C.invokeRead(f.ptr, data, C.longlong(size)))
}

// Read implements io.Reader interface
func (f *ForeignStream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := f.read(unsafe.Pointer(&p[0]), int64(len(p)))
	switch {
	case n < 0:
		return 0, errors.ErrStreamRead
	case n == 0:
		return 0, io.EOF
	case n > int64(len(p)):
		return 0, fmt.Errorf("%w: %d bytes reported for %d requested", errors.ErrStreamRead, n, len(p))
	}
	return int(n), nil
}

// Seek implements io.Seeker interface
func (f *ForeignStream) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		pos, err := f.Tell()
		if err != nil {
			return 0, err
		}
		base = pos
	case io.SeekEnd:
		size, err := f.Size()
		if err != nil {
			return 0, err
		}
		base = size
	default:
		return 0, fmt.Errorf("%w: invalid whence %d", errors.ErrStreamSeek, whence)
	}
	pos := base + offset
	if pos < 0 {
		return 0, fmt.Errorf("%w: %w", errors.ErrStreamSeek, errors.ErrNegativeSize)
	}
	n := int64(C.invokeSeek(f.ptr, C.longlong(pos)))
	if n < 0 {
		return 0, errors.ErrStreamSeek
	}
	return n, nil
}

// Tell returns the current position
func (f *ForeignStream) Tell() (int64, error) {
	n := int64(C.invokeTell(f.ptr))
	if n < 0 {
		return 0, errors.ErrStreamTell
	}
	return n, nil
}

// Size returns the total length
func (f *ForeignStream) Size() (int64, error) {
	n := int64(C.invokeGetSize(f.ptr))
	if n < 0 {
		return 0, errors.ErrStreamSize
	}
	return n, nil
}
