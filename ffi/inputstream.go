package ffi

/*
#include <stdlib.h>
#include <stdint.h>
#include "sfml.h"

extern long long gosfmlInputStreamRead(void *, long long, void *);
extern long long gosfmlInputStreamSeek(long long, void *);
extern long long gosfmlInputStreamTell(void *);
extern long long gosfmlInputStreamGetSize(void *);

// newInputStream allocates the callback table in C memory,
// the table never moves so the foreign side may keep its address.
static sfInputStream *newInputStream(uintptr_t user) {
	sfInputStream *s = calloc(1, sizeof(sfInputStream));
	if (s == NULL) {
		return NULL;
	}
	s->read = gosfmlInputStreamRead;
	s->seek = gosfmlInputStreamSeek;
	s->tell = gosfmlInputStreamTell;
	s->getSize = gosfmlInputStreamGetSize;
	s->userData = (void *)user;
	return s;
}
*/
import "C"
import (
	"io"
	"sync"
	"unsafe"

	"github.com/gwos/gosfml/errors"
	"github.com/gwos/gosfml/log"
	"github.com/gwos/gosfml/system"
)

// InputStream is the sfInputStream callback table serving a Go stream.
//
// The table lives in C memory and carries an id of the Go stream as user data,
// so its address stays valid for the foreign side until Close.
// Close must be called exactly once the foreign side is done with the table,
// later calls are no-op.
type InputStream struct {
	mu     sync.Mutex
	ptr    *C.sfInputStream
	id     uintptr
	stream *system.InputStream
}

// NewInputStream creates the callback table for s
func NewInputStream(s *system.InputStream) (*InputStream, error) {
	if s == nil {
		return nil, errors.ErrNilSource
	}
	id := streams.Add(s)
	ptr := C.newInputStream(C.uintptr_t(id))
	if ptr == nil {
		streams.Remove(id)
		return nil, errors.ErrAlloc
	}
	log.Logger.Debug("input stream created", "stream", s.Name(), "id", id)
	return &InputStream{ptr: ptr, id: id, stream: s}, nil
}

// OpenInputStream creates the callback table for src
func OpenInputStream(src io.ReadSeeker, opts ...system.StreamOption) (*InputStream, error) {
	if src == nil {
		return nil, errors.ErrNilSource
	}
	return NewInputStream(system.NewInputStream(src, opts...))
}

// Ptr returns the sfInputStream pointer to pass to the foreign side,
// it is nil after Close
func (is *InputStream) Ptr() unsafe.Pointer {
	is.mu.Lock()
	defer is.mu.Unlock()
	return unsafe.Pointer(is.ptr)
}

// Stream returns the served Go stream
func (is *InputStream) Stream() *system.InputStream {
	return is.stream
}

// Close implements io.Closer interface
func (is *InputStream) Close() error {
	is.mu.Lock()
	defer is.mu.Unlock()
	if is.ptr == nil {
		return nil
	}
	streams.Remove(is.id)
	C.free(unsafe.Pointer(is.ptr))
	is.ptr = nil
	log.Logger.Debug("input stream closed", "stream", is.stream.Name(), "id", is.id)
	return nil
}
