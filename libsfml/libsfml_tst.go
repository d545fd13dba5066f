package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"
import (
	"encoding/json"
	"io"
	"os"
	"path"
	"sync"
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/gwos/gosfml/config"
	"github.com/gwos/gosfml/ffi"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cbuf []byte

func newCBuf(n int) cbuf { return make(cbuf, n) }

func (b cbuf) ptr() *C.char { return (*C.char)(unsafe.Pointer(&b[0])) }

func (b cbuf) len() C.size_t { return C.size_t(len(b)) }

func (b cbuf) String() string {
	return C.GoString(b.ptr())
}

func withCString(s string, fn func(*C.char)) {
	p := C.CString(s)
	defer C.free(unsafe.Pointer(p))
	fn(p)
}

func testBufStr(t *testing.T) {
	b := newCBuf(8)
	bufStr(b.ptr(), b.len(), "0123456789")
	assert.Equal(t, "0123456", b.String())
	bufStr(b.ptr(), b.len(), "ok")
	assert.Equal(t, "ok", b.String())
	bufStr(nil, 8, "ignored")

	assert.Equal(t, 0, bufCopy(nil, "ignored"))
	one := []byte{'x'}
	assert.Equal(t, 0, bufCopy(one, "abc"))
	assert.Equal(t, []byte{0}, one)
}

func testGoSetenv(t *testing.T) {
	errBuf := newCBuf(256)
	withCString("GOSFML_LIB_TEST", func(k *C.char) {
		withCString("42", func(v *C.char) {
			assert.True(t, bool(GoSetenv(k, v, errBuf.ptr(), errBuf.len())))
		})
	})
	assert.Equal(t, "42", os.Getenv("GOSFML_LIB_TEST"))
	_ = os.Unsetenv("GOSFML_LIB_TEST")
}

func testGetBuildInfo(t *testing.T) {
	buf, errBuf := newCBuf(256), newCBuf(256)
	require.True(t, bool(GetBuildInfo(buf.ptr(), buf.len(), errBuf.ptr(), errBuf.len())))
	var info config.BuildInfo
	assert.NoError(t, json.Unmarshal([]byte(buf.String()), &info))
	assert.Equal(t, config.GetBuildInfo(), info)

	small := newCBuf(4)
	assert.False(t, bool(GetBuildInfo(small.ptr(), small.len(), errBuf.ptr(), errBuf.len())))
	assert.Contains(t, errBuf.String(), "Buffer too small")
}

func testGetLastErrors(t *testing.T) {
	withCString("", func(empty *C.char) {
		SetLoggerWithOptions(0, empty, 0, 0, 0, false, empty)
	})
	log.Error().Msg("__last_error__")

	buf, errBuf := newCBuf(4096), newCBuf(256)
	require.True(t, bool(GetLastErrors(buf.ptr(), buf.len(), errBuf.ptr(), errBuf.len())))
	var records []map[string]any
	assert.NoError(t, json.Unmarshal([]byte(buf.String()), &records))
	require.NotEmpty(t, records)
	assert.Equal(t, "__last_error__", records[len(records)-1]["message"])
}

func testFileStream(t *testing.T) {
	filePath := path.Join(t.TempDir(), "ten.bin")
	require.NoError(t, os.WriteFile(filePath, []byte("0123456789"), 0644))
	errBuf := newCBuf(256)

	var id C.uintptr_t
	withCString(filePath, func(p *C.char) {
		id = OpenFileStream(p, errBuf.ptr(), errBuf.len())
	})
	require.NotZero(t, id, errBuf.String())

	fs, err := ffi.NewForeignStream(GetStreamRecord(id))
	require.NoError(t, err)
	pos, err := fs.Seek(5, io.SeekStart)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), pos)
	buf := make([]byte, 3)
	n, err := fs.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, "567", string(buf[:n]))
	size, err := fs.Size()
	assert.NoError(t, err)
	assert.Equal(t, int64(10), size)

	assert.True(t, bool(CloseStream(id, errBuf.ptr(), errBuf.len())))
	assert.False(t, bool(CloseStream(id, errBuf.ptr(), errBuf.len())))
	assert.Contains(t, errBuf.String(), "use of closed record")
	assert.Nil(t, GetStreamRecord(id))

	withCString(path.Join(t.TempDir(), "absent.bin"), func(p *C.char) {
		id = OpenFileStream(p, errBuf.ptr(), errBuf.len())
	})
	assert.Zero(t, id)
	assert.Contains(t, errBuf.String(), "no such file")
}

func testCloseStreamConcurrent(t *testing.T) {
	filePath := path.Join(t.TempDir(), "ten.bin")
	require.NoError(t, os.WriteFile(filePath, []byte("0123456789"), 0644))

	var id C.uintptr_t
	withCString(filePath, func(p *C.char) {
		errBuf := newCBuf(256)
		id = OpenFileStream(p, errBuf.ptr(), errBuf.len())
	})
	require.NotZero(t, id)

	var (
		wg     sync.WaitGroup
		closed atomic.Int32
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errBuf := newCBuf(256)
			if bool(CloseStream(id, errBuf.ptr(), errBuf.len())) {
				closed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), closed.Load())
	assert.Nil(t, GetStreamRecord(id))
}
