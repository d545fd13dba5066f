package main

/*
#include <stdbool.h>
#include <stddef.h>
#include <stdint.h>
*/
import "C"
import (
	"encoding/json"
	"fmt"
	"os"
	"time"
	"unsafe"

	"github.com/gwos/gosfml/config"
	"github.com/gwos/gosfml/errors"
	"github.com/gwos/gosfml/ffi"
	"github.com/gwos/gosfml/internal/callbacks"
	"github.com/gwos/gosfml/logzer"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// streams keeps the input streams opened by the C side,
// the id returned to C is the registry key
var streams = callbacks.New[*ffi.InputStream]()

func init() {
	config.AllowFlags = false
}

func main() {
}

// bufCopy copies str into b as nul terminated string, truncating it if needed.
// It returns the count of bytes copied without the nul.
func bufCopy(b []byte, str string) int {
	if len(b) == 0 {
		return 0
	}
	n := copy(b[:len(b)-1], str)
	b[n] = 0 /* set nul termination */
	return n
}

// bufStr puts Go string into C buffer
func bufStr(buf *C.char, bufLen C.size_t, str string) {
	if buf == nil || bufLen == 0 {
		return
	}
	bufCopy(unsafe.Slice((*byte)(unsafe.Pointer(buf)), int(bufLen)), str)
}

// bufJSON puts JSON representation of v into C buffer,
// it fails if the buffer is too small to keep the whole data
func bufJSON(buf *C.char, bufLen C.size_t, errBuf *C.char, errBufLen C.size_t, v any) C.bool {
	data, err := json.Marshal(v)
	if err != nil {
		bufStr(errBuf, errBufLen, err.Error())
		return false
	}
	if len(data) >= int(bufLen) {
		bufStr(errBuf, errBufLen, msgfBufTooSmall(len(data)+1))
		return false
	}
	bufStr(buf, bufLen, string(data))
	return true
}

// msgfBufTooSmall formats a message
func msgfBufTooSmall(n int) string {
	return fmt.Sprintf("Buffer too small, need at least %d bytes", n)
}

// GoSetenv is for use by a calling application to alter environment variables in
// a manner that will be understood by the Go runtime.  We need it because the standard
// C-language putenv() and setenv() routines do not alter the Go environment as intended,
// due to issues with when os.Getenv() or related routines first get called.  To affect
// the initial config read by the library, calls to GoSetenv() must be
// made *before* any other call into the library.
//
//export GoSetenv
func GoSetenv(key, value, errBuf *C.char, errBufLen C.size_t) C.bool {
	err := os.Setenv(C.GoString(key), C.GoString(value))
	if err != nil {
		bufStr(errBuf, errBufLen, err.Error())
		return false
	}
	return true
}

// SetLoggerWithOptions replaces the logger configured from file and env
//
//export SetLoggerWithOptions
func SetLoggerWithOptions(
	condense C.longlong,
	filePath *C.char,
	fileMaxSize C.longlong,
	fileRotate C.int,
	level C.int,
	colors C.bool,
	timeFormat *C.char,
) {
	_ = config.GetConfig()
	lvl := config.LogLevel(level).ZerologLevel()
	opts := []logzer.Option{
		logzer.WithColors(bool(colors)),
		logzer.WithLastErrors(10),
		logzer.WithLevel(lvl),
		logzer.WithTimeFormat(C.GoString(timeFormat)),
	}
	if lvl > zerolog.DebugLevel {
		opts = append(opts, logzer.WithCondense(time.Duration(condense)*time.Millisecond))
	}
	if path := C.GoString(filePath); path != "" {
		opts = append(opts, logzer.WithLogFile(&logzer.LogFile{
			FilePath: path,
			MaxSize:  int64(fileMaxSize),
			Rotate:   int(fileRotate),
		}))
	}
	config.SetLogger(opts...)
}

// GetLastErrors puts the last error records as JSON array into buf
//
//export GetLastErrors
func GetLastErrors(buf *C.char, bufLen C.size_t, errBuf *C.char, errBufLen C.size_t) C.bool {
	return bufJSON(buf, bufLen, errBuf, errBufLen, logzer.LastErrors())
}

// GetBuildInfo puts the build properties as JSON into buf
//
//export GetBuildInfo
func GetBuildInfo(buf *C.char, bufLen C.size_t, errBuf *C.char, errBufLen C.size_t) C.bool {
	return bufJSON(buf, bufLen, errBuf, errBufLen, config.GetBuildInfo())
}

// OpenFileStream opens the file for reading and returns the id of its input stream.
// The id should be released after use with CloseStream, 0 means failure.
//
//export OpenFileStream
func OpenFileStream(filePath *C.char, errBuf *C.char, errBufLen C.size_t) C.uintptr_t {
	name := C.GoString(filePath)
	file, err := os.Open(name)
	if err != nil {
		bufStr(errBuf, errBufLen, err.Error())
		return 0
	}
	is, err := ffi.OpenInputStream(file, config.GetConfig().StreamOptions(name)...)
	if err != nil {
		_ = file.Close()
		bufStr(errBuf, errBufLen, err.Error())
		return 0
	}
	return C.uintptr_t(streams.Add(is))
}

// GetStreamRecord returns the sfInputStream record to pass to the native library.
// The record stays valid until CloseStream, NULL means unknown id.
//
//export GetStreamRecord
func GetStreamRecord(id C.uintptr_t) unsafe.Pointer {
	is, ok := streams.Lookup(uintptr(id))
	if !ok {
		return nil
	}
	return is.Ptr()
}

// CloseStream releases the input stream and closes its file.
// It fails on unknown id, so the stream is released exactly once.
//
//export CloseStream
func CloseStream(id C.uintptr_t, errBuf *C.char, errBufLen C.size_t) C.bool {
	is, ok := streams.Take(uintptr(id))
	if !ok {
		bufStr(errBuf, errBufLen, errors.ErrClosed.Error())
		return false
	}
	if err := closeStream(is); err != nil {
		log.Warn().Err(err).Str("stream", is.Stream().Name()).Msg("could not close stream")
		bufStr(errBuf, errBufLen, err.Error())
		return false
	}
	return true
}

func closeStream(is *ffi.InputStream) error {
	src := is.Stream().Source()
	if err := is.Close(); err != nil {
		return err
	}
	if c, ok := src.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
