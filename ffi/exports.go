package ffi

/*
#include "sfml.h"
*/
import "C"
import (
	"math"
	"unsafe"

	"github.com/gwos/gosfml/internal/callbacks"
	"github.com/gwos/gosfml/system"
)

// maxReadRequest clamps the size of a single read request,
// bigger requests are served as short reads
const maxReadRequest = math.MaxInt32

var streams = callbacks.New[*system.InputStream]()

func lookupStream(userData unsafe.Pointer) (*system.InputStream, bool) {
	return streams.Lookup(uintptr(userData))
}

//export gosfmlInputStreamRead
func gosfmlInputStreamRead(data unsafe.Pointer, size C.longlong, userData unsafe.Pointer) C.longlong {
	s, ok := lookupStream(userData)
	if !ok {
		return -1
	}
	n := int64(size)
	if n <= 0 {
		return C.longlong(s.ReadCallback(nil, n))
	}
	if data == nil {
		return -1
	}
	if n > maxReadRequest {
		n = maxReadRequest
	}
	return C.longlong(s.ReadCallback(unsafe.Slice((*byte)(data), n), n))
}

//export gosfmlInputStreamSeek
func gosfmlInputStreamSeek(position C.longlong, userData unsafe.Pointer) C.longlong {
	s, ok := lookupStream(userData)
	if !ok {
		return -1
	}
	return C.longlong(s.SeekCallback(int64(position)))
}

//export gosfmlInputStreamTell
func gosfmlInputStreamTell(userData unsafe.Pointer) C.longlong {
	s, ok := lookupStream(userData)
	if !ok {
		return -1
	}
	return C.longlong(s.TellCallback())
}

//export gosfmlInputStreamGetSize
func gosfmlInputStreamGetSize(userData unsafe.Pointer) C.longlong {
	s, ok := lookupStream(userData)
	if !ok {
		return -1
	}
	return C.longlong(s.GetSizeCallback())
}

// gosfmlClock_create starts a clock
//
//export gosfmlClock_create
func gosfmlClock_create() C.sfClock {
	return clockToC(system.StartClock())
}

// gosfmlClock_getElapsedTime returns the time elapsed since the clock start
//
//export gosfmlClock_getElapsedTime
func gosfmlClock_getElapsedTime(clock *C.sfClock) C.sfTime {
	if clock == nil {
		return C.sfTime{}
	}
	c := clockFromC(clock)
	return timeToC(c.ElapsedTime())
}

// gosfmlClock_restart restarts the clock and returns the time elapsed before
//
//export gosfmlClock_restart
func gosfmlClock_restart(clock *C.sfClock) C.sfTime {
	if clock == nil {
		return C.sfTime{}
	}
	c := clockFromC(clock)
	elapsed := c.Restart()
	*clock = clockToC(c)
	return timeToC(elapsed)
}
