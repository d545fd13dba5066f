package ffi

/*
#include "sfml.h"
*/
import "C"
import (
	"unsafe"

	"github.com/gwos/gosfml/system"
)

// TimeRecord mirrors the sfTime layout
type TimeRecord struct {
	Microseconds int64
}

// TimeSpanRecord mirrors the sfTimeSpan layout, fields in order
type TimeSpanRecord struct {
	Offset int64
	Length int64
}

// Sizes of the C records
var (
	SizeofTime        = unsafe.Sizeof(C.sfTime{})
	SizeofTimeSpan    = unsafe.Sizeof(C.sfTimeSpan{})
	SizeofClock       = unsafe.Sizeof(C.sfClock{})
	SizeofInputStream = unsafe.Sizeof(C.sfInputStream{})
)

// NewTimeRecord returns the record for t
func NewTimeRecord(t system.Time) TimeRecord {
	return TimeRecord{Microseconds: t.AsMicroseconds()}
}

// Time returns the value of the record
func (r TimeRecord) Time() system.Time {
	return system.Microseconds(r.Microseconds)
}

// TimeSpanRecordAt reads the sfTimeSpan record at p
func TimeSpanRecordAt(p unsafe.Pointer) TimeSpanRecord {
	return timeSpanFromC(*(*C.sfTimeSpan)(p))
}

// Store writes the record into the sfTimeSpan at p
func (r TimeSpanRecord) Store(p unsafe.Pointer) {
	*(*C.sfTimeSpan)(p) = r.toC()
}

func (r TimeSpanRecord) toC() C.sfTimeSpan {
	return C.sfTimeSpan{
		offset: C.int64_t(r.Offset),
		length: C.int64_t(r.Length),
	}
}

func timeSpanFromC(c C.sfTimeSpan) TimeSpanRecord {
	return TimeSpanRecord{Offset: int64(c.offset), Length: int64(c.length)}
}

func timeToC(t system.Time) C.sfTime {
	return C.sfTime{microseconds: C.int64_t(t.AsMicroseconds())}
}

func timeFromC(c C.sfTime) system.Time {
	return system.Microseconds(int64(c.microseconds))
}

func clockToC(c system.Clock) C.sfClock {
	return C.sfClock{startTime: timeToC(c.StartTime())}
}

func clockFromC(c *C.sfClock) system.Clock {
	return system.ClockAt(timeFromC(c.startTime))
}
