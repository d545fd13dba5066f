package audio

import (
	"fmt"

	"github.com/gwos/gosfml/ffi"
	"github.com/gwos/gosfml/system"
)

// TimeSpan defines a range in time: where it starts and how long it lasts.
// The span covers [Offset, Offset+Length), nothing checks that Length
// is positive, a span with Length <= 0 contains no point in time.
type TimeSpan struct {
	Offset system.Time `json:"offset"`
	Length system.Time `json:"length"`
}

// NewTimeSpan returns the span of length starting at offset
func NewTimeSpan(offset, length system.Time) TimeSpan {
	return TimeSpan{Offset: offset, Length: length}
}

// TimeSpanFromRaw returns the span stored in the foreign record
func TimeSpanFromRaw(r ffi.TimeSpanRecord) TimeSpan {
	return TimeSpan{
		Offset: system.Microseconds(r.Offset),
		Length: system.Microseconds(r.Length),
	}
}

// Raw returns the foreign record of the span
func (s TimeSpan) Raw() ffi.TimeSpanRecord {
	return ffi.TimeSpanRecord{
		Offset: s.Offset.AsMicroseconds(),
		Length: s.Length.AsMicroseconds(),
	}
}

// End returns the first point in time after the span
func (s TimeSpan) End() system.Time {
	return s.Offset.Add(s.Length)
}

// Contains reports whether t falls within the span
func (s TimeSpan) Contains(t system.Time) bool {
	return !t.Less(s.Offset) && t.Less(s.End())
}

func (s TimeSpan) String() string {
	return fmt.Sprintf("[%v +%v]", s.Offset, s.Length)
}
