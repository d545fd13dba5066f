package system

import (
	"math"
	"strconv"
	"time"
)

// Time represents a signed time span at microsecond resolution.
//
// It is not a point in time: negative values are valid, and the same type
// carries the readings of a Clock. The zero value is Zero.
//
// Arithmetic is plain 64-bit integer arithmetic on the microsecond count
// and wraps silently on overflow. Scaling comes in two flavours:
// the Float forms go through seconds as float32, the Int forms
// multiply or divide the microsecond count directly.
type Time struct {
	microseconds int64
}

// Zero is the predefined zero time value, equal to Time{}.
// It must never be assigned to, compare with Time{} where that matters.
var Zero Time

// Seconds constructs a time value from a number of seconds.
// The fractional microsecond part is truncated toward zero.
// Results beyond the int64 range saturate, NaN gives Zero.
func Seconds(seconds float32) Time {
	return Time{microseconds: float32ToMicroseconds(seconds * 1e6)}
}

// Milliseconds constructs a time value from a number of milliseconds.
func Milliseconds(milliseconds int32) Time {
	return Time{microseconds: int64(milliseconds) * 1000}
}

// Microseconds constructs a time value from a number of microseconds.
func Microseconds(microseconds int64) Time {
	return Time{microseconds: microseconds}
}

// FromDuration converts d truncating toward zero to microseconds.
func FromDuration(d time.Duration) Time {
	return Time{microseconds: d.Microseconds()}
}

func float32ToMicroseconds(v float32) int64 {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// AsSeconds returns the time value as a number of seconds.
func (t Time) AsSeconds() float32 {
	return float32(t.microseconds) / 1e6
}

// AsMilliseconds returns the time value as a number of milliseconds,
// truncated toward zero and saturated at the int32 bounds.
func (t Time) AsMilliseconds() int32 {
	ms := t.microseconds / 1000
	switch {
	case ms > math.MaxInt32:
		return math.MaxInt32
	case ms < math.MinInt32:
		return math.MinInt32
	}
	return int32(ms)
}

// AsMicroseconds returns the time value as a number of microseconds.
func (t Time) AsMicroseconds() int64 {
	return t.microseconds
}

// Duration converts to time.Duration, saturating at its bounds.
func (t Time) Duration() time.Duration {
	switch {
	case t.microseconds > math.MaxInt64/1000:
		return math.MaxInt64
	case t.microseconds < math.MinInt64/1000:
		return math.MinInt64
	}
	return time.Duration(t.microseconds) * time.Microsecond
}

// String implements fmt.Stringer interface
func (t Time) String() string {
	return t.Duration().String()
}

// Neg returns -t.
func (t Time) Neg() Time {
	return Time{microseconds: -t.microseconds}
}

// Add returns t+u.
func (t Time) Add(u Time) Time {
	return Time{microseconds: t.microseconds + u.microseconds}
}

// Sub returns t-u.
func (t Time) Sub(u Time) Time {
	return Time{microseconds: t.microseconds - u.microseconds}
}

// Rem returns the remainder of t divided by u.
// It panics if u is Zero.
func (t Time) Rem(u Time) Time {
	return Time{microseconds: t.microseconds % u.microseconds}
}

// MulFloat scales t by f, computed in seconds.
func (t Time) MulFloat(f float32) Time {
	return Seconds(t.AsSeconds() * f)
}

// MulInt scales t by n, computed in microseconds.
func (t Time) MulInt(n int64) Time {
	return Time{microseconds: t.microseconds * n}
}

// DivFloat divides t by f, computed in seconds.
func (t Time) DivFloat(f float32) Time {
	return Seconds(t.AsSeconds() / f)
}

// DivInt divides t by n, computed in microseconds.
// It panics if n is 0.
func (t Time) DivInt(n int64) Time {
	return Time{microseconds: t.microseconds / n}
}

// Ratio returns t/u as a dimensionless value, computed in seconds.
func (t Time) Ratio(u Time) float32 {
	return t.AsSeconds() / u.AsSeconds()
}

// ScaleFloat returns f*t, same as t.MulFloat(f).
func ScaleFloat(f float32, t Time) Time {
	return t.MulFloat(f)
}

// ScaleInt returns n*t, same as t.MulInt(n).
func ScaleInt(n int64, t Time) Time {
	return t.MulInt(n)
}

// AddAssign sets t to t+u.
func (t *Time) AddAssign(u Time) { *t = t.Add(u) }

// SubAssign sets t to t-u.
func (t *Time) SubAssign(u Time) { *t = t.Sub(u) }

// RemAssign sets t to t%u.
func (t *Time) RemAssign(u Time) { *t = t.Rem(u) }

// MulFloatAssign sets t to t*f.
func (t *Time) MulFloatAssign(f float32) { *t = t.MulFloat(f) }

// MulIntAssign sets t to t*n.
func (t *Time) MulIntAssign(n int64) { *t = t.MulInt(n) }

// DivFloatAssign sets t to t/f.
func (t *Time) DivFloatAssign(f float32) { *t = t.DivFloat(f) }

// DivIntAssign sets t to t/n.
func (t *Time) DivIntAssign(n int64) { *t = t.DivInt(n) }

// Compare returns -1, 0 or +1 as t is shorter than, equal to or longer than u.
func (t Time) Compare(u Time) int {
	switch {
	case t.microseconds < u.microseconds:
		return -1
	case t.microseconds > u.microseconds:
		return 1
	}
	return 0
}

// Less reports t < u.
func (t Time) Less(u Time) bool {
	return t.microseconds < u.microseconds
}

// IsZero reports whether t is the zero time value
func (t Time) IsZero() bool {
	return t == Time{}
}

// MarshalJSON implements json.Marshaler.
// Time is encoded as an integer count of microseconds.
func (t Time) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, t.microseconds, 10), nil
}

// UnmarshalJSON implements json.Unmarshaler.
// JSON null leaves the value unchanged.
func (t *Time) UnmarshalJSON(input []byte) error {
	if string(input) == "null" {
		return nil
	}
	us, err := strconv.ParseInt(string(input), 10, 64)
	if err != nil {
		return err
	}
	*t = Time{microseconds: us}
	return nil
}
