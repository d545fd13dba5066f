package system

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeConversions(t *testing.T) {
	assert.Equal(t, int32(100), Seconds(0.1).AsMilliseconds())
	assert.Equal(t, int64(30_000), Milliseconds(30).AsMicroseconds())
	assert.Equal(t, float32(-0.8), Microseconds(-800_000).AsSeconds())
	assert.Equal(t, float32(4.0), Milliseconds(1000).Ratio(Milliseconds(250)))
	assert.Equal(t, Zero, Time{})
	assert.True(t, Zero.IsZero())
	assert.False(t, Microseconds(-1).IsZero())
	assert.Equal(t, int64(0), Zero.AsMicroseconds())
}

func TestTimeMilliseconds(t *testing.T) {
	for _, m := range []int32{math.MinInt32, -1000, -1, 0, 1, 30, math.MaxInt32} {
		assert.Equal(t, int64(m)*1000, Milliseconds(m).AsMicroseconds())
		assert.Equal(t, m, Milliseconds(m).AsMilliseconds())
	}
}

func TestTimeMicroseconds(t *testing.T) {
	for _, us := range []int64{math.MinInt64, -800_000, -1, 0, 1, 1_000_001, math.MaxInt64} {
		assert.Equal(t, us, Microseconds(us).AsMicroseconds())
	}
}

func TestTimeSeconds(t *testing.T) {
	for _, s := range []float32{0, 0.1, 0.25, -0.8, 1.5, 12.125, -3600, 0.001} {
		assert.InDelta(t, s, Seconds(s).AsSeconds(), 1e-6, "seconds %v", s)
	}
}

func TestTimeSaturation(t *testing.T) {
	tests := []struct {
		name string
		got  int64
		want int64
	}{
		{"SecondsOverflow", Seconds(1e13).AsMicroseconds(), math.MaxInt64},
		{"SecondsUnderflow", Seconds(-1e13).AsMicroseconds(), math.MinInt64},
		{"SecondsInf", Seconds(float32(math.Inf(1))).AsMicroseconds(), math.MaxInt64},
		{"SecondsNaN", Seconds(float32(math.NaN())).AsMicroseconds(), 0},
		{"SecondsTruncate", Seconds(-0.0000015).AsMicroseconds(), -1},
		{"MillisecondsMax", int64(Microseconds(math.MaxInt64).AsMilliseconds()), math.MaxInt32},
		{"MillisecondsMin", int64(Microseconds(-2_147_483_649_000).AsMilliseconds()), math.MinInt32},
		{"MillisecondsTruncate", int64(Microseconds(-1999).AsMilliseconds()), -1},
		{"AddWrap", Microseconds(math.MaxInt64).Add(Microseconds(1)).AsMicroseconds(), math.MinInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestTimeArithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  Time
		want Time
	}{
		{"Neg", Milliseconds(5).Neg(), Milliseconds(-5)},
		{"Add", Milliseconds(5).Add(Microseconds(7)), Microseconds(5007)},
		{"Sub", Milliseconds(5).Sub(Milliseconds(7)), Milliseconds(-2)},
		{"Rem", Microseconds(-7).Rem(Microseconds(2)), Microseconds(-1)},
		{"MulFloat", Seconds(2).MulFloat(1.5), Seconds(3)},
		{"MulInt", Milliseconds(3).MulInt(-2), Microseconds(-6000)},
		{"DivFloat", Seconds(3).DivFloat(2), Microseconds(1_500_000)},
		{"DivInt", Microseconds(-7).DivInt(2), Microseconds(-3)},
		{"ScaleFloat", ScaleFloat(0.5, Seconds(4)), Seconds(2)},
		{"ScaleInt", ScaleInt(3, Microseconds(5)), Microseconds(15)},
		{"IntPathKeepsPrecision", Microseconds(16_777_217_000_001).MulInt(1), Microseconds(16_777_217_000_001)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	assert.Panics(t, func() { _ = Milliseconds(1).Rem(Zero) })
	assert.Panics(t, func() { _ = Milliseconds(1).DivInt(0) })
}

func TestTimeAssign(t *testing.T) {
	v := Milliseconds(10)
	v.AddAssign(Milliseconds(5))
	assert.Equal(t, Milliseconds(15), v)
	v.SubAssign(Milliseconds(20))
	assert.Equal(t, Milliseconds(-5), v)
	v.MulIntAssign(-4)
	assert.Equal(t, Milliseconds(20), v)
	v.MulFloatAssign(0.5)
	assert.Equal(t, Milliseconds(10), v)
	v.DivIntAssign(4)
	assert.Equal(t, Microseconds(2500), v)
	v.DivFloatAssign(0.5)
	assert.Equal(t, Milliseconds(5), v)
	v.RemAssign(Milliseconds(3))
	assert.Equal(t, Milliseconds(2), v)
}

func TestTimeAddSubRoundTrip(t *testing.T) {
	values := []Time{
		Zero, Microseconds(1), Microseconds(-1), Seconds(0.1), Milliseconds(math.MinInt32),
		Microseconds(math.MaxInt64), Microseconds(math.MinInt64),
	}
	for _, a := range values {
		for _, b := range values {
			assert.Equal(t, a, a.Add(b).Sub(b))
		}
	}
}

func TestTimeCompare(t *testing.T) {
	assert.Equal(t, -1, Milliseconds(-1).Compare(Zero))
	assert.Equal(t, 0, Seconds(1).Compare(Milliseconds(1000)))
	assert.Equal(t, 1, Microseconds(1).Compare(Zero))
	assert.True(t, Milliseconds(1).Less(Milliseconds(2)))
	assert.False(t, Milliseconds(2).Less(Milliseconds(2)))
}

func TestTimeDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, Milliseconds(1500).Duration())
	assert.Equal(t, "1.5s", Milliseconds(1500).String())
	assert.Equal(t, "-800ms", Microseconds(-800_000).String())
	assert.Equal(t, time.Duration(math.MaxInt64), Microseconds(math.MaxInt64).Duration())
	assert.Equal(t, time.Duration(math.MinInt64), Microseconds(math.MinInt64).Duration())
	assert.Equal(t, Microseconds(1), FromDuration(1500*time.Nanosecond))
	assert.Equal(t, Microseconds(-1), FromDuration(-1500*time.Nanosecond))
}

func TestTimeJSON(t *testing.T) {
	type payload struct {
		Offset Time `json:"offset"`
	}
	buf, err := json.Marshal(payload{Microseconds(-800_000)})
	assert.NoError(t, err)
	assert.Equal(t, `{"offset":-800000}`, string(buf))

	var p payload
	assert.NoError(t, json.Unmarshal([]byte(`{"offset":30000}`), &p))
	assert.Equal(t, Milliseconds(30), p.Offset)
	assert.Error(t, json.Unmarshal([]byte(`{"offset":"30ms"}`), &p))

	assert.NoError(t, json.Unmarshal([]byte(`{"offset":null}`), &p))
	assert.Equal(t, Milliseconds(30), p.Offset, "null keeps the value")
}
