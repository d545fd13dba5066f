package ffi

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"
	"unsafe"

	gerrors "github.com/gwos/gosfml/errors"
	"github.com/gwos/gosfml/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tenBytes = []byte("0123456789")

type brokenReader struct {
	io.ReadSeeker
}

func (brokenReader) Read(p []byte) (int, error) {
	return copy(p, "XX"), errors.New("device gone")
}

func openForeign(t *testing.T, src io.ReadSeeker, opts ...system.StreamOption) (*InputStream, *ForeignStream) {
	t.Helper()
	is, err := OpenInputStream(src, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = is.Close() })
	fs, err := NewForeignStream(is.Ptr())
	require.NoError(t, err)
	return is, fs
}

func TestRecordLayout(t *testing.T) {
	assert.Equal(t, unsafe.Sizeof(TimeRecord{}), SizeofTime)
	assert.Equal(t, unsafe.Sizeof(TimeSpanRecord{}), SizeofTimeSpan)
	assert.Equal(t, uintptr(8), SizeofClock)
	assert.Equal(t, 5*unsafe.Sizeof(uintptr(0)), SizeofInputStream)
}

func TestTimeRecords(t *testing.T) {
	for _, v := range []system.Time{system.Zero, system.Microseconds(-800_000), system.Seconds(0.1)} {
		assert.Equal(t, v, NewTimeRecord(v).Time())
		assert.Equal(t, v, timeFromC(timeToC(v)))
	}

	r := TimeSpanRecord{Offset: 1_000_000, Length: -5}
	assert.Equal(t, r, timeSpanFromC(r.toC()))

	var raw [2]int64
	r.Store(unsafe.Pointer(&raw))
	assert.Equal(t, [2]int64{1_000_000, -5}, raw, "offset goes first")
	assert.Equal(t, r, TimeSpanRecordAt(unsafe.Pointer(&raw)))
}

func TestInputStreamScenario(t *testing.T) {
	_, fs := openForeign(t, bytes.NewReader(tenBytes))
	buf := make([]byte, 3)

	pos, err := fs.Seek(5, io.SeekStart)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), pos)
	n, err := fs.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, tenBytes[5:8], buf)
	pos, err = fs.Tell()
	assert.NoError(t, err)
	assert.Equal(t, int64(8), pos)
	size, err := fs.Size()
	assert.NoError(t, err)
	assert.Equal(t, int64(10), size)
	pos, err = fs.Tell()
	assert.NoError(t, err)
	assert.Equal(t, int64(8), pos)
}

func TestInputStreamReadSizes(t *testing.T) {
	_, fs := openForeign(t, bytes.NewReader(tenBytes))
	buf := []byte("abcde")

	assert.Equal(t, int64(0), fs.read(unsafe.Pointer(&buf[0]), 0))
	assert.Equal(t, []byte("abcde"), buf)
	assert.Equal(t, int64(-1), fs.read(unsafe.Pointer(&buf[0]), -3))
	assert.Equal(t, int64(-1), fs.read(nil, 3))
	assert.Equal(t, []byte("abcde"), buf)

	n, err := fs.Read(nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestInputStreamReadClamp(t *testing.T) {
	_, fs := openForeign(t, bytes.NewReader(tenBytes))
	buf := bytes.Repeat([]byte("x"), 16)

	assert.Equal(t, int64(10), fs.read(unsafe.Pointer(&buf[0]), 1<<40))
	assert.Equal(t, tenBytes, buf[:10])
	assert.Equal(t, []byte("xxxxxx"), buf[10:])
	assert.Equal(t, int64(0), fs.read(unsafe.Pointer(&buf[0]), 1<<40), "EOF after the whole source")
}

func TestInputStreamReadFailure(t *testing.T) {
	_, fs := openForeign(t, brokenReader{bytes.NewReader(tenBytes)})
	buf := []byte("abcde")

	n, err := fs.Read(buf)
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, gerrors.ErrStreamRead)
	assert.Equal(t, []byte("abcde"), buf)
}

func TestInputStreamReadAll(t *testing.T) {
	payload := bytes.Repeat(tenBytes, 1000)
	_, fs := openForeign(t, bytes.NewReader(payload), system.WithMaxRead(7))

	got, err := io.ReadAll(fs)
	assert.NoError(t, err)
	assert.Equal(t, payload, got)

	pos, err := fs.Seek(-4, io.SeekEnd)
	assert.NoError(t, err)
	assert.Equal(t, int64(len(payload)-4), pos)
	pos, err = fs.Seek(-2, io.SeekCurrent)
	assert.NoError(t, err)
	assert.Equal(t, int64(len(payload)-6), pos)
	_, err = fs.Seek(-1, io.SeekStart)
	assert.ErrorIs(t, err, gerrors.ErrNegativeSize)
	_, err = fs.Seek(0, 42)
	assert.ErrorIs(t, err, gerrors.ErrStreamSeek)
}

func TestInputStreamUnknownUserData(t *testing.T) {
	is, fs := openForeign(t, bytes.NewReader(tenBytes))
	streams.Remove(is.id)

	_, err := fs.Read(make([]byte, 2))
	assert.ErrorIs(t, err, gerrors.ErrStreamRead)
	_, err = fs.Seek(1, io.SeekStart)
	assert.ErrorIs(t, err, gerrors.ErrStreamSeek)
	_, err = fs.Tell()
	assert.ErrorIs(t, err, gerrors.ErrStreamTell)
	_, err = fs.Size()
	assert.ErrorIs(t, err, gerrors.ErrStreamSize)
}

func TestInputStreamClose(t *testing.T) {
	before := streams.Len()
	is, err := OpenInputStream(bytes.NewReader(tenBytes), system.WithStreamName("ten"))
	require.NoError(t, err)
	assert.Equal(t, before+1, streams.Len())
	assert.NotNil(t, is.Ptr())
	assert.Equal(t, "ten", is.Stream().Name())

	assert.NoError(t, is.Close())
	assert.NoError(t, is.Close())
	assert.Nil(t, is.Ptr())
	assert.Equal(t, before, streams.Len())

	_, err = OpenInputStream(nil)
	assert.ErrorIs(t, err, gerrors.ErrNilSource)
	_, err = NewInputStream(nil)
	assert.ErrorIs(t, err, gerrors.ErrNilSource)
	_, err = NewForeignStream(nil)
	assert.ErrorIs(t, err, gerrors.ErrNilFunc)
}

func TestClockExports(t *testing.T) {
	c := gosfmlClock_create()
	start := clockFromC(&c).StartTime()

	elapsed := timeFromC(gosfmlClock_getElapsedTime(&c))
	assert.False(t, elapsed.Less(system.Zero))

	time.Sleep(10 * time.Millisecond)
	elapsed = timeFromC(gosfmlClock_restart(&c))
	assert.GreaterOrEqual(t, elapsed.AsMilliseconds(), int32(10))
	assert.True(t, start.Less(clockFromC(&c).StartTime()))

	elapsed = timeFromC(gosfmlClock_getElapsedTime(&c))
	assert.Less(t, elapsed.AsMilliseconds(), int32(100))

	assert.Equal(t, system.Zero, timeFromC(gosfmlClock_getElapsedTime(nil)))
	assert.Equal(t, system.Zero, timeFromC(gosfmlClock_restart(nil)))
}
