package system

import (
	"fmt"
	"io"
	"io/fs"

	"github.com/google/uuid"
	"github.com/gwos/gosfml/errors"
	"github.com/gwos/gosfml/log"
)

const (
	// maxEmptyReads limits the source reads returning no data and no error
	maxEmptyReads = 100
	// minScratch is the first allocation of the scratch buffer,
	// it is doubled while the source keeps delivering
	minScratch = 32 << 10
	// maxKeptScratch limits the scratch buffer kept between reads
	maxKeptScratch = 1 << 20
)

// InputStream adapts a readable and seekable source to the stream contract
// consumed by the native library: read, seek, tell and getSize
// with -1 reported on failure.
//
// It borrows the source exclusively: the source must not be used
// by anything else while the stream is in use.
// InputStream is not safe for concurrent use.
type InputStream struct {
	src     io.ReadSeeker
	name    string
	maxRead int64
	metrics *StreamMetrics
	scratch []byte
}

// StreamOption defines InputStream option type
type StreamOption func(*InputStream)

// WithMaxRead limits bytes served by a single read, larger requests get short reads
func WithMaxRead(n int64) StreamOption {
	return func(s *InputStream) { s.maxRead = n }
}

// WithMetrics sets the collectors updated by callbacks
func WithMetrics(m *StreamMetrics) StreamOption {
	return func(s *InputStream) { s.metrics = m }
}

// WithStreamName sets the name used in log records, a random one by default
func WithStreamName(name string) StreamOption {
	return func(s *InputStream) { s.name = name }
}

// NewInputStream creates a stream over src
func NewInputStream(src io.ReadSeeker, opts ...StreamOption) *InputStream {
	s := &InputStream{src: src}
	for _, opt := range opts {
		opt(s)
	}
	if s.name == "" {
		s.name = uuid.NewString()
	}
	return s
}

// Name returns the name used in log records
func (s *InputStream) Name() string {
	return s.name
}

// Source returns the borrowed source
func (s *InputStream) Source() io.ReadSeeker {
	return s.src
}

// ReadChunk reads up to len(p) bytes from the current position.
// It keeps reading through short reads of the source until p is filled
// or the source reaches EOF, so n < len(p) means EOF or the WithMaxRead limit.
// On failure nothing is copied into p.
func (s *InputStream) ReadChunk(p []byte) (int, error) {
	if s.src == nil {
		return 0, errors.ErrNilSource
	}
	want := len(p)
	if s.maxRead > 0 && int64(want) > s.maxRead {
		want = int(s.maxRead)
	}
	if want == 0 {
		return 0, nil
	}

	buf := s.scratch[:min(cap(s.scratch), want)]
	n, empty := 0, 0
	for n < want {
		if n == len(buf) {
			buf = growScratch(buf, want)
		}
		m, err := s.src.Read(buf[n:])
		n += m
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %w", errors.ErrStreamRead, err)
		}
		if m > 0 {
			empty = 0
		} else if empty++; empty >= maxEmptyReads {
			return 0, fmt.Errorf("%w: %w", errors.ErrStreamRead, io.ErrNoProgress)
		}
	}
	if cap(buf) <= maxKeptScratch {
		s.scratch = buf[:0]
	}
	return copy(p, buf[:n]), nil
}

// growScratch doubles buf keeping its content, the result holds at most want bytes
func growScratch(buf []byte, want int) []byte {
	size := min(max(2*len(buf), minScratch), want)
	grown := make([]byte, size)
	copy(grown, buf)
	return grown
}

// SeekTo sets the position to pos bytes from the start and returns the new position
func (s *InputStream) SeekTo(pos int64) (int64, error) {
	if s.src == nil {
		return 0, errors.ErrNilSource
	}
	if pos < 0 {
		return 0, fmt.Errorf("%w: %w", errors.ErrStreamSeek, errors.ErrNegativeSize)
	}
	n, err := s.src.Seek(pos, io.SeekStart)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errors.ErrStreamSeek, err)
	}
	return n, nil
}

// Tell returns the current position
func (s *InputStream) Tell() (int64, error) {
	if s.src == nil {
		return 0, errors.ErrNilSource
	}
	n, err := s.src.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errors.ErrStreamTell, err)
	}
	return n, nil
}

// Size returns the total length of the source.
// Sources reporting their size directly are asked first, otherwise the size
// is found by seeking to the end and back, which keeps the position.
// If restoring the position fails the size is returned together with the error.
func (s *InputStream) Size() (int64, error) {
	if s.src == nil {
		return 0, errors.ErrNilSource
	}
	switch src := s.src.(type) {
	case interface{ Size() int64 }:
		return src.Size(), nil
	case interface{ Stat() (fs.FileInfo, error) }:
		if fi, err := src.Stat(); err == nil && fi.Mode().IsRegular() {
			return fi.Size(), nil
		}
	}

	pos, err := s.src.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errors.ErrStreamSize, err)
	}
	size, err := s.src.Seek(0, io.SeekEnd)
	if err != nil {
		_, _ = s.src.Seek(pos, io.SeekStart)
		return 0, fmt.Errorf("%w: %w", errors.ErrStreamSize, err)
	}
	if _, err := s.src.Seek(pos, io.SeekStart); err != nil {
		return size, fmt.Errorf("%w: could not restore %d: %w", errors.ErrPositionLost, pos, err)
	}
	return size, nil
}

// ReadCallback serves the read callback: it reads up to size bytes into buf.
// It returns 0 for size 0 without touching buf, the count of bytes read,
// which is short on EOF, or -1 on failure or negative size.
// buf must hold at least size bytes.
func (s *InputStream) ReadCallback(buf []byte, size int64) int64 {
	switch {
	case size == 0:
		s.metrics.observe(OpRead, true)
		return 0
	case size < 0:
		s.fail(OpRead, errors.ErrNegativeSize)
		return -1
	case size > int64(len(buf)):
		s.fail(OpRead, fmt.Errorf("%w: size %d exceeds buffer %d", errors.ErrStreamRead, size, len(buf)))
		return -1
	}
	n, err := s.ReadChunk(buf[:size])
	if err != nil {
		s.fail(OpRead, err)
		return -1
	}
	s.metrics.observe(OpRead, true)
	s.metrics.read(n)
	return int64(n)
}

// SeekCallback serves the seek callback: it returns the new position or -1.
func (s *InputStream) SeekCallback(pos int64) int64 {
	n, err := s.SeekTo(pos)
	if err != nil {
		s.metrics.observe(OpSeek, false)
		log.Logger.Debug("stream seek failed",
			"stream", s.name, "pos", pos, "error", err)
		return -1
	}
	s.metrics.observe(OpSeek, true)
	return n
}

// TellCallback serves the tell callback: it returns the current position.
// The contract defines no failure code, a failure is logged as error
// and reported as -1.
func (s *InputStream) TellCallback() int64 {
	n, err := s.Tell()
	if err != nil {
		s.metrics.observe(OpTell, false)
		log.Logger.Error("stream position lost",
			"stream", s.name, "error", err)
		return -1
	}
	s.metrics.observe(OpTell, true)
	return n
}

// GetSizeCallback serves the getSize callback: it returns the total length
// keeping the current position. If the position could not be restored
// the size is still returned, -1 means the size is unknown.
func (s *InputStream) GetSizeCallback() int64 {
	size, err := s.Size()
	if err != nil && !errors.IsErrorPositionLost(err) {
		s.fail(OpGetSize, err)
		return -1
	}
	if err != nil {
		log.Logger.Warn("stream position is indeterminate after size query",
			"stream", s.name, "size", size, "error", err)
	}
	s.metrics.observe(OpGetSize, true)
	return size
}

func (s *InputStream) fail(op string, err error) {
	s.metrics.observe(op, false)
	log.Logger.Warn("stream callback failed",
		"stream", s.name, "op", op, "error", err)
}
