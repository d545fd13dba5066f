package logzer

import (
	"container/ring"
	"io"
	"os"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

var (
	mu        sync.Mutex
	output    io.Writer = os.Stdout
	logFile   io.WriteCloser
	errBuffer = &LogBuffer{
		Level: zerolog.ErrorLevel,
		Size:  10,
	}
	formatter = &zerolog.ConsoleWriter{
		Out:        os.Stdout,
		NoColor:    true,
		TimeFormat: time.RFC3339,
	}
	condenser = &CondenseWriter{
		LevelWriter: zerolog.MultiLevelWriter(formatter, errBuffer),
	}
)

// CondenseWriter handles similar writes by caller field.
// A record repeated from the same caller within Condense period
// is counted instead of written, the count is flushed on expiration.
// Callbacks invoked by the foreign side in a tight loop are the usual source.
type CondenseWriter struct {
	zerolog.LevelWriter
	mu       sync.Mutex
	once     sync.Once
	cache    *cache.Cache
	callerRe *regexp.Regexp
	Condense time.Duration
}

// Write implements io.Writer interface
func (w *CondenseWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel implements zerolog.LevelWriter interface
func (w *CondenseWriter) WriteLevel(lvl zerolog.Level, p []byte) (int, error) {
	w.once.Do(func() {
		defaultExpiration, cleanupInterval := time.Minute*10, time.Second*10
		if w.Condense > 0 {
			defaultExpiration = w.Condense * 2
			cleanupInterval = w.Condense / 4
		}
		w.cache = cache.New(defaultExpiration, cleanupInterval)
		w.cache.OnEvicted(w.onEvicted)
		w.callerRe = regexp.MustCompile(`"` + zerolog.CallerFieldName + `":"[^"]*"`)
	})
	if w.Condense <= 0 {
		return w.LevelWriter.WriteLevel(lvl, p)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	/* caller is the key, records without caller are never condensed */
	caller := w.callerRe.Find(p)
	if caller == nil {
		return w.LevelWriter.WriteLevel(lvl, p)
	}
	ck := string(append([]byte{byte(lvl), ':'}, caller...))
	/* workaround on https://github.com/patrickmn/go-cache/issues/48 */
	w.cache.DeleteExpired()
	if _, ok := w.cache.Get(ck); ok {
		_ = w.cache.Increment(ck, 1)
		return len(p), nil
	}
	_ = w.cache.Add(ck, uint32(0), w.Condense)
	return w.LevelWriter.WriteLevel(lvl, p)
}

func (w *CondenseWriter) onEvicted(ck string, i interface{}) {
	hits, ok := i.(uint32)
	if !ok || hits == 0 {
		return
	}
	lvl, caller := zerolog.Level(int8(ck[0])), ck[2:]
	buf := append(make([]byte, 0, 200), '{')
	buf = appendField(buf, zerolog.LevelFieldName, lvl.String())
	buf = append(buf, ',')
	buf = appendTS(buf, time.Now())
	buf = append(buf, ',')
	buf = append(buf, caller...)
	buf = append(buf, ',')
	buf = appendField(buf, zerolog.MessageFieldName, "[condensed "+
		strconv.FormatUint(uint64(hits), 10)+" more entries last "+
		strconv.FormatInt(int64(w.Condense.Seconds()), 10)+" seconds]")
	buf = append(buf, '}', '\n')
	_, _ = w.LevelWriter.WriteLevel(lvl, buf)
}

// appendTS appends the timestamp field the way zerolog formats it
func appendTS(dst []byte, ts time.Time) []byte {
	dst = strconv.AppendQuote(dst, zerolog.TimestampFieldName)
	dst = append(dst, ':')
	switch zerolog.TimeFieldFormat {
	case zerolog.TimeFormatUnix:
		return strconv.AppendInt(dst, ts.Unix(), 10)
	case zerolog.TimeFormatUnixMs:
		return strconv.AppendInt(dst, ts.UnixMilli(), 10)
	case zerolog.TimeFormatUnixMicro:
		return strconv.AppendInt(dst, ts.UnixMicro(), 10)
	case zerolog.TimeFormatUnixNano:
		return strconv.AppendInt(dst, ts.UnixNano(), 10)
	}
	dst = append(dst, '"')
	dst = ts.AppendFormat(dst, zerolog.TimeFieldFormat)
	return append(dst, '"')
}

func appendField(dst []byte, k, v string) []byte {
	dst = strconv.AppendQuote(dst, k)
	dst = append(dst, ':')
	return strconv.AppendQuote(dst, v)
}

// LogBuffer collects writes if level passed
type LogBuffer struct {
	mu    sync.Mutex
	once  sync.Once
	ring  *ring.Ring
	Level zerolog.Level
	Size  int
}

// Records returns collected writes, oldest first
func (lb *LogBuffer) Records() []LogRecord {
	lb.once.Do(lb.init)
	lb.mu.Lock()
	defer lb.mu.Unlock()
	rec := []LogRecord{}
	lb.ring.Do(func(p interface{}) {
		if p != nil {
			rec = append(rec, p.(LogRecord))
		}
	})
	return rec
}

// Write implements io.Writer interface
func (lb *LogBuffer) Write(p []byte) (int, error) {
	return len(p), nil
}

// WriteLevel implements zerolog.LevelWriter interface
func (lb *LogBuffer) WriteLevel(lvl zerolog.Level, p []byte) (int, error) {
	lb.once.Do(lb.init)
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if lvl >= lb.Level && lvl != zerolog.NoLevel {
		/* store the copy as source could be updated */
		cp := make([]byte, len(p))
		copy(cp, p)
		lb.ring.Value = LogRecord{cp, lvl}
		lb.ring = lb.ring.Next()
	}
	return len(p), nil
}

func (lb *LogBuffer) init() {
	if lb.Size < 1 {
		lb.Size = 1
	}
	lb.ring = ring.New(lb.Size)
}

// LogRecord wraps JSON-like data from logger
type LogRecord struct {
	buf []byte
	lvl zerolog.Level
}

// Level returns the record level
func (p LogRecord) Level() zerolog.Level { return p.lvl }

// MarshalJSON implements Marshaller interface
func (p LogRecord) MarshalJSON() ([]byte, error) { return p.buf, nil }

// Option defines logger option type
type Option func()

// NewLoggerWriter returns the writer configured with options.
// It resets previous options and keeps the collected last errors.
func NewLoggerWriter(opts ...Option) zerolog.LevelWriter {
	mu.Lock()
	defer mu.Unlock()

	lastErrors := errBuffer.Records()
	/* reset to defaults */
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	output = os.Stdout
	formatter.NoColor = true
	formatter.TimeFormat = time.RFC3339
	*errBuffer = LogBuffer{Level: zerolog.ErrorLevel, Size: errBuffer.Size}
	*condenser = CondenseWriter{}
	/* apply options */
	for _, opt := range opts {
		opt()
	}
	for _, p := range lastErrors {
		_, _ = errBuffer.WriteLevel(p.lvl, p.buf)
	}
	formatter.Out = output
	if logFile != nil {
		formatter.Out = zerolog.MultiLevelWriter(output, logFile)
	}
	condenser.LevelWriter = zerolog.MultiLevelWriter(formatter, errBuffer)
	return condenser
}

// WithLastErrors sets count of buffered error writes
func WithLastErrors(n int) Option {
	return func() { errBuffer.Size = n }
}

// WithLevel sets level option
func WithLevel(lvl zerolog.Level) Option {
	return func() { zerolog.SetGlobalLevel(lvl) }
}

// WithLogFile sets filelog option
func WithLogFile(w io.WriteCloser) Option {
	return func() { logFile = w }
}

// WithCondense enables condensing similar records
func WithCondense(d time.Duration) Option {
	return func() { condenser.Condense = d }
}

// WithColors sets formatter option
func WithColors(b bool) Option {
	return func() { formatter.NoColor = !b }
}

// WithTimeFormat sets formatter option
func WithTimeFormat(s string) Option {
	return func() {
		if s != "" {
			formatter.TimeFormat = s
		}
	}
}

// WithOutput replaces stdout in the formatter
func WithOutput(w io.Writer) Option {
	return func() { output = w }
}

// LastErrors returns last error writes
func LastErrors() []LogRecord {
	return errBuffer.Records()
}

// WriteLogBuffer writes buffered records passing the global level to the current writer
func WriteLogBuffer(lb *LogBuffer) {
	mu.Lock()
	defer mu.Unlock()
	lvl := zerolog.GlobalLevel()
	for _, p := range lb.Records() {
		if p.lvl >= lvl {
			_, _ = condenser.WriteLevel(p.lvl, p.buf)
		}
	}
}
