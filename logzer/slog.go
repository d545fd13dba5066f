package logzer

import (
	"context"
	"log/slog"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// SLogHandler translates slog.Record into zerolog.Event on the global logger,
// so the library packages logging through slog follow the zerolog setup.
type SLogHandler struct {
	attrs  []slog.Attr
	groups []string

	CallerSkipFrame int
	// GroupsFieldName is "logger" if empty
	GroupsFieldName string
}

func zlevel(level slog.Level) zerolog.Level {
	switch {
	case level < slog.LevelDebug:
		return zerolog.TraceLevel
	case level < slog.LevelInfo:
		return zerolog.DebugLevel
	case level < slog.LevelWarn:
		return zerolog.InfoLevel
	case level < slog.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func (h *SLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return zerolog.GlobalLevel() <= zlevel(level)
}

func (h *SLogHandler) Handle(_ context.Context, r slog.Record) error {
	e := zlog.WithLevel(zlevel(r.Level))
	if e == nil {
		return nil
	}

	attr2e := func(attr slog.Attr) bool {
		v := attr.Value.Resolve()
		switch v.Kind() {
		case slog.KindBool:
			_ = e.Bool(attr.Key, v.Bool())
		case slog.KindDuration:
			_ = e.Dur(attr.Key, v.Duration())
		case slog.KindFloat64:
			_ = e.Float64(attr.Key, v.Float64())
		case slog.KindInt64:
			_ = e.Int64(attr.Key, v.Int64())
		case slog.KindString:
			_ = e.Str(attr.Key, v.String())
		case slog.KindTime:
			_ = e.Time(attr.Key, v.Time())
		case slog.KindUint64:
			_ = e.Uint64(attr.Key, v.Uint64())
		case slog.KindGroup:
			_ = e.Str(attr.Key, v.String())
		default:
			if err, ok := v.Any().(error); ok {
				_ = e.AnErr(attr.Key, err)
			} else {
				_ = e.Interface(attr.Key, v.Any())
			}
		}
		return true
	}

	if len(h.groups) > 0 {
		name := h.GroupsFieldName
		if name == "" {
			name = "logger"
		}
		_ = e.Strs(name, h.groups)
	}
	for _, attr := range h.attrs {
		_ = attr2e(attr)
	}
	r.Attrs(attr2e)

	e.CallerSkipFrame(h.CallerSkipFrame).Msg(r.Message)
	return nil
}

func (h *SLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nested := h.clone()
	nested.attrs = append(nested.attrs, attrs...)
	return nested
}

func (h *SLogHandler) WithGroup(name string) slog.Handler {
	nested := h.clone()
	nested.groups = append(nested.groups, name)
	return nested
}

func (h *SLogHandler) clone() *SLogHandler {
	return &SLogHandler{
		attrs:           append([]slog.Attr{}, h.attrs...),
		groups:          append([]string{}, h.groups...),
		CallerSkipFrame: h.CallerSkipFrame,
		GroupsFieldName: h.GroupsFieldName,
	}
}
