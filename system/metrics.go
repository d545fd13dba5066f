package system

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Stream operation labels
const (
	OpRead    = "read"
	OpSeek    = "seek"
	OpTell    = "tell"
	OpGetSize = "getSize"
)

// StreamMetrics counts the callbacks served by input streams
type StreamMetrics struct {
	Callbacks *prometheus.CounterVec
	ReadBytes prometheus.Counter
}

// NewStreamMetrics creates the collectors and registers them with reg if not nil
func NewStreamMetrics(reg prometheus.Registerer) *StreamMetrics {
	m := &StreamMetrics{
		Callbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gosfml",
				Subsystem: "stream",
				Name:      "callbacks_total",
				Help:      "Input stream callbacks by operation and result.",
			},
			[]string{"op", "result"},
		),
		ReadBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "gosfml",
				Subsystem: "stream",
				Name:      "read_bytes_total",
				Help:      "Bytes delivered by input stream read callbacks.",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Callbacks, m.ReadBytes)
	}
	return m
}

func (m *StreamMetrics) observe(op string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.Callbacks.WithLabelValues(op, result).Inc()
}

func (m *StreamMetrics) read(n int) {
	if m == nil {
		return
	}
	m.ReadBytes.Add(float64(n))
}
