// Package metrics counts the traffic flowing through the tap.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
)

const namespace = "cbus_tap"

// Metrics holds the data path counters. A nil *Metrics is valid and counts
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	chunks       prometheus.Counter
	bytes        prometheus.Counter
	frames       prometheus.Counter
	messages     prometheus.Counter
	decodeErrors prometheus.Counter
	readFailures prometheus.Counter
	dropped      prometheus.Counter
	logged       *prometheus.CounterVec
}

// New returns metrics registered on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		chunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_total",
			Help:      "Raw data chunks read from the serial port.",
		}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_total",
			Help:      "Bytes read from the serial port.",
		}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "GridConnect frames received.",
		}),
		messages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "CBUS messages decoded.",
		}),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Frames that could not be decoded.",
		}),
		readFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_failures_total",
			Help:      "Serial read sessions ended by an I/O error.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_total",
			Help:      "Messages dropped because a listener was full.",
		}),
		logged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logged_lines_total",
			Help:      "Lines written per log channel.",
		}, []string{"channel"}),
	}

	m.registry.MustRegister(
		m.chunks,
		m.bytes,
		m.frames,
		m.messages,
		m.decodeErrors,
		m.readFailures,
		m.dropped,
		m.logged,
	)

	return m
}

// Registry returns the registry the counters live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveChunk counts one chunk of n bytes.
func (m *Metrics) ObserveChunk(n int) {
	if m == nil {
		return
	}

	m.chunks.Inc()
	m.bytes.Add(float64(n))
}

// ObserveFrame counts one frame.
func (m *Metrics) ObserveFrame() {
	if m == nil {
		return
	}

	m.frames.Inc()
}

// ObserveMessage counts one decoded message.
func (m *Metrics) ObserveMessage() {
	if m == nil {
		return
	}

	m.messages.Inc()
}

// ObserveDecodeError counts one undecodable frame.
func (m *Metrics) ObserveDecodeError() {
	if m == nil {
		return
	}

	m.decodeErrors.Inc()
}

// ObserveReadFailure counts one failed read session.
func (m *Metrics) ObserveReadFailure() {
	if m == nil {
		return
	}

	m.readFailures.Inc()
}

// ObserveDropped counts one message a listener could not take.
func (m *Metrics) ObserveDropped() {
	if m == nil {
		return
	}

	m.dropped.Inc()
}

// ObserveLogged counts one line written to channel.
func (m *Metrics) ObserveLogged(channel string) {
	if m == nil {
		return
	}

	m.logged.WithLabelValues(channel).Inc()
}

// Summary is a snapshot of the counters.
type Summary struct {
	Chunks       uint64
	Bytes        uint64
	Frames       uint64
	Messages     uint64
	DecodeErrors uint64
	ReadFailures uint64
	Dropped      uint64
}

// String renders the summary on one line.
func (s Summary) String() string {
	return fmt.Sprintf("%d bytes in %d chunks, %d frames, %d messages, %d decode errors, %d read failures, %d dropped",
		s.Bytes, s.Chunks, s.Frames, s.Messages, s.DecodeErrors, s.ReadFailures, s.Dropped)
}

// Summary takes a snapshot of the counters.
func (m *Metrics) Summary() Summary {
	if m == nil {
		return Summary{}
	}

	return Summary{
		Chunks:       value(m.chunks),
		Bytes:        value(m.bytes),
		Frames:       value(m.frames),
		Messages:     value(m.messages),
		DecodeErrors: value(m.decodeErrors),
		ReadFailures: value(m.readFailures),
		Dropped:      value(m.dropped),
	}
}

func value(c prometheus.Counter) uint64 {
	metric := &dto.Metric{}

	if err := c.Write(metric); err != nil {
		return 0
	}

	return uint64(metric.GetCounter().GetValue())
}

// Serve exposes the counters on addr under /metrics until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		server.Shutdown(shutdownCtx)
	}()

	log.Debugf("Serving metrics on %s.", addr)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}

	return nil
}
