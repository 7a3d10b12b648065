package generate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusSuccess = "success"
	StatusEmpty   = "empty"
	StatusError   = "error"
)

type Metrics struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	responseRunes *prometheus.HistogramVec
}

// NewMetrics registers the backend metrics on reg. Pass
// prometheus.DefaultRegisterer to expose them on the default /metrics handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sobaguide_backend_requests_total",
				Help: "Total number of requests sent to the generative-text backend.",
			},
			[]string{"backend", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sobaguide_backend_request_duration_seconds",
				Help:    "Duration of generative-text backend requests.",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
			},
			[]string{"backend"},
		),
		responseRunes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sobaguide_backend_response_runes",
				Help:    "Length of successful backend responses in runes.",
				Buckets: prometheus.ExponentialBuckets(250, 2, 7),
			},
			[]string{"backend"},
		),
	}
}

// InstrumentedGenerator records metrics and a log line for every call to next.
type InstrumentedGenerator struct {
	next    Generator
	backend string
	metrics *Metrics
}

func Instrument(next Generator, backend string, metrics *Metrics) *InstrumentedGenerator {
	return &InstrumentedGenerator{next: next, backend: backend, metrics: metrics}
}

func (g *InstrumentedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := g.next.Generate(ctx, prompt)
	elapsed := time.Since(start)

	status := StatusSuccess
	switch {
	case errors.Is(err, ErrEmptyResponse):
		status = StatusEmpty
	case err != nil:
		status = StatusError
	}
	if g.metrics != nil {
		g.metrics.requests.WithLabelValues(g.backend, status).Inc()
		g.metrics.duration.WithLabelValues(g.backend).Observe(elapsed.Seconds())
		if err == nil {
			g.metrics.responseRunes.WithLabelValues(g.backend).Observe(float64(len([]rune(text))))
		}
	}
	if err != nil {
		slog.Warn("Backend request failed", "backend", g.backend, "status", status, "duration", elapsed, "error", err)
		return "", err
	}
	slog.Info("Backend request finished", "backend", g.backend, "duration", elapsed, "prompt_len", len(prompt), "response_len", len(text))
	return text, nil
}
