// Package metrics exposes prometheus counters for document generation.
package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values
const (
	OutcomeSuccess         = "success"
	OutcomeValidationError = "validation_error"
	OutcomeEncodingError   = "encoding_error"
	OutcomeRenderError     = "render_error"
	OutcomeCanceled        = "canceled"
)

// Config carries the constant labels attached to every series.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics records generation throughput and latency. A nil *Metrics is a no-op.
type Metrics struct {
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	qrPayloads     *prometheus.CounterVec
	pdfBytes       prometheus.Histogram
}

// New creates the collectors and registers them on reg, prometheus.DefaultRegisterer when nil.
func New(reg prometheus.Registerer, cfg Config) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "fatura"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &Metrics{
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "fatura_renders_total",
			Help:        "Documents rendered by template and outcome.",
			ConstLabels: constLabels,
		}, []string{"template", "outcome"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "fatura_render_duration_seconds",
			Help:        "Time from validated record to PDF bytes.",
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			ConstLabels: constLabels,
		}, []string{"template"}),
		qrPayloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "fatura_qr_payloads_total",
			Help:        "ZATCA QR payloads built by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		pdfBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "fatura_pdf_size_bytes",
			Help:        "Size of generated PDF documents.",
			Buckets:     prometheus.ExponentialBuckets(8*1024, 2, 8),
			ConstLabels: constLabels,
		}),
	}

	collectors := []prometheus.Collector{m.renders, m.renderDuration, m.qrPayloads, m.pdfBytes}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return m, nil
}

// ObserveRender records one generation attempt
func (m *Metrics) ObserveRender(template, outcome string, elapsed time.Duration, size int) {
	if m == nil {
		return
	}
	if template == "" {
		template = "none"
	}
	m.renders.WithLabelValues(template, outcome).Inc()
	if outcome != OutcomeSuccess {
		return
	}
	m.renderDuration.WithLabelValues(template).Observe(elapsed.Seconds())
	m.pdfBytes.Observe(float64(size))
}

// ObserveQR records one QR payload build
func (m *Metrics) ObserveQR(outcome string) {
	if m == nil {
		return
	}
	m.qrPayloads.WithLabelValues(outcome).Inc()
}
