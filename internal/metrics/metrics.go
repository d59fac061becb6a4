// Package metrics registers the Prometheus collectors for rendering.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Render outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeTimeout = "timeout"
	OutcomeFailure = "failure"
)

var (
	RendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healthpdf_renders_total",
			Help: "Total number of PDF renders by language and outcome",
		},
		[]string{"lang", "outcome"},
	)

	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "healthpdf_render_duration_seconds",
			Help:    "Duration of PDF renders in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
		},
		[]string{"lang"},
	)

	BrowsersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "healthpdf_browsers_active",
			Help: "Number of browser processes currently running",
		},
	)

	BrowserResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healthpdf_browser_resolutions_total",
			Help: "Browser executable resolutions by source",
		},
		[]string{"source"},
	)
)

// ObserveRender records one finished render.
func ObserveRender(lang, outcome string, elapsed time.Duration) {
	RendersTotal.WithLabelValues(lang, outcome).Inc()
	RenderDuration.WithLabelValues(lang).Observe(elapsed.Seconds())
}
