package browser

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Acquisition outcomes
const (
	outcomeReused    = "reused"
	outcomeConnected = "connected"
	outcomeLaunched  = "launched"
	outcomeConflict  = "conflict"
	outcomeError     = "error"
)

// Metrics tracks browser acquisitions. A nil *Metrics records nothing.
type Metrics struct {
	acquisitions *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	connected    prometheus.Gauge
}

// NewMetrics registers the acquisition metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		acquisitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arc_devtools",
			Name:      "browser_acquisitions_total",
			Help:      "Browser acquisitions by mode and outcome.",
		}, []string{"mode", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "arc_devtools",
			Name:      "browser_acquisition_seconds",
			Help:      "Time spent connecting to or launching a browser.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"mode"}),
		connected: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "arc_devtools",
			Name:      "browser_connected",
			Help:      "Whether a connected browser is cached (1) or not (0).",
		}),
	}
}

func (m *Metrics) recordReuse(mode string) {
	if m == nil {
		return
	}
	m.acquisitions.WithLabelValues(mode, outcomeReused).Inc()
}

func (m *Metrics) recordAcquire(mode, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.acquisitions.WithLabelValues(mode, outcome).Inc()
	m.duration.WithLabelValues(mode).Observe(elapsed.Seconds())
	if outcome == outcomeConnected || outcome == outcomeLaunched {
		m.connected.Set(1)
	}
}

func (m *Metrics) recordReleased() {
	if m == nil {
		return
	}
	m.connected.Set(0)
}
