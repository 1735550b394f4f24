package surround

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds optional prometheus instrumentation for an assembler.
// Attach one via Assembler.SetMetrics; a nil *Metrics is a valid no-op so
// pipelines without a metrics endpoint pay nothing.
type Metrics struct {
	stageDuration *prometheus.HistogramVec
	stageFailures *prometheus.CounterVec
	runsTotal     *prometheus.CounterVec
}

// NewMetrics creates pipeline metrics registered with the given registerer.
// Pass prometheus.DefaultRegisterer to use the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "surround",
			Name:      "stage_duration_seconds",
			Help:      "Elapsed wall time of executed pipeline stages.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"assembler", "stage"}),
		stageFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surround",
			Name:      "stage_failures_total",
			Help:      "Stage failures contained by the assembler.",
		}, []string{"assembler", "stage"}),
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surround",
			Name:      "runs_total",
			Help:      "Pipeline runs by mode (predict, train, batch).",
		}, []string{"assembler", "mode"}),
	}
}

func (m *Metrics) observeStage(assembler, stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(assembler, stage).Observe(d.Seconds())
}

func (m *Metrics) incFailure(assembler, stage string) {
	if m == nil {
		return
	}
	m.stageFailures.WithLabelValues(assembler, stage).Inc()
}

func (m *Metrics) incRun(assembler, mode string) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(assembler, mode).Inc()
}
