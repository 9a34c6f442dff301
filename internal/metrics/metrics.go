package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	FetchesTotal     *prometheus.CounterVec
	ProviderErrors   prometheus.Counter
	RequestSeconds   *prometheus.HistogramVec
	AnimationRuns    *prometheus.CounterVec
	FramesDelivered  prometheus.Counter
	ActiveAnimations prometheus.Gauge
	Projections      *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		FetchesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "skytrack_position_fetches_total",
			Help: "Total number of position sample fetches by outcome.",
		}, []string{"status"}),
		ProviderErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "skytrack_ephemeris_provider_errors_total",
			Help: "Total number of errors returned by the ephemeris provider.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skytrack_ephemeris_request_duration_seconds",
			Help:    "Duration of requests to the ephemeris provider.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		AnimationRuns: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "skytrack_animation_runs_total",
			Help: "Total number of finished animation runs by outcome.",
		}, []string{"outcome"}),
		FramesDelivered: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "skytrack_animation_frames_total",
			Help: "Total number of interpolated states delivered by the animator.",
		}),
		ActiveAnimations: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "skytrack_active_animations",
			Help: "Number of animation runs currently in progress.",
		}),
		Projections: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "skytrack_indicator_projections_total",
			Help: "Total number of off-screen indicator projections by result.",
		}, []string{"result"}),
	}
}

// RunStarted records the start of an animation run.
func (m *Metrics) RunStarted() {
	m.ActiveAnimations.Inc()
}

// FrameDelivered records one delivered animation state.
func (m *Metrics) FrameDelivered() {
	m.FramesDelivered.Inc()
}

// RunFinished records the end of an animation run, completed or cancelled.
func (m *Metrics) RunFinished(completed bool) {
	m.ActiveAnimations.Dec()
	outcome := "cancelled"
	if completed {
		outcome = "completed"
	}
	m.AnimationRuns.WithLabelValues(outcome).Inc()
}
