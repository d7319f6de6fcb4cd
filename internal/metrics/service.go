package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

type Service struct {
	BallsRecorded        prometheus.Counter
	BallDuration         prometheus.Histogram
	MatchesCompleted     prometheus.Counter
	EventsPublished      *prometheus.CounterVec
	CollaboratorFailures *prometheus.CounterVec
	NotificationsSent    *prometheus.CounterVec
	ReconcileDrift       prometheus.Counter
	StartupTimeSeconds   prometheus.Gauge
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		BallsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crickscore_balls_recorded_total",
			Help: "The total number of deliveries accepted by the scoring engine.",
		}),
		BallDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "crickscore_ball_record_duration_seconds",
			Help:    "The duration of recording one delivery, lock wait included.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		MatchesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crickscore_matches_completed_total",
			Help: "The total number of matches moved to COMPLETED.",
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crickscore_events_published_total",
			Help: "Domain events handed to the broadcaster, by type.",
		}, []string{"type"}),
		CollaboratorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crickscore_collaborator_failures_total",
			Help: "Failed background collaborator calls, by collaborator.",
		}, []string{"collaborator"}),
		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crickscore_notifications_sent_total",
			Help: "Notifications delivered, by channel.",
		}, []string{"channel"}),
		ReconcileDrift: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crickscore_reconcile_drift_total",
			Help: "Innings whose stored totals disagreed with the ball log.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crickscore_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.BallsRecorded,
		s.BallDuration,
		s.MatchesCompleted,
		s.EventsPublished,
		s.CollaboratorFailures,
		s.NotificationsSent,
		s.ReconcileDrift,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncBallsRecorded() {
	s.BallsRecorded.Inc()
}

func (s *Service) ObserveBallDuration(duration float64) {
	s.BallDuration.Observe(duration)
}

func (s *Service) IncMatchesCompleted() {
	s.MatchesCompleted.Inc()
}

func (s *Service) IncEventsPublished(eventType string) {
	s.EventsPublished.WithLabelValues(eventType).Inc()
}

func (s *Service) IncCollaboratorFailures(collaborator string) {
	s.CollaboratorFailures.WithLabelValues(collaborator).Inc()
}

func (s *Service) IncNotificationsSent(channel string) {
	s.NotificationsSent.WithLabelValues(channel).Inc()
}

func (s *Service) IncReconcileDrift() {
	s.ReconcileDrift.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
