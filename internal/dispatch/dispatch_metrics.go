package dispatch

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the dispatch subsystem.
type Metrics struct {
	SignupsTotal          *prometheus.CounterVec
	LoginsTotal           *prometheus.CounterVec
	AlertsTotal           *prometheus.CounterVec
	AlertsHandledTotal    prometheus.Counter
	ReportsTotal          prometheus.Counter
	UserDeletesTotal      prometheus.Counter
	GeocodeFallbacksTotal prometheus.Counter
}

// NewMetrics registers and returns dispatch metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SignupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeline_signups_total",
			Help: "Total registration attempts by role and result.",
		}, []string{"role", "result"}),
		LoginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeline_logins_total",
			Help: "Total login attempts by result.",
		}, []string{"result"}),
		AlertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeline_sos_alerts_total",
			Help: "Total SOS alerts created by category.",
		}, []string{"category"}),
		AlertsHandledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lifeline_alerts_handled_total",
			Help: "Total alerts marked as handled.",
		}),
		ReportsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lifeline_reports_total",
			Help: "Total official incident reports filed.",
		}),
		UserDeletesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lifeline_user_deletes_total",
			Help: "Total user accounts deleted.",
		}),
		GeocodeFallbacksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lifeline_geocode_fallbacks_total",
			Help: "Total registrations that fell back to the default town-center location.",
		}),
	}

	reg.MustRegister(
		m.SignupsTotal,
		m.LoginsTotal,
		m.AlertsTotal,
		m.AlertsHandledTotal,
		m.ReportsTotal,
		m.UserDeletesTotal,
		m.GeocodeFallbacksTotal,
	)

	return m
}
