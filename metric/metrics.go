package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ConnectAttempts = promauto.NewCounter(prometheus.CounterOpts{
	Name: "dbfarmer_connect_attempts_total",
	Help: "The number of attempts to open an administrative session to the coordinator",
})

var ConnectFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "dbfarmer_connect_failures_total",
	Help: "The number of failed attempts to open an administrative session to the coordinator",
})

// OutcomeLabels are vector definitions for registration outcomes.
var OutcomeLabels = []string{"outcome"}

var RegistrationOutcomes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dbfarmer_registration_outcomes_total",
		Help: "The number of segment registration attempts by outcome",
	},
	OutcomeLabels,
)

var RegistrationDuration = promauto.NewSummary(prometheus.SummaryOpts{
	Name: "dbfarmer_registration_duration_sec",
	Help: "Time from the start of registration to its outcome in seconds",
})

// Collectors returns every collector of this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		ConnectAttempts,
		ConnectFailures,
		RegistrationOutcomes,
		RegistrationDuration,
	}
}
