package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	recommendationComputed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "aquatrack",
			Name:      "recommendation_computed_total",
			Help:      "Count of goal recommendations computed.",
		},
	)

	notificationsScheduled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aquatrack",
			Name:      "notifications_scheduled_total",
			Help:      "Count of notifications scheduled by kind.",
		},
		[]string{"kind"},
	)

	notificationsCancelled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aquatrack",
			Name:      "notifications_cancelled_total",
			Help:      "Count of notifications cancelled by kind.",
		},
		[]string{"kind"},
	)

	notificationsDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aquatrack",
			Name:      "notifications_delivered_total",
			Help:      "Count of notifications delivered by kind.",
		},
		[]string{"kind"},
	)

	weatherFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aquatrack",
			Name:      "weather_fetch_total",
			Help:      "Count of weather fetches by outcome.",
		},
		[]string{"status"},
	)

	healthQueryFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aquatrack",
			Name:      "health_query_failures_total",
			Help:      "Count of failed health platform queries by data type.",
		},
		[]string{"data_type"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			recommendationComputed,
			notificationsScheduled,
			notificationsCancelled,
			notificationsDelivered,
			weatherFetches,
			healthQueryFailures,
		)
	})
}

func IncRecommendationComputed() {
	recommendationComputed.Inc()
}

func IncScheduled(kind string) {
	notificationsScheduled.WithLabelValues(kind).Inc()
}

func IncCancelled(kind string) {
	notificationsCancelled.WithLabelValues(kind).Inc()
}

func IncDelivered(kind string) {
	notificationsDelivered.WithLabelValues(kind).Inc()
}

func IncWeatherFetch(status string) {
	weatherFetches.WithLabelValues(status).Inc()
}

func IncHealthQueryFailure(dataType string) {
	healthQueryFailures.WithLabelValues(dataType).Inc()
}
