package notifier

import "github.com/prometheus/client_golang/prometheus"

var (
	deliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notifyd",
			Subsystem: "notifier",
			Name:      "deliveries_total",
			Help:      "Webhook delivery attempts by outcome (delivered|failed)",
		},
		[]string{"event", "outcome"},
	)

	deliveryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "notifyd",
			Subsystem: "notifier",
			Name:      "delivery_duration_seconds",
			Help:      "Duration of webhook deliveries in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"event"},
	)

	fanoutsInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "notifyd",
		Subsystem: "notifier",
		Name:      "fanouts_inflight",
		Help:      "Fan-outs currently in progress",
	})

	queuedEvents = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "notifyd",
		Subsystem: "notifier",
		Name:      "queued_events",
		Help:      "Published events waiting for their fan-out",
	})
)

func init() {
	prometheus.MustRegister(deliveriesTotal, deliveryDuration, fanoutsInflight, queuedEvents)
}
