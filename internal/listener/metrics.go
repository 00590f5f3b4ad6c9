package listener

import "github.com/prometheus/client_golang/prometheus"

var eventsReceived = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "notifyd",
		Subsystem: "listener",
		Name:      "events_received_total",
		Help:      "Change events accepted by the webhook endpoint",
	},
	[]string{"event"},
)

func init() {
	prometheus.MustRegister(eventsReceived)
}
