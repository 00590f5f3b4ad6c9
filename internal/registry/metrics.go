package registry

import "github.com/prometheus/client_golang/prometheus"

var (
	recordsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "notifyd",
		Subsystem: "registry",
		Name:      "records",
		Help:      "Records currently held",
	})

	observersGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "notifyd",
		Subsystem: "registry",
		Name:      "observers",
		Help:      "Observers currently subscribed",
	})

	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notifyd",
			Subsystem: "registry",
			Name:      "events_total",
			Help:      "Change events emitted",
		},
		[]string{"event"},
	)
)

func init() {
	prometheus.MustRegister(recordsGauge, observersGauge, eventsTotal)
}
