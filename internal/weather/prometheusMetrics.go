package weather

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	weatherTemperature = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "weatherTemperature",
			Help: "Last measured temperature in degrees celsius.",
		},
		[]string{
			"name",
		},
	)
	weatherHumidity = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "weatherHumidity",
			Help: "Last measured relative humidity in percent.",
		},
		[]string{
			"name",
		},
	)
	motionState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "motionState",
			Help: "Last level read from the motion sensor.",
		},
		[]string{
			"name",
		},
	)
	messagesPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messagesPublished",
			Help: "Messages published to the broker.",
		},
		[]string{
			"name",
			"type",
		},
	)
	buzzerAlarms = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buzzerAlarms",
			Help: "Buzzer pulses sounded by the temperature alarm.",
		},
		[]string{
			"name",
		},
	)
)

// Collectors returns the node's prometheus collectors for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		weatherTemperature,
		weatherHumidity,
		motionState,
		messagesPublished,
		buzzerAlarms,
	}
}
