package metrics

import (
	"fmt"
	"log"

	"github.com/DataDog/datadog-go/v5/statsd"
)

var Metrics statsd.ClientInterface
var StatsEnabled bool

// Init points the package at a statsd server. An empty address leaves stats
// disabled.
func Init(address string) error {
	if address == "" {
		return nil
	}
	client, err := statsd.New(address, statsd.WithNamespace("weather_node."))
	if err != nil {
		return fmt.Errorf("creating statsd client for %s: %w", address, err)
	}
	Metrics = client
	StatsEnabled = true
	return nil
}

func Close() {
	if StatsEnabled {
		if err := Metrics.Close(); err != nil {
			log.Printf("Error closing metrics client: %s", err)
		}
	}
}

func FormatTag(key, value string) string {
	return fmt.Sprintf("%s:%s", key, value)
}

func SendGaugeMetric(name string, tags []string, value float64) {
	if StatsEnabled {
		err := Metrics.Gauge(name, value, tags, 1)
		if err != nil {
			log.Printf("Got error trying to send metric %s", err.Error())
		}
	}
}

func SendCountMetric(name string, tags []string) {
	if StatsEnabled {
		err := Metrics.Incr(name, tags, 1)
		if err != nil {
			log.Printf("Got error trying to send metric %s", err.Error())
		}
	}
}
