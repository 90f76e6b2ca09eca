package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const pushJob = "weather_node"

type Pusher interface {
	Push() error
}

type noopPusher struct{}

func (noopPusher) Push() error { return nil }

type gatewayPusher struct {
	pusher *push.Pusher
}

// NewPusher returns a Pusher that sends the collectors to a Prometheus
// Pushgateway grouped by instance. With no gateway configured Push does
// nothing.
func NewPusher(gateway, instance string, collectors ...prometheus.Collector) Pusher {
	if gateway == "" {
		return noopPusher{}
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors...)
	return &gatewayPusher{
		pusher: push.New(gateway, pushJob).Gatherer(registry).Grouping("instance", instance),
	}
}

func (p *gatewayPusher) Push() error {
	if err := p.pusher.Push(); err != nil {
		return fmt.Errorf("pushing metrics: %w", err)
	}
	return nil
}
