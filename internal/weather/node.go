package weather

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jgulick48/weather-node/internal/gpio"
	"github.com/jgulick48/weather-node/internal/metrics"
	"github.com/jgulick48/weather-node/internal/models"
	"github.com/jgulick48/weather-node/internal/mqtt"
	"github.com/jgulick48/weather-node/internal/sensor"
)

const (
	weatherChannel = "weather"
	motionChannel  = "motion"
)

type Alarm interface {
	Evaluate(temperature float64) (bool, error)
}

// Node polls the sensors and publishes whatever changed since the previous
// iteration.
type Node struct {
	name      string
	topic     string
	interval  time.Duration
	sensor    sensor.Client
	motion    gpio.Input
	publisher mqtt.Client
	alarm     Alarm
	pusher    metrics.Pusher
	tags      []string
}

func NewNode(config models.Config, sensorClient sensor.Client, motion gpio.Input, publisher mqtt.Client, alarm Alarm, pusher metrics.Pusher) *Node {
	return &Node{
		name:      config.MQTT.ClientID,
		topic:     config.MQTT.Topic,
		interval:  config.Interval.Duration,
		sensor:    sensorClient,
		motion:    motion,
		publisher: publisher,
		alarm:     alarm,
		pusher:    pusher,
		tags: []string{
			metrics.FormatTag("client_id", config.MQTT.ClientID),
			metrics.FormatTag("topic", config.MQTT.Topic),
		},
	}
}

// Run calls Step until ctx is cancelled or a step fails, waiting the
// configured interval after each step.
func (n *Node) Run(ctx context.Context) error {
	var state PreviousState
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		state, err = n.Step(state)
		if err != nil {
			return err
		}
		timer := time.NewTimer(n.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Step runs one iteration: measure, publish the weather payload if it changed
// (sounding the alarm when it did), then publish the motion level if it
// changed. The returned state reflects every publish that succeeded, even when
// an error is also returned.
func (n *Node) Step(prev PreviousState) (PreviousState, error) {
	state := prev
	log.Printf("Measuring weather conditions...")
	if err := n.sensor.Measure(); err != nil {
		return state, fmt.Errorf("measuring weather: %w", err)
	}
	reading := WeatherReading{
		Temperature: n.sensor.Temperature(),
		Humidity:    n.sensor.Humidity(),
	}
	n.reportWeather(reading)
	message, err := reading.Serialize()
	if err != nil {
		return state, err
	}
	if message != state.Weather {
		log.Printf("Weather updated!")
		log.Printf("Reporting to MQTT topic %s: %s", n.topic, message)
		if err := n.publish(weatherChannel, message); err != nil {
			return state, err
		}
		state.Weather = message
		sounded, err := n.alarm.Evaluate(reading.Temperature)
		if sounded {
			buzzerAlarms.WithLabelValues(n.name).Inc()
			metrics.SendCountMetric("buzzer.alarm", n.tags)
		}
		if err != nil {
			return state, fmt.Errorf("driving buzzer: %w", err)
		}
	} else {
		log.Printf("No change in weather")
	}

	motion := MotionState(n.motion.Value())
	n.reportMotion(motion)
	if motion != state.Motion {
		log.Printf("Motion detected: %v", motion)
		log.Printf("Reporting to MQTT topic %s: %v", n.topic, motion)
		if err := n.publish(motionChannel, motion.String()); err != nil {
			return state, err
		}
		state.Motion = motion
	}

	if err := n.pusher.Push(); err != nil {
		log.Printf("Error pushing metrics: %s", err)
	}
	return state, nil
}

func (n *Node) publish(channel, payload string) error {
	if err := n.publisher.Publish(n.topic, payload); err != nil {
		return fmt.Errorf("publishing %s update: %w", channel, err)
	}
	messagesPublished.WithLabelValues(n.name, channel).Inc()
	metrics.SendCountMetric("messages.published", append([]string{metrics.FormatTag("type", channel)}, n.tags...))
	return nil
}

func (n *Node) reportWeather(reading WeatherReading) {
	weatherTemperature.WithLabelValues(n.name).Set(reading.Temperature)
	weatherHumidity.WithLabelValues(n.name).Set(reading.Humidity)
	metrics.SendGaugeMetric("temperature", n.tags, reading.Temperature)
	metrics.SendGaugeMetric("humidity", n.tags, reading.Humidity)
}

func (n *Node) reportMotion(motion MotionState) {
	motionState.WithLabelValues(n.name).Set(float64(motion))
	metrics.SendGaugeMetric("motion", n.tags, float64(motion))
}
