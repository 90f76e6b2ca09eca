package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mitchellh/panicwrap"

	"github.com/jgulick48/weather-node/internal/automation"
	"github.com/jgulick48/weather-node/internal/gpio"
	"github.com/jgulick48/weather-node/internal/metrics"
	"github.com/jgulick48/weather-node/internal/models"
	"github.com/jgulick48/weather-node/internal/mqtt"
	"github.com/jgulick48/weather-node/internal/network"
	"github.com/jgulick48/weather-node/internal/sensor"
	"github.com/jgulick48/weather-node/internal/weather"
)

func main() {
	config, err := models.LoadConfig("")
	if err != nil {
		log.Panic(err)
	}

	exitStatus, err := panicwrap.BasicWrap(crashHandler(config.CrashLog))
	if err != nil {
		log.Panic(err)
	}
	if exitStatus >= 0 {
		os.Exit(exitStatus)
	}

	if err = metrics.Init(config.StatsServer); err != nil {
		log.Printf("Stats disabled: %s", err)
	}
	defer metrics.Close()

	if err = gpio.Init(); err != nil {
		log.Panic(err)
	}
	motion, err := gpio.NewInput(config.Pins.Motion)
	if err != nil {
		log.Panic(err)
	}
	buzzer, err := gpio.NewOutput(config.Pins.Buzzer)
	if err != nil {
		log.Panic(err)
	}
	// The status LED is claimed so nothing else drives it, but the loop leaves it off.
	if _, err = gpio.NewOutput(config.Pins.LED); err != nil {
		log.Panic(err)
	}
	sensorClient, err := sensor.NewClient(config.SensorConfig)
	if err != nil {
		log.Panic(err)
	}
	defer sensorClient.Close()

	if err = network.Bootstrap(network.NewStation(config.WiFi), config.WiFi); err != nil {
		log.Panic(err)
	}

	mqttClient := mqtt.NewClient(config.MQTT)
	if err = mqttClient.Connect(); err != nil {
		log.Panic(err)
	}
	defer mqttClient.Close()
	log.Printf("Connected to MQTT server %s", config.MQTT.Host)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	node := weather.NewNode(
		config,
		sensorClient,
		motion,
		mqttClient,
		automation.NewTemperatureAlarm(config.Alarm, buzzer),
		metrics.NewPusher(config.PushGateway, config.MQTT.ClientID, weather.Collectors()...),
	)
	err = node.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Printf("Shutting down")
		return
	}
	log.Panic(err)
}

// crashHandler runs in the parent process once the wrapped node has panicked.
func crashHandler(crashLog string) panicwrap.HandlerFunc {
	return func(output string) {
		log.Printf("weather node crashed:\n%s", output)
		if crashLog == "" {
			return
		}
		f, err := os.OpenFile(crashLog, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			log.Printf("Error opening crash log %s: %s", crashLog, err)
			return
		}
		if _, err = f.WriteString(output); err != nil {
			log.Printf("Error writing crash log %s: %s", crashLog, err)
		}
		f.Close()
	}
}
