package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"time"
)

const configEnv = "WEATHER_NODE_CONFIG"

type Config struct {
	WiFi         WiFiConfig        `json:"wifi"`
	MQTT         MQTTConfiguration `json:"mqtt"`
	SensorConfig SensorConfig      `json:"sensorConfig"`
	Pins         PinConfig         `json:"pins"`
	Alarm        AlarmConfig       `json:"alarm"`
	Interval     Duration          `json:"interval"`
	StatsServer  string            `json:"statsServer"`
	PushGateway  string            `json:"pushGateway"`
	CrashLog     string            `json:"crashLog"`
}

type WiFiConfig struct {
	Interface    string   `json:"interface"`
	SSID         string   `json:"ssid"`
	Passphrase   string   `json:"passphrase"`
	PollInterval Duration `json:"pollInterval"`
}

type MQTTConfiguration struct {
	ClientID string `json:"clientId"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Topic    string `json:"topic"`
}

type SensorConfig struct {
	Device      string   `json:"device"`
	Baud        int      `json:"baud"`
	ReadTimeout Duration `json:"readTimeout"`
}

type PinConfig struct {
	Motion string `json:"motion"`
	Buzzer string `json:"buzzer"`
	LED    string `json:"led"`
}

type AlarmConfig struct {
	Threshold *float64 `json:"threshold"`
	Pulse     Duration `json:"pulse"`
}

// DefaultConfig holds the values the node was first deployed with.
func DefaultConfig() Config {
	threshold := 25.0
	return Config{
		WiFi: WiFiConfig{
			SSID:         "Wokwi-GUEST",
			PollInterval: Duration{100 * time.Millisecond},
		},
		MQTT: MQTTConfiguration{
			ClientID: "micropython-weather-demo",
			Host:     "broker.mqttdashboard.com",
			Port:     1883,
			Topic:    "smart-city",
		},
		SensorConfig: SensorConfig{
			Device:      "/dev/ttyUSB0",
			Baud:        9600,
			ReadTimeout: Duration{5 * time.Second},
		},
		Pins: PinConfig{
			Motion: "GPIO14",
			Buzzer: "GPIO2",
			LED:    "GPIO4",
		},
		Alarm: AlarmConfig{
			Threshold: &threshold,
			Pulse:     Duration{500 * time.Millisecond},
		},
		Interval: Duration{time.Second},
	}
}

// LoadConfig reads the config file and fills anything it leaves out from
// DefaultConfig. A missing file is not an error.
func LoadConfig(filename string) (Config, error) {
	if filename == "" {
		filename = os.Getenv(configEnv)
	}
	if filename == "" {
		filename = "./config.json"
	}
	config := DefaultConfig()
	configFile, err := ioutil.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("No config file found at %s, using defaults", filename)
		return config, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", filename, err)
	}
	var fileConfig Config
	if err = json.Unmarshal(configFile, &fileConfig); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", filename, err)
	}
	return fileConfig.withDefaults(config), nil
}

func (c Config) withDefaults(d Config) Config {
	c.WiFi.SSID = stringOr(c.WiFi.SSID, d.WiFi.SSID)
	c.WiFi.PollInterval = durationOr(c.WiFi.PollInterval, d.WiFi.PollInterval)
	c.MQTT.ClientID = stringOr(c.MQTT.ClientID, d.MQTT.ClientID)
	c.MQTT.Host = stringOr(c.MQTT.Host, d.MQTT.Host)
	c.MQTT.Topic = stringOr(c.MQTT.Topic, d.MQTT.Topic)
	if c.MQTT.Port == 0 {
		c.MQTT.Port = d.MQTT.Port
	}
	c.SensorConfig.Device = stringOr(c.SensorConfig.Device, d.SensorConfig.Device)
	if c.SensorConfig.Baud == 0 {
		c.SensorConfig.Baud = d.SensorConfig.Baud
	}
	c.SensorConfig.ReadTimeout = durationOr(c.SensorConfig.ReadTimeout, d.SensorConfig.ReadTimeout)
	c.Pins.Motion = stringOr(c.Pins.Motion, d.Pins.Motion)
	c.Pins.Buzzer = stringOr(c.Pins.Buzzer, d.Pins.Buzzer)
	c.Pins.LED = stringOr(c.Pins.LED, d.Pins.LED)
	if c.Alarm.Threshold == nil {
		c.Alarm.Threshold = d.Alarm.Threshold
	}
	c.Alarm.Pulse = durationOr(c.Alarm.Pulse, d.Alarm.Pulse)
	c.Interval = durationOr(c.Interval, d.Interval)
	return c
}

func stringOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func durationOr(value, fallback Duration) Duration {
	if value.Duration == 0 {
		return fallback
	}
	return value
}
