package sensor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/tarm/serial"

	"github.com/jgulick48/weather-node/internal/models"
)

const (
	triggerCommand = "M\n"
	// maxLines bounds how much unrelated output a single measurement will skip.
	maxLines = 16
)

var ErrTimeout = errors.New("timed out waiting for sensor")

type Client interface {
	Close() error
	Measure() error
	Temperature() float64
	Humidity() float64
}

type client struct {
	config      models.SensorConfig
	port        io.ReadWriteCloser
	reader      *bufio.Reader
	temperature float64
	humidity    float64
}

// NewClient opens the serial bridge the temperature/humidity sensor is wired
// to.
func NewClient(config models.SensorConfig) (Client, error) {
	sconf := &serial.Config{
		Name:        config.Device,
		Baud:        config.Baud,
		ReadTimeout: config.ReadTimeout.Duration,
	}
	s, err := serial.OpenPort(sconf)
	if err != nil {
		return nil, fmt.Errorf("opening sensor port %s: %w", config.Device, err)
	}
	return newClient(config, s), nil
}

func newClient(config models.SensorConfig, port io.ReadWriteCloser) *client {
	return &client{
		config: config,
		port:   port,
		reader: bufio.NewReader(port),
	}
}

func (c *client) Close() error {
	return c.port.Close()
}

// Measure triggers a measurement cycle and blocks until the bridge has
// reported both temperature and humidity.
func (c *client) Measure() error {
	if _, err := io.WriteString(c.port, triggerCommand); err != nil {
		return fmt.Errorf("triggering measurement on %s: %w", c.config.Device, err)
	}
	data := make(map[string]string)
	for lines := 0; !hasReading(data); lines++ {
		if lines >= maxLines {
			c.reader.Reset(c.port)
			return fmt.Errorf("no reading from %s after %v lines", c.config.Device, lines)
		}
		line, err := c.reader.ReadString('\n')
		if err != nil {
			c.reader.Reset(c.port)
			if errors.Is(err, io.EOF) {
				return ErrTimeout
			}
			return fmt.Errorf("reading from %s: %w", c.config.Device, err)
		}
		kv := strings.Split(strings.TrimSpace(line), "\t")
		if len(kv) != 2 {
			continue
		}
		if _, ok := Parameters[kv[0]]; !ok {
			log.Printf("Ignoring unknown sensor field %q", kv[0])
			continue
		}
		if kv[0] == errorKey {
			return fmt.Errorf("sensor error %s: %s", kv[1], describeError(kv[1]))
		}
		data[kv[0]] = kv[1]
	}
	temperature, err := strconv.ParseFloat(data[temperatureKey], 64)
	if err != nil {
		return fmt.Errorf("parsing temperature %q: %w", data[temperatureKey], err)
	}
	humidity, err := strconv.ParseFloat(data[humidityKey], 64)
	if err != nil {
		return fmt.Errorf("parsing humidity %q: %w", data[humidityKey], err)
	}
	c.temperature = temperature
	c.humidity = humidity
	return nil
}

func hasReading(data map[string]string) bool {
	_, t := data[temperatureKey]
	_, h := data[humidityKey]
	return t && h
}

// Temperature returns the temperature from the last successful Measure.
func (c *client) Temperature() float64 {
	return c.temperature
}

// Humidity returns the relative humidity from the last successful Measure.
func (c *client) Humidity() float64 {
	return c.humidity
}
