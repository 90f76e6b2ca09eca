package automation

import (
	"fmt"
	"log"
	"time"

	"github.com/jgulick48/weather-node/internal/gpio"
	"github.com/jgulick48/weather-node/internal/models"
)

// TemperatureAlarm sounds the buzzer when a new reading is above the
// threshold.
type TemperatureAlarm struct {
	buzzer    gpio.Output
	threshold float64
	pulse     time.Duration
	sleep     func(time.Duration)
}

func NewTemperatureAlarm(config models.AlarmConfig, buzzer gpio.Output) *TemperatureAlarm {
	threshold := 25.0
	if config.Threshold != nil {
		threshold = *config.Threshold
	}
	return &TemperatureAlarm{
		buzzer:    buzzer,
		threshold: threshold,
		pulse:     config.Pulse.Duration,
		sleep:     time.Sleep,
	}
}

// Evaluate pulses the buzzer for the configured duration when temperature is
// above the threshold and blocks for the length of the pulse. Otherwise the
// buzzer is switched off without delay. It reports whether the buzzer sounded.
func (a *TemperatureAlarm) Evaluate(temperature float64) (bool, error) {
	if temperature > a.threshold {
		log.Printf("Temperature %v above threshold of %v, sounding buzzer for %v", temperature, a.threshold, a.pulse)
		return true, a.playBuzzer()
	}
	if err := a.buzzer.Off(); err != nil {
		return false, fmt.Errorf("switching buzzer off: %w", err)
	}
	return false, nil
}

func (a *TemperatureAlarm) playBuzzer() error {
	if err := a.buzzer.On(); err != nil {
		return fmt.Errorf("switching buzzer on: %w", err)
	}
	a.sleep(a.pulse)
	if err := a.buzzer.Off(); err != nil {
		return fmt.Errorf("switching buzzer off: %w", err)
	}
	return nil
}
