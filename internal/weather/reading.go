package weather

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/guregu/null"
)

type WeatherReading struct {
	Temperature float64
	Humidity    float64
}

type weatherMessage struct {
	Temp     null.Float `json:"temp"`
	Humidity null.Float `json:"humidity"`
}

// Serialize renders the reading as the compact payload published on the
// weather channel, e.g. {"temp":24.5,"humidity":40}.
func (r WeatherReading) Serialize() (string, error) {
	payload, err := json.Marshal(weatherMessage{
		Temp:     null.FloatFrom(r.Temperature),
		Humidity: null.FloatFrom(r.Humidity),
	})
	if err != nil {
		return "", fmt.Errorf("serializing weather reading: %w", err)
	}
	return string(payload), nil
}

// ParseWeatherReading reads a payload produced by Serialize. Both fields must
// be present.
func ParseWeatherReading(payload string) (WeatherReading, error) {
	var message weatherMessage
	if err := json.Unmarshal([]byte(payload), &message); err != nil {
		return WeatherReading{}, fmt.Errorf("parsing weather payload: %w", err)
	}
	if !message.Temp.Valid || !message.Humidity.Valid {
		return WeatherReading{}, errors.New("weather payload is missing temp or humidity")
	}
	return WeatherReading{
		Temperature: message.Temp.Float64,
		Humidity:    message.Humidity.Float64,
	}, nil
}

// MotionState is the raw level of the motion input.
type MotionState int

const (
	NoMotion MotionState = 0
	Motion   MotionState = 1
)

func (m MotionState) String() string {
	return strconv.Itoa(int(m))
}

// PreviousState holds the last payload published on each channel. The zero
// value is the state at boot.
type PreviousState struct {
	Weather string
	Motion  MotionState
}
