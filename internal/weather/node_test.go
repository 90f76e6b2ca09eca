package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/jgulick48/weather-node/internal/automation"
	"github.com/jgulick48/weather-node/internal/models"
	"github.com/jgulick48/weather-node/internal/mqtt"
	"github.com/jgulick48/weather-node/internal/sensor"
)

type fakeMotion struct {
	levels []int
	reads  int
}

func (f *fakeMotion) Value() int {
	i := f.reads
	if i >= len(f.levels) {
		i = len(f.levels) - 1
	}
	f.reads++
	return f.levels[i]
}

type recordingBuzzer struct {
	events []string
}

func (b *recordingBuzzer) On() error {
	b.events = append(b.events, "on")
	return nil
}

func (b *recordingBuzzer) Off() error {
	b.events = append(b.events, "off")
	return nil
}

type countingPusher struct {
	pushes int
}

func (p *countingPusher) Push() error {
	p.pushes++
	return nil
}

type NodeTest struct {
	suite.Suite
	config    models.Config
	sensor    *sensor.MockClient
	publisher *mqtt.MockClient
	motion    *fakeMotion
	buzzer    *recordingBuzzer
	pusher    *countingPusher
	node      *Node
}

func (s *NodeTest) SetupTest() {
	s.config = models.DefaultConfig()
	s.config.Alarm.Pulse = models.Duration{Duration: time.Millisecond}
	s.config.Interval = models.Duration{Duration: time.Millisecond}
	s.sensor = &sensor.MockClient{}
	s.sensor.On("Measure").Return(nil)
	s.publisher = &mqtt.MockClient{}
	s.motion = &fakeMotion{levels: []int{0}}
	s.buzzer = &recordingBuzzer{}
	s.pusher = &countingPusher{}
	s.node = NewNode(s.config, s.sensor, s.motion, s.publisher, automation.NewTemperatureAlarm(s.config.Alarm, s.buzzer), s.pusher)
}

func (s *NodeTest) readings(readings ...WeatherReading) {
	for _, r := range readings {
		s.sensor.On("Temperature").Return(r.Temperature).Once()
		s.sensor.On("Humidity").Return(r.Humidity).Once()
	}
}

func (s *NodeTest) publishSucceeds() {
	s.publisher.On("Publish", "smart-city", mock.Anything).Return(nil)
}

func (s *NodeTest) payloads() []string {
	var payloads []string
	for _, m := range s.publisher.Published {
		payloads = append(payloads, m.Payload)
	}
	return payloads
}

func (s *NodeTest) Test_Step_IdenticalReadingsPublishOnce() {
	s.readings(WeatherReading{24, 40}, WeatherReading{24, 40})
	s.publishSucceeds()

	state, err := s.node.Step(PreviousState{})
	s.Require().NoError(err)
	state, err = s.node.Step(state)
	s.Require().NoError(err)

	s.Equal([]string{`{"temp":24,"humidity":40}`}, s.payloads())
	s.Equal(PreviousState{Weather: `{"temp":24,"humidity":40}`, Motion: NoMotion}, state)
	s.Equal(2, s.pusher.pushes)
}

func (s *NodeTest) Test_Step_JitterIsAChange() {
	s.readings(WeatherReading{24, 40}, WeatherReading{24.000001, 40})
	s.publishSucceeds()

	state, err := s.node.Step(PreviousState{})
	s.Require().NoError(err)
	_, err = s.node.Step(state)
	s.Require().NoError(err)

	s.Len(s.publisher.Published, 2)
}

func (s *NodeTest) Test_Step_MotionTransitions() {
	reading := WeatherReading{24, 40}
	s.readings(reading, reading, reading, reading, reading)
	s.motion.levels = []int{0, 1, 1, 0, 0}
	s.publishSucceeds()

	var state PreviousState
	var err error
	for i := 0; i < 5; i++ {
		state, err = s.node.Step(state)
		s.Require().NoError(err)
	}

	s.Equal([]string{`{"temp":24,"humidity":40}`, "1", "0"}, s.payloads())
	s.Equal(NoMotion, state.Motion)
}

func (s *NodeTest) Test_Step_MotionOnlyChange() {
	s.readings(WeatherReading{30, 40})
	s.motion.levels = []int{1}
	s.publishSucceeds()

	prev := PreviousState{Weather: `{"temp":30,"humidity":40}`}
	state, err := s.node.Step(prev)
	s.Require().NoError(err)

	s.Equal([]string{"1"}, s.payloads())
	s.Equal(Motion, state.Motion)
	s.Empty(s.buzzer.events)
}

func (s *NodeTest) Test_Step_HotReadingPulsesBuzzer() {
	s.readings(WeatherReading{26, 40})
	s.publishSucceeds()

	_, err := s.node.Step(PreviousState{})
	s.Require().NoError(err)
	s.Equal([]string{"on", "off"}, s.buzzer.events)
}

func (s *NodeTest) Test_Step_CoolReadingSilencesBuzzer() {
	s.readings(WeatherReading{24, 40})
	s.publishSucceeds()

	_, err := s.node.Step(PreviousState{})
	s.Require().NoError(err)
	s.Equal([]string{"off"}, s.buzzer.events)
}

func (s *NodeTest) Test_Step_UnchangedWeatherLeavesBuzzer() {
	s.readings(WeatherReading{30, 40}, WeatherReading{30, 40})
	s.publishSucceeds()

	state, err := s.node.Step(PreviousState{})
	s.Require().NoError(err)
	s.buzzer.events = nil
	_, err = s.node.Step(state)
	s.Require().NoError(err)
	s.Empty(s.buzzer.events)
}

func (s *NodeTest) Test_Step_PublishFailureKeepsState() {
	s.readings(WeatherReading{24, 40})
	s.publisher.On("Publish", "smart-city", mock.Anything).Return(errors.New("not Connected"))

	prev := PreviousState{Weather: `{"temp":23,"humidity":40}`}
	state, err := s.node.Step(prev)
	s.ErrorContains(err, "publishing weather update")
	s.Equal(prev, state)
	s.Empty(s.buzzer.events)
}

func (s *NodeTest) Test_Step_MotionPublishFailure() {
	s.readings(WeatherReading{24, 40})
	s.motion.levels = []int{1}
	s.publisher.On("Publish", "smart-city", `{"temp":24,"humidity":40}`).Return(nil)
	s.publisher.On("Publish", "smart-city", "1").Return(errors.New("not Connected"))

	state, err := s.node.Step(PreviousState{})
	s.ErrorContains(err, "publishing motion update")
	s.Equal(PreviousState{Weather: `{"temp":24,"humidity":40}`}, state)
}

func (s *NodeTest) Test_Step_SensorFailure() {
	s.sensor = &sensor.MockClient{}
	s.sensor.On("Measure").Return(sensor.ErrTimeout)
	s.node.sensor = s.sensor

	_, err := s.node.Step(PreviousState{})
	s.ErrorIs(err, sensor.ErrTimeout)
	s.publisher.AssertNotCalled(s.T(), "Publish", mock.Anything, mock.Anything)
}

func (s *NodeTest) Test_Run_StopsOnCancel() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.sensor = &sensor.MockClient{}
	s.sensor.On("Measure").Return(nil).Twice()
	s.sensor.On("Measure").Return(nil).Run(func(mock.Arguments) { cancel() })
	s.sensor.On("Temperature").Return(24.0)
	s.sensor.On("Humidity").Return(40.0)
	s.node.sensor = s.sensor
	s.publishSucceeds()

	err := s.node.Run(ctx)
	s.ErrorIs(err, context.Canceled)
	s.Equal([]string{`{"temp":24,"humidity":40}`}, s.payloads())
	s.sensor.AssertNumberOfCalls(s.T(), "Measure", 3)
}

func (s *NodeTest) Test_Run_ReturnsStepError() {
	s.readings(WeatherReading{24, 40})
	s.publisher.On("Publish", "smart-city", mock.Anything).Return(errors.New("not Connected"))

	err := s.node.Run(context.Background())
	s.ErrorContains(err, "publishing weather update")
}

func TestNode(t *testing.T) {
	suite.Run(t, new(NodeTest))
}
