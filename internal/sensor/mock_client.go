package sensor

import (
	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockClient) Measure() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockClient) Temperature() float64 {
	args := m.Called()
	return args.Get(0).(float64)
}

func (m *MockClient) Humidity() float64 {
	args := m.Called()
	return args.Get(0).(float64)
}
