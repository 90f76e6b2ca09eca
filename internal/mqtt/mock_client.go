package mqtt

import (
	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
	Published []Message
}

func (m *MockClient) Close() {
	m.Called()
}

func (m *MockClient) Connect() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockClient) IsConnected() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockClient) Publish(topic string, payload string) error {
	args := m.Called(topic, payload)
	if args.Error(0) == nil {
		m.Published = append(m.Published, Message{Topic: topic, Payload: payload})
	}
	return args.Error(0)
}
