package mqtt

import (
	"errors"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jgulick48/weather-node/internal/models"
)

const (
	qos            byte = 0
	retained            = false
	disconnectWait      = 250
)

var ErrNotConnected = errors.New("not connected to broker")

type Client interface {
	Close()
	Connect() error
	IsConnected() bool
	Publish(topic string, payload string) error
}

func NewClient(config models.MQTTConfiguration) Client {
	return &client{
		config: config,
	}
}

type client struct {
	config     models.MQTTConfiguration
	mqttClient mqtt.Client
}

func (c *client) brokerURL() string {
	return fmt.Sprintf("tcp://%s:%d", c.config.Host, c.config.Port)
}

// Connect opens the broker connection once. The client never retries or
// reconnects; a lost connection surfaces as a Publish error.
func (c *client) Connect() error {
	log.Printf("Connecting to MQTT server %s as %s", c.brokerURL(), c.config.ClientID)
	opts := mqtt.NewClientOptions()
	opts.AddBroker(c.brokerURL())
	opts.SetClientID(c.config.ClientID)
	if c.config.Username != "" {
		opts.SetUsername(c.config.Username)
	}
	if c.config.Password != "" {
		opts.SetPassword(c.config.Password)
	}
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(10 * time.Second)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler
	c.mqttClient = mqtt.NewClient(opts)
	if token := c.mqttClient.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connecting to mqtt broker %s: %w", c.brokerURL(), token.Error())
	}
	return nil
}

func (c *client) IsConnected() bool {
	return c.mqttClient != nil && c.mqttClient.IsConnected()
}

func (c *client) Publish(topic string, payload string) error {
	if c.mqttClient == nil {
		return ErrNotConnected
	}
	token := c.mqttClient.Publish(topic, qos, retained, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}
	return nil
}

func (c *client) Close() {
	if c.mqttClient != nil {
		c.mqttClient.Disconnect(disconnectWait)
	}
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Println("Connected")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Printf("Connect lost: %v", err)
}
