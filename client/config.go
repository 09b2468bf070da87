package client

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

type Config struct {
	LogLevel           string        `env:"CLIENT_LOG_LEVEL"           envDefault:"info"`
	BrokerURL          string        `env:"CLIENT_MQTT_ADDRESS"        envDefault:"tcp://localhost:1883"`
	QoS                byte          `env:"CLIENT_MQTT_QOS"            envDefault:"2"`
	MQTTTimeout        time.Duration `env:"CLIENT_MQTT_TIMEOUT"        envDefault:"30s"`
	ClientID           string        `env:"CLIENT_ID"`
	ClientName         string        `env:"CLIENT_NAME"`
	Password           string        `env:"CLIENT_PASSWORD"`
	ChannelID          string        `env:"CLIENT_CHANNEL_ID"`
	DataPath           string        `env:"CLIENT_DATA_PATH"`
	LocalEpochs        uint64        `env:"CLIENT_LOCAL_EPOCHS"        envDefault:"1"`
	LearningRate       float64       `env:"CLIENT_LEARNING_RATE"       envDefault:"0.01"`
	LivelinessInterval time.Duration `env:"CLIENT_LIVELINESS_INTERVAL" envDefault:"10s"`
}

func (c Config) Validate() error {
	if c.BrokerURL == "" {
		return errors.New("broker_url is required")
	}
	if _, err := url.Parse(c.BrokerURL); err != nil {
		return fmt.Errorf("broker_url is not a valid URL: %w", err)
	}
	if c.ClientID == "" {
		return errors.New("client_id is required")
	}
	if c.ChannelID == "" {
		return errors.New("channel_id is required")
	}
	if c.DataPath == "" {
		return errors.New("data_path is required")
	}
	if c.LocalEpochs == 0 {
		return errors.New("local_epochs must be positive")
	}
	if c.LearningRate <= 0 {
		return errors.New("learning_rate must be positive")
	}
	if c.LivelinessInterval <= 0 {
		return errors.New("liveliness_interval must be positive")
	}

	return nil
}
