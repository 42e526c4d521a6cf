// Package mqtt publishes telemetry snapshots to an MQTT broker.
// Publishing is optional; headless drive sessions enable it when the
// configuration carries a broker URL.
package mqtt

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/mscrnt/vdash/pkg/vehicle"
)

// Publisher sends vehicle snapshots to a broker topic.
type Publisher struct {
	client paho.Client
	topic  string
	log    *logrus.Logger
}

// NewPublisher connects to the broker named by brokerURL. Supported
// schemes are mqtt://, mqtts://, ws:// and wss://; credentials embed
// in the URL userinfo.
func NewPublisher(brokerURL, topic string, log *logrus.Logger) (*Publisher, error) {
	parsedURL, err := url.Parse(brokerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid MQTT URL: %w", err)
	}

	opts := paho.NewClientOptions()

	var broker string
	switch parsedURL.Scheme {
	case "ws":
		broker = brokerURL
	case "wss":
		broker = brokerURL
		opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: true})
	case "mqtt":
		broker = strings.Replace(brokerURL, "mqtt://", "tcp://", 1)
	case "mqtts":
		broker = strings.Replace(brokerURL, "mqtts://", "ssl://", 1)
		opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: true})
	default:
		return nil, fmt.Errorf("unsupported protocol scheme: %s (supported: ws, wss, mqtt, mqtts)", parsedURL.Scheme)
	}

	opts.AddBroker(broker)
	opts.SetClientID(fmt.Sprintf("vdash-%d", time.Now().Unix()))
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetConnectTimeout(5 * time.Second)
	opts.SetMaxReconnectInterval(10 * time.Second)

	if parsedURL.User != nil {
		opts.SetUsername(parsedURL.User.Username())
		password, _ := parsedURL.User.Password()
		opts.SetPassword(password)
	}

	opts.SetConnectionLostHandler(func(client paho.Client, err error) {
		log.WithError(err).Warn("MQTT connection lost")
	})
	opts.SetOnConnectHandler(func(client paho.Client) {
		log.Debug("MQTT connected")
	})

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	log.WithFields(logrus.Fields{
		"broker": parsedURL.Host,
		"topic":  topic,
	}).Info("MQTT publisher connected")

	return &Publisher{
		client: client,
		topic:  topic,
		log:    log,
	}, nil
}

// Publish sends one snapshot as JSON with QoS 0. Snapshots supersede
// each other, so a lost message is harmless.
func (p *Publisher) Publish(state vehicle.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding telemetry: %w", err)
	}

	token := p.client.Publish(p.topic, 0, false, payload)
	if !token.WaitTimeout(2 * time.Second) {
		return fmt.Errorf("publish to %s timed out", p.topic)
	}
	if token.Error() != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, token.Error())
	}
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
