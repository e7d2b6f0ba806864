package output

import (
	"context"
	"fmt"
	"os"
	"path"
	"slices"
	"strconv"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/oshokin/light-scheduler/internal/config"
	"github.com/oshokin/light-scheduler/internal/domain/schedule"
	"github.com/oshokin/light-scheduler/internal/logger"
)

// Publisher sends one payload to one topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Close()
}

// MQTTDriver publishes every channel level to <prefix>/<channel>/intensity.
// After the first snapshot only changed levels are published.
type MQTTDriver struct {
	// publisher delivers the messages.
	publisher Publisher
	// prefix is prepended to every topic.
	prefix string

	// mu guards last.
	mu sync.Mutex
	// last holds the levels published most recently, nil before the first write.
	last []uint8
}

const (
	// disconnectQuiesce is how long paho may spend flushing on Close, in milliseconds.
	disconnectQuiesce = 250
	// reconnectInterval is the delay between connection retries.
	reconnectInterval = 5 * time.Second
	// maxReconnectInterval caps the reconnect backoff.
	maxReconnectInterval = 30 * time.Second
)

// NewMQTTDriver creates a driver on top of an existing publisher.
func NewMQTTDriver(publisher Publisher, prefix string) *MQTTDriver {
	if prefix == "" {
		prefix = config.DefaultTopicPrefix
	}

	return &MQTTDriver{
		publisher: publisher,
		prefix:    prefix,
	}
}

// Topic returns the topic used for a channel.
func (d *MQTTDriver) Topic(channel string) string {
	return path.Join(d.prefix, channel, "intensity")
}

// Write implements Driver.
func (d *MQTTDriver) Write(ctx context.Context, names []string, snapshot schedule.Snapshot) error {
	if err := checkSnapshot(names, snapshot); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.last) != len(snapshot.Levels) {
		d.last = nil
	}

	for i, level := range snapshot.Levels {
		if d.last != nil && d.last[i] == level {
			continue
		}

		topic := d.Topic(nameAt(names, i))

		if err := d.publisher.Publish(ctx, topic, []byte(strconv.Itoa(int(level)))); err != nil {
			// Forget what was sent so the next snapshot retries every channel.
			d.last = nil

			return fmt.Errorf("publish %s: %w", topic, err)
		}
	}

	d.last = slices.Clone(snapshot.Levels)

	return nil
}

// Close releases the publisher.
func (d *MQTTDriver) Close() {
	d.publisher.Close()
}

// pahoPublisher adapts a paho client to Publisher.
type pahoPublisher struct {
	// client is the connected paho client.
	client pahomqtt.Client
	// qos is the quality of service of every message.
	qos byte
	// retained asks the broker to keep the last message per topic.
	retained bool
	// timeout bounds a single publish.
	timeout time.Duration
}

// DialMQTT connects to the broker described by settings.
func DialMQTT(ctx context.Context, settings *config.MQTT, timeout time.Duration) (Publisher, error) {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(settings.Broker)
	opts.SetClientID(clientID(settings.ClientID))
	opts.SetUsername(settings.Username)
	opts.SetPassword(settings.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(reconnectInterval)
	opts.SetMaxReconnectInterval(maxReconnectInterval)
	opts.SetConnectTimeout(timeout)

	opts.OnConnect = func(pahomqtt.Client) {
		logger.InfoKV(ctx, "Connected to MQTT broker", "broker", settings.Broker)
	}

	opts.OnConnectionLost = func(_ pahomqtt.Client, err error) {
		logger.WarnKV(ctx, "MQTT connection lost", "broker", settings.Broker, "error", err)
	}

	client := pahomqtt.NewClient(opts)

	if err := waitToken(ctx, client.Connect(), timeout); err != nil {
		// Stop the background retries started by SetConnectRetry.
		client.Disconnect(0)

		return nil, fmt.Errorf("connect to MQTT broker %s: %w", settings.Broker, err)
	}

	return &pahoPublisher{
		client:   client,
		qos:      settings.QoS,
		retained: settings.Retained,
		timeout:  timeout,
	}, nil
}

// Publish implements Publisher.
func (p *pahoPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	return waitToken(ctx, p.client.Publish(topic, p.qos, p.retained, payload), p.timeout)
}

// Close implements Publisher.
func (p *pahoPublisher) Close() {
	p.client.Disconnect(disconnectQuiesce)
}

// waitToken waits for a paho token, the timeout or the context, whichever comes first.
func waitToken(ctx context.Context, token pahomqtt.Token, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-timer.C:
		return fmt.Errorf("no answer after %s: %w", timeout, context.DeadlineExceeded)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// clientID returns the configured client id or one derived from host and pid.
func clientID(configured string) string {
	if configured != "" {
		return configured
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return fmt.Sprintf("light-controller-%s-%d", hostname, os.Getpid())
}
