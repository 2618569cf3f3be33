package report

import (
	"context"
	"crypto/tls"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/xdg-go/scram"
	"go.opentelemetry.io/otel"

	"github.com/Goden-Gun/diary-client/pkg/config"
)

// PublishObserver is an optional hook to observe publish latency and errors.
type PublishObserver interface {
	ObservePublish(topic string, duration time.Duration, err error)
}

// Manager owns the sync producer used to ship error reports.
type Manager struct {
	cfg      config.KafkaConfig
	producer sarama.SyncProducer

	observerMu      sync.RWMutex
	publishObserver PublishObserver

	closeOnce sync.Once
}

// headersCarrier implements propagation.TextMapCarrier for Kafka headers.
type headersCarrier []sarama.RecordHeader

func (c *headersCarrier) Get(key string) string {
	for _, h := range *c {
		if string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headersCarrier) Set(key, value string) {
	*c = append(*c, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
}

func (c *headersCarrier) Keys() []string {
	keys := make([]string, 0, len(*c))
	for _, h := range *c {
		keys = append(keys, string(h.Key))
	}
	return keys
}

// NewManager dials the brokers in cfg.
func NewManager(cfg config.KafkaConfig) (*Manager, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers empty")
	}
	cfg.ApplyDefaults()
	producer, err := sarama.NewSyncProducer(cfg.Brokers, SaramaConfig(cfg))
	if err != nil {
		return nil, err
	}
	return NewManagerWithProducer(cfg, producer), nil
}

// NewManagerWithProducer wraps an existing producer.
func NewManagerWithProducer(cfg config.KafkaConfig, producer sarama.SyncProducer) *Manager {
	cfg.ApplyDefaults()
	return &Manager{cfg: cfg, producer: producer}
}

// SaramaConfig builds the producer config. Reports are small and loss-tolerant,
// so a single local ack is enough.
func SaramaConfig(cfg config.KafkaConfig) *sarama.Config {
	base := sarama.NewConfig()
	base.Version = sarama.V2_1_0_0
	if cfg.ClientID != "" {
		base.ClientID = cfg.ClientID
	}
	base.Producer.Return.Successes = true
	base.Producer.Retry.Max = 3
	base.Producer.RequiredAcks = sarama.WaitForLocal
	base.Producer.Timeout = 5 * time.Second

	if cfg.TLSEnabled {
		base.Net.TLS.Enable = true
		base.Net.TLS.Config = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	if cfg.Username != "" {
		base.Net.SASL.Enable = true
		base.Net.SASL.User = cfg.Username
		base.Net.SASL.Password = cfg.Password
		switch strings.ToUpper(strings.TrimSpace(cfg.SASLMechanism)) {
		case "SCRAM-SHA-512":
			base.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA512
			base.Net.SASL.SCRAMClientGeneratorFunc = scramGenerator(scram.SHA512)
		case "SCRAM-SHA-256":
			base.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
			base.Net.SASL.SCRAMClientGeneratorFunc = scramGenerator(scram.SHA256)
		default:
			base.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		}
	}
	return base
}

// SetPublishObserver installs or replaces the publish observer.
func (m *Manager) SetPublishObserver(observer PublishObserver) {
	if m == nil {
		return
	}
	m.observerMu.Lock()
	m.publishObserver = observer
	m.observerMu.Unlock()
}

func (m *Manager) observer() PublishObserver {
	m.observerMu.RLock()
	defer m.observerMu.RUnlock()
	return m.publishObserver
}

// Publish sends a message to topic (falls back to the configured topic) with
// the trace context in its headers.
func (m *Manager) Publish(ctx context.Context, topic string, key, value []byte) (err error) {
	if m == nil {
		return errors.New("kafka manager nil")
	}
	if topic == "" {
		topic = m.cfg.Topic
	}
	start := time.Now()
	defer func() {
		if observer := m.observer(); observer != nil {
			observer.ObservePublish(topic, time.Since(start), err)
		}
	}()
	if topic == "" {
		return errors.New("kafka topic empty")
	}

	var headers headersCarrier
	otel.GetTextMapPropagator().Inject(ctx, &headers)

	msg := &sarama.ProducerMessage{Topic: topic, Headers: headers}
	if len(key) > 0 {
		msg.Key = sarama.ByteEncoder(key)
	}
	if len(value) > 0 {
		msg.Value = sarama.ByteEncoder(value)
	}

	if err = ctx.Err(); err != nil {
		return err
	}
	_, _, err = m.producer.SendMessage(msg)
	return err
}

// Close shuts down the producer.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	var err error
	m.closeOnce.Do(func() {
		if m.producer != nil {
			err = m.producer.Close()
		}
	})
	return err
}
