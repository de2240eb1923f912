// Package events publishes verification lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/voxverify/voxverify/internal/metrics"
)

// DefaultTopic carries one event per completed verification.
const DefaultTopic = "verification.completed"

// CompletedEvent is the payload published when a session completes.
type CompletedEvent struct {
	SessionID   string            `json:"session_id"`
	Verified    bool              `json:"verified"`
	CompanyName string            `json:"company_name"`
	UserData    map[string]string `json:"user_data"`
	CompletedAt time.Time         `json:"completed_at"`
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers []string
	Topic   string
	Enabled bool
}

// Publisher writes completion events to Kafka. A disabled publisher
// logs the event and reports success, so the turn path never depends
// on a broker being reachable.
type Publisher struct {
	writer  *kafka.Writer
	topic   string
	enabled bool
	metrics *metrics.Metrics
}

// New creates the publisher. Kafka stays off unless explicitly
// enabled with at least one broker.
func New(cfg *Config) *Publisher {
	m := metrics.Default

	topic := DefaultTopic
	if cfg != nil && cfg.Topic != "" {
		topic = cfg.Topic
	}
	if cfg == nil || !cfg.Enabled || len(cfg.Brokers) == 0 {
		slog.Info("kafka disabled, completion events are log-only")
		return &Publisher{topic: topic, enabled: false, metrics: m}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}
	slog.Info("kafka publisher initialized", "brokers", cfg.Brokers, "topic", topic)
	return &Publisher{writer: writer, topic: topic, enabled: true, metrics: m}
}

// PublishCompleted emits one event for a finished session, keyed by
// session id.
func (p *Publisher) PublishCompleted(ctx context.Context, event CompletedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		p.metrics.RecordEvent("marshal_error")
		return fmt.Errorf("marshal completion event: %w", err)
	}
	slog.Debug("publishing completion event", "topic", p.topic, "session_id", event.SessionID)

	if !p.enabled || p.writer == nil {
		p.metrics.RecordEvent("skipped")
		return nil
	}
	msg := kafka.Message{
		Key:   []byte(event.SessionID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.RecordEvent("error")
		return fmt.Errorf("write completion event: %w", err)
	}
	p.metrics.RecordEvent("published")
	return nil
}

// Close flushes and closes the Kafka writer.
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
