// Package kafka publishes audit events to a Kafka topic. Kafka is the source
// of truth for the audit trail; downstream consumers own retention.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "onboarding/pkg/platform/audit"
)

// DefaultTopic receives audit events unless configured otherwise.
const DefaultTopic = "onboarding.audit"

// Store implements audit.Store with synchronous produces, so a compliance
// Append returns only once the brokers acknowledged the record.
type Store struct {
	client *kgo.Client
	topic  string
}

// New connects to brokers and verifies that at least one is reachable.
func New(ctx context.Context, brokers []string, topic string) (*Store, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("kafka ping failed: %w", err)
	}
	return &Store{client: client, topic: topic}, nil
}

// EnsureTopic creates the audit topic if it does not exist yet.
func (s *Store) EnsureTopic(ctx context.Context, partitions int32, replicationFactor int16) error {
	adm := kadm.NewClient(s.client)
	resp, err := adm.CreateTopic(ctx, partitions, replicationFactor, nil, s.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", s.topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", s.topic, resp.Err)
	}
	return nil
}

// record is the JSON value published to Kafka. The ID lets consumers drop
// duplicates after producer retries.
type record struct {
	ID string `json:"id"`
	audit.Event
}

// Append publishes event keyed by session, so a session's events stay
// ordered within one partition.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(record{ID: uuid.NewString(), Event: event})
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	rec := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.SessionID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "category", Value: []byte(event.Category)},
			{Key: "action", Value: []byte(event.Action)},
		},
	}
	if err := s.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}

// Health pings the brokers.
func (s *Store) Health(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Close flushes buffered records and closes the client.
func (s *Store) Close() {
	s.client.Close()
}
