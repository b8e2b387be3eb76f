package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"antesala/pkg/logger"
)

const (
	headerOrigin  = "origin"
	snapshotKey   = "reservations"
	consumerRetry = time.Second
)

// ChangeFeedConfig configures the Kafka topic that carries full snapshots
type ChangeFeedConfig struct {
	Brokers         []string
	Topic           string
	GroupPrefix     string
	Origin          string
	RetryMax        int
	Timeout         time.Duration
	MaxMessageBytes int
}

// DefaultChangeFeedConfig returns a default changefeed configuration
func DefaultChangeFeedConfig() ChangeFeedConfig {
	return ChangeFeedConfig{
		Brokers:         []string{"localhost:9092"},
		Topic:           "antesala.reservations",
		GroupPrefix:     "antesala-sync",
		RetryMax:        3,
		Timeout:         10 * time.Second,
		MaxMessageBytes: 4 << 20,
	}
}

type snapshot[T any] struct {
	Origin      string    `json:"origin"`
	PublishedAt time.Time `json:"published_at"`
	Items       []T       `json:"items"`
}

// ChangeFeed publishes every committed snapshot and replays snapshots from
// other instances. Each instance consumes with its own group so all of them see every message.
type ChangeFeed[T any] struct {
	producer sarama.SyncProducer
	newGroup func(groupID string) (sarama.ConsumerGroup, error)
	config   ChangeFeedConfig
	log      *logger.Logger
}

// NewChangeFeed connects a sync producer and prepares consumer groups for the brokers
func NewChangeFeed[T any](cfg ChangeFeedConfig, log *logger.Logger) (*ChangeFeed[T], error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = cfg.RetryMax
	saramaConfig.Producer.Timeout = cfg.Timeout
	saramaConfig.Producer.MaxMessageBytes = cfg.MaxMessageBytes
	// One key keeps all snapshots on one partition, in order
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	newGroup := func(groupID string) (sarama.ConsumerGroup, error) {
		return sarama.NewConsumerGroup(cfg.Brokers, groupID, saramaConfig)
	}
	return NewChangeFeedWithProducer[T](producer, newGroup, cfg, log), nil
}

// NewChangeFeedWithProducer builds a feed over an existing producer. newGroup may be nil,
// in which case Subscribe returns ErrNoSubscriber.
func NewChangeFeedWithProducer[T any](producer sarama.SyncProducer, newGroup func(string) (sarama.ConsumerGroup, error), cfg ChangeFeedConfig, log *logger.Logger) *ChangeFeed[T] {
	if log == nil {
		log = logger.GetDefault()
	}
	return &ChangeFeed[T]{
		producer: producer,
		newGroup: newGroup,
		config:   cfg,
		log:      log.WithComponent("changefeed"),
	}
}

// Publish sends the full collection as one snapshot
func (f *ChangeFeed[T]) Publish(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	now := time.Now().UTC()
	body, err := json.Marshal(snapshot[T]{Origin: f.config.Origin, PublishedAt: now, Items: items})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: f.config.Topic,
		Key:   sarama.StringEncoder(snapshotKey),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte(headerOrigin), Value: []byte(f.config.Origin)},
		},
		Timestamp: now,
	}

	partition, offset, err := f.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}

	f.log.DebugContext(ctx, "Snapshot published",
		"topic", f.config.Topic,
		"partition", partition,
		"offset", offset,
		"count", len(items),
	)
	return nil
}

// Subscribe starts consuming snapshots from other instances until the
// returned function is called or ctx ends.
func (f *ChangeFeed[T]) Subscribe(ctx context.Context, onChange func([]T)) (func(), error) {
	if f.newGroup == nil {
		return nil, ErrNoSubscriber
	}

	group, err := f.newGroup(f.config.GroupPrefix + "-" + f.config.Origin)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	handler := &feedHandler[T]{feed: f, onChange: onChange}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for err := range group.Errors() {
			f.log.WithError(err).Warn("Changefeed consumer error")
		}
	}()
	go func() {
		defer wg.Done()
		for {
			if err := group.Consume(ctx, []string{f.config.Topic}, handler); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return
				}
				f.log.WithError(err).Warn("Changefeed consume failed, retrying")
				select {
				case <-ctx.Done():
				case <-time.After(consumerRetry):
				}
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			cancel()
			if err := group.Close(); err != nil {
				f.log.WithError(err).Warn("Failed to close changefeed consumer group")
			}
			wg.Wait()
		})
	}
	return unsubscribe, nil
}

// Close releases the producer
func (f *ChangeFeed[T]) Close() error {
	if err := f.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

// decode turns a message into a snapshot. Own snapshots report skip=true.
func (f *ChangeFeed[T]) decode(msg *sarama.ConsumerMessage) (snap snapshot[T], skip bool, err error) {
	for _, h := range msg.Headers {
		if h != nil && string(h.Key) == headerOrigin && string(h.Value) == f.config.Origin {
			return snap, true, nil
		}
	}
	if err := json.Unmarshal(msg.Value, &snap); err != nil {
		return snap, false, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	if snap.Origin == f.config.Origin {
		return snap, true, nil
	}
	if snap.Items == nil {
		snap.Items = []T{}
	}
	return snap, false, nil
}

type feedHandler[T any] struct {
	feed     *ChangeFeed[T]
	onChange func([]T)
}

func (h *feedHandler[T]) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *feedHandler[T]) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *feedHandler[T]) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			snap, skip, err := h.feed.decode(msg)
			if err != nil {
				h.feed.log.WithError(err).Warn("Dropping malformed snapshot", "offset", msg.Offset)
			} else if !skip {
				h.feed.log.LogChangefeedReplace(session.Context(), snap.Origin, len(snap.Items))
				h.onChange(snap.Items)
			}
			session.MarkMessage(msg, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// PublishingGateway saves through an inner gateway and then publishes the snapshot
type PublishingGateway[T any] struct {
	inner Gateway[T]
	feed  *ChangeFeed[T]
}

func NewPublishingGateway[T any](inner Gateway[T], feed *ChangeFeed[T]) *PublishingGateway[T] {
	return &PublishingGateway[T]{inner: inner, feed: feed}
}

func (g *PublishingGateway[T]) LoadAll(ctx context.Context) ([]T, error) {
	return g.inner.LoadAll(ctx)
}

// SaveAll only publishes when the inner save fully succeeded
func (g *PublishingGateway[T]) SaveAll(ctx context.Context, items []T) error {
	if err := g.inner.SaveAll(ctx, items); err != nil {
		return err
	}
	if err := g.feed.Publish(ctx, items); err != nil {
		return &PersistenceError{Op: "publish", Backend: "kafka", Err: err, Recovered: true}
	}
	return nil
}

func (g *PublishingGateway[T]) Subscribe(ctx context.Context, onChange func([]T)) (func(), error) {
	return g.feed.Subscribe(ctx, onChange)
}
