package execution

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer used by the publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConfig holds producer settings.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// KafkaPublisher publishes live trade intents to a Kafka topic.
type KafkaPublisher struct {
	writer  MessageWriter
	timeout time.Duration
	log     Logger
	logger  zerolog.Logger
}

// NewKafkaWriter creates a synchronous writer for cfg.
func NewKafkaWriter(cfg KafkaConfig) (*kafka.Writer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

// NewKafkaPublisher wraps writer. Publish outcomes are reported to sink.
func NewKafkaPublisher(writer MessageWriter, timeout time.Duration, sink Logger) *KafkaPublisher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &KafkaPublisher{
		writer:  writer,
		timeout: timeout,
		log:     sink,
		logger:  log.With().Str("component", "kafka_publisher").Logger(),
	}
}

// Execute publishes a buy intent keyed by symbol.
func (p *KafkaPublisher) Execute(symbol string, amount float64, dryRun bool) {
	intent := NewTradeIntent(symbol, amount, dryRun)
	if err := p.Publish(context.Background(), intent); err != nil {
		p.logger.Error().Err(err).Str("symbol", symbol).Msg("Failed to publish trade intent")
		p.log.Log(fmt.Sprintf("failed to publish buy intent for %s: %v", symbol, err))
		return
	}
	p.log.Log(fmt.Sprintf("buy intent %s sent for %s (amount %s)", intent.ID, symbol, intent.Amount.StringFixed(2)))
}

// Publish writes intent to the topic.
func (p *KafkaPublisher) Publish(ctx context.Context, intent TradeIntent) error {
	value, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("marshal intent: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(intent.Symbol),
		Value: value,
		Time:  intent.CreatedAt,
	})
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
