package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"overcooked-catalog/catalog-svc/internal/domain"
	"overcooked-catalog/catalog-svc/internal/logging"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaMessage is the JSON payload published for every catalog event.
type KafkaMessage struct {
	Type string `json:"type"`
	domain.Event
}

// KafkaPublisher forwards catalog events to a Kafka topic keyed by entity name.
type KafkaPublisher struct {
	Writer  MessageWriter
	Timeout time.Duration
	logger  *logging.Logger
}

func NewKafkaPublisher(writer MessageWriter, logger *logging.Logger) *KafkaPublisher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &KafkaPublisher{Writer: writer, Timeout: 5 * time.Second, logger: logger}
}

func (p *KafkaPublisher) PublishEvent(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(KafkaMessage{Type: event.Type(), Event: event})
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Name),
		Value: payload,
		Time:  event.Timestamp,
	})
}

// Notify publishes event, logging instead of failing the catalog operation.
func (p *KafkaPublisher) Notify(event domain.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
	defer cancel()

	if err := p.PublishEvent(ctx, event); err != nil {
		p.logger.Warn("failed to publish catalog event",
			zap.String("type", event.Type()),
			zap.String("name", event.Name),
			zap.Error(err),
		)
	}
}
