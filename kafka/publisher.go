package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/batch-inventory/internal/inventory/domain"
	"github.com/tair/batch-inventory/pkg/logger"
)

// Publisher wraps Kafka producer
type Publisher struct {
	producer sarama.SyncProducer
	brokers  []string
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return NewPublisherWithProducer(producer, brokers), nil
}

// NewPublisherWithProducer creates a publisher around an existing producer
func NewPublisherWithProducer(producer sarama.SyncProducer, brokers []string) *Publisher {
	return &Publisher{
		producer: producer,
		brokers:  brokers,
	}
}

// PublishProductRegistered publishes a product registered event with tracing
func (p *Publisher) PublishProductRegistered(ctx context.Context, event domain.ProductRegisteredEvent) error {
	msg := ProductRegisteredEvent{
		EventID:   newEventID(),
		EventType: EventTypeProductRegistered,
		ProductID: event.ProductID,
		Name:      event.Name,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, TopicProductRegistered, msg.EventType, msg.EventID, event.ProductID, msg)
}

// PublishBatchRecorded publishes a batch recorded event with tracing
func (p *Publisher) PublishBatchRecorded(ctx context.Context, event domain.BatchRecordedEvent) error {
	msg := BatchRecordedEvent{
		EventID:        newEventID(),
		EventType:      EventTypeBatchRecorded,
		BatchID:        event.BatchID,
		Code:           event.Code,
		ProductID:      event.ProductID,
		Quantity:       event.Quantity,
		TotalQuantity:  event.TotalQuantity,
		ProductionDate: domain.FormatDate(event.ProductionDate),
		ExpirationDate: domain.FormatDate(event.ExpirationDate),
		Timestamp:      time.Now(),
	}
	return p.publish(ctx, TopicBatchRecorded, msg.EventType, msg.EventID, event.ProductID, msg)
}

func (p *Publisher) publish(ctx context.Context, topic, eventType, eventID string, productID uint, payload interface{}) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish."+eventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", topic),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("event.type", eventType),
			attribute.String("event.id", eventID),
			attribute.Int64("product.id", int64(productID)),
		),
	)
	defer span.End()

	eventBytes, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Inject trace context into Kafka headers
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(eventType)},
		{Key: []byte("event_id"), Value: []byte(eventID)},
	}
	for key, value := range carrier {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte(key),
			Value: []byte(value),
		})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(fmt.Sprintf("product_%d", productID)),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Error(ctx).
			Err(err).
			Str("topic", topic).
			Uint("product_id", productID).
			Msg("Failed to publish event")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published successfully")

	logger.Info(ctx).
		Str("event_id", eventID).
		Str("event_type", eventType).
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Uint("product_id", productID).
		Msg("Event published")

	return nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		logger.Logger.Error().Err(err).Strs("brokers", p.brokers).Msg("Failed to close Kafka publisher")
		return err
	}
	logger.Logger.Info().Strs("brokers", p.brokers).Msg("Kafka publisher closed")
	return nil
}

func newEventID() string {
	return "evt_" + uuid.NewString()
}
