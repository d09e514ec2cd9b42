package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/tribemart/tribemart-orders-service/internal/config"
	"github.com/tribemart/tribemart-orders-service/internal/models"
)

// EventType represents the type of order event.
type EventType string

const (
	EventTypeOrderCreated       EventType = "order.created"
	EventTypeOrderStatusChanged EventType = "order.status_changed"
)

// OrderEvent is the envelope published to the orders topic.
type OrderEvent struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	OrderID       string          `json:"orderId"`
	UserID        string          `json:"userId"`
	Data          json.RawMessage `json:"data"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlationId,omitempty"`
}

// KafkaPublisher publishes order events to Kafka, keyed by order id.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewKafkaPublisher creates a new Kafka-based event publisher.
func NewKafkaPublisher(cfg *config.Config, logger *slog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.OrdersTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{writer: writer, logger: logger}
}

// PublishOrderCreated publishes an order created event.
func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order *models.Order, correlationID string) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return p.publish(ctx, &OrderEvent{
		ID:            uuid.NewString(),
		Type:          EventTypeOrderCreated,
		OrderID:       order.ID,
		UserID:        order.UserID,
		Data:          data,
		Timestamp:     time.Now(),
		CorrelationID: correlationID,
	})
}

// PublishOrderStatusChanged publishes an order status change event.
func (p *KafkaPublisher) PublishOrderStatusChanged(ctx context.Context, order *models.Order, previous models.OrderStatus, correlationID string) error {
	payload := struct {
		Order          *models.Order      `json:"order"`
		PreviousStatus models.OrderStatus `json:"previousStatus"`
		NewStatus      models.OrderStatus `json:"newStatus"`
	}{order, previous, order.Status}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.publish(ctx, &OrderEvent{
		ID:            uuid.NewString(),
		Type:          EventTypeOrderStatusChanged,
		OrderID:       order.ID,
		UserID:        order.UserID,
		Data:          data,
		Timestamp:     time.Now(),
		CorrelationID: correlationID,
	})
}

func (p *KafkaPublisher) publish(ctx context.Context, event *OrderEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish event",
			"event_id", event.ID, "event_type", event.Type,
			"order_id", event.OrderID, "error", err)
		return err
	}

	p.logger.Info("event published",
		"event_id", event.ID, "event_type", event.Type, "order_id", event.OrderID)
	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
