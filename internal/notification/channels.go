package notification

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/tribemart/tribemart-orders-service/internal/models"
)

// Channel is a single delivery medium for order alerts. Send returns an
// error when the channel is unavailable; each channel fails independently.
type Channel interface {
	Name() string
	Send(ctx context.Context, n *models.DeliveryNotification) error
}

// SimulatedChannel stands in for a real provider SDK. It sleeps for a random
// slice of maxLatency and fails with probability failureRate, which is how
// the reference providers behave when stubbed out.
type SimulatedChannel struct {
	name        string
	failureRate float64
	maxLatency  time.Duration
	logger      *slog.Logger
}

// NewSimulatedChannel creates a simulated delivery channel.
func NewSimulatedChannel(name string, failureRate float64, maxLatency time.Duration, logger *slog.Logger) *SimulatedChannel {
	return &SimulatedChannel{
		name:        name,
		failureRate: failureRate,
		maxLatency:  maxLatency,
		logger:      logger,
	}
}

func (c *SimulatedChannel) Name() string { return c.name }

func (c *SimulatedChannel) Send(ctx context.Context, n *models.DeliveryNotification) error {
	if c.maxLatency > 0 {
		delay := time.Duration(rand.Int63n(int64(c.maxLatency)))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if rand.Float64() < c.failureRate {
		return fmt.Errorf("%s channel unavailable", c.name)
	}

	c.logger.Debug("notification delivered",
		"channel", c.name, "order_id", n.OrderID, "recipient", n.CustomerPhone)
	return nil
}

// DefaultChannels returns the four channels an order confirmation fans out
// to: SMS, email, push and WhatsApp.
func DefaultChannels(failureRate float64, maxLatency time.Duration, logger *slog.Logger) []Channel {
	return []Channel{
		NewSimulatedChannel("sms", failureRate, maxLatency, logger),
		NewSimulatedChannel("email", failureRate, maxLatency, logger),
		NewSimulatedChannel("push", failureRate, maxLatency, logger),
		NewSimulatedChannel("whatsapp", failureRate, maxLatency, logger),
	}
}
