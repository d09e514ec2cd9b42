package notification

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tribemart/tribemart-orders-service/internal/models"
)

// Dispatcher fans a delivery notification out to every configured channel.
// It is best-effort: the caller's order is already persisted and dispatch
// outcomes are only ever logged.
type Dispatcher struct {
	channels []Channel
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over the given channels.
func NewDispatcher(channels []Channel, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{channels: channels, logger: logger}
}

type channelResult struct {
	channel string
	err     error
}

// Dispatch builds the delivery alert for order and attempts every channel
// concurrently. It returns true if at least one channel succeeded. It never
// short-circuits on the first failure; every channel gets its attempt.
func (d *Dispatcher) Dispatch(ctx context.Context, order *models.Order) bool {
	n := models.NewDeliveryNotification(order)

	results := make(chan channelResult, len(d.channels))
	var wg sync.WaitGroup

	for _, ch := range d.channels {
		wg.Add(1)
		go func(ch Channel) {
			defer wg.Done()
			results <- channelResult{channel: ch.Name(), err: ch.Send(ctx, n)}
		}(ch)
	}

	wg.Wait()
	close(results)

	succeeded := 0
	for res := range results {
		if res.err != nil {
			d.logger.Warn("notification channel failed",
				"channel", res.channel, "order_id", order.ID, "error", res.err)
			continue
		}
		succeeded++
	}

	if succeeded == 0 {
		d.logger.Warn("all notification channels failed",
			"order_id", order.ID, "channels", len(d.channels))
		return false
	}

	d.logger.Info("delivery notification dispatched",
		"order_id", order.ID, "succeeded", succeeded, "channels", len(d.channels),
		"summary", n.Summary())
	return true
}
