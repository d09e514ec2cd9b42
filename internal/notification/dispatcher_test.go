package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tribemart/tribemart-orders-service/internal/logging"
	"github.com/tribemart/tribemart-orders-service/internal/models"
)

type stubChannel struct {
	name string
	err  error

	mu    sync.Mutex
	calls int
}

func (c *stubChannel) Name() string { return c.name }

func (c *stubChannel) Send(ctx context.Context, n *models.DeliveryNotification) error {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.err
}

func (c *stubChannel) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func testOrder() *models.Order {
	return &models.Order{
		ID:     "ord_test",
		UserID: "user_1",
		Total:  5000,
		ShippingAddress: models.ShippingAddress{
			Name:    "Asha",
			Phone:   "9876543210",
			Address: "12 Weaver Lane",
			City:    "Jaipur",
			State:   "Rajasthan",
			ZipCode: "302001",
			Country: "India",
		},
		Items: []models.OrderItem{
			{ProductID: "p1", ProductName: "Block Print Stole", Quantity: 2, Price: 2500},
		},
	}
}

func TestDispatch_AllSucceed(t *testing.T) {
	channels := []Channel{
		&stubChannel{name: "sms"},
		&stubChannel{name: "email"},
		&stubChannel{name: "push"},
		&stubChannel{name: "whatsapp"},
	}
	d := NewDispatcher(channels, logging.New("test"))

	if !d.Dispatch(context.Background(), testOrder()) {
		t.Error("expected dispatch to succeed when all channels succeed")
	}
}

func TestDispatch_PartialFailureStillSucceeds(t *testing.T) {
	down := errors.New("provider down")
	channels := []Channel{
		&stubChannel{name: "sms", err: down},
		&stubChannel{name: "email", err: down},
		&stubChannel{name: "push", err: down},
		&stubChannel{name: "whatsapp"},
	}
	d := NewDispatcher(channels, logging.New("test"))

	if !d.Dispatch(context.Background(), testOrder()) {
		t.Error("expected dispatch to succeed when one channel succeeds")
	}
}

func TestDispatch_TotalFailure(t *testing.T) {
	down := errors.New("provider down")
	stubs := []*stubChannel{
		{name: "sms", err: down},
		{name: "email", err: down},
		{name: "push", err: down},
		{name: "whatsapp", err: down},
	}
	channels := make([]Channel, len(stubs))
	for i, s := range stubs {
		channels[i] = s
	}
	d := NewDispatcher(channels, logging.New("test"))

	if d.Dispatch(context.Background(), testOrder()) {
		t.Error("expected dispatch to report failure when every channel fails")
	}

	// Every channel must still have been attempted; no short-circuit.
	for _, s := range stubs {
		if s.callCount() != 1 {
			t.Errorf("channel %s attempted %d times, expected 1", s.name, s.callCount())
		}
	}
}

func TestNewDeliveryNotification(t *testing.T) {
	n := models.NewDeliveryNotification(testOrder())

	if n.OrderID != "ord_test" {
		t.Errorf("unexpected order id %q", n.OrderID)
	}
	if n.CustomerName != "Asha" || n.CustomerPhone != "9876543210" {
		t.Errorf("unexpected customer fields %q %q", n.CustomerName, n.CustomerPhone)
	}
	if n.Address != "12 Weaver Lane, Jaipur, Rajasthan, 302001, India" {
		t.Errorf("unexpected flattened address %q", n.Address)
	}
	if n.Priority != models.NotificationPriorityNormal {
		t.Errorf("expected NORMAL priority, got %q", n.Priority)
	}
	if len(n.Items) != 1 || n.Items[0].Name != "Block Print Stole" || n.Items[0].Quantity != 2 {
		t.Errorf("unexpected item summaries %+v", n.Items)
	}
}

func TestDefaultChannels(t *testing.T) {
	channels := DefaultChannels(0, 0, logging.New("test"))

	if len(channels) != 4 {
		t.Fatalf("expected 4 channels, got %d", len(channels))
	}

	names := map[string]bool{}
	for _, ch := range channels {
		names[ch.Name()] = true
	}
	for _, want := range []string{"sms", "email", "push", "whatsapp"} {
		if !names[want] {
			t.Errorf("missing channel %q", want)
		}
	}
}

func TestSimulatedChannel_AlwaysFails(t *testing.T) {
	ch := NewSimulatedChannel("sms", 1.0, 0, logging.New("test"))

	if err := ch.Send(context.Background(), models.NewDeliveryNotification(testOrder())); err == nil {
		t.Error("expected channel with failure rate 1.0 to fail")
	}
}

func TestSimulatedChannel_NeverFails(t *testing.T) {
	ch := NewSimulatedChannel("email", 0, 0, logging.New("test"))

	if err := ch.Send(context.Background(), models.NewDeliveryNotification(testOrder())); err != nil {
		t.Errorf("expected channel with failure rate 0 to succeed, got %v", err)
	}
}
