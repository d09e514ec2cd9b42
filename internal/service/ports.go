package service

import (
	"context"

	"github.com/tribemart/tribemart-orders-service/internal/models"
)

// OrderRepository is the persistence contract the services depend on. Create
// is atomic over the order and its items; reads are owner-scoped.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id, userID string) (*models.Order, error)
	List(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, models.OrderStatus, error)
}

// OrderCache caches orders and first-page user listings.
type OrderCache interface {
	Get(ctx context.Context, id string) (*models.Order, error)
	Set(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id string) error
	GetUserOrders(ctx context.Context, userID string) ([]*models.Order, int, error)
	SetUserOrders(ctx context.Context, userID string, orders []*models.Order, total int) error
	InvalidateUserOrders(ctx context.Context, userID string) error
}

// EventPublisher publishes order lifecycle events.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order, correlationID string) error
	PublishOrderStatusChanged(ctx context.Context, order *models.Order, previous models.OrderStatus, correlationID string) error
}

// Notifier fans out the delivery alert for a confirmed order. The return
// value reports whether at least one channel succeeded.
type Notifier interface {
	Dispatch(ctx context.Context, order *models.Order) bool
}

// Gateway opens payment orders against the payment provider.
type Gateway interface {
	CreateOrder(ctx context.Context, amount float64, currency string) (*models.GatewayOrder, error)
}

// SignatureVerifier checks that a payment confirmation was signed by the
// gateway.
type SignatureVerifier interface {
	Verify(gatewayOrderID, gatewayPaymentID, signature string) error
}
