package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tribemart/tribemart-orders-service/internal/apperrors"
	"github.com/tribemart/tribemart-orders-service/internal/config"
	"github.com/tribemart/tribemart-orders-service/internal/models"
)

// OrderService handles order business logic. All operations take the caller's
// verified user id explicitly; nothing is read from ambient session state.
type OrderService struct {
	orderRepo  OrderRepository
	orderCache OrderCache
	publisher  EventPublisher
	notifier   Notifier
	verifier   SignatureVerifier
	config     *config.Config
	logger     *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo OrderRepository,
	orderCache OrderCache,
	publisher EventPublisher,
	notifier Notifier,
	verifier SignatureVerifier,
	cfg *config.Config,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		orderCache: orderCache,
		publisher:  publisher,
		notifier:   notifier,
		verifier:   verifier,
		config:     cfg,
		logger:     logger,
	}
}

// CreateCODOrder validates and persists a cash-on-delivery order. Online
// orders never enter here; they go through VerifyAndFinalize.
func (s *OrderService) CreateCODOrder(ctx context.Context, userID string, req *models.CreateOrderRequest, correlationID string) (*models.Order, error) {
	if req.PaymentMethod == models.PaymentMethodOnline {
		return nil, apperrors.NewValidationError("paymentMethod",
			"online orders are created through payment verification")
	}
	if err := ValidateCreateOrderRequest(req); err != nil {
		return nil, err
	}

	order := s.buildOrder(userID, req)
	order.PaymentMethod = models.PaymentMethodCOD
	order.PaymentStatus = models.PaymentStatusPending

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.afterCreate(ctx, order, correlationID)
	return order, nil
}

// VerifyAndFinalize checks the gateway signature and, only on a match,
// persists the online order as paid. On mismatch nothing is created.
func (s *OrderService) VerifyAndFinalize(ctx context.Context, userID string, req *models.VerifyPaymentRequest, correlationID string) (*models.Order, error) {
	if err := s.verifier.Verify(req.GatewayOrderID, req.GatewayPaymentID, req.Signature); err != nil {
		s.logger.Warn("payment signature rejected",
			"gateway_order_id", req.GatewayOrderID,
			"gateway_payment_id", req.GatewayPaymentID,
			"user_id", userID)
		return nil, err
	}

	if err := ValidateCreateOrderRequest(&req.Order); err != nil {
		return nil, err
	}

	order := s.buildOrder(userID, &req.Order)
	order.PaymentMethod = models.PaymentMethodOnline
	order.PaymentStatus = models.PaymentStatusCompleted
	order.GatewayOrderID = req.GatewayOrderID
	order.GatewayPaymentID = req.GatewayPaymentID

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("online order finalized",
		"order_id", order.ID, "gateway_payment_id", order.GatewayPaymentID)

	s.afterCreate(ctx, order, correlationID)
	return order, nil
}

// GetOrder retrieves a single order scoped to its owner. A foreign order id
// is indistinguishable from a missing one.
func (s *OrderService) GetOrder(ctx context.Context, userID, id string) (*models.Order, error) {
	if s.config.Features.EnableOrderCaching {
		if order, err := s.orderCache.Get(ctx, id); err == nil && order != nil {
			if order.UserID != userID {
				return nil, apperrors.ErrNotFound
			}
			return order, nil
		}
	}

	order, err := s.orderRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if s.config.Features.EnableOrderCaching {
		_ = s.orderCache.Set(ctx, order)
	}
	return order, nil
}

// ListOrders retrieves the caller's orders, optionally filtered by status.
func (s *OrderService) ListOrders(ctx context.Context, userID string, filter *models.OrderListFilter) ([]*models.Order, int, error) {
	filter.UserID = userID
	if err := NormalizeListFilter(filter); err != nil {
		return nil, 0, err
	}

	firstPlainPage := filter.Page == 1 && filter.Status == nil && filter.Limit == defaultPageSize

	if s.config.Features.EnableOrderCaching && firstPlainPage {
		if orders, total, err := s.orderCache.GetUserOrders(ctx, userID); err == nil && orders != nil {
			return orders, total, nil
		}
	}

	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if s.config.Features.EnableOrderCaching && firstPlainPage {
		_ = s.orderCache.SetUserOrders(ctx, userID, orders, total)
	}
	return orders, total, nil
}

// UpdateStatus overwrites an order's status. Any of the five known values is
// settable; callers gate this behind the admin role.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, req *models.UpdateOrderStatusRequest, correlationID string) (*models.Order, error) {
	if err := ValidateUpdateOrderStatusRequest(req); err != nil {
		return nil, err
	}

	order, previous, err := s.orderRepo.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return nil, err
	}

	if s.config.Features.EnableOrderCaching {
		_ = s.orderCache.Delete(ctx, id)
		_ = s.orderCache.InvalidateUserOrders(ctx, order.UserID)
	}

	if s.config.Features.EnableOrderEvents {
		if err := s.publisher.PublishOrderStatusChanged(ctx, order, previous, correlationID); err != nil {
			s.logger.Error("failed to publish status change event",
				"order_id", order.ID, "error", err)
		}
	}

	return order, nil
}

func (s *OrderService) buildOrder(userID string, req *models.CreateOrderRequest) *models.Order {
	now := time.Now()

	items := make([]models.OrderItem, len(req.Items))
	for i, in := range req.Items {
		items[i] = models.OrderItem{
			ProductID:   in.ProductID,
			ProductName: in.ProductName,
			Quantity:    in.Quantity,
			Price:       in.Price,
		}
	}

	return &models.Order{
		ID:              "ord_" + uuid.NewString(),
		UserID:          userID,
		Status:          models.OrderStatusPending,
		Total:           req.Total,
		ShippingAddress: req.ShippingAddress,
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// afterCreate runs the post-persistence side effects: cache fill, event
// publish and the fire-and-forget notification fan-out. None of them can
// fail the request; the order is already durable.
func (s *OrderService) afterCreate(ctx context.Context, order *models.Order, correlationID string) {
	if s.config.Features.EnableOrderCaching {
		_ = s.orderCache.Set(ctx, order)
		_ = s.orderCache.InvalidateUserOrders(ctx, order.UserID)
	}

	if s.config.Features.EnableOrderEvents {
		if err := s.publisher.PublishOrderCreated(ctx, order, correlationID); err != nil {
			s.logger.Error("failed to publish order created event",
				"order_id", order.ID, "error", err)
		}
	}

	timeout := s.config.Notifications.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	go func() {
		// Detached from the request context on purpose: the response
		// does not wait for notification delivery.
		nctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		s.notifier.Dispatch(nctx, order)
	}()
}
