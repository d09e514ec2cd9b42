package service

import (
	"context"
	"log/slog"

	"github.com/tribemart/tribemart-orders-service/internal/models"
)

// PaymentService opens gateway payment orders ahead of online checkout. No
// storefront order exists until the payment is verified.
type PaymentService struct {
	gateway Gateway
	logger  *slog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(gateway Gateway, logger *slog.Logger) *PaymentService {
	return &PaymentService{gateway: gateway, logger: logger}
}

// CreateGatewayOrder opens a payment order for the given amount and returns
// the gateway descriptor for the client to complete checkout against.
func (s *PaymentService) CreateGatewayOrder(ctx context.Context, userID string, req *models.CreateGatewayOrderRequest) (*models.GatewayOrder, error) {
	if err := ValidateGatewayOrderRequest(req); err != nil {
		return nil, err
	}

	order, err := s.gateway.CreateOrder(ctx, req.Amount, req.Currency)
	if err != nil {
		s.logger.Error("failed to open gateway order",
			"user_id", userID, "amount", req.Amount, "error", err)
		return nil, err
	}

	s.logger.Info("gateway order opened",
		"user_id", userID, "gateway_order_id", order.ID, "amount", order.Amount)
	return order, nil
}
