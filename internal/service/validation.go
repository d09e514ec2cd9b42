package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/tribemart/tribemart-orders-service/internal/apperrors"
	"github.com/tribemart/tribemart-orders-service/internal/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	// totalEpsilon tolerates float rounding when checking the order total
	// against the item sum.
	totalEpsilon = 0.01
)

// ValidateCreateOrderRequest validates and normalizes an order creation
// request: shipping fields are trimmed, a blank country gets the default,
// and the total must equal the item sum.
func ValidateCreateOrderRequest(req *models.CreateOrderRequest) error {
	if len(req.Items) == 0 {
		return apperrors.NewValidationError("items", "at least one item is required")
	}

	var sum float64
	for i, item := range req.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return apperrors.NewValidationError("items", fmt.Sprintf("product ID is required for item %d", i))
		}
		if item.Quantity <= 0 {
			return apperrors.NewValidationError("items", fmt.Sprintf("quantity must be positive for item %d", i))
		}
		if item.Price < 0 {
			return apperrors.NewValidationError("items", fmt.Sprintf("price cannot be negative for item %d", i))
		}
		sum += item.Price * float64(item.Quantity)
	}

	if req.Total <= 0 {
		return apperrors.NewValidationError("total", "total must be positive")
	}
	if math.Abs(req.Total-sum) > totalEpsilon {
		return apperrors.NewValidationError("total", "total does not match the sum of item prices")
	}

	if err := validateShippingAddress(&req.ShippingAddress); err != nil {
		return err
	}

	switch req.PaymentMethod {
	case "", models.PaymentMethodCOD, models.PaymentMethodOnline:
	default:
		return apperrors.NewValidationError("paymentMethod", "unknown payment method")
	}

	return nil
}

func validateShippingAddress(addr *models.ShippingAddress) error {
	fields := []struct {
		name  string
		value *string
	}{
		{"name", &addr.Name},
		{"phone", &addr.Phone},
		{"address", &addr.Address},
		{"city", &addr.City},
		{"state", &addr.State},
		{"zipCode", &addr.ZipCode},
	}

	for _, f := range fields {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			return apperrors.NewValidationError("shippingAddress."+f.name, f.name+" is required")
		}
	}

	addr.Country = strings.TrimSpace(addr.Country)
	if addr.Country == "" {
		addr.Country = models.DefaultCountry
	}

	return nil
}

// ValidateUpdateOrderStatusRequest checks the status is a known value.
func ValidateUpdateOrderStatusRequest(req *models.UpdateOrderStatusRequest) error {
	if req.Status == "" {
		return apperrors.NewValidationError("status", "status is required")
	}
	if !req.Status.Valid() {
		return apperrors.NewValidationError("status", "invalid order status")
	}
	return nil
}

// ValidateGatewayOrderRequest checks a gateway order opening request.
func ValidateGatewayOrderRequest(req *models.CreateGatewayOrderRequest) error {
	if req.Amount <= 0 {
		return apperrors.NewValidationError("amount", "amount must be positive")
	}
	return nil
}

// NormalizeListFilter applies pagination defaults and caps, and validates
// the status filter.
func NormalizeListFilter(filter *models.OrderListFilter) error {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return apperrors.NewValidationError("status", "invalid order status")
	}
	return nil
}
