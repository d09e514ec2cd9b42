package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tribemart/tribemart-orders-service/internal/middleware"
	"github.com/tribemart/tribemart-orders-service/internal/models"
)

// CreateGatewayOrder handles POST /api/v1/payments/orders. It opens a payment
// order at the gateway; no storefront order is created yet.
func (h *Handlers) CreateGatewayOrder(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.CreateGatewayOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.paymentService.CreateGatewayOrder(c.Request.Context(), identity.UserID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, order)
}

// VerifyPayment handles POST /api/v1/payments/verify. On a valid signature
// the order is persisted as paid; on mismatch nothing is created.
func (h *Handlers) VerifyPayment(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.VerifyAndFinalize(
		c.Request.Context(), identity.UserID, &req, middleware.RequestIDFrom(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"order":            order,
		"gatewayOrderId":   order.GatewayOrderID,
		"gatewayPaymentId": order.GatewayPaymentID,
		"paymentStatus":    order.PaymentStatus,
	})
}
