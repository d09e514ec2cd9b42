package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tribemart/tribemart-orders-service/internal/apperrors"
	"github.com/tribemart/tribemart-orders-service/internal/service"
)

// Handlers holds all HTTP handlers for the orders service.
type Handlers struct {
	orderService   *service.OrderService
	paymentService *service.PaymentService
	logger         *slog.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(orderService *service.OrderService, paymentService *service.PaymentService, logger *slog.Logger) *Handlers {
	return &Handlers{
		orderService:   orderService,
		paymentService: paymentService,
		logger:         logger,
	}
}

// respond writes the success envelope.
func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// fail writes the failure envelope with a short human message.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// handleError maps the error taxonomy to HTTP statuses. Upstream detail is
// logged server-side and never reaches the client.
func (h *Handlers) handleError(c *gin.Context, err error) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		fail(c, http.StatusBadRequest, validationErr.Error())
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrPaymentVerification):
		fail(c, http.StatusBadRequest, "payment verification failed")
	case errors.Is(err, apperrors.ErrNotFound):
		fail(c, http.StatusNotFound, "not found")
	case errors.Is(err, apperrors.ErrUnauthorized):
		fail(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, apperrors.ErrForbidden):
		fail(c, http.StatusForbidden, "forbidden")
	default:
		h.logger.Error("request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
		fail(c, http.StatusInternalServerError, "internal server error")
	}
}
