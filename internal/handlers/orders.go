package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tribemart/tribemart-orders-service/internal/middleware"
	"github.com/tribemart/tribemart-orders-service/internal/models"
)

// CreateOrder handles POST /api/v1/orders (cash on delivery).
func (h *Handlers) CreateOrder(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.CreateCODOrder(
		c.Request.Context(), identity.UserID, &req, middleware.RequestIDFrom(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	respond(c, http.StatusCreated, order)
}

// ListOrders handles GET /api/v1/orders.
func (h *Handlers) ListOrders(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter := &models.OrderListFilter{}

	if status := c.Query("status"); status != "" {
		s := models.OrderStatus(status)
		filter.Status = &s
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.Limit = limit
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), identity.UserID, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   filter.Page,
		"limit":  filter.Limit,
	})
}

// GetOrder handles GET /api/v1/orders/:id.
func (h *Handlers) GetOrder(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), identity.UserID, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, order)
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status. The admin gate
// runs in middleware before this handler.
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.UpdateStatus(
		c.Request.Context(), c.Param("id"), &req, middleware.RequestIDFrom(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, order)
}
