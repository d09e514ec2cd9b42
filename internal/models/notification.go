package models

import (
	"fmt"
	"strings"
	"time"
)

// NotificationPriority orders delivery alerts; this workflow only emits NORMAL.
type NotificationPriority string

const (
	NotificationPriorityNormal NotificationPriority = "NORMAL"
	NotificationPriorityHigh   NotificationPriority = "HIGH"
)

// ItemSummary is a display line inside a delivery notification.
type ItemSummary struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// DeliveryNotification is the ephemeral payload fanned out to the delivery
// channels after an order is confirmed. It is never persisted.
type DeliveryNotification struct {
	OrderID       string               `json:"orderId"`
	CustomerName  string               `json:"customerName"`
	CustomerPhone string               `json:"customerPhone"`
	Address       string               `json:"address"`
	Total         float64              `json:"total"`
	Items         []ItemSummary        `json:"items"`
	CreatedAt     time.Time            `json:"createdAt"`
	Priority      NotificationPriority `json:"priority"`
}

// NewDeliveryNotification builds the delivery alert for a persisted order.
func NewDeliveryNotification(order *Order) *DeliveryNotification {
	items := make([]ItemSummary, 0, len(order.Items))
	for _, item := range order.Items {
		name := item.ProductName
		if name == "" {
			name = item.ProductID
		}
		items = append(items, ItemSummary{
			Name:     name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	addr := order.ShippingAddress
	parts := []string{addr.Address, addr.City, addr.State, addr.ZipCode, addr.Country}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}

	return &DeliveryNotification{
		OrderID:       order.ID,
		CustomerName:  addr.Name,
		CustomerPhone: addr.Phone,
		Address:       strings.Join(nonEmpty, ", "),
		Total:         order.Total,
		Items:         items,
		CreatedAt:     time.Now(),
		Priority:      NotificationPriorityNormal,
	}
}

// Summary is a short human-readable line for logs.
func (n *DeliveryNotification) Summary() string {
	return fmt.Sprintf("order %s for %s (%d items, %.2f)",
		n.OrderID, n.CustomerName, len(n.Items), n.Total)
}
