package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// Valid reports whether s is one of the five known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentMethod selects between cash on delivery and the online gateway.
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "COD"
	PaymentMethodOnline PaymentMethod = "ONLINE"
)

// PaymentStatus tracks whether the order has been paid.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
)

// DefaultCountry is used when the shipping address omits a country.
const DefaultCountry = "India"

// ShippingAddress holds the delivery destination captured at order time.
type ShippingAddress struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// OrderItem is a single line of an order. Price is the unit price captured
// at order time and never changes with later product price updates.
type OrderItem struct {
	ID          int64   `json:"id"`
	OrderID     string  `json:"orderId"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Order is the persisted order aggregate. Total is fixed at creation and
// always equals the sum of item price x quantity.
type Order struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	Status           OrderStatus     `json:"status"`
	Total            float64         `json:"total"`
	ShippingAddress  ShippingAddress `json:"shippingAddress"`
	PaymentMethod    PaymentMethod   `json:"paymentMethod"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus"`
	GatewayOrderID   string          `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID string          `json:"gatewayPaymentId,omitempty"`
	Items            []OrderItem     `json:"items"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// OrderItemInput is a cart line in an order creation request.
type OrderItemInput struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// CreateOrderRequest is the body of POST /orders and the order payload
// carried inside a payment verification request.
type CreateOrderRequest struct {
	Items           []OrderItemInput `json:"items"`
	Total           float64          `json:"total"`
	ShippingAddress ShippingAddress  `json:"shippingAddress"`
	PaymentMethod   PaymentMethod    `json:"paymentMethod"`
}

// UpdateOrderStatusRequest is the body of PATCH /orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}

// OrderListFilter narrows and pages an owner-scoped order listing.
type OrderListFilter struct {
	UserID string
	Status *OrderStatus
	Page   int
	Limit  int
}

// CreateGatewayOrderRequest is the body of POST /payments/orders.
type CreateGatewayOrderRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// VerifyPaymentRequest is the body of POST /payments/verify. Order carries
// the original order data; it is only persisted after the signature checks out.
type VerifyPaymentRequest struct {
	GatewayOrderID   string             `json:"gatewayOrderId"`
	GatewayPaymentID string             `json:"gatewayPaymentId"`
	Signature        string             `json:"signature"`
	Order            CreateOrderRequest `json:"orderData"`
}

// GatewayOrder is the descriptor returned by the payment gateway when a
// payment intent is opened. Amount is in the gateway's minor currency unit.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}
