package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderType represents how an order is fulfilled.
type OrderType string

const (
	DineIn   OrderType = "Dine-in"
	Takeaway OrderType = "Takeaway"
)

// OrderStatus represents the lifecycle status of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPreparing OrderStatus = "Preparing"
	StatusReady     OrderStatus = "Ready"
	StatusCompleted OrderStatus = "Completed"
	StatusCancelled OrderStatus = "Cancelled"
)

// PaymentMethod represents how an order is paid.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentCard   PaymentMethod = "Card"
	PaymentOnline PaymentMethod = "Online"
)

// KitchenStatuses are the statuses visible on the kitchen queue.
var KitchenStatuses = []OrderStatus{StatusPending, StatusPreparing, StatusReady}

// OrderItem is a line item snapshotting the menu item's name and price at
// order-creation time. Later catalog changes never alter it.
type OrderItem struct {
	MenuItemID uuid.UUID `json:"menuItem"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	Quantity   int       `json:"quantity"`
}

// Order is an immutable-at-creation priced purchase record. Only Status may
// change after creation; there is no delete operation.
type Order struct {
	ID            uuid.UUID      `json:"orderId"`
	Type          OrderType      `json:"type"`
	Status        OrderStatus    `json:"status"`
	PaymentMethod PaymentMethod  `json:"paymentMethod,omitempty"`
	Items         []OrderItem    `json:"items"`
	TotalAmount   float64        `json:"totalAmount"`
	Client        *ClientSummary `json:"client,omitempty"`
	User          *UserSummary   `json:"user,omitempty"`
	Table         *TableSummary  `json:"table,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// CartItem is a single requested line in an order payload. Any price supplied
// by the caller is ignored; pricing is always re-read from the menu catalog.
type CartItem struct {
	MenuItemID uuid.UUID `json:"menuItem"`
	Quantity   int       `json:"quantity"`
}

// CreateOrderRequest is the payload of POST /orders.
type CreateOrderRequest struct {
	Type          string     `json:"type"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	Items         []CartItem `json:"items"`
	ClientID      *uuid.UUID `json:"clientId,omitempty"`
	ClientPhone   string     `json:"clientPhone,omitempty"`
	ClientName    string     `json:"clientName,omitempty"`
	TableID       *uuid.UUID `json:"tableId,omitempty"`
	UserID        *uuid.UUID `json:"userId,omitempty"`
}

// UpdateOrderStatusRequest is the payload of PATCH /orders/{id}/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderStatusHistory is one entry in an order's status log.
type OrderStatusHistory struct {
	Status    OrderStatus `json:"status"`
	ChangedBy string      `json:"changedBy"`
	ChangedAt time.Time   `json:"changedAt"`
	Notes     *string     `json:"notes,omitempty"`
}

// Validate checks the create order request. Client identity fields are
// validated later by the client directory, which knows whether the phone has
// been seen before.
func (req *CreateOrderRequest) Validate() error {
	if _, err := ParseOrderType(req.Type); err != nil {
		return err
	}
	if req.PaymentMethod != "" {
		if _, err := ParsePaymentMethod(req.PaymentMethod); err != nil {
			return err
		}
	}
	if len(req.Items) == 0 {
		return ValidationError("order must contain at least one item")
	}
	for i, item := range req.Items {
		if item.MenuItemID == uuid.Nil {
			return ValidationError("items[%d].menuItem is required", i)
		}
		if item.Quantity < 1 {
			return ValidationError("items[%d].quantity must be at least 1", i)
		}
	}
	if req.ClientID == nil && req.ClientPhone == "" {
		return ValidationError("clientId or clientPhone is required")
	}
	return nil
}

// ParseOrderType validates and converts an order type string.
func ParseOrderType(s string) (OrderType, error) {
	switch OrderType(s) {
	case DineIn, Takeaway:
		return OrderType(s), nil
	default:
		return "", ValidationError("type must be one of: Dine-in, Takeaway")
	}
}

// ParseOrderStatus validates and converts an order status string.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return OrderStatus(s), nil
	default:
		return "", ValidationError("status must be one of: Pending, Preparing, Ready, Completed, Cancelled")
	}
}

// ParsePaymentMethod validates and converts a payment method string.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCash, PaymentCard, PaymentOnline:
		return PaymentMethod(s), nil
	default:
		return "", ValidationError("paymentMethod must be one of: Cash, Card, Online")
	}
}

// IsTerminal reports whether the status ends the kitchen lifecycle.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
