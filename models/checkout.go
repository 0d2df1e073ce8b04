package models

import "time"

// ReceiptStatusCompleted is the only status a receipt can carry.
const ReceiptStatusCompleted = "completed"

// CheckoutEventType is the event name published after a checkout.
const CheckoutEventType = "checkout.completed"

type ReceiptItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Subtotal  string  `json:"subtotal"`
}

// Receipt is returned by checkout and never stored.
type Receipt struct {
	OrderID       string        `json:"orderId"`
	CustomerName  string        `json:"customerName"`
	CustomerEmail string        `json:"customerEmail"`
	Items         []ReceiptItem `json:"items"`
	Total         string        `json:"total"`
	Timestamp     time.Time     `json:"timestamp"`
	Status        string        `json:"status"`
}

// CheckoutEvent is published to the configured event sink.
type CheckoutEvent struct {
	Event         string        `json:"event"`
	OrderID       string        `json:"orderId"`
	UserID        string        `json:"userId"`
	CustomerEmail string        `json:"customerEmail"`
	Items         []ReceiptItem `json:"items"`
	Total         string        `json:"total"`
	Timestamp     time.Time     `json:"timestamp"`
}

// NewCheckoutEvent builds the event for a receipt issued to userID.
func NewCheckoutEvent(userID string, r *Receipt) CheckoutEvent {
	return CheckoutEvent{
		Event:         CheckoutEventType,
		OrderID:       r.OrderID,
		UserID:        userID,
		CustomerEmail: r.CustomerEmail,
		Items:         r.Items,
		Total:         r.Total,
		Timestamp:     r.Timestamp,
	}
}
