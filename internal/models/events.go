package models

import "time"

// Event types
const (
	EventTypePurchaseCompleted = "PURCHASE_COMPLETED"
	EventTypePurchaseFailed    = "PURCHASE_FAILED"
	EventTypeUserRegistered    = "USER_REGISTERED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// PurchaseCompletedEvent published after a purchase commits
type PurchaseCompletedEvent struct {
	BaseEvent
	TransactionID int64   `json:"transaction_id"`
	Username      string  `json:"username"`
	ProductID     int64   `json:"product_id"`
	ProductName   string  `json:"product_name"`
	Price         float64 `json:"price"`
	PaymentRef    string  `json:"payment_ref"`
}

// PurchaseFailedEvent published when a purchase attempt is rejected
type PurchaseFailedEvent struct {
	BaseEvent
	Username  string `json:"username"`
	ProductID int64  `json:"product_id"`
	Reason    string `json:"reason"`
}

// UserRegisteredEvent published when a new user is created
type UserRegisteredEvent struct {
	BaseEvent
	Username string `json:"username"`
	Email    string `json:"email"`
}
