package model

import (
	"time"
)

// Notification categories a customer can subscribe to. "welcome" is not a
// category: the welcome message is gated by its own config flag, not by a
// subscription row.
const (
	SmsTypeOrderPlaced   = "order_placed"
	SmsTypeOrderInvoiced = "order_invoiced"
	SmsTypeOrderShipped  = "order_shipped"
	SmsTypeOrderRefunded = "order_refunded"
	SmsTypeOrderCanceled = "order_canceled"
	SmsTypeOrderHeld     = "order_held"
	SmsTypeOrderReleased = "order_released"
)

// SmsTypes lists every subscribable notification category.
var SmsTypes = []string{
	SmsTypeOrderPlaced,
	SmsTypeOrderInvoiced,
	SmsTypeOrderShipped,
	SmsTypeOrderRefunded,
	SmsTypeOrderCanceled,
	SmsTypeOrderHeld,
	SmsTypeOrderReleased,
}

// IsValidSmsType reports whether smsType is a known subscribable category.
func IsValidSmsType(smsType string) bool {
	for _, t := range SmsTypes {
		if t == smsType {
			return true
		}
	}
	return false
}

// SmsSubscription is one (customer, category) opt-in row. The store enforces
// uniqueness on the pair, so a customer has at most one row per category.
type SmsSubscription struct {
	ID         uint      `json:"id"`
	CustomerID uint      `json:"customer_id"`
	SmsType    string    `json:"sms_type"`
	CreatedAt  time.Time `json:"created_at"`
}
