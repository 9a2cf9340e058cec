package model

// Order states reported by the host application's order-persisted call-in.
const (
	OrderStateNew      = "new"
	OrderStateInvoiced = "invoiced"
	OrderStateShipped  = "shipped"
	OrderStateRefunded = "refunded"
	OrderStateCanceled = "canceled"
	OrderStateHolded   = "holded"
	OrderStateReleased = "released"
)

// Order is the slice of the host application's order entity needed to pick a
// notification category and render its template.
type Order struct {
	EntityID    uint   `json:"entity_id"`
	IncrementID string `json:"increment_id"`
	CustomerID  uint   `json:"customer_id"`
	State       string `json:"state"`
	StoreName   string `json:"store_name"`
	OrderURL    string `json:"order_url"`
}

// SmsType maps the order state to the notification category it triggers.
// Unknown states map to an empty string and are not dispatched.
func (o Order) SmsType() string {
	switch o.State {
	case OrderStateNew:
		return SmsTypeOrderPlaced
	case OrderStateInvoiced:
		return SmsTypeOrderInvoiced
	case OrderStateShipped:
		return SmsTypeOrderShipped
	case OrderStateRefunded:
		return SmsTypeOrderRefunded
	case OrderStateCanceled:
		return SmsTypeOrderCanceled
	case OrderStateHolded:
		return SmsTypeOrderHeld
	case OrderStateReleased:
		return SmsTypeOrderReleased
	}
	return ""
}

// Shipment is the slice of the host application's shipment entity delivered
// by the shipment-persisted call-in.
type Shipment struct {
	EntityID         uint   `json:"entity_id"`
	OrderIncrementID string `json:"order_increment_id"`
	CustomerID       uint   `json:"customer_id"`
	StoreName        string `json:"store_name"`
	OrderURL         string `json:"order_url"`
}

// ManagePreferencesRequest is the body of the preference form submission
// call-in: the categories the customer wants plus their mobile number.
type ManagePreferencesRequest struct {
	CustomerID        uint     `json:"customer_id" binding:"required"`
	SmsTypes          []string `json:"sms_types"`
	MobilePhonePrefix string   `json:"mobile_phone_prefix"`
	MobilePhoneNumber string   `json:"mobile_phone_number"`
}
