package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order status values
const (
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
)

// Payment providers
const (
	ProviderStripe  = "stripe"
	ProviderAlipay  = "alipay"
	ProviderOffline = "offline"
)

// Timeline labels shared across the order lifecycle
const (
	LabelPaymentInitiated = "payment initiated"
	LabelAwaitingPayment  = "awaiting payment confirmation"
	LabelPaymentReceived  = "payment received"

	LabelConfirmationSent        = "confirmation email sent"
	LabelConfirmationInvalid     = "invalid email, confirmation not sent"
	LabelConfirmationUnverified  = "email unverified, confirmation not sent"
	LabelConfirmationMismatch    = "email mismatch, confirmation not sent"
	LabelDeliveryNoteSent        = "delivery email sent"
	LabelDeliveryNoteInvalid     = "invalid email, delivery note not sent"
	LabelDeliveryNoteUnverified  = "email unverified, delivery note not sent"
	LabelDeliveryNoteMismatch    = "email mismatch, delivery note not sent"
	LabelMailServiceUnconfigured = "mail service not configured"
	LabelMailSendFailed          = "mail send failed"
)

// Item is a snapshot of a product at the moment the order was placed
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Summary   string          `json:"summary"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// TimelineEntry is one event in the order history
type TimelineEntry struct {
	Label string    `json:"label"`
	At    time.Time `json:"at"`
}

// ShippingInfo is the destination snapshot captured at checkout
type ShippingInfo struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// PaymentInfo records how the order is being paid
type PaymentInfo struct {
	Method   string `json:"method"`
	Provider string `json:"provider"`
	Status   string `json:"status"`
	IntentID string `json:"intent_id"`
}

// Order is a placed customer order. Orders are never deleted.
type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	Timeline  []TimelineEntry `json:"timeline"`
	Paid      bool            `json:"paid"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
	Shipping  ShippingInfo    `json:"shipping"`
	Payment   PaymentInfo     `json:"payment"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// New assembles an order from snapshotted items and seeds its timeline
// according to the payment provider. Offline orders are paid immediately.
func New(userID string, items []Item, total decimal.Decimal, shipping ShippingInfo, payment PaymentInfo) *Order {
	now := time.Now()
	o := &Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Items:     items,
		Total:     total,
		Status:    StatusProcessing,
		Shipping:  shipping,
		Payment:   payment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if payment.Provider == ProviderOffline {
		o.AppendTimeline(LabelPaymentReceived)
		o.Paid = true
		o.PaidAt = &now
		o.Payment.Status = "paid"
	} else {
		o.AppendTimeline(LabelPaymentInitiated)
		o.AppendTimeline(LabelAwaitingPayment)
		o.Payment.Status = "pending"
	}
	o.AppendTimeline(StatusProcessing)
	return o
}

// ClassifyProvider resolves a payment provider from an explicit provider value
// or, failing that, from substrings of the free-form payment method.
func ClassifyProvider(provider, method string) string {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderStripe:
		return ProviderStripe
	case ProviderAlipay:
		return ProviderAlipay
	case ProviderOffline:
		return ProviderOffline
	}

	m := strings.ToLower(method)
	switch {
	case strings.Contains(m, "stripe"):
		return ProviderStripe
	case strings.Contains(m, "alipay"):
		return ProviderAlipay
	default:
		return ProviderOffline
	}
}

// AppendTimeline adds a timeline entry unless an entry with the same label
// already exists. Returns true when a new entry was appended.
func (o *Order) AppendTimeline(label string) bool {
	if o.HasTimelineLabel(label) {
		return false
	}
	o.Timeline = append(o.Timeline, TimelineEntry{Label: label, At: time.Now()})
	o.UpdatedAt = time.Now()
	return true
}

// HasTimelineLabel reports whether the timeline already carries the label
func (o *Order) HasTimelineLabel(label string) bool {
	for _, e := range o.Timeline {
		if e.Label == label {
			return true
		}
	}
	return false
}

// MarkPaid flips the order to paid and records the payment event once.
// Calling it on an already-paid order is a no-op and returns false.
func (o *Order) MarkPaid() bool {
	changed := o.AppendTimeline(LabelPaymentReceived)
	if !o.Paid {
		now := time.Now()
		o.Paid = true
		o.PaidAt = &now
		o.Payment.Status = "paid"
		o.UpdatedAt = now
		changed = true
	}
	return changed
}

// SetStatus updates the fulfillment status and appends a matching timeline
// entry when one is not already present. Repeated identical updates are
// absorbed by the label check.
func (o *Order) SetStatus(status string) {
	o.Status = status
	o.AppendTimeline(status)
	o.UpdatedAt = time.Now()
}
