package payment

import (
	"encoding/json"

	"github.com/qiustore/backend/internal/domain/shared"
)

// WebhookEvent is the provider-neutral outcome of a webhook payload
type WebhookEvent struct {
	PaymentID string
	Status    string
}

// webhookPayload covers both notification shapes the providers post:
// a flat {paymentId, status} body and Stripe's nested event envelope
// {type, data: {object: {id, status}}}.
type webhookPayload struct {
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`
	Type      string `json:"type"`
	Data      *struct {
		Object struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"object"`
	} `json:"data"`
}

// ParseWebhook resolves a webhook body to its payment ID and status. A body
// without a resolvable payment ID is a validation error.
func ParseWebhook(body []byte) (*WebhookEvent, error) {
	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, shared.Validation("Malformed webhook payload")
	}

	ev := &WebhookEvent{PaymentID: p.PaymentID, Status: p.Status}
	if ev.PaymentID == "" && p.Data != nil {
		ev.PaymentID = p.Data.Object.ID
		ev.Status = p.Data.Object.Status
	}
	if ev.PaymentID == "" {
		return nil, shared.Validation("Webhook payload is missing a payment id")
	}
	return ev, nil
}

// successStatuses are provider statuses that confirm payment. An empty
// status is treated as success so bare acknowledgements settle the order.
var successStatuses = map[string]bool{
	"":              true,
	"succeeded":     true,
	"paid":          true,
	"TRADE_SUCCESS": true,
}

// IsSuccess reports whether a webhook status confirms the payment
func (e *WebhookEvent) IsSuccess() bool {
	return successStatuses[e.Status]
}
