package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// IntentRequest asks a gateway to open a payment for an amount
type IntentRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
}

// Intent is an opened payment awaiting confirmation. ClientSecret is set for
// card-style providers, PaymentURL for redirect-style providers.
type Intent struct {
	Provider     string          `json:"provider"`
	PaymentID    string          `json:"payment_id"`
	ClientSecret string          `json:"client_secret,omitempty"`
	PaymentURL   string          `json:"payment_url,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
}

// Gateway opens payment intents with an external provider
type Gateway interface {
	Provider() string
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}
