package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/qiustore/backend/internal/application/payment"
	"github.com/qiustore/backend/internal/domain/order"
	"github.com/qiustore/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// stripeIntentResponse is the subset of Stripe's PaymentIntent we read
type stripeIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// StripeAdapter opens card payment intents against the Stripe HTTP API.
// Without a secret key it mints locally generated mock intents instead,
// which keeps checkout usable in development.
type StripeAdapter struct {
	cfg        config.StripeConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewStripeAdapter creates a Stripe gateway adapter
func NewStripeAdapter(cfg config.StripeConfig, logger *zap.Logger) *StripeAdapter {
	return &StripeAdapter{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// Provider returns the gateway's provider name
func (a *StripeAdapter) Provider() string {
	return order.ProviderStripe
}

// CreateIntent opens a payment intent for the given amount
func (a *StripeAdapter) CreateIntent(ctx context.Context, req payment.IntentRequest) (*payment.Intent, error) {
	currency := req.Currency
	if currency == "" {
		currency = a.cfg.Currency
	}

	if a.cfg.SecretKey == "" {
		id := "pi_mock_" + uuid.NewString()
		a.logger.Info("stripe key not configured, issuing mock intent",
			zap.String("payment_id", id))
		return &payment.Intent{
			Provider:     a.Provider(),
			PaymentID:    id,
			ClientSecret: id + "_secret_" + uuid.NewString(),
			Amount:       req.Amount,
			Currency:     currency,
		}, nil
	}

	form := url.Values{}
	form.Set("amount", amountInMinorUnits(req.Amount))
	form.Set("currency", currency)
	if req.Description != "" {
		form.Set("description", req.Description)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.cfg.BaseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.cfg.SecretKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed stripeIntentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("stripe response decode failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		msg := "stripe rejected the payment intent"
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return nil, fmt.Errorf("stripe: %s", msg)
	}

	return &payment.Intent{
		Provider:     a.Provider(),
		PaymentID:    parsed.ID,
		ClientSecret: parsed.ClientSecret,
		Amount:       req.Amount,
		Currency:     currency,
	}, nil
}

// amountInMinorUnits renders a decimal amount as integer cents
func amountInMinorUnits(amount decimal.Decimal) string {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).String()
}
