package payment

import (
	"context"
	"net/url"

	"github.com/google/uuid"
	"github.com/qiustore/backend/internal/application/payment"
	"github.com/qiustore/backend/internal/domain/order"
	"github.com/qiustore/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// AlipayAdapter opens redirect-style payments against the Alipay sandbox.
// Payments are simulated: the adapter mints a trade number locally and builds
// the gateway redirect URL without signing.
type AlipayAdapter struct {
	cfg    config.AlipayConfig
	logger *zap.Logger
}

// NewAlipayAdapter creates an Alipay gateway adapter
func NewAlipayAdapter(cfg config.AlipayConfig, logger *zap.Logger) *AlipayAdapter {
	return &AlipayAdapter{cfg: cfg, logger: logger}
}

// Provider returns the gateway's provider name
func (a *AlipayAdapter) Provider() string {
	return order.ProviderAlipay
}

// CreateIntent opens a simulated Alipay trade and returns its redirect URL
func (a *AlipayAdapter) CreateIntent(ctx context.Context, req payment.IntentRequest) (*payment.Intent, error) {
	tradeNo := "alipay_" + uuid.NewString()

	q := url.Values{}
	q.Set("out_trade_no", tradeNo)
	q.Set("total_amount", req.Amount.StringFixed(2))
	if a.cfg.AppID != "" {
		q.Set("app_id", a.cfg.AppID)
	}
	if req.Description != "" {
		q.Set("subject", req.Description)
	}

	a.logger.Info("alipay intent created",
		zap.String("payment_id", tradeNo),
		zap.String("amount", req.Amount.StringFixed(2)))

	return &payment.Intent{
		Provider:   a.Provider(),
		PaymentID:  tradeNo,
		PaymentURL: a.cfg.GatewayURL + "?" + q.Encode(),
		Amount:     req.Amount,
		Currency:   req.Currency,
	}, nil
}
