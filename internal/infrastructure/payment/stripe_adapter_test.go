package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/qiustore/backend/internal/application/payment"
	"github.com/qiustore/backend/internal/domain/order"
	"github.com/qiustore/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStripeAdapter_MockIntentWithoutKey(t *testing.T) {
	a := NewStripeAdapter(config.StripeConfig{Currency: "usd"}, zap.NewNop())

	intent, err := a.CreateIntent(context.Background(), payment.IntentRequest{
		Amount: decimal.NewFromFloat(216.00),
	})
	require.NoError(t, err)

	assert.Equal(t, order.ProviderStripe, intent.Provider)
	assert.Contains(t, intent.PaymentID, "pi_mock_")
	assert.Contains(t, intent.ClientSecret, intent.PaymentID+"_secret_")
	assert.Equal(t, "usd", intent.Currency)
	assert.True(t, intent.Amount.Equal(decimal.NewFromFloat(216.00)))
}

func TestStripeAdapter_CreateIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_abc", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "21600", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))

		json.NewEncoder(w).Encode(map[string]any{
			"id":            "pi_live_1",
			"client_secret": "pi_live_1_secret_x",
			"status":        "requires_payment_method",
		})
	}))
	defer srv.Close()

	a := NewStripeAdapter(config.StripeConfig{
		SecretKey: "sk_test_abc",
		Currency:  "usd",
		BaseURL:   srv.URL,
	}, zap.NewNop())

	intent, err := a.CreateIntent(context.Background(), payment.IntentRequest{
		Amount: decimal.NewFromInt(216),
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_live_1", intent.PaymentID)
	assert.Equal(t, "pi_live_1_secret_x", intent.ClientSecret)
}

func TestStripeAdapter_CreateIntent_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "Your card was declined."},
		})
	}))
	defer srv.Close()

	a := NewStripeAdapter(config.StripeConfig{
		SecretKey: "sk_test_abc",
		BaseURL:   srv.URL,
	}, zap.NewNop())

	_, err := a.CreateIntent(context.Background(), payment.IntentRequest{
		Amount: decimal.NewFromInt(10),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declined")
}

func TestAlipayAdapter_CreateIntent(t *testing.T) {
	a := NewAlipayAdapter(config.AlipayConfig{
		AppID:      "sandbox-app",
		GatewayURL: "https://openapi.alipaydev.com/gateway.do",
	}, zap.NewNop())

	intent, err := a.CreateIntent(context.Background(), payment.IntentRequest{
		Amount:      decimal.NewFromFloat(54.0),
		Currency:    "cny",
		Description: "order",
	})
	require.NoError(t, err)

	assert.Equal(t, order.ProviderAlipay, intent.Provider)
	assert.Contains(t, intent.PaymentID, "alipay_")
	assert.Contains(t, intent.PaymentURL, "out_trade_no="+intent.PaymentID)
	assert.Contains(t, intent.PaymentURL, "total_amount=54.00")
}
