package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWebhook(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantID      string
		wantStatus  string
		wantError   bool
		wantSuccess bool
	}{
		{
			name:        "flat payload",
			body:        `{"paymentId":"pi_123","status":"succeeded"}`,
			wantID:      "pi_123",
			wantStatus:  "succeeded",
			wantSuccess: true,
		},
		{
			name:        "nested stripe envelope",
			body:        `{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_456","status":"succeeded"}}}`,
			wantID:      "pi_456",
			wantStatus:  "succeeded",
			wantSuccess: true,
		},
		{
			name:        "alipay trade success",
			body:        `{"paymentId":"alipay_789","status":"TRADE_SUCCESS"}`,
			wantID:      "alipay_789",
			wantStatus:  "TRADE_SUCCESS",
			wantSuccess: true,
		},
		{
			name:        "empty status counts as success",
			body:        `{"paymentId":"pi_123"}`,
			wantID:      "pi_123",
			wantSuccess: true,
		},
		{
			name:        "failure status",
			body:        `{"paymentId":"pi_123","status":"requires_payment_method"}`,
			wantID:      "pi_123",
			wantStatus:  "requires_payment_method",
			wantSuccess: false,
		},
		{
			name:      "missing payment id",
			body:      `{"status":"succeeded"}`,
			wantError: true,
		},
		{
			name:      "malformed json",
			body:      `{"paymentId":`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := ParseWebhook([]byte(tt.body))
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, ev.PaymentID)
			assert.Equal(t, tt.wantStatus, ev.Status)
			assert.Equal(t, tt.wantSuccess, ev.IsSuccess())
		})
	}
}
