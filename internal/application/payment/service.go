package payment

import (
	"context"
	"fmt"

	orderapp "github.com/qiustore/backend/internal/application/order"
	"github.com/qiustore/backend/internal/domain/order"
	"github.com/qiustore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartPricer validates a cart and computes its taxed total the same way
// checkout does, so intent amounts always match the final order total.
// The order service satisfies this.
type CartPricer interface {
	PriceCart(ctx context.Context, items []orderapp.ItemInput) ([]order.Item, decimal.Decimal, error)
}

// Service opens payment intents through the registered gateways
type Service struct {
	pricer   CartPricer
	gateways map[string]Gateway
	logger   *zap.Logger
}

// NewService creates a payment service over the given gateways
func NewService(pricer CartPricer, gateways []Gateway, logger *zap.Logger) *Service {
	byProvider := make(map[string]Gateway, len(gateways))
	for _, g := range gateways {
		byProvider[g.Provider()] = g
	}
	return &Service{pricer: pricer, gateways: byProvider, logger: logger}
}

// CreateIntent validates the cart and opens an intent with the provider
func (s *Service) CreateIntent(ctx context.Context, provider string, items []orderapp.ItemInput) (*Intent, error) {
	gateway, ok := s.gateways[provider]
	if !ok {
		return nil, shared.Validation(fmt.Sprintf("Unknown payment provider %q", provider))
	}

	snapshot, total, err := s.pricer.PriceCart(ctx, items)
	if err != nil {
		return nil, err
	}

	intent, err := gateway.CreateIntent(ctx, IntentRequest{
		Amount:      total,
		Description: fmt.Sprintf("Storefront order, %d item(s)", len(snapshot)),
	})
	if err != nil {
		s.logger.Error("payment intent failed",
			zap.String("provider", provider),
			zap.Error(err),
		)
		return nil, shared.Internal("The payment provider could not open a payment")
	}

	s.logger.Info("payment intent opened",
		zap.String("provider", provider),
		zap.String("payment_id", intent.PaymentID),
		zap.String("amount", total.StringFixed(2)),
	)
	return intent, nil
}
