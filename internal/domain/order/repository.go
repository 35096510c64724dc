package order

import (
	"context"

	"github.com/shopspring/decimal"
)

// CustomerActivity summarizes one user's purchasing history
type CustomerActivity struct {
	UserID     string          `json:"user_id"`
	OrderCount int             `json:"order_count"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

// Repository persists orders in the document store
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	FindByPaymentIntent(ctx context.Context, intentID string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	ListPaid(ctx context.Context) ([]*Order, error)
	ActivityByUser(ctx context.Context) (map[string]CustomerActivity, error)
}
