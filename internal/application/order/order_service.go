package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qiustore/backend/internal/application/notification"
	"github.com/qiustore/backend/internal/domain/catalog"
	"github.com/qiustore/backend/internal/domain/identity"
	"github.com/qiustore/backend/internal/domain/order"
	"github.com/qiustore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ItemInput is one cart line as submitted at checkout
type ItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ShippingInput is the destination submitted at checkout
type ShippingInput struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// CreateInput is a checkout submission
type CreateInput struct {
	Items           []ItemInput
	Shipping        ShippingInput
	PaymentMethod   string
	PaymentProvider string
	PaymentIntentID string
}

// AdminOrderView pairs an order with its customer for the dashboard
type AdminOrderView struct {
	*order.Order
	Customer CustomerSummary `json:"customer"`
}

// CustomerSummary is the customer data shown alongside admin orders
type CustomerSummary struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// DailyRevenue is revenue for one calendar day of the stats window
type DailyRevenue struct {
	Day    string          `json:"day"`
	Total  decimal.Decimal `json:"total"`
	Orders int             `json:"orders"`
}

// Stats is the sales dashboard summary, computed over paid orders only
type Stats struct {
	PaidOrders int             `json:"paid_orders"`
	Revenue    decimal.Decimal `json:"revenue"`
	Daily      []DailyRevenue  `json:"daily"`
}

// CustomerView is one row of the admin customer listing
type CustomerView struct {
	*identity.User
	OrderCount int             `json:"order_count"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

// Service orchestrates checkout, order tracking and the sales dashboard
type Service struct {
	orders   order.Repository
	products catalog.ProductRepository
	users    identity.Repository
	mailer   notification.Mailer
	logger   *zap.Logger
}

// NewService creates an order service
func NewService(
	orders order.Repository,
	products catalog.ProductRepository,
	users identity.Repository,
	mailer notification.Mailer,
	logger *zap.Logger,
) *Service {
	return &Service{
		orders:   orders,
		products: products,
		users:    users,
		mailer:   mailer,
		logger:   logger,
	}
}

// PriceCart snapshots the cart against the catalog and computes the taxed
// total. Checkout and payment intents share this path so their totals agree.
func (s *Service) PriceCart(ctx context.Context, items []ItemInput) ([]order.Item, decimal.Decimal, error) {
	if len(items) == 0 {
		return nil, decimal.Zero, shared.Validation("The cart is empty")
	}

	snapshot := make([]order.Item, 0, len(items))
	for _, in := range items {
		if in.Quantity <= 0 {
			return nil, decimal.Zero, shared.Validation("Item quantity must be at least 1")
		}
		p, err := s.products.FindByID(ctx, in.ProductID)
		if err != nil {
			return nil, decimal.Zero, shared.Validation("The cart references an unknown product")
		}
		if !p.InStock(in.Quantity) {
			return nil, decimal.Zero, shared.Validation(fmt.Sprintf("Not enough stock for %q", p.Name))
		}
		snapshot = append(snapshot, order.Item{
			ProductID: p.ID,
			Name:      p.Name,
			Summary:   p.Summary,
			Price:     p.Price,
			Quantity:  in.Quantity,
		})
	}

	return snapshot, order.Total(order.Subtotal(snapshot)), nil
}

// Create places an order for the user. Offline orders are paid immediately
// and may dispatch a confirmation email; its warning rides back with the
// order instead of failing the request.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*order.Order, string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	items, total, err := s.PriceCart(ctx, in.Items)
	if err != nil {
		return nil, "", err
	}

	provider := order.ClassifyProvider(in.PaymentProvider, in.PaymentMethod)
	o := order.New(userID, items, total, order.ShippingInfo{
		FullName:   in.Shipping.FullName,
		Email:      in.Shipping.Email,
		Address:    in.Shipping.Address,
		City:       in.Shipping.City,
		PostalCode: in.Shipping.PostalCode,
		Country:    in.Shipping.Country,
	}, order.PaymentInfo{
		Method:   in.PaymentMethod,
		Provider: provider,
		IntentID: in.PaymentIntentID,
	})

	for _, it := range items {
		if err := s.products.DecrementStock(ctx, it.ProductID, it.Quantity); err != nil {
			return nil, "", err
		}
	}

	var warning string
	if provider == order.ProviderOffline {
		warning = dispatchMail(ctx, s.mailer, o, user, confirmationMail)
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, "", err
	}
	s.logAction(ctx, userID, "purchase")

	s.logger.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("user_id", userID),
		zap.String("provider", provider),
		zap.String("total", o.Total.StringFixed(2)),
	)
	return o, warning, nil
}

// ListMine returns the caller's orders, newest first
func (s *Service) ListMine(ctx context.Context, userID string) ([]*order.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// ListAll returns every order with its customer, newest first
func (s *Service) ListAll(ctx context.Context) ([]AdminOrderView, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]AdminOrderView, 0, len(orders))
	for _, o := range orders {
		view := AdminOrderView{Order: o}
		if u, err := s.users.FindByID(ctx, o.UserID); err == nil {
			view.Customer = CustomerSummary{
				Name:          u.Name,
				Email:         u.Email,
				EmailVerified: u.EmailVerified,
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdateStatus sets an order's fulfillment status. The matching timeline
// label is appended only once, so repeated identical updates are absorbed.
// Reaching "delivered" dispatches the delivery email variant.
func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) (*order.Order, string, error) {
	if status == "" {
		return nil, "", shared.Validation("Status is required")
	}

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	o.SetStatus(status)

	var warning string
	if status == order.StatusDelivered {
		s.logAction(ctx, o.UserID, "delivery")
		if u, err := s.users.FindByID(ctx, o.UserID); err == nil {
			warning = dispatchMail(ctx, s.mailer, o, u, deliveryMail)
		}
	}

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, "", err
	}
	return o, warning, nil
}

// ConfirmPayment settles the order opened for a payment intent. An unknown
// intent is acknowledged without error so providers stop retrying. Settling
// is idempotent: a second confirmation changes nothing.
func (s *Service) ConfirmPayment(ctx context.Context, paymentID string) (string, bool, error) {
	o, err := s.orders.FindByPaymentIntent(ctx, paymentID)
	if err != nil {
		var derr *shared.DomainError
		if errors.As(err, &derr) && derr.Code == shared.CodeNotFound {
			s.logger.Warn("webhook for unknown payment intent",
				zap.String("payment_id", paymentID))
			return "", false, nil
		}
		return "", false, err
	}

	firstConfirmation := !o.Paid
	o.MarkPaid()
	if firstConfirmation {
		s.logAction(ctx, o.UserID, "payment")
	}

	var warning string
	if u, err := s.users.FindByID(ctx, o.UserID); err == nil {
		warning = dispatchMail(ctx, s.mailer, o, u, confirmationMail)
	}

	if err := s.orders.Update(ctx, o); err != nil {
		return "", true, err
	}
	return warning, true, nil
}

// Stats summarizes paid orders: count, revenue, and the last seven days
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	paid, err := s.orders.ListPaid(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Revenue: decimal.Zero}

	// Last seven calendar days, oldest first
	now := time.Now()
	window := make([]string, 7)
	for i := 0; i < 7; i++ {
		window[i] = now.AddDate(0, 0, i-6).Format("2006-01-02")
	}
	byDay := make(map[string]*DailyRevenue, len(window))

	for _, o := range paid {
		stats.PaidOrders++
		stats.Revenue = stats.Revenue.Add(o.Total)

		when := o.CreatedAt
		if o.PaidAt != nil {
			when = *o.PaidAt
		}
		day := when.Format("2006-01-02")
		d, ok := byDay[day]
		if !ok {
			d = &DailyRevenue{Day: day, Total: decimal.Zero}
			byDay[day] = d
		}
		d.Orders++
		d.Total = d.Total.Add(o.Total)
	}

	for _, day := range window {
		if d, ok := byDay[day]; ok {
			stats.Daily = append(stats.Daily, *d)
		} else {
			stats.Daily = append(stats.Daily, DailyRevenue{Day: day, Total: decimal.Zero})
		}
	}
	return stats, nil
}

// Customers returns every user with their purchasing summary, newest first
func (s *Service) Customers(ctx context.Context) ([]CustomerView, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	activity, err := s.orders.ActivityByUser(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]CustomerView, 0, len(users))
	for _, u := range users {
		view := CustomerView{User: u, TotalSpent: decimal.Zero}
		if a, ok := activity[u.ID]; ok {
			view.OrderCount = a.OrderCount
			view.TotalSpent = a.TotalSpent
		}
		views = append(views, view)
	}
	return views, nil
}

// logAction appends to the user's activity log, tolerating failures
func (s *Service) logAction(ctx context.Context, userID, action string) {
	err := s.users.AppendActivity(ctx, userID, identity.ActivityEntry{
		Action: action,
		At:     time.Now(),
	})
	if err != nil {
		s.logger.Warn("could not append activity entry",
			zap.String("user_id", userID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
