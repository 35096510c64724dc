package order

import (
	"context"
	"testing"
	"time"

	"github.com/qiustore/backend/internal/application/notification"
	"github.com/qiustore/backend/internal/domain/catalog"
	"github.com/qiustore/backend/internal/domain/identity"
	"github.com/qiustore/backend/internal/domain/order"
	"github.com/qiustore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) Create(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}
func (m *mockOrderRepo) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}
func (m *mockOrderRepo) FindByID(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}
func (m *mockOrderRepo) FindByPaymentIntent(ctx context.Context, intentID string) (*order.Order, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}
func (m *mockOrderRepo) ListByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*order.Order), args.Error(1)
}
func (m *mockOrderRepo) ListAll(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*order.Order), args.Error(1)
}
func (m *mockOrderRepo) ListPaid(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*order.Order), args.Error(1)
}
func (m *mockOrderRepo) ActivityByUser(ctx context.Context) (map[string]order.CustomerActivity, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]order.CustomerActivity), args.Error(1)
}

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) Create(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockProductRepo) Update(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockProductRepo) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}
func (m *mockProductRepo) List(ctx context.Context, filter catalog.ListFilter) ([]*catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*catalog.Product), args.Get(1).(int64), args.Error(2)
}
func (m *mockProductRepo) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}
func (m *mockProductRepo) DecrementStock(ctx context.Context, id string, quantity int) error {
	return m.Called(ctx, id, quantity).Error(0)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserRepo) Update(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}
func (m *mockUserRepo) ListAll(ctx context.Context) ([]*identity.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*identity.User), args.Error(1)
}
func (m *mockUserRepo) AppendActivity(ctx context.Context, userID string, entry identity.ActivityEntry) error {
	return m.Called(ctx, userID, entry).Error(0)
}

// stubMailer records sends and returns a canned result
type stubMailer struct {
	result notification.Result
	sent   []notification.Message
}

func (s *stubMailer) Send(ctx context.Context, msg notification.Message) notification.Result {
	s.sent = append(s.sent, msg)
	return s.result
}

func sentOK() *stubMailer {
	return &stubMailer{result: notification.Result{Sent: true}}
}

func verifiedUser() *identity.User {
	return &identity.User{
		ID:            "u1",
		Name:          "Dana",
		Email:         "dana@example.com",
		Role:          identity.RoleCustomer,
		EmailVerified: true,
	}
}

func mugProduct(stock int) *catalog.Product {
	return &catalog.Product{
		ID:    "p1",
		Name:  "Ceramic Mug",
		Price: decimal.NewFromInt(100),
		Stock: stock,
	}
}

func newTestService(orders *mockOrderRepo, products *mockProductRepo, users *mockUserRepo, mailer notification.Mailer) *Service {
	return NewService(orders, products, users, mailer, zap.NewNop())
}

func TestService_Create_Offline(t *testing.T) {
	orders := new(mockOrderRepo)
	products := new(mockProductRepo)
	users := new(mockUserRepo)
	mailer := sentOK()
	svc := newTestService(orders, products, users, mailer)

	users.On("FindByID", mock.Anything, "u1").Return(verifiedUser(), nil)
	products.On("FindByID", mock.Anything, "p1").Return(mugProduct(5), nil)
	products.On("DecrementStock", mock.Anything, "p1", 2).Return(nil)
	orders.On("Create", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
	users.On("AppendActivity", mock.Anything, "u1", mock.Anything).Return(nil)

	o, warning, err := svc.Create(context.Background(), "u1", CreateInput{
		Items:         []ItemInput{{ProductID: "p1", Quantity: 2}},
		Shipping:      ShippingInput{FullName: "Dana", Email: "dana@example.com"},
		PaymentMethod: "cash on delivery",
	})
	require.NoError(t, err)
	assert.Empty(t, warning)

	assert.Equal(t, "216.00", o.Total.StringFixed(2))
	assert.True(t, o.Paid)
	assert.Equal(t, order.ProviderOffline, o.Payment.Provider)
	assert.True(t, o.HasTimelineLabel(order.LabelPaymentReceived))
	assert.True(t, o.HasTimelineLabel(order.LabelConfirmationSent))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "dana@example.com", mailer.sent[0].To)

	orders.AssertExpectations(t)
	products.AssertExpectations(t)
}

func TestService_Create_PendingProviderSendsNoMail(t *testing.T) {
	orders := new(mockOrderRepo)
	products := new(mockProductRepo)
	users := new(mockUserRepo)
	mailer := sentOK()
	svc := newTestService(orders, products, users, mailer)

	users.On("FindByID", mock.Anything, "u1").Return(verifiedUser(), nil)
	products.On("FindByID", mock.Anything, "p1").Return(mugProduct(5), nil)
	products.On("DecrementStock", mock.Anything, "p1", 1).Return(nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	users.On("AppendActivity", mock.Anything, "u1", mock.Anything).Return(nil)

	o, warning, err := svc.Create(context.Background(), "u1", CreateInput{
		Items:           []ItemInput{{ProductID: "p1", Quantity: 1}},
		Shipping:        ShippingInput{Email: "dana@example.com"},
		PaymentMethod:   "stripe card",
		PaymentIntentID: "pi_1",
	})
	require.NoError(t, err)
	assert.Empty(t, warning)

	assert.False(t, o.Paid)
	assert.Equal(t, order.ProviderStripe, o.Payment.Provider)
	assert.True(t, o.HasTimelineLabel(order.LabelPaymentInitiated))
	assert.True(t, o.HasTimelineLabel(order.LabelAwaitingPayment))
	assert.Empty(t, mailer.sent, "mail waits for payment confirmation")
}

func TestService_Create_Validation(t *testing.T) {
	orders := new(mockOrderRepo)
	products := new(mockProductRepo)
	users := new(mockUserRepo)
	svc := newTestService(orders, products, users, sentOK())

	users.On("FindByID", mock.Anything, "u1").Return(verifiedUser(), nil)
	products.On("FindByID", mock.Anything, "p1").Return(mugProduct(1), nil)
	products.On("FindByID", mock.Anything, "missing").Return(nil, shared.ErrNotFound)

	tests := []struct {
		name  string
		items []ItemInput
	}{
		{name: "empty cart", items: nil},
		{name: "zero quantity", items: []ItemInput{{ProductID: "p1", Quantity: 0}}},
		{name: "unknown product", items: []ItemInput{{ProductID: "missing", Quantity: 1}}},
		{name: "over stock", items: []ItemInput{{ProductID: "p1", Quantity: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Create(context.Background(), "u1", CreateInput{Items: tt.items})
			require.Error(t, err)
			var derr *shared.DomainError
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, shared.CodeValidation, derr.Code)
		})
	}
}

func TestService_ConfirmPayment(t *testing.T) {
	t.Run("unknown intent is acknowledged", func(t *testing.T) {
		orders := new(mockOrderRepo)
		svc := newTestService(orders, new(mockProductRepo), new(mockUserRepo), sentOK())
		orders.On("FindByPaymentIntent", mock.Anything, "pi_missing").Return(nil, shared.ErrNotFound)

		warning, found, err := svc.ConfirmPayment(context.Background(), "pi_missing")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, warning)
	})

	t.Run("success settles once", func(t *testing.T) {
		orders := new(mockOrderRepo)
		users := new(mockUserRepo)
		mailer := sentOK()
		svc := newTestService(orders, new(mockProductRepo), users, mailer)

		o := order.New("u1", nil, decimal.NewFromInt(216), order.ShippingInfo{
			FullName: "Dana", Email: "dana@example.com",
		}, order.PaymentInfo{Provider: order.ProviderStripe, IntentID: "pi_1"})

		orders.On("FindByPaymentIntent", mock.Anything, "pi_1").Return(o, nil)
		orders.On("Update", mock.Anything, o).Return(nil)
		users.On("FindByID", mock.Anything, "u1").Return(verifiedUser(), nil)
		users.On("AppendActivity", mock.Anything, "u1", mock.Anything).Return(nil)

		warning, found, err := svc.ConfirmPayment(context.Background(), "pi_1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Empty(t, warning)
		assert.True(t, o.Paid)
		assert.True(t, o.HasTimelineLabel(order.LabelPaymentReceived))
		assert.Len(t, mailer.sent, 1)

		// second confirmation: timeline unchanged, no second mail
		timelineLen := len(o.Timeline)
		_, found, err = svc.ConfirmPayment(context.Background(), "pi_1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Len(t, o.Timeline, timelineLen)
		assert.Len(t, mailer.sent, 1)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	orders := new(mockOrderRepo)
	users := new(mockUserRepo)
	mailer := sentOK()
	svc := newTestService(orders, new(mockProductRepo), users, mailer)

	o := order.New("u1", nil, decimal.Zero, order.ShippingInfo{
		FullName: "Dana", Email: "dana@example.com",
	}, order.PaymentInfo{Provider: order.ProviderOffline})

	orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	orders.On("Update", mock.Anything, o).Return(nil)
	users.On("FindByID", mock.Anything, "u1").Return(verifiedUser(), nil)
	users.On("AppendActivity", mock.Anything, "u1", mock.Anything).Return(nil)

	updated, warning, err := svc.UpdateStatus(context.Background(), o.ID, order.StatusShipped)
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, order.StatusShipped, updated.Status)
	assert.Empty(t, mailer.sent)

	_, warning, err = svc.UpdateStatus(context.Background(), o.ID, order.StatusDelivered)
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.True(t, o.HasTimelineLabel(order.LabelDeliveryNoteSent))
	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].Subject, "delivered")

	// repeating delivered neither duplicates the label nor resends
	n := len(o.Timeline)
	_, _, err = svc.UpdateStatus(context.Background(), o.ID, order.StatusDelivered)
	require.NoError(t, err)
	assert.Len(t, o.Timeline, n)
	assert.Len(t, mailer.sent, 1)
}

func TestService_Stats(t *testing.T) {
	orders := new(mockOrderRepo)
	svc := newTestService(orders, new(mockProductRepo), new(mockUserRepo), sentOK())

	now := time.Now()
	old := now.AddDate(0, 0, -30)
	recent := order.New("u1", nil, decimal.NewFromInt(100), order.ShippingInfo{}, order.PaymentInfo{Provider: order.ProviderOffline})
	recent.Total = decimal.NewFromInt(100)
	older := order.New("u2", nil, decimal.NewFromInt(50), order.ShippingInfo{}, order.PaymentInfo{Provider: order.ProviderOffline})
	older.Total = decimal.NewFromInt(50)
	older.PaidAt = &old

	orders.On("ListPaid", mock.Anything).Return([]*order.Order{recent, older}, nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.PaidOrders)
	assert.Equal(t, "150", stats.Revenue.String())
	require.Len(t, stats.Daily, 7)

	today := now.Format("2006-01-02")
	var todayTotal decimal.Decimal
	for _, d := range stats.Daily {
		if d.Day == today {
			todayTotal = d.Total
		}
	}
	assert.Equal(t, "100", todayTotal.String(), "orders outside the window only count toward revenue")
}

func TestService_Customers(t *testing.T) {
	orders := new(mockOrderRepo)
	users := new(mockUserRepo)
	svc := newTestService(orders, new(mockProductRepo), users, sentOK())

	u := verifiedUser()
	users.On("ListAll", mock.Anything).Return([]*identity.User{u}, nil)
	orders.On("ActivityByUser", mock.Anything).Return(map[string]order.CustomerActivity{
		"u1": {UserID: "u1", OrderCount: 3, TotalSpent: decimal.NewFromInt(648)},
	}, nil)

	views, err := svc.Customers(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 3, views[0].OrderCount)
	assert.Equal(t, "648", views[0].TotalSpent.String())
}
