package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/qiustore/backend/internal/domain/order"
	"github.com/qiustore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderItemDoc struct {
	ProductID string `bson:"product_id"`
	Name      string `bson:"name"`
	Summary   string `bson:"summary,omitempty"`
	Price     string `bson:"price"`
	Quantity  int    `bson:"quantity"`
}

type timelineEntryDoc struct {
	Label string    `bson:"label"`
	At    time.Time `bson:"at"`
}

type shippingDoc struct {
	FullName   string `bson:"full_name"`
	Email      string `bson:"email,omitempty"`
	Address    string `bson:"address"`
	City       string `bson:"city"`
	PostalCode string `bson:"postal_code"`
	Country    string `bson:"country"`
}

type paymentDoc struct {
	Method   string `bson:"method"`
	Provider string `bson:"provider"`
	Status   string `bson:"status"`
	IntentID string `bson:"intent_id,omitempty"`
}

type orderDoc struct {
	ID        string             `bson:"_id"`
	UserID    string             `bson:"user_id"`
	Items     []orderItemDoc     `bson:"items"`
	Total     string             `bson:"total"`
	Status    string             `bson:"status"`
	Timeline  []timelineEntryDoc `bson:"timeline"`
	Paid      bool               `bson:"paid"`
	PaidAt    *time.Time         `bson:"paid_at,omitempty"`
	Shipping  shippingDoc        `bson:"shipping"`
	Payment   paymentDoc         `bson:"payment"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func toOrderDoc(o *order.Order) orderDoc {
	items := make([]orderItemDoc, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemDoc{
			ProductID: it.ProductID,
			Name:      it.Name,
			Summary:   it.Summary,
			Price:     it.Price.String(),
			Quantity:  it.Quantity,
		}
	}
	timeline := make([]timelineEntryDoc, len(o.Timeline))
	for i, e := range o.Timeline {
		timeline[i] = timelineEntryDoc{Label: e.Label, At: e.At}
	}
	return orderDoc{
		ID:       o.ID,
		UserID:   o.UserID,
		Items:    items,
		Total:    o.Total.String(),
		Status:   o.Status,
		Timeline: timeline,
		Paid:     o.Paid,
		PaidAt:   o.PaidAt,
		Shipping: shippingDoc{
			FullName:   o.Shipping.FullName,
			Email:      o.Shipping.Email,
			Address:    o.Shipping.Address,
			City:       o.Shipping.City,
			PostalCode: o.Shipping.PostalCode,
			Country:    o.Shipping.Country,
		},
		Payment: paymentDoc{
			Method:   o.Payment.Method,
			Provider: o.Payment.Provider,
			Status:   o.Payment.Status,
			IntentID: o.Payment.IntentID,
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func (d orderDoc) toDomain() (*order.Order, error) {
	total, err := decimal.NewFromString(d.Total)
	if err != nil {
		return nil, shared.Internal("Stored order total is corrupt")
	}
	items := make([]order.Item, len(d.Items))
	for i, it := range d.Items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return nil, shared.Internal("Stored order item price is corrupt")
		}
		items[i] = order.Item{
			ProductID: it.ProductID,
			Name:      it.Name,
			Summary:   it.Summary,
			Price:     price,
			Quantity:  it.Quantity,
		}
	}
	timeline := make([]order.TimelineEntry, len(d.Timeline))
	for i, e := range d.Timeline {
		timeline[i] = order.TimelineEntry{Label: e.Label, At: e.At}
	}
	return &order.Order{
		ID:       d.ID,
		UserID:   d.UserID,
		Items:    items,
		Total:    total,
		Status:   d.Status,
		Timeline: timeline,
		Paid:     d.Paid,
		PaidAt:   d.PaidAt,
		Shipping: order.ShippingInfo{
			FullName:   d.Shipping.FullName,
			Email:      d.Shipping.Email,
			Address:    d.Shipping.Address,
			City:       d.Shipping.City,
			PostalCode: d.Shipping.PostalCode,
			Country:    d.Shipping.Country,
		},
		Payment: order.PaymentInfo{
			Method:   d.Payment.Method,
			Provider: d.Payment.Provider,
			Status:   d.Payment.Status,
			IntentID: d.Payment.IntentID,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

// MongoOrderRepository implements order.Repository
type MongoOrderRepository struct {
	col *mongo.Collection
}

// NewMongoOrderRepository creates an order repository over the database
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection(ordersCollection)}
}

// Create inserts a new order
func (r *MongoOrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.col.InsertOne(ctx, toOrderDoc(o))
	return err
}

// Update replaces a stored order
func (r *MongoOrderRepository) Update(ctx context.Context, o *order.Order) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": o.ID}, toOrderDoc(o))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID fetches one order
func (r *MongoOrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByPaymentIntent fetches the order opened for a payment intent
func (r *MongoOrderRepository) FindByPaymentIntent(ctx context.Context, intentID string) (*order.Order, error) {
	return r.findOne(ctx, bson.M{"payment.intent_id": intentID})
}

func (r *MongoOrderRepository) findOne(ctx context.Context, filter bson.M) (*order.Order, error) {
	var doc orderDoc
	err := r.col.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain()
}

// ListByUser returns one user's orders, newest first
func (r *MongoOrderRepository) ListByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

// ListAll returns every order, newest first
func (r *MongoOrderRepository) ListAll(ctx context.Context) ([]*order.Order, error) {
	return r.list(ctx, bson.M{})
}

// ListPaid returns every paid order, newest first
func (r *MongoOrderRepository) ListPaid(ctx context.Context) ([]*order.Order, error) {
	return r.list(ctx, bson.M{"paid": true})
}

func (r *MongoOrderRepository) list(ctx context.Context, filter bson.M) ([]*order.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(docs))
	for _, d := range docs {
		o, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// ActivityByUser folds every order into per-user purchase summaries.
// Totals are stored as decimal strings, so the sum happens client-side.
func (r *MongoOrderRepository) ActivityByUser(ctx context.Context) (map[string]order.CustomerActivity, error) {
	orders, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	activity := make(map[string]order.CustomerActivity)
	for _, o := range orders {
		a := activity[o.UserID]
		a.UserID = o.UserID
		a.OrderCount++
		a.TotalSpent = a.TotalSpent.Add(o.Total)
		activity[o.UserID] = a
	}
	return activity, nil
}
