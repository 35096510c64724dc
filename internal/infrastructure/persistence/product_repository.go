package persistence

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/qiustore/backend/internal/domain/catalog"
	"github.com/qiustore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// productDoc is the stored shape of a product. Money is kept as a decimal
// string to avoid float drift in the document store.
type productDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Category  string    `bson:"category"`
	Price     string    `bson:"price"`
	Stock     int       `bson:"stock"`
	Summary   string    `bson:"summary,omitempty"`
	Image     string    `bson:"image,omitempty"`
	Colors    []string  `bson:"colors,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toProductDoc(p *catalog.Product) productDoc {
	return productDoc{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price.String(),
		Stock:     p.Stock,
		Summary:   p.Summary,
		Image:     p.Image,
		Colors:    p.Colors,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (d productDoc) toDomain() (*catalog.Product, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return nil, shared.Internal("Stored product price is corrupt")
	}
	return &catalog.Product{
		ID:        d.ID,
		Name:      d.Name,
		Category:  d.Category,
		Price:     price,
		Stock:     d.Stock,
		Summary:   d.Summary,
		Image:     d.Image,
		Colors:    d.Colors,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

// MongoProductRepository implements catalog.ProductRepository
type MongoProductRepository struct {
	col *mongo.Collection
}

// NewMongoProductRepository creates a product repository over the database
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{col: db.Collection(productsCollection)}
}

// Create inserts a new product
func (r *MongoProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	_, err := r.col.InsertOne(ctx, toProductDoc(product))
	return err
}

// Update replaces a stored product
func (r *MongoProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": product.ID}, toProductDoc(product))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a product by ID
func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID fetches one product
func (r *MongoProductRepository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	var doc productDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain()
}

// List returns products matching the filter, newest first
func (r *MongoProductRepository) List(ctx context.Context, filter catalog.ListFilter) ([]*catalog.Product, int64, error) {
	query := bson.M{}
	if filter.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"summary": re},
		}
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if !filter.All {
		opts.SetSkip(int64((filter.Page - 1) * filter.PageSize))
		opts.SetLimit(int64(filter.PageSize))
	}

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	products := make([]*catalog.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toDomain()
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, nil
}

// Categories returns the distinct non-empty category names
func (r *MongoProductRepository) Categories(ctx context.Context) ([]string, error) {
	values, err := r.col.Distinct(ctx, "category", bson.M{"category": bson.M{"$ne": ""}})
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	return categories, nil
}

// DecrementStock decrements stock by quantity when enough remains, otherwise
// clamps the remaining stock to zero. The guarded $inc keeps concurrent
// checkouts from driving stock negative.
func (r *MongoProductRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	now := time.Now()
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": quantity}},
		bson.M{
			"$inc": bson.M{"stock": -quantity},
			"$set": bson.M{"updated_at": now},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Not enough stock left: clamp whatever remains to zero
	res, err = r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"stock": 0, "updated_at": now}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}
