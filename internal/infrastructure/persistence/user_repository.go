package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/qiustore/backend/internal/domain/identity"
	"github.com/qiustore/backend/internal/domain/shared"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type activityEntryDoc struct {
	Action string    `bson:"action"`
	At     time.Time `bson:"at"`
}

type userDoc struct {
	ID            string             `bson:"_id"`
	Name          string             `bson:"name"`
	Email         string             `bson:"email"`
	PasswordHash  string             `bson:"password_hash"`
	Role          string             `bson:"role"`
	EmailVerified bool               `bson:"email_verified"`
	CodeHash      string             `bson:"code_hash,omitempty"`
	CodeExpiresAt *time.Time         `bson:"code_expires_at,omitempty"`
	Activity      []activityEntryDoc `bson:"activity,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func toUserDoc(u *identity.User) userDoc {
	activity := make([]activityEntryDoc, len(u.Activity))
	for i, e := range u.Activity {
		activity[i] = activityEntryDoc{Action: e.Action, At: e.At}
	}
	return userDoc{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		CodeHash:      u.CodeHash,
		CodeExpiresAt: u.CodeExpiresAt,
		Activity:      activity,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (d userDoc) toDomain() *identity.User {
	activity := make([]identity.ActivityEntry, len(d.Activity))
	for i, e := range d.Activity {
		activity[i] = identity.ActivityEntry{Action: e.Action, At: e.At}
	}
	return &identity.User{
		ID:            d.ID,
		Name:          d.Name,
		Email:         d.Email,
		PasswordHash:  d.PasswordHash,
		Role:          d.Role,
		EmailVerified: d.EmailVerified,
		CodeHash:      d.CodeHash,
		CodeExpiresAt: d.CodeExpiresAt,
		Activity:      activity,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// MongoUserRepository implements identity.Repository
type MongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository creates a user repository over the database
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{col: db.Collection(usersCollection)}
}

// Create inserts a new user
func (r *MongoUserRepository) Create(ctx context.Context, u *identity.User) error {
	_, err := r.col.InsertOne(ctx, toUserDoc(u))
	return err
}

// Update replaces a stored user. The stored code hash is written with $set
// and $unset so a cleared verification code actually disappears.
func (r *MongoUserRepository) Update(ctx context.Context, u *identity.User) error {
	doc := toUserDoc(u)
	update := bson.M{"$set": doc}
	if doc.CodeHash == "" {
		update = bson.M{
			"$set":   doc,
			"$unset": bson.M{"code_hash": "", "code_expires_at": ""},
		}
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": u.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID fetches one user
func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*identity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByEmail fetches one user by normalized email
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*identity.User, error) {
	var doc userDoc
	err := r.col.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// ListAll returns every user, newest first
func (r *MongoUserRepository) ListAll(ctx context.Context) ([]*identity.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]*identity.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, nil
}

// AppendActivity pushes one entry onto a user's activity log
func (r *MongoUserRepository) AppendActivity(ctx context.Context, userID string, entry identity.ActivityEntry) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{"activity": activityEntryDoc{Action: entry.Action, At: entry.At}},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}
