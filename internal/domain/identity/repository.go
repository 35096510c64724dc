package identity

import "context"

// Repository persists user accounts in the document store
type Repository interface {
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ListAll(ctx context.Context) ([]*User, error)
	AppendActivity(ctx context.Context, userID string, entry ActivityEntry) error
}
