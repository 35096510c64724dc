package catalog

import "context"

// ListFilter narrows and pages a product listing
type ListFilter struct {
	Search   string
	Category string
	Page     int
	PageSize int
	All      bool
}

// ProductRepository persists products in the document store
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, filter ListFilter) ([]*Product, int64, error)
	Categories(ctx context.Context) ([]string, error)

	// DecrementStock atomically decrements stock by quantity when at least
	// that much stock remains, otherwise clamps the remaining stock to zero.
	DecrementStock(ctx context.Context, id string, quantity int) error
}
