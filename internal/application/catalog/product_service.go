package catalog

import (
	"context"

	"github.com/qiustore/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// Listing page bounds
const (
	defaultPageSize = 9
	maxPageSize     = 60
)

// ProductInput carries the fields for creating or updating a product
type ProductInput struct {
	Name     string
	Category string
	Price    decimal.Decimal
	Stock    int
	Summary  string
	Image    string
	Colors   []string
}

// ListInput narrows and pages the public product listing
type ListInput struct {
	Search   string
	Category string
	Page     int
	PageSize int
	All      bool
}

// ProductService orchestrates catalog operations
type ProductService struct {
	products catalog.ProductRepository
}

// NewProductService creates a product service
func NewProductService(products catalog.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// List returns products matching the filter with normalized paging
func (s *ProductService) List(ctx context.Context, in ListInput) ([]*catalog.Product, int64, error) {
	filter := catalog.ListFilter{
		Search:   in.Search,
		Category: in.Category,
		Page:     in.Page,
		PageSize: in.PageSize,
		All:      in.All,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}
	return s.products.List(ctx, filter)
}

// Categories returns the distinct category names in the catalog
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.products.Categories(ctx)
}

// Get fetches one product by ID
func (s *ProductService) Get(ctx context.Context, id string) (*catalog.Product, error) {
	return s.products.FindByID(ctx, id)
}

// Create validates and stores a new product
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*catalog.Product, error) {
	p, err := catalog.NewProduct(in.Name, in.Category, in.Price, in.Stock, in.Summary, in.Image, in.Colors)
	if err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update validates and stores changes to an existing product
func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (*catalog.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Update(in.Name, in.Category, in.Price, in.Stock, in.Summary, in.Image, in.Colors); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a product from the catalog
func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}
