package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/qiustore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item in the storefront catalog
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Summary   string          `json:"summary"`
	Image     string          `json:"image"`
	Colors    []string        `json:"colors"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewProduct creates a product after validating the required fields
func NewProduct(name, category string, price decimal.Decimal, stock int, summary, image string, colors []string) (*Product, error) {
	if err := validateFields(name, category, price, stock); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Product{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Category:  strings.TrimSpace(category),
		Price:     price,
		Stock:     stock,
		Summary:   summary,
		Image:     image,
		Colors:    colors,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update applies new field values, re-running the same validation as creation
func (p *Product) Update(name, category string, price decimal.Decimal, stock int, summary, image string, colors []string) error {
	if err := validateFields(name, category, price, stock); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Category = strings.TrimSpace(category)
	p.Price = price
	p.Stock = stock
	p.Summary = summary
	p.Image = image
	p.Colors = colors
	p.UpdatedAt = time.Now()
	return nil
}

// InStock reports whether the requested quantity can be fulfilled
func (p *Product) InStock(quantity int) bool {
	return quantity > 0 && quantity <= p.Stock
}

func validateFields(name, category string, price decimal.Decimal, stock int) error {
	if strings.TrimSpace(name) == "" {
		return shared.Validation("Product name is required")
	}
	if strings.TrimSpace(category) == "" {
		return shared.Validation("Product category is required")
	}
	if price.IsNegative() {
		return shared.Validation("Product price cannot be negative")
	}
	if stock < 0 {
		return shared.Validation("Product stock cannot be negative")
	}
	return nil
}
