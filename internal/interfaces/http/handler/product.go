package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/qiustore/backend/internal/application/catalog"
	"github.com/shopspring/decimal"
)

// ProductHandler handles catalog HTTP requests
type ProductHandler struct {
	BaseHandler
	products *catalogapp.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// ProductRequest is the create/update payload
type ProductRequest struct {
	Name     string          `json:"name" binding:"required"`
	Category string          `json:"category" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Summary  string          `json:"summary"`
	Image    string          `json:"image"`
	Colors   []string        `json:"colors"`
}

// ListQuery narrows the public listing
type ListQuery struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	All      bool   `form:"all"`
}

// List returns the public product listing
func (h *ProductHandler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, "Invalid listing parameters")
		return
	}

	products, total, err := h.products.List(c.Request.Context(), catalogapp.ListInput{
		Search:   q.Search,
		Category: q.Category,
		Page:     q.Page,
		PageSize: q.PageSize,
		All:      q.All,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if q.All {
		h.Success(c, products)
		return
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = 9
	}
	h.SuccessWithMeta(c, products, total, page, pageSize)
}

// Categories returns the distinct category names
func (h *ProductHandler) Categories(c *gin.Context) {
	categories, err := h.products.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// Get returns one product
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create adds a product to the catalog
func (h *ProductHandler) Create(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Name, category, price and stock are required")
		return
	}

	product, err := h.products.Create(c.Request.Context(), catalogapp.ProductInput{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Stock:    req.Stock,
		Summary:  req.Summary,
		Image:    req.Image,
		Colors:   req.Colors,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update modifies an existing product
func (h *ProductHandler) Update(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Name, category, price and stock are required")
		return
	}

	product, err := h.products.Update(c.Request.Context(), c.Param("id"), catalogapp.ProductInput{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Stock:    req.Stock,
		Summary:  req.Summary,
		Image:    req.Image,
		Colors:   req.Colors,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete removes a product from the catalog
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"deleted": true})
}
