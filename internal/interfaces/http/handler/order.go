package handler

import (
	"github.com/gin-gonic/gin"
	orderapp "github.com/qiustore/backend/internal/application/order"
	"github.com/qiustore/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles checkout and order tracking requests
type OrderHandler struct {
	BaseHandler
	orders *orderapp.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *orderapp.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// CreateOrderRequest is the checkout payload
type CreateOrderRequest struct {
	Items []struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	} `json:"items" binding:"required"`
	Shipping struct {
		FullName   string `json:"full_name"`
		Email      string `json:"email"`
		Address    string `json:"address"`
		City       string `json:"city"`
		PostalCode string `json:"postal_code"`
		Country    string `json:"country"`
	} `json:"shipping"`
	PaymentMethod   string `json:"payment_method"`
	PaymentProvider string `json:"payment_provider"`
	PaymentIntentID string `json:"payment_intent_id"`
}

// Create places an order for the authenticated user
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Order items are required")
		return
	}

	items := make([]orderapp.ItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = orderapp.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	order, mailWarning, err := h.orders.Create(c.Request.Context(), middleware.GetUserID(c), orderapp.CreateInput{
		Items: items,
		Shipping: orderapp.ShippingInput{
			FullName:   req.Shipping.FullName,
			Email:      req.Shipping.Email,
			Address:    req.Shipping.Address,
			City:       req.Shipping.City,
			PostalCode: req.Shipping.PostalCode,
			Country:    req.Shipping.Country,
		},
		PaymentMethod:   req.PaymentMethod,
		PaymentProvider: req.PaymentProvider,
		PaymentIntentID: req.PaymentIntentID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.CreatedWithWarning(c, order, mailWarning)
}

// ListMine returns the caller's orders, newest first
func (h *OrderHandler) ListMine(c *gin.Context) {
	orders, err := h.orders.ListMine(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}
