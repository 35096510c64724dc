package handler

import (
	"github.com/gin-gonic/gin"
	orderapp "github.com/qiustore/backend/internal/application/order"
)

// AdminHandler handles the sales dashboard requests
type AdminHandler struct {
	BaseHandler
	orders *orderapp.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(orders *orderapp.Service) *AdminHandler {
	return &AdminHandler{orders: orders}
}

// UpdateStatusRequest carries the new fulfillment status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListOrders returns every order with its customer, newest first
func (h *AdminHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// UpdateOrderStatus sets an order's fulfillment status
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Status is required")
		return
	}

	order, mailWarning, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithWarning(c, order, mailWarning)
}

// Stats returns the paid-order sales summary
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.orders.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Customers returns every user with their purchasing summary
func (h *AdminHandler) Customers(c *gin.Context) {
	customers, err := h.orders.Customers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}
