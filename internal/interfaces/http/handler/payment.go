package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	orderapp "github.com/qiustore/backend/internal/application/order"
	paymentapp "github.com/qiustore/backend/internal/application/payment"
	"github.com/qiustore/backend/internal/domain/order"
	"github.com/qiustore/backend/internal/infrastructure/payment"
)

// PaymentHandler handles payment intents and provider webhooks
type PaymentHandler struct {
	BaseHandler
	payments *paymentapp.Service
	orders   *orderapp.Service
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *paymentapp.Service, orders *orderapp.Service) *PaymentHandler {
	return &PaymentHandler{payments: payments, orders: orders}
}

// IntentRequest is the cart submitted for a payment intent
type IntentRequest struct {
	Items []struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	} `json:"items" binding:"required"`
}

// CreateStripeIntent opens a Stripe payment for the submitted cart
func (h *PaymentHandler) CreateStripeIntent(c *gin.Context) {
	h.createIntent(c, order.ProviderStripe)
}

// CreateAlipayIntent opens an Alipay payment for the submitted cart
func (h *PaymentHandler) CreateAlipayIntent(c *gin.Context) {
	h.createIntent(c, order.ProviderAlipay)
}

func (h *PaymentHandler) createIntent(c *gin.Context, provider string) {
	var req IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Cart items are required")
		return
	}

	items := make([]orderapp.ItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = orderapp.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	intent, err := h.payments.CreateIntent(c.Request.Context(), provider, items)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, intent)
}

// Webhook settles orders from provider notifications. Non-success statuses
// and unknown payment IDs are acknowledged without touching any order, so
// providers stop retrying.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Could not read webhook body")
		return
	}

	event, err := payment.ParseWebhook(body)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if !event.IsSuccess() {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	mailWarning, _, err := h.orders.ConfirmPayment(c.Request.Context(), event.PaymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := gin.H{"received": true}
	if mailWarning != "" {
		resp["mail_warning"] = mailWarning
	}
	c.JSON(http.StatusOK, resp)
}
