package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/qiustore/backend/internal/application/identity"
	"github.com/qiustore/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role" binding:"omitempty,oneof=customer sales"`
	SalesCode string `json:"sales_code"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// VerifyRequest carries the email verification code
type VerifyRequest struct {
	Code string `json:"code" binding:"required"`
}

// Register creates a new account and returns a session token
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Name, email and password are required")
		return
	}

	result, mailWarning, err := h.authService.Register(c.Request.Context(), identityapp.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		SalesCode: req.SalesCode,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.CreatedWithWarning(c, result, mailWarning)
}

// Login checks credentials and returns a session token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Email and password are required")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Me returns the currently authenticated user
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.GetByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Verify consumes an email verification code
func (h *AuthHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Verification code is required")
		return
	}

	user, err := h.authService.Verify(c.Request.Context(), middleware.GetUserID(c), req.Code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Resend issues and mails a fresh verification code
func (h *AuthHandler) Resend(c *gin.Context) {
	mailWarning, err := h.authService.Resend(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithWarning(c, gin.H{"resent": true}, mailWarning)
}
