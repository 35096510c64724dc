package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/qiustore/backend/internal/application/identity"
	"github.com/qiustore/backend/internal/interfaces/http/middleware"
)

// LogHandler appends entries to the caller's activity log
type LogHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewLogHandler creates a new activity log handler
func NewLogHandler(authService *identityapp.AuthService) *LogHandler {
	return &LogHandler{authService: authService}
}

// LogRequest carries the action to record
type LogRequest struct {
	Action string `json:"action" binding:"required"`
}

// Append records one activity entry for the authenticated user
func (h *LogHandler) Append(c *gin.Context) {
	var req LogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Action is required")
		return
	}

	if err := h.authService.LogActivity(c.Request.Context(), middleware.GetUserID(c), req.Action); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"logged": true})
}
