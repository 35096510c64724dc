package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qiustore/backend/internal/domain/shared"
	"github.com/qiustore/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithWarning sends a success response carrying a mail warning
func (h *BaseHandler) SuccessWithWarning(c *gin.Context, data any, mailWarning string) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithWarning(data, mailWarning))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// CreatedWithWarning sends a 201 created response carrying a mail warning
func (h *BaseHandler) CreatedWithWarning(c *gin.Context, data any, mailWarning string) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponseWithWarning(data, mailWarning))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(shared.CodeValidation, message))
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(shared.CodeUnauthorized, message))
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponse(shared.CodeNotFound, message))
}

// HandleError converts domain errors to HTTP responses, defaulting to 500
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		c.JSON(status, dto.NewErrorResponse(domainErr.Code, domainErr.Message))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		shared.CodeInternal,
		"An unexpected error occurred",
	))
}
