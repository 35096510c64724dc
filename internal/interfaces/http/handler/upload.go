package handler

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/qiustore/backend/internal/infrastructure/storage"
)

// UploadHandler handles product image uploads
type UploadHandler struct {
	BaseHandler
	store   storage.Store
	maxSize int64
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(store storage.Store, maxSize int64) *UploadHandler {
	return &UploadHandler{store: store, maxSize: maxSize}
}

// Upload stores a single image file and returns its public URL
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		h.BadRequest(c, "An image file is required")
		return
	}

	if file.Size > h.maxSize {
		h.BadRequest(c, fmt.Sprintf("File exceeds the %d byte limit", h.maxSize))
		return
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		h.BadRequest(c, "Only image files can be uploaded")
		return
	}

	src, err := file.Open()
	if err != nil {
		h.BadRequest(c, "Could not read the uploaded file")
		return
	}
	defer src.Close()

	url, err := h.store.Save(c.Request.Context(), file.Filename, src)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{"url": url})
}
