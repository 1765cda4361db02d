package handler

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gigmarket-backend/internal/infrastructure/storage"
	"gigmarket-backend/internal/shared/middleware"
	"gigmarket-backend/internal/shared/response"
	"gigmarket-backend/pkg/logger"
)

// =====================================================
// UPLOAD HANDLER
// =====================================================

// maxUploadBytes caps deliverable uploads at 50 MB
const maxUploadBytes = 50 << 20

type UploadHandler struct {
	storage storage.ObjectStorage
}

func NewUploadHandler(objectStorage storage.ObjectStorage) *UploadHandler {
	return &UploadHandler{storage: objectStorage}
}

// RegisterRoutes mounts the upload route. Requires auth.
func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads", h.Upload)
}

// Upload stores a file and returns its URL. Callers attach the URL to a
// delivery or gig as deliverable metadata.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "a file field is required")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		response.UnprocessableEntity(c, "file exceeds the 50MB upload limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "unreadable file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		response.InternalServerError(c, "failed to read upload")
		return
	}

	actor := middleware.ActorFrom(c)
	objectName := fmt.Sprintf("uploads/%s/%s%s",
		actor.ID, uuid.New().String(), sanitizedExt(fileHeader.Filename))

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.storage.Upload(c.Request.Context(), objectName, data, contentType)
	if err != nil {
		logger.Error("failed to store upload", err)
		response.InternalServerError(c, "failed to store file")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"file_name": fileHeader.Filename,
		"file_url":  url,
	})
}

// sanitizedExt keeps only a simple lowercase extension from the
// client-supplied name.
func sanitizedExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}
