package handlers

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
	"github.com/gurram-saikumar/thinkcyber-server/internal/services"
	"go.uber.org/zap"
)

// UploadService is the interface that wraps methods for file upload operations
type UploadService interface {
	// Upload validates, stores and records an uploaded file
	//
	// If some error will occur during upload, the error will be returned together with "nil" value.
	Upload(ctx context.Context, reader io.Reader, originalName, contentType, uploadType string, size int64) (*models.Upload, error)
	// GetByID retrieves upload metadata by ID
	GetByID(ctx context.Context, id string) (*models.Upload, error)
	// GetFile returns an *os.File for use with http.ServeContent
	GetFile(filename, uploadType string) (*os.File, error)
	// Delete removes both the stored file and the metadata row
	Delete(ctx context.Context, id string) error
	// LinkToVideo attaches an upload to a topic video
	LinkToVideo(ctx context.Context, id string, request *models.LinkUploadRequest) (*models.TopicVideo, error)
}

// UploadHandler handles file upload HTTP requests
type UploadHandler struct {
	BaseHandler
	service UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(svc UploadService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all upload handler routes
// Note: This assumes the router is already scoped to /api
func (h *UploadHandler) RegisterRoutes(r chi.Router) {
	r.Route("/upload", func(r chi.Router) {
		r.Post("/{type}", h.Upload)
		r.Get("/{id}", h.GetByID)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/link", h.LinkToVideo)
		r.Get("/{type}/{filename}", h.ServeFile)
	})
}

// Upload handles POST /upload/{type}
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	uploadType := chi.URLParam(r, "type")
	if !models.ValidUploadType(uploadType) {
		h.RespondError(w, http.StatusBadRequest, "invalid upload type")
		return
	}

	// Reject oversized bodies before buffering the multipart form
	limit := services.SizeLimit(models.UploadType(uploadType))
	r.Body = http.MaxBytesReader(w, r.Body, limit+(1<<20))

	file, header, err := r.FormFile("file")
	if err != nil {
		h.Logger.Error("failed to read multipart file", zap.Error(err))
		h.RespondError(w, http.StatusRequestEntityTooLarge, "file is missing or exceeds the size limit")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(header.Filename))
	}

	upload, err := h.service.Upload(r.Context(), file, header.Filename, contentType, uploadType, header.Size)
	if err != nil {
		h.Logger.Error("failed to upload file", zap.Error(err), zap.String("type", uploadType))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusCreated, upload)
}

// GetByID handles GET /upload/{id}
func (h *UploadHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	upload, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.Logger.Error("failed to get upload", zap.Error(err), zap.String("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, upload)
}

// ServeFile handles GET /upload/{type}/{filename}, supporting range requests
func (h *UploadHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	uploadType := chi.URLParam(r, "type")
	filename := chi.URLParam(r, "filename")

	file, err := h.service.GetFile(filename, uploadType)
	if err != nil {
		if os.IsNotExist(err) {
			h.RespondError(w, http.StatusNotFound, "file not found")
			return
		}
		h.Logger.Error("failed to open file", zap.Error(err), zap.String("filename", filename))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		h.Logger.Error("failed to stat file", zap.Error(err), zap.String("filename", filename))
		h.RespondError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	http.ServeContent(w, r, filename, stat.ModTime(), file)
}

// Delete handles DELETE /upload/{id}
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.Logger.Error("failed to delete upload", zap.Error(err), zap.String("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondMessage(w, http.StatusOK, "upload deleted successfully")
}

// LinkToVideo handles POST /upload/{id}/link
func (h *UploadHandler) LinkToVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.LinkUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	video, err := h.service.LinkToVideo(r.Context(), id, &req)
	if err != nil {
		h.Logger.Error("failed to link upload to video", zap.Error(err), zap.String("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, video)
}
