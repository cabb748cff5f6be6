package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
	"go.uber.org/zap"
)

// VideoService is the interface that wraps methods for topic video operations
type VideoService interface {
	// GetByModuleID retrieves a module's videos
	GetByModuleID(ctx context.Context, moduleID int) ([]models.TopicVideo, error)
	// GetByID retrieves a video by its ID
	GetByID(ctx context.Context, id int) (*models.TopicVideo, error)
	// Create adds a video to a module
	Create(ctx context.Context, moduleID int, request *models.CreateVideoRequest) (*models.TopicVideo, error)
	// Update applies a partial update to a video
	Update(ctx context.Context, id int, fields map[string]any) (*models.TopicVideo, error)
	// Delete deletes a video
	Delete(ctx context.Context, id int) error
	// Reorder applies an explicit ordering to a module's videos
	Reorder(ctx context.Context, moduleID int, entries []models.ReorderEntry) ([]models.TopicVideo, error)
}

// VideoHandler handles topic video HTTP requests
type VideoHandler struct {
	BaseHandler
	service VideoService
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(svc VideoService, logger *zap.Logger) *VideoHandler {
	return &VideoHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all video handler routes
// Note: This assumes the router is already scoped to /api
func (h *VideoHandler) RegisterRoutes(r chi.Router) {
	r.Route("/modules/{moduleId}/videos", func(r chi.Router) {
		r.Get("/", h.GetByModuleID)
		r.Post("/", h.Create)
		r.Post("/reorder", h.Reorder)
	})
	r.Route("/videos/{id}", func(r chi.Router) {
		r.Get("/", h.GetByID)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

// GetByModuleID handles GET /modules/{moduleId}/videos
func (h *VideoHandler) GetByModuleID(w http.ResponseWriter, r *http.Request) {
	moduleID, err := strconv.Atoi(chi.URLParam(r, "moduleId"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid module ID")
		return
	}

	videos, err := h.service.GetByModuleID(r.Context(), moduleID)
	if err != nil {
		h.Logger.Error("failed to get videos", zap.Error(err), zap.Int("moduleId", moduleID))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, videos)
}

// GetByID handles GET /videos/{id}
func (h *VideoHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid video ID")
		return
	}

	video, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.Logger.Error("failed to get video", zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, video)
}

// Create handles POST /modules/{moduleId}/videos
func (h *VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	moduleID, err := strconv.Atoi(chi.URLParam(r, "moduleId"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid module ID")
		return
	}

	var req models.CreateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	video, err := h.service.Create(r.Context(), moduleID, &req)
	if err != nil {
		h.Logger.Error("failed to create video", zap.Error(err), zap.Int("moduleId", moduleID))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusCreated, video)
}

// Update handles PUT /videos/{id}
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid video ID")
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	video, err := h.service.Update(r.Context(), id, fields)
	if err != nil {
		h.Logger.Error("failed to update video", zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, video)
}

// Delete handles DELETE /videos/{id}
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid video ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.Logger.Error("failed to delete video", zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondMessage(w, http.StatusOK, "video deleted successfully")
}

// Reorder handles POST /modules/{moduleId}/videos/reorder
func (h *VideoHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	moduleID, err := strconv.Atoi(chi.URLParam(r, "moduleId"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid module ID")
		return
	}

	var entries []models.ReorderEntry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	videos, err := h.service.Reorder(r.Context(), moduleID, entries)
	if err != nil {
		h.Logger.Error("failed to reorder videos", zap.Error(err), zap.Int("moduleId", moduleID))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, videos)
}
