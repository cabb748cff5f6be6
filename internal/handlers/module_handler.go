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

// ModuleService is the interface that wraps methods for topic module operations
type ModuleService interface {
	// GetByTopicID retrieves a topic's modules with their videos
	GetByTopicID(ctx context.Context, topicID int) ([]models.TopicModule, error)
	// GetByID retrieves a module with its videos
	GetByID(ctx context.Context, id int) (*models.TopicModule, error)
	// Create adds a module to a topic
	Create(ctx context.Context, topicID int, request *models.CreateModuleRequest) (*models.TopicModule, error)
	// Update applies a partial update to a module
	Update(ctx context.Context, id int, fields map[string]any) (*models.TopicModule, error)
	// Delete deletes a module, cascading its videos
	Delete(ctx context.Context, id int) error
	// Reorder applies an explicit ordering to a topic's modules
	Reorder(ctx context.Context, topicID int, entries []models.ReorderEntry) ([]models.TopicModule, error)
}

// ModuleHandler handles topic module HTTP requests
type ModuleHandler struct {
	BaseHandler
	service ModuleService
}

// NewModuleHandler creates a new module handler
func NewModuleHandler(svc ModuleService, logger *zap.Logger) *ModuleHandler {
	return &ModuleHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all module handler routes
// Note: This assumes the router is already scoped to /api
func (h *ModuleHandler) RegisterRoutes(r chi.Router) {
	r.Route("/topics/{topicId}/modules", func(r chi.Router) {
		r.Get("/", h.GetByTopicID)
		r.Post("/", h.Create)
		r.Post("/reorder", h.Reorder)
	})
	r.Route("/modules/{id}", func(r chi.Router) {
		r.Get("/", h.GetByID)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

// GetByTopicID handles GET /topics/{topicId}/modules
func (h *ModuleHandler) GetByTopicID(w http.ResponseWriter, r *http.Request) {
	topicID, err := strconv.Atoi(chi.URLParam(r, "topicId"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid topic ID")
		return
	}

	modules, err := h.service.GetByTopicID(r.Context(), topicID)
	if err != nil {
		h.Logger.Error("failed to get modules", zap.Error(err), zap.Int("topicId", topicID))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, modules)
}

// GetByID handles GET /modules/{id}
func (h *ModuleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid module ID")
		return
	}

	module, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.Logger.Error("failed to get module", zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, module)
}

// Create handles POST /topics/{topicId}/modules
func (h *ModuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	topicID, err := strconv.Atoi(chi.URLParam(r, "topicId"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid topic ID")
		return
	}

	var req models.CreateModuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	module, err := h.service.Create(r.Context(), topicID, &req)
	if err != nil {
		h.Logger.Error("failed to create module", zap.Error(err), zap.Int("topicId", topicID))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusCreated, module)
}

// Update handles PUT /modules/{id}
func (h *ModuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid module ID")
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	module, err := h.service.Update(r.Context(), id, fields)
	if err != nil {
		h.Logger.Error("failed to update module", zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, module)
}

// Delete handles DELETE /modules/{id}
func (h *ModuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid module ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.Logger.Error("failed to delete module", zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondMessage(w, http.StatusOK, "module deleted successfully")
}

// Reorder handles POST /topics/{topicId}/modules/reorder
func (h *ModuleHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	topicID, err := strconv.Atoi(chi.URLParam(r, "topicId"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid topic ID")
		return
	}

	var entries []models.ReorderEntry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	modules, err := h.service.Reorder(r.Context(), topicID, entries)
	if err != nil {
		h.Logger.Error("failed to reorder modules", zap.Error(err), zap.Int("topicId", topicID))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, modules)
}
