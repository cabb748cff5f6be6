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

// TopicService is the interface that wraps methods for topic operations
type TopicService interface {
	// GetAll retrieves a paginated list of topics matching the filter
	//
	// If some error will occur during data retrieve, the error will be returned together with "nil" value.
	GetAll(ctx context.Context, filter models.TopicListFilter) ([]models.Topic, *models.Pagination, error)
	// GetByID retrieves a topic with its nested modules and videos
	GetByID(ctx context.Context, id int) (*models.Topic, error)
	// Create creates a topic with optional nested modules
	Create(ctx context.Context, request *models.CreateTopicRequest) (*models.Topic, error)
	// Update applies a partial scalar update and reconciles nested modules
	// when the payload carries them
	Update(ctx context.Context, id int, fields map[string]any, modules []models.ModuleInput, reconcile bool) (*models.Topic, error)
	// Delete deletes a topic, cascading modules and videos
	Delete(ctx context.Context, id int) error
	// Publish transitions a draft topic to published
	Publish(ctx context.Context, id int) (*models.Topic, error)
	// Archive transitions a published topic to archived
	Archive(ctx context.Context, id int) (*models.Topic, error)
	// ToggleStatus flips a topic between draft and published
	ToggleStatus(ctx context.Context, id int) (*models.Topic, error)
	// ToggleFeatured flips the isFeatured flag
	ToggleFeatured(ctx context.Context, id int) (*models.Topic, error)
	// Duplicate copies a topic with all its children into a new draft
	Duplicate(ctx context.Context, id int) (*models.Topic, error)
	// Export dumps every topic with its full nested structure
	Export(ctx context.Context) (*models.TopicExport, error)
	// Import bulk-creates topics from an export dump
	Import(ctx context.Context, export *models.TopicExport) (int, error)
}

// TopicHandler handles topic HTTP requests
type TopicHandler struct {
	BaseHandler
	service TopicService
}

// NewTopicHandler creates a new topic handler
func NewTopicHandler(svc TopicService, logger *zap.Logger) *TopicHandler {
	return &TopicHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all topic handler routes
// Note: This assumes the router is already scoped to /api
func (h *TopicHandler) RegisterRoutes(r chi.Router) {
	r.Route("/topics", func(r chi.Router) {
		r.Get("/", h.GetAll)
		r.Post("/", h.Create)
		r.Get("/export", h.Export)
		r.Post("/import", h.Import)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/publish", h.Publish)
		r.Post("/{id}/archive", h.Archive)
		r.Post("/{id}/toggle-status", h.ToggleStatus)
		r.Post("/{id}/toggle-featured", h.ToggleFeatured)
		r.Post("/{id}/duplicate", h.Duplicate)
	})
}

// GetAll handles GET /topics
func (h *TopicHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := models.TopicListFilter{
		Status:     query.Get("status"),
		Difficulty: query.Get("difficulty"),
		Search:     query.Get("search"),
		SortBy:     query.Get("sortBy"),
		SortDir:    query.Get("sortDir"),
	}
	filter.Page, _ = strconv.Atoi(query.Get("page"))
	filter.Limit, _ = strconv.Atoi(query.Get("limit"))
	filter.CategoryID, _ = strconv.Atoi(query.Get("categoryId"))
	filter.SubcategoryID, _ = strconv.Atoi(query.Get("subcategoryId"))

	if v := query.Get("isFeatured"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.IsFeatured = &b
		}
	}
	if v := query.Get("isFree"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.IsFree = &b
		}
	}

	topics, pagination, err := h.service.GetAll(r.Context(), filter)
	if err != nil {
		h.Logger.Error("failed to get topics", zap.Error(err))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondList(w, http.StatusOK, topics, pagination)
}

// GetByID handles GET /topics/{id}
func (h *TopicHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid topic ID")
		return
	}

	topic, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.Logger.Error("failed to get topic", zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, topic)
}

// Create handles POST /topics
func (h *TopicHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	topic, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.Logger.Error("failed to create topic", zap.Error(err))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusCreated, topic)
}

// Update handles PUT /topics/{id}. Scalar fields come as a partial map;
// a "modules" key carries the full desired child set for reconciliation.
func (h *TopicHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid topic ID")
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var modules []models.ModuleInput
	rawModules, reconcile := fields["modules"]
	if reconcile {
		delete(fields, "modules")
		encoded, err := json.Marshal(rawModules)
		if err != nil || json.Unmarshal(encoded, &modules) != nil {
			h.RespondError(w, http.StatusBadRequest, "invalid modules payload")
			return
		}
	}

	topic, err := h.service.Update(r.Context(), id, fields, modules, reconcile)
	if err != nil {
		h.Logger.Error("failed to update topic", zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, topic)
}

// Delete handles DELETE /topics/{id}
func (h *TopicHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid topic ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.Logger.Error("failed to delete topic", zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondMessage(w, http.StatusOK, "topic deleted successfully")
}

// Publish handles POST /topics/{id}/publish
func (h *TopicHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Publish, "failed to publish topic")
}

// Archive handles POST /topics/{id}/archive
func (h *TopicHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Archive, "failed to archive topic")
}

// ToggleStatus handles POST /topics/{id}/toggle-status
func (h *TopicHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.ToggleStatus, "failed to toggle topic status")
}

// ToggleFeatured handles POST /topics/{id}/toggle-featured
func (h *TopicHandler) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.ToggleFeatured, "failed to toggle topic featured flag")
}

// Duplicate handles POST /topics/{id}/duplicate
func (h *TopicHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid topic ID")
		return
	}

	topic, err := h.service.Duplicate(r.Context(), id)
	if err != nil {
		h.Logger.Error("failed to duplicate topic", zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusCreated, topic)
}

// Export handles GET /topics/export
func (h *TopicHandler) Export(w http.ResponseWriter, r *http.Request) {
	export, err := h.service.Export(r.Context())
	if err != nil {
		h.Logger.Error("failed to export topics", zap.Error(err))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, export)
}

// Import handles POST /topics/import
func (h *TopicHandler) Import(w http.ResponseWriter, r *http.Request) {
	var export models.TopicExport
	if err := json.NewDecoder(r.Body).Decode(&export); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.service.Import(r.Context(), &export)
	if err != nil {
		h.Logger.Error("failed to import topics", zap.Error(err))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusCreated, map[string]int{"imported": created})
}

// transition runs a single-topic status operation shared by the POST action routes
func (h *TopicHandler) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, int) (*models.Topic, error), logMsg string) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid topic ID")
		return
	}

	topic, err := op(r.Context(), id)
	if err != nil {
		h.Logger.Error(logMsg, zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, topic)
}
