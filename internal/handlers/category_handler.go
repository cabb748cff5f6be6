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

// CategoryService is the interface that wraps methods for category operations
type CategoryService interface {
	// GetAll retrieves a paginated list of categories
	//
	// If some error will occur during data retrieve, the error will be returned together with "nil" value.
	GetAll(ctx context.Context, page, limit int, status, search, sortBy, sortDir string) ([]models.Category, *models.Pagination, error)
	// GetByID retrieves a category by its ID
	GetByID(ctx context.Context, id int) (*models.Category, error)
	// Create creates a new category
	Create(ctx context.Context, request *models.CreateCategoryRequest) (*models.Category, error)
	// Update applies a partial update and returns the updated category
	Update(ctx context.Context, id int, fields map[string]any) (*models.Category, error)
	// Delete deletes a category
	Delete(ctx context.Context, id int) error
}

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	BaseHandler
	service CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(svc CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all category handler routes
// Note: This assumes the router is already scoped to /api
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.GetAll)
		r.Post("/", h.Create)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// GetAll handles GET /categories
func (h *CategoryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	categories, pagination, err := h.service.GetAll(r.Context(), page, limit,
		query.Get("status"), query.Get("search"), query.Get("sortBy"), query.Get("sortDir"))
	if err != nil {
		h.Logger.Error("failed to get categories", zap.Error(err))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondList(w, http.StatusOK, categories, pagination)
}

// GetByID handles GET /categories/{id}
func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	category, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.Logger.Error("failed to get category", zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, category)
}

// Create handles POST /categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.Logger.Error("failed to create category", zap.Error(err))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusCreated, category)
}

// Update handles PUT /categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.service.Update(r.Context(), id, fields)
	if err != nil {
		h.Logger.Error("failed to update category", zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, category)
}

// Delete handles DELETE /categories/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.Logger.Error("failed to delete category", zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondMessage(w, http.StatusOK, "category deleted successfully")
}
