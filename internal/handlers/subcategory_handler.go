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

// SubcategoryService is the interface that wraps methods for subcategory operations
type SubcategoryService interface {
	// GetAll retrieves a paginated list of subcategories
	GetAll(ctx context.Context, page, limit, categoryID int, status, search, sortBy, sortDir string) ([]models.Subcategory, *models.Pagination, error)
	// GetByID retrieves a subcategory by its ID
	GetByID(ctx context.Context, id int) (*models.Subcategory, error)
	// Create creates a new subcategory
	Create(ctx context.Context, request *models.CreateSubcategoryRequest) (*models.Subcategory, error)
	// Update applies a partial update and returns the updated subcategory
	Update(ctx context.Context, id int, fields map[string]any) (*models.Subcategory, error)
	// Delete deletes a subcategory
	Delete(ctx context.Context, id int) error
}

// SubcategoryHandler handles subcategory HTTP requests
type SubcategoryHandler struct {
	BaseHandler
	service SubcategoryService
}

// NewSubcategoryHandler creates a new subcategory handler
func NewSubcategoryHandler(svc SubcategoryService, logger *zap.Logger) *SubcategoryHandler {
	return &SubcategoryHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all subcategory handler routes
// Note: This assumes the router is already scoped to /api
func (h *SubcategoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/subcategories", func(r chi.Router) {
		r.Get("/", h.GetAll)
		r.Post("/", h.Create)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// GetAll handles GET /subcategories
func (h *SubcategoryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	categoryID, _ := strconv.Atoi(query.Get("categoryId"))

	subcategories, pagination, err := h.service.GetAll(r.Context(), page, limit, categoryID,
		query.Get("status"), query.Get("search"), query.Get("sortBy"), query.Get("sortDir"))
	if err != nil {
		h.Logger.Error("failed to get subcategories", zap.Error(err))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondList(w, http.StatusOK, subcategories, pagination)
}

// GetByID handles GET /subcategories/{id}
func (h *SubcategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid subcategory ID")
		return
	}

	subcategory, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.Logger.Error("failed to get subcategory", zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, subcategory)
}

// Create handles POST /subcategories
func (h *SubcategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSubcategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	subcategory, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.Logger.Error("failed to create subcategory", zap.Error(err))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusCreated, subcategory)
}

// Update handles PUT /subcategories/{id}
func (h *SubcategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid subcategory ID")
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	subcategory, err := h.service.Update(r.Context(), id, fields)
	if err != nil {
		h.Logger.Error("failed to update subcategory", zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, subcategory)
}

// Delete handles DELETE /subcategories/{id}
func (h *SubcategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid subcategory ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.Logger.Error("failed to delete subcategory", zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondMessage(w, http.StatusOK, "subcategory deleted successfully")
}
