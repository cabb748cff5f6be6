package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
	"go.uber.org/zap"
)

// HomepageService is the interface that wraps methods for homepage content operations
type HomepageService interface {
	// GetByLanguage retrieves homepage content for a language
	//
	// If some error will occur during data retrieve, the error will be returned together with "nil" value.
	GetByLanguage(ctx context.Context, language string) (*models.HomepageContent, error)
	// Upsert replaces a language's homepage content
	Upsert(ctx context.Context, language string, request *models.UpsertHomepageRequest) (*models.HomepageContent, error)
}

// HomepageHandler handles homepage content HTTP requests
type HomepageHandler struct {
	BaseHandler
	service HomepageService
}

// NewHomepageHandler creates a new homepage handler
func NewHomepageHandler(svc HomepageService, logger *zap.Logger) *HomepageHandler {
	return &HomepageHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all homepage handler routes
// Note: This assumes the router is already scoped to /api
func (h *HomepageHandler) RegisterRoutes(r chi.Router) {
	r.Route("/homepage/{language}", func(r chi.Router) {
		r.Get("/", h.GetByLanguage)
		r.Put("/", h.Upsert)
	})
}

// GetByLanguage handles GET /homepage/{language}
func (h *HomepageHandler) GetByLanguage(w http.ResponseWriter, r *http.Request) {
	language := chi.URLParam(r, "language")

	content, err := h.service.GetByLanguage(r.Context(), language)
	if err != nil {
		h.Logger.Error("failed to get homepage content", zap.Error(err), zap.String("language", language))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, content)
}

// Upsert handles PUT /homepage/{language}
func (h *HomepageHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	language := chi.URLParam(r, "language")

	var req models.UpsertHomepageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	content, err := h.service.Upsert(r.Context(), language, &req)
	if err != nil {
		h.Logger.Error("failed to upsert homepage content", zap.Error(err), zap.String("language", language))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, content)
}
