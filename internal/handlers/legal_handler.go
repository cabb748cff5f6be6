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

// LegalService is the interface that wraps methods for legal document operations
type LegalService interface {
	// GetCurrent retrieves the published version of a document type
	GetCurrent(ctx context.Context, docType models.LegalDocumentType) (*models.LegalDocument, error)
	// GetByID retrieves a document version by its ID
	GetByID(ctx context.Context, id int) (*models.LegalDocument, error)
	// ListVersions retrieves every version of a document type
	ListVersions(ctx context.Context, docType models.LegalDocumentType) ([]models.LegalDocument, error)
	// Create creates a new draft version
	Create(ctx context.Context, docType models.LegalDocumentType, request *models.CreateLegalDocumentRequest) (*models.LegalDocument, error)
	// UpdateDraft updates a draft version
	UpdateDraft(ctx context.Context, id int, request *models.CreateLegalDocumentRequest) (*models.LegalDocument, error)
	// Publish transitions a draft to published
	Publish(ctx context.Context, id int) (*models.LegalDocument, error)
	// Delete deletes a draft version
	Delete(ctx context.Context, id int) error
}

// LegalHandler handles legal document HTTP requests for both terms and privacy
type LegalHandler struct {
	BaseHandler
	service LegalService
}

// NewLegalHandler creates a new legal document handler
func NewLegalHandler(svc LegalService, logger *zap.Logger) *LegalHandler {
	return &LegalHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers the terms and privacy route trees
// Note: This assumes the router is already scoped to /api
func (h *LegalHandler) RegisterRoutes(r chi.Router) {
	h.registerType(r, "/terms", models.LegalTypeTerms)
	h.registerType(r, "/privacy", models.LegalTypePrivacy)
}

func (h *LegalHandler) registerType(r chi.Router, path string, docType models.LegalDocumentType) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", h.getCurrent(docType))
		r.Get("/versions", h.listVersions(docType))
		r.Post("/", h.create(docType))
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.UpdateDraft)
		r.Post("/{id}/publish", h.Publish)
		r.Delete("/{id}", h.Delete)
	})
}

// getCurrent handles GET /terms and GET /privacy
func (h *LegalHandler) getCurrent(docType models.LegalDocumentType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := h.service.GetCurrent(r.Context(), docType)
		if err != nil {
			h.Logger.Error("failed to get current document", zap.Error(err), zap.String("type", string(docType)))
			h.RespondError(w, statusFromError(err), err.Error())
			return
		}

		h.RespondSuccess(w, http.StatusOK, doc)
	}
}

// listVersions handles GET /terms/versions and GET /privacy/versions
func (h *LegalHandler) listVersions(docType models.LegalDocumentType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := h.service.ListVersions(r.Context(), docType)
		if err != nil {
			h.Logger.Error("failed to list document versions", zap.Error(err), zap.String("type", string(docType)))
			h.RespondError(w, statusFromError(err), err.Error())
			return
		}

		h.RespondSuccess(w, http.StatusOK, docs)
	}
}

// create handles POST /terms and POST /privacy
func (h *LegalHandler) create(docType models.LegalDocumentType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateLegalDocumentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		doc, err := h.service.Create(r.Context(), docType, &req)
		if err != nil {
			h.Logger.Error("failed to create document", zap.Error(err), zap.String("type", string(docType)))
			h.RespondError(w, statusFromError(err), err.Error())
			return
		}

		h.RespondSuccess(w, http.StatusCreated, doc)
	}
}

// GetByID handles GET /terms/{id} and GET /privacy/{id}
func (h *LegalHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	doc, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.Logger.Error("failed to get document", zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, doc)
}

// UpdateDraft handles PUT /terms/{id} and PUT /privacy/{id}
func (h *LegalHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	var req models.CreateLegalDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.service.UpdateDraft(r.Context(), id, &req)
	if err != nil {
		h.Logger.Error("failed to update document", zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, doc)
}

// Publish handles POST /terms/{id}/publish and POST /privacy/{id}/publish
func (h *LegalHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	doc, err := h.service.Publish(r.Context(), id)
	if err != nil {
		h.Logger.Error("failed to publish document", zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, doc)
}

// Delete handles DELETE /terms/{id} and DELETE /privacy/{id}
func (h *LegalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.Logger.Error("failed to delete document", zap.Error(err), zap.Int("id", id))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondMessage(w, http.StatusOK, "document deleted successfully")
}
