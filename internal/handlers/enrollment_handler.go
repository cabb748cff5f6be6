package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gurram-saikumar/thinkcyber-server/internal/auth"
	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
	"go.uber.org/zap"
)

// EnrollmentService is the interface that wraps methods for enrollment and review operations
type EnrollmentService interface {
	// Enroll enrolls a user in a topic
	Enroll(ctx context.Context, topicID, userID int) (*models.TopicEnrollment, error)
	// GetReviews retrieves a topic's reviews
	GetReviews(ctx context.Context, topicID int) ([]models.TopicReview, error)
	// CreateReview posts a rating with an optional comment
	CreateReview(ctx context.Context, topicID, userID int, request *models.CreateReviewRequest) (*models.TopicReview, error)
}

// EnrollmentHandler handles enrollment and review HTTP requests
type EnrollmentHandler struct {
	BaseHandler
	service        EnrollmentService
	authMiddleware func(http.Handler) http.Handler
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(svc EnrollmentService, authMiddleware func(http.Handler) http.Handler, logger *zap.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		service:        svc,
		authMiddleware: authMiddleware,
		BaseHandler:    BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers enrollment and review routes
// Note: This assumes the router is already scoped to /api
func (h *EnrollmentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/topics/{id}/reviews", h.GetReviews)
	r.Group(func(r chi.Router) {
		r.Use(h.authMiddleware)
		r.Post("/topics/{id}/enroll", h.Enroll)
		r.Post("/topics/{id}/reviews", h.CreateReview)
	})
}

// Enroll handles POST /topics/{id}/enroll
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	topicID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid topic ID")
		return
	}

	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	enrollment, err := h.service.Enroll(r.Context(), topicID, userID)
	if err != nil {
		h.Logger.Error("failed to enroll user", zap.Error(err), zap.Int("topicId", topicID), zap.Int("userId", userID))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusCreated, enrollment)
}

// GetReviews handles GET /topics/{id}/reviews
func (h *EnrollmentHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	topicID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid topic ID")
		return
	}

	reviews, err := h.service.GetReviews(r.Context(), topicID)
	if err != nil {
		h.Logger.Error("failed to get reviews", zap.Error(err), zap.Int("topicId", topicID))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, reviews)
}

// CreateReview handles POST /topics/{id}/reviews
func (h *EnrollmentHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	topicID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid topic ID")
		return
	}

	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.service.CreateReview(r.Context(), topicID, userID, &req)
	if err != nil {
		h.Logger.Error("failed to create review", zap.Error(err), zap.Int("topicId", topicID))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusCreated, review)
}
