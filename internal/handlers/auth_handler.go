package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for OTP authentication operations
type AuthService interface {
	// Signup creates an unverified user and emails a signup code
	//
	// If some error will occur during signup, the error will be returned together with "nil" value.
	Signup(ctx context.Context, request *models.SignupRequest) (*models.User, error)
	// SendOtp issues a login code for an existing user
	SendOtp(ctx context.Context, email string) error
	// VerifyOtp exchanges a valid code for a session token pair
	VerifyOtp(ctx context.Context, request *models.VerifyOtpRequest) (*models.AuthTokens, error)
	// VerifySignupOtp exchanges a valid signup code for a session token pair
	// and marks the user verified
	VerifySignupOtp(ctx context.Context, request *models.VerifyOtpRequest) (*models.AuthTokens, error)
	// Logout revokes a refresh token
	Logout(ctx context.Context, refreshToken string) error
}

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	BaseHandler
	service AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all auth handler routes
// Note: This assumes the router is already scoped to /api
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		// OTP sends are additionally rate limited per IP
		r.With(httprate.LimitByIP(5, time.Minute)).Post("/send-otp", h.SendOtp)
		r.Post("/verify-otp", h.VerifyOtp)
		r.Post("/verify-signup-otp", h.VerifySignupOtp)
		r.Post("/logout", h.Logout)
	})
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		h.Logger.Error("failed to sign up user", zap.Error(err))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusCreated, user)
}

// SendOtp handles POST /auth/send-otp
func (h *AuthHandler) SendOtp(w http.ResponseWriter, r *http.Request) {
	var req models.SendOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.SendOtp(r.Context(), req.Email); err != nil {
		h.Logger.Error("failed to send otp", zap.Error(err))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondMessage(w, http.StatusOK, "otp sent successfully")
}

// VerifyOtp handles POST /auth/verify-otp
func (h *AuthHandler) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	h.verify(w, r, h.service.VerifyOtp, "failed to verify otp")
}

// VerifySignupOtp handles POST /auth/verify-signup-otp
func (h *AuthHandler) VerifySignupOtp(w http.ResponseWriter, r *http.Request) {
	h.verify(w, r, h.service.VerifySignupOtp, "failed to verify signup otp")
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req models.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		h.Logger.Error("failed to log out", zap.Error(err))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondMessage(w, http.StatusOK, "logged out successfully")
}

// verify runs one of the OTP verification operations
func (h *AuthHandler) verify(w http.ResponseWriter, r *http.Request, op func(context.Context, *models.VerifyOtpRequest) (*models.AuthTokens, error), logMsg string) {
	var req models.VerifyOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := op(r.Context(), &req)
	if err != nil {
		h.Logger.Error(logMsg, zap.Error(err))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondSuccess(w, http.StatusOK, tokens)
}
