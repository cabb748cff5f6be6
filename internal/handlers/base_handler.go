package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
	"go.uber.org/zap"
)

// successResponse is the envelope for successful responses
type successResponse struct {
	Success    bool               `json:"success"`
	Data       any                `json:"data"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
	Message    string             `json:"message,omitempty"`
}

// errorResponse is the envelope for failed responses
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondSuccess sends a success envelope
func (h *BaseHandler) RespondSuccess(w http.ResponseWriter, status int, data any) {
	h.respondJSON(w, status, successResponse{Success: true, Data: data})
}

// RespondList sends a success envelope with pagination
func (h *BaseHandler) RespondList(w http.ResponseWriter, status int, data any, pagination *models.Pagination) {
	h.respondJSON(w, status, successResponse{Success: true, Data: data, Pagination: pagination})
}

// RespondMessage sends a success envelope carrying a message instead of data
func (h *BaseHandler) RespondMessage(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, successResponse{Success: true, Message: message})
}

// RespondError sends an error envelope
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, errorResponse{Success: false, Error: message})
}

func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// statusFromError maps service error messages to HTTP status codes
func statusFromError(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "already published"):
		return http.StatusConflict
	case strings.Contains(msg, "too many"):
		return http.StatusTooManyRequests
	case strings.Contains(msg, "exceeds"):
		return http.StatusRequestEntityTooLarge
	case strings.Contains(msg, "required"),
		strings.Contains(msg, "invalid"),
		strings.Contains(msg, "already"),
		strings.Contains(msg, "cannot be"),
		strings.Contains(msg, "does not exist"),
		strings.Contains(msg, "expired"),
		strings.Contains(msg, "not updatable"),
		strings.Contains(msg, "no fields"),
		strings.Contains(msg, "must be"),
		strings.Contains(msg, "no topics to import"),
		strings.Contains(msg, "no reorder entries"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
