package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		inbound  string
		expected func(t *testing.T, id string)
	}{
		{
			name:    "inbound header kept",
			inbound: "client-abc-123",
			expected: func(t *testing.T, id string) {
				assert.Equal(t, "client-abc-123", id)
			},
		},
		{
			name: "missing header gets a uuid",
			expected: func(t *testing.T, id string) {
				assert.Len(t, id, 36)
			},
		},
		{
			name:    "oversized header replaced",
			inbound: strings.Repeat("x", 65),
			expected: func(t *testing.T, id string) {
				assert.Len(t, id, 36)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctxID string
			handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctxID = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.inbound != "" {
				req.Header.Set("X-Request-ID", tt.inbound)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			headerID := rec.Header().Get("X-Request-ID")
			assert.Equal(t, headerID, ctxID)
			tt.expected(t, headerID)
		})
	}
}

func TestGetRequestID_OutsideMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Empty(t, GetRequestID(req.Context()))
}
