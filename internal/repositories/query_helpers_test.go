package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderBy(t *testing.T) {
	allowed := map[string]string{
		"name":      "name",
		"createdAt": "created_at",
	}

	tests := []struct {
		name     string
		sortBy   string
		sortDir  string
		expected string
	}{
		{
			name:     "allowed column ascending",
			sortBy:   "name",
			sortDir:  "asc",
			expected: "name ASC",
		},
		{
			name:     "allowed column descending",
			sortBy:   "createdAt",
			sortDir:  "DESC",
			expected: "created_at DESC",
		},
		{
			name:     "unknown direction normalized to ascending",
			sortBy:   "name",
			sortDir:  "sideways",
			expected: "name ASC",
		},
		{
			name:     "unknown column falls back to default",
			sortBy:   "password",
			sortDir:  "desc",
			expected: "created_at DESC",
		},
		{
			name:     "empty sort falls back to default",
			expected: "created_at DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, orderBy(allowed, tt.sortBy, tt.sortDir, "created_at DESC"))
		})
	}
}

func TestBuildSetClause(t *testing.T) {
	allowed := map[string]string{
		"name":   "name",
		"status": "status",
	}

	t.Run("deterministic column order", func(t *testing.T) {
		setParts, args, err := buildSetClause(allowed, map[string]any{
			"status": "Active",
			"name":   "Security",
		})

		assert.NoError(t, err)
		assert.Equal(t, []string{"name = ?", "status = ?"}, setParts)
		assert.Equal(t, []any{"Security", "Active"}, args)
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		_, _, err := buildSetClause(allowed, map[string]any{"id": 5})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), `field "id" is not updatable`)
	})

	t.Run("empty fields rejected", func(t *testing.T) {
		_, _, err := buildSetClause(allowed, map[string]any{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no fields to update")
	})
}
