package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mockSlugChecker reports a slug as taken while it appears in the taken set
type mockSlugChecker struct {
	taken map[string]bool
	err   error
	calls []string
}

func (m *mockSlugChecker) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	m.calls = append(m.calls, slug)
	if m.err != nil {
		return false, m.err
	}
	return m.taken[slug], nil
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{
			name:     "simple title",
			title:    "Introduction to Phishing",
			expected: "introduction-to-phishing",
		},
		{
			name:     "special characters stripped",
			title:    "SQL Injection: Attack & Defense!",
			expected: "sql-injection-attack-defense",
		},
		{
			name:     "repeated separators collapsed",
			title:    "Zero  Trust -- Networking",
			expected: "zero-trust-networking",
		},
		{
			name:     "leading and trailing separators trimmed",
			title:    " - Cloud Security - ",
			expected: "cloud-security",
		},
		{
			name:     "digits kept",
			title:    "OWASP Top 10",
			expected: "owasp-top-10",
		},
		{
			name:     "only special characters",
			title:    "!!!",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.title))
		})
	}
}

func TestAllocateSlug(t *testing.T) {
	tests := []struct {
		name          string
		title         string
		checker       *mockSlugChecker
		expected      string
		expectedError bool
	}{
		{
			name:     "base slug free",
			title:    "Network Basics",
			checker:  &mockSlugChecker{taken: map[string]bool{}},
			expected: "network-basics",
		},
		{
			name:  "base slug taken",
			title: "Network Basics",
			checker: &mockSlugChecker{taken: map[string]bool{
				"network-basics": true,
			}},
			expected: "network-basics-1",
		},
		{
			name:  "first two suffixes taken",
			title: "Network Basics",
			checker: &mockSlugChecker{taken: map[string]bool{
				"network-basics":   true,
				"network-basics-1": true,
				"network-basics-2": true,
			}},
			expected: "network-basics-3",
		},
		{
			name:     "empty title falls back to topic",
			title:    "???",
			checker:  &mockSlugChecker{taken: map[string]bool{}},
			expected: "topic",
		},
		{
			name:          "checker error",
			title:         "Network Basics",
			checker:       &mockSlugChecker{err: errors.New("database error")},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug, err := allocateSlug(context.Background(), tt.checker, tt.title)

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, slug)
		})
	}
}
