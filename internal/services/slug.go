package services

import (
	"context"
	"fmt"
	"strings"
)

// SlugChecker is the interface that wraps the slug uniqueness check
type SlugChecker interface {
	// ExistsBySlug checks if a topic with the given slug already exists
	//
	// If some error will occur during data check, the error will be returned together with "false" value.
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// Slugify converts a title into a URL-safe slug: lowercase, keep only
// letters, digits, spaces and hyphens, then collapse separators into
// single hyphens
func Slugify(title string) string {
	lower := strings.ToLower(title)

	var b strings.Builder
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteRune('-')
		}
	}

	slug := b.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}

// allocateSlug returns the first free slug derived from the title,
// appending -1, -2, ... until an unused candidate is found
func allocateSlug(ctx context.Context, checker SlugChecker, title string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "topic"
	}

	candidate := base
	for suffix := 1; ; suffix++ {
		exists, err := checker.ExistsBySlug(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug existence: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
}
