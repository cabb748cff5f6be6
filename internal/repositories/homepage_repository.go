package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

type homepageRepository struct {
	db *sql.DB
}

// NewHomepageRepository creates a new homepage repository
func NewHomepageRepository(db *sql.DB) *homepageRepository {
	return &homepageRepository{
		db: db,
	}
}

// GetByLanguage retrieves the homepage content for a language
func (r *homepageRepository) GetByLanguage(ctx context.Context, language string) (*models.HomepageContent, error) {
	query := `
		SELECT id, language, hero_title, hero_subtitle, hero_cta_text, hero_cta_link, sections, updated_at
		FROM homepage_content
		WHERE language = ?
		LIMIT 1
	`

	var h models.HomepageContent
	var sectionsJSON sql.NullString
	err := r.db.QueryRowContext(ctx, query, language).Scan(
		&h.ID, &h.Language, &h.HeroTitle, &h.HeroSubtitle, &h.HeroCTAText, &h.HeroCTALink,
		&sectionsJSON, &h.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("homepage content not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get homepage content: %w", err)
	}

	h.Sections = []models.HomepageSection{}
	if sectionsJSON.Valid && sectionsJSON.String != "" {
		if err := json.Unmarshal([]byte(sectionsJSON.String), &h.Sections); err != nil {
			return nil, fmt.Errorf("failed to parse homepage sections: %w", err)
		}
	}

	return &h, nil
}

// Upsert replaces the homepage content for a language, inserting the row on first write
func (r *homepageRepository) Upsert(ctx context.Context, content *models.HomepageContent) error {
	sectionsJSON, err := json.Marshal(content.Sections)
	if err != nil {
		return fmt.Errorf("failed to encode homepage sections: %w", err)
	}

	query := `
		INSERT INTO homepage_content (language, hero_title, hero_subtitle, hero_cta_text, hero_cta_link, sections)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			hero_title = VALUES(hero_title),
			hero_subtitle = VALUES(hero_subtitle),
			hero_cta_text = VALUES(hero_cta_text),
			hero_cta_link = VALUES(hero_cta_link),
			sections = VALUES(sections)
	`

	_, err = r.db.ExecContext(ctx, query,
		content.Language, content.HeroTitle, content.HeroSubtitle,
		content.HeroCTAText, content.HeroCTALink, string(sectionsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert homepage content: %w", err)
	}

	return nil
}
