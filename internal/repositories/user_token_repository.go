package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

type userTokenRepository struct {
	db *sql.DB
}

// NewUserTokenRepository creates a new user token repository
func NewUserTokenRepository(db *sql.DB) *userTokenRepository {
	return &userTokenRepository{
		db: db,
	}
}

// Create inserts a new refresh token row
func (r *userTokenRepository) Create(ctx context.Context, token *models.UserToken) error {
	query := `
		INSERT INTO user_tokens (user_id, token, expires_at)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, token.UserID, token.Token, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create user token: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	token.ID = int(id)
	return nil
}

// GetByToken retrieves a refresh token row by its token string
func (r *userTokenRepository) GetByToken(ctx context.Context, token string) (*models.UserToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, created_at
		FROM user_tokens
		WHERE token = ?
		LIMIT 1
	`

	var t models.UserToken
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("token not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	return &t, nil
}

// DeleteByToken removes a refresh token row
func (r *userTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	query := `DELETE FROM user_tokens WHERE token = ?`

	result, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("token not found")
	}

	return nil
}
