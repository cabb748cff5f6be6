package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

type uploadRepository struct {
	db *sql.DB
}

// NewUploadRepository creates a new upload metadata repository
func NewUploadRepository(db *sql.DB) *uploadRepository {
	return &uploadRepository{
		db: db,
	}
}

// Create persists an upload metadata row
func (r *uploadRepository) Create(ctx context.Context, upload *models.Upload) error {
	query := `
		INSERT INTO uploads (id, original_name, filename, file_path, mime_type, size, upload_type, url, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	metadata := upload.Metadata
	if len(metadata) == 0 {
		metadata = []byte("{}")
	}

	_, err := r.db.ExecContext(ctx, query,
		upload.ID, upload.OriginalName, upload.Filename, upload.FilePath,
		upload.MimeType, upload.Size, upload.UploadType, upload.URL, string(metadata),
	)
	if err != nil {
		return fmt.Errorf("failed to create upload: %w", err)
	}

	return nil
}

// GetByID retrieves upload metadata by its opaque ID
func (r *uploadRepository) GetByID(ctx context.Context, id string) (*models.Upload, error) {
	query := `
		SELECT id, original_name, filename, file_path, mime_type, size, upload_type, url, metadata, created_at
		FROM uploads
		WHERE id = ?
		LIMIT 1
	`

	var u models.Upload
	var metadata sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.OriginalName, &u.Filename, &u.FilePath, &u.MimeType,
		&u.Size, &u.UploadType, &u.URL, &metadata, &u.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("upload not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get upload by id: %w", err)
	}

	if metadata.Valid {
		u.Metadata = []byte(metadata.String)
	}

	return &u, nil
}

// Delete removes an upload metadata row
func (r *uploadRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM uploads WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("upload not found")
	}

	return nil
}
