package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

type legalRepository struct {
	db *sql.DB
}

// NewLegalRepository creates a new legal document repository
func NewLegalRepository(db *sql.DB) *legalRepository {
	return &legalRepository{
		db: db,
	}
}

const legalColumns = `id, type, version, title, content, status, published_at, created_at, updated_at`

// GetCurrent retrieves the currently published document of the given type
func (r *legalRepository) GetCurrent(ctx context.Context, docType models.LegalDocumentType) (*models.LegalDocument, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM legal_documents
		WHERE type = ? AND status = 'published'
		ORDER BY version DESC
		LIMIT 1
	`, legalColumns)

	var d models.LegalDocument
	err := r.db.QueryRowContext(ctx, query, docType).Scan(
		&d.ID, &d.Type, &d.Version, &d.Title, &d.Content, &d.Status,
		&d.PublishedAt, &d.CreatedAt, &d.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("document not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current document: %w", err)
	}

	return &d, nil
}

// GetByID retrieves a document by its ID
func (r *legalRepository) GetByID(ctx context.Context, id int) (*models.LegalDocument, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM legal_documents
		WHERE id = ?
		LIMIT 1
	`, legalColumns)

	var d models.LegalDocument
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.Type, &d.Version, &d.Title, &d.Content, &d.Status,
		&d.PublishedAt, &d.CreatedAt, &d.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("document not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document by id: %w", err)
	}

	return &d, nil
}

// ListVersions retrieves all versions of a document type, newest first
func (r *legalRepository) ListVersions(ctx context.Context, docType models.LegalDocumentType) ([]models.LegalDocument, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM legal_documents
		WHERE type = ?
		ORDER BY version DESC
	`, legalColumns)

	rows, err := r.db.QueryContext(ctx, query, docType)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var documents []models.LegalDocument
	for rows.Next() {
		var d models.LegalDocument
		err := rows.Scan(&d.ID, &d.Type, &d.Version, &d.Title, &d.Content, &d.Status,
			&d.PublishedAt, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		documents = append(documents, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return documents, nil
}

// NextVersion returns the next version number for a document type
func (r *legalRepository) NextVersion(ctx context.Context, docType models.LegalDocumentType) (int, error) {
	query := `SELECT COALESCE(MAX(version), 0) + 1 FROM legal_documents WHERE type = ?`

	var version int
	if err := r.db.QueryRowContext(ctx, query, docType).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to compute next version: %w", err)
	}

	return version, nil
}

// Create inserts a new draft version
func (r *legalRepository) Create(ctx context.Context, doc *models.LegalDocument) error {
	query := `
		INSERT INTO legal_documents (type, version, title, content, status)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, doc.Type, doc.Version, doc.Title, doc.Content, doc.Status)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	doc.ID = int(id)
	return nil
}

// UpdateDraft updates the title and content of a draft document
func (r *legalRepository) UpdateDraft(ctx context.Context, id int, title, content string) error {
	query := `
		UPDATE legal_documents
		SET title = ?, content = ?
		WHERE id = ? AND status = 'draft'
	`

	result, err := r.db.ExecContext(ctx, query, title, content, id)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("draft document not found")
	}

	return nil
}

// Publish marks a draft as published and archives the previously published
// version of the same type, in one transaction
func (r *legalRepository) Publish(ctx context.Context, id int, docType models.LegalDocumentType, publishedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	archiveQuery := `
		UPDATE legal_documents
		SET status = 'archived'
		WHERE type = ? AND status = 'published' AND id != ?
	`
	if _, err := tx.ExecContext(ctx, archiveQuery, docType, id); err != nil {
		return fmt.Errorf("failed to archive previous version: %w", err)
	}

	publishQuery := `
		UPDATE legal_documents
		SET status = 'published', published_at = ?
		WHERE id = ? AND status = 'draft'
	`
	result, err := tx.ExecContext(ctx, publishQuery, publishedAt, id)
	if err != nil {
		return fmt.Errorf("failed to publish document: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("draft document not found")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete removes a draft document
func (r *legalRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM legal_documents WHERE id = ? AND status = 'draft'`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("draft document not found")
	}

	return nil
}
