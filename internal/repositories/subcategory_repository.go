package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

var subcategorySortColumns = map[string]string{
	"name":        "name",
	"status":      "status",
	"createdAt":   "created_at",
	"topicsCount": "topics_count",
}

var subcategoryUpdateColumns = map[string]string{
	"name":        "name",
	"categoryId":  "category_id",
	"description": "description",
	"status":      "status",
}

type subcategoryRepository struct {
	db *sql.DB
}

// NewSubcategoryRepository creates a new subcategory repository
func NewSubcategoryRepository(db *sql.DB) *subcategoryRepository {
	return &subcategoryRepository{
		db: db,
	}
}

// GetAll retrieves a page of subcategories with optional filters
func (r *subcategoryRepository) GetAll(ctx context.Context, page, limit, categoryID int, status, search, sortBy, sortDir string) ([]models.Subcategory, int, error) {
	var conditions []string
	var args []any

	if categoryID > 0 {
		conditions = append(conditions, "category_id = ?")
		args = append(args, categoryID)
	}
	if status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, status)
	}
	if search != "" {
		conditions = append(conditions, "(name LIKE ? OR description LIKE ?)")
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM subcategories %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count subcategories: %w", err)
	}

	orderClause := orderBy(subcategorySortColumns, sortBy, sortDir, "created_at DESC")

	query := fmt.Sprintf(`
		SELECT id, name, category_id, description, status, topics_count, created_at, updated_at
		FROM subcategories
		%s
		ORDER BY %s
		LIMIT ? OFFSET ?
	`, whereClause, orderClause)

	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query subcategories: %w", err)
	}
	defer rows.Close()

	var subcategories []models.Subcategory
	for rows.Next() {
		var s models.Subcategory
		err := rows.Scan(&s.ID, &s.Name, &s.CategoryID, &s.Description, &s.Status, &s.TopicsCount, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan subcategory: %w", err)
		}
		subcategories = append(subcategories, s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return subcategories, total, nil
}

// GetByID retrieves a subcategory by its ID
func (r *subcategoryRepository) GetByID(ctx context.Context, id int) (*models.Subcategory, error) {
	query := `
		SELECT id, name, category_id, description, status, topics_count, created_at, updated_at
		FROM subcategories
		WHERE id = ?
		LIMIT 1
	`

	var s models.Subcategory
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.CategoryID, &s.Description, &s.Status, &s.TopicsCount, &s.CreatedAt, &s.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("subcategory not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subcategory by id: %w", err)
	}

	return &s, nil
}

// ExistsByID checks if a subcategory with the given ID exists
func (r *subcategoryRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM subcategories WHERE id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check subcategory existence: %w", err)
	}

	return exists, nil
}

// HasTopics checks if any topic references the subcategory
func (r *subcategoryRepository) HasTopics(ctx context.Context, id int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM topics WHERE subcategory_id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check subcategory topics: %w", err)
	}

	return exists, nil
}

// Create creates a new subcategory
func (r *subcategoryRepository) Create(ctx context.Context, subcategory *models.Subcategory) error {
	query := `
		INSERT INTO subcategories (name, category_id, description, status)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		subcategory.Name,
		subcategory.CategoryID,
		subcategory.Description,
		subcategory.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create subcategory: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	subcategory.ID = int(id)
	return nil
}

// Update performs a partial update restricted to the allow-listed column set
func (r *subcategoryRepository) Update(ctx context.Context, id int, fields map[string]any) error {
	setParts, args, err := buildSetClause(subcategoryUpdateColumns, fields)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE subcategories
		SET %s
		WHERE id = ?
	`, strings.Join(setParts, ", "))

	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update subcategory: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("subcategory not found")
	}

	return nil
}

// Delete deletes a subcategory by ID
func (r *subcategoryRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM subcategories WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete subcategory: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("subcategory not found")
	}

	return nil
}
