// Package repositories contains the SQL data access layer
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

// categorySortColumns maps allowed sortBy keys to their columns.
// Sort fields are never interpolated from unchecked input.
var categorySortColumns = map[string]string{
	"name":        "name",
	"status":      "status",
	"createdAt":   "created_at",
	"topicsCount": "topics_count",
}

// categoryUpdateColumns is the explicit jsonKey to column mapping for partial updates.
// topics_count is trigger-maintained and deliberately absent.
var categoryUpdateColumns = map[string]string{
	"name":        "name",
	"description": "description",
	"status":      "status",
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *sql.DB) *categoryRepository {
	return &categoryRepository{
		db: db,
	}
}

// GetAll retrieves a page of categories with optional status and search filters
func (r *categoryRepository) GetAll(ctx context.Context, page, limit int, status, search, sortBy, sortDir string) ([]models.Category, int, error) {
	var conditions []string
	var args []any

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

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM categories %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	orderClause := orderBy(categorySortColumns, sortBy, sortDir, "created_at DESC")

	query := fmt.Sprintf(`
		SELECT id, name, description, status, topics_count, created_at, updated_at
		FROM categories
		%s
		ORDER BY %s
		LIMIT ? OFFSET ?
	`, whereClause, orderClause)

	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Status, &c.TopicsCount, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return categories, total, nil
}

// GetByID retrieves a category by its ID
func (r *categoryRepository) GetByID(ctx context.Context, id int) (*models.Category, error) {
	query := `
		SELECT id, name, description, status, topics_count, created_at, updated_at
		FROM categories
		WHERE id = ?
		LIMIT 1
	`

	var c models.Category
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.Status, &c.TopicsCount, &c.CreatedAt, &c.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("category not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category by id: %w", err)
	}

	return &c, nil
}

// ExistsByID checks if a category with the given ID exists
func (r *categoryRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM categories WHERE id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check category existence: %w", err)
	}

	return exists, nil
}

// ExistsByName checks if a category with the given name exists
func (r *categoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM categories WHERE name = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check category name existence: %w", err)
	}

	return exists, nil
}

// HasSubcategories checks if any subcategory references the category
func (r *categoryRepository) HasSubcategories(ctx context.Context, id int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM subcategories WHERE category_id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check category subcategories: %w", err)
	}

	return exists, nil
}

// Create creates a new category
func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name, description, status)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, category.Name, category.Description, category.Status)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	category.ID = int(id)
	return nil
}

// Update performs a partial update restricted to the allow-listed column set.
// Keys outside the allow-list are rejected rather than silently dropped.
func (r *categoryRepository) Update(ctx context.Context, id int, fields map[string]any) error {
	setParts, args, err := buildSetClause(categoryUpdateColumns, fields)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE categories
		SET %s
		WHERE id = ?
	`, strings.Join(setParts, ", "))

	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("category not found")
	}

	return nil
}

// Delete deletes a category by ID
func (r *categoryRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM categories WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("category not found")
	}

	return nil
}
