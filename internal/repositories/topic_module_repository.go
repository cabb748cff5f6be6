package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

var moduleUpdateColumns = map[string]string{
	"title":       "title",
	"description": "description",
	"order":       "order_index",
	"orderIndex":  "order_index",
}

type topicModuleRepository struct {
	db *sql.DB
}

// NewTopicModuleRepository creates a new topic module repository
func NewTopicModuleRepository(db *sql.DB) *topicModuleRepository {
	return &topicModuleRepository{
		db: db,
	}
}

// GetByTopicID retrieves all modules for a topic, ordered by position
func (r *topicModuleRepository) GetByTopicID(ctx context.Context, topicID int) ([]models.TopicModule, error) {
	query := `
		SELECT id, topic_id, title, description, order_index, duration_minutes, created_at, updated_at
		FROM topic_modules
		WHERE topic_id = ?
		ORDER BY order_index
	`

	rows, err := r.db.QueryContext(ctx, query, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to query modules: %w", err)
	}
	defer rows.Close()

	var modules []models.TopicModule
	for rows.Next() {
		var m models.TopicModule
		err := rows.Scan(&m.ID, &m.TopicID, &m.Title, &m.Description, &m.OrderIndex,
			&m.DurationMinutes, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}
		modules = append(modules, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return modules, nil
}

// GetByID retrieves a module by its ID
func (r *topicModuleRepository) GetByID(ctx context.Context, id int) (*models.TopicModule, error) {
	query := `
		SELECT id, topic_id, title, description, order_index, duration_minutes, created_at, updated_at
		FROM topic_modules
		WHERE id = ?
		LIMIT 1
	`

	var m models.TopicModule
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.TopicID, &m.Title, &m.Description, &m.OrderIndex,
		&m.DurationMinutes, &m.CreatedAt, &m.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("module not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get module by id: %w", err)
	}

	return &m, nil
}

// Create appends a module to a topic. When no order is given the module goes last.
func (r *topicModuleRepository) Create(ctx context.Context, module *models.TopicModule) error {
	if module.OrderIndex <= 0 {
		query := `SELECT COALESCE(MAX(order_index), 0) + 1 FROM topic_modules WHERE topic_id = ?`
		if err := r.db.QueryRowContext(ctx, query, module.TopicID).Scan(&module.OrderIndex); err != nil {
			return fmt.Errorf("failed to compute module order: %w", err)
		}
	}

	query := `
		INSERT INTO topic_modules (topic_id, title, description, order_index)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		module.TopicID, module.Title, module.Description, module.OrderIndex)
	if err != nil {
		return fmt.Errorf("failed to create module: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	module.ID = int(id)
	return nil
}

// Update performs a partial update restricted to the allow-listed column set
func (r *topicModuleRepository) Update(ctx context.Context, id int, fields map[string]any) error {
	setParts, args, err := buildSetClause(moduleUpdateColumns, fields)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE topic_modules
		SET %s
		WHERE id = ?
	`, strings.Join(setParts, ", "))

	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update module: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("module not found")
	}

	return nil
}

// Delete removes a module (videos cascade) and recomputes the parent topic duration
func (r *topicModuleRepository) Delete(ctx context.Context, id, topicID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM topic_modules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete module: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("module not found")
	}

	if err := recomputeTopicDuration(ctx, tx, topicID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Reorder applies an explicit id to order mapping for a topic's modules in one transaction
func (r *topicModuleRepository) Reorder(ctx context.Context, topicID int, entries []models.ReorderEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, entry := range entries {
		query := `UPDATE topic_modules SET order_index = ? WHERE id = ? AND topic_id = ?`
		if _, err := tx.ExecContext(ctx, query, entry.Order, entry.ID, topicID); err != nil {
			return fmt.Errorf("failed to reorder module %d: %w", entry.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
