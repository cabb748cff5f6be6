package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

var topicSortColumns = map[string]string{
	"title":       "title",
	"status":      "status",
	"difficulty":  "difficulty",
	"price":       "price",
	"createdAt":   "created_at",
	"publishedAt": "published_at",
}

// topicUpdateColumns is the explicit jsonKey to column mapping for partial updates.
// slug is present because a title change regenerates it; duration_minutes and the
// denormalized counters are computed and never written through this path.
var topicUpdateColumns = map[string]string{
	"title":         "title",
	"slug":          "slug",
	"description":   "description",
	"categoryId":    "category_id",
	"subcategoryId": "subcategory_id",
	"difficulty":    "difficulty",
	"isFeatured":    "is_featured",
	"isFree":        "is_free",
	"price":         "price",
	"tags":          "tags",
}

const topicColumns = `id, title, slug, description, category_id, subcategory_id, difficulty, status,
		is_featured, is_free, price, duration_minutes, tags, enrollment_count, average_rating,
		published_at, created_at, updated_at`

type topicRepository struct {
	db *sql.DB
}

// NewTopicRepository creates a new topic repository
func NewTopicRepository(db *sql.DB) *topicRepository {
	return &topicRepository{
		db: db,
	}
}

// scanTopic scans one topic row, parsing the tags JSON column
func scanTopic(scan func(dest ...any) error) (*models.Topic, error) {
	var t models.Topic
	var tagsJSON sql.NullString
	err := scan(
		&t.ID, &t.Title, &t.Slug, &t.Description, &t.CategoryID, &t.SubcategoryID,
		&t.Difficulty, &t.Status, &t.IsFeatured, &t.IsFree, &t.Price, &t.DurationMinutes,
		&tagsJSON, &t.EnrollmentCount, &t.AverageRating, &t.PublishedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Tags = []string{}
	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &t.Tags); err != nil {
			return nil, fmt.Errorf("failed to parse topic tags: %w", err)
		}
	}

	return &t, nil
}

// GetAll retrieves a page of topics matching the filter
func (r *topicRepository) GetAll(ctx context.Context, filter models.TopicListFilter) ([]models.Topic, int, error) {
	var conditions []string
	var args []any

	if filter.CategoryID > 0 {
		conditions = append(conditions, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.SubcategoryID > 0 {
		conditions = append(conditions, "subcategory_id = ?")
		args = append(args, filter.SubcategoryID)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Difficulty != "" {
		conditions = append(conditions, "difficulty = ?")
		args = append(args, filter.Difficulty)
	}
	if filter.IsFeatured != nil {
		conditions = append(conditions, "is_featured = ?")
		args = append(args, *filter.IsFeatured)
	}
	if filter.IsFree != nil {
		conditions = append(conditions, "is_free = ?")
		args = append(args, *filter.IsFree)
	}
	if filter.Search != "" {
		conditions = append(conditions, "(title LIKE ? OR description LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM topics %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count topics: %w", err)
	}

	orderClause := orderBy(topicSortColumns, filter.SortBy, filter.SortDir, "created_at DESC")

	query := fmt.Sprintf(`
		SELECT %s
		FROM topics
		%s
		ORDER BY %s
		LIMIT ? OFFSET ?
	`, topicColumns, whereClause, orderClause)

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query topics: %w", err)
	}
	defer rows.Close()

	var topics []models.Topic
	for rows.Next() {
		t, err := scanTopic(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return topics, total, nil
}

// GetByID retrieves a topic by its ID
func (r *topicRepository) GetByID(ctx context.Context, id int) (*models.Topic, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM topics
		WHERE id = ?
		LIMIT 1
	`, topicColumns)

	t, err := scanTopic(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("topic not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get topic by id: %w", err)
	}

	return t, nil
}

// GetBySlug retrieves a topic by its slug
func (r *topicRepository) GetBySlug(ctx context.Context, slug string) (*models.Topic, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM topics
		WHERE slug = ?
		LIMIT 1
	`, topicColumns)

	t, err := scanTopic(r.db.QueryRowContext(ctx, query, slug).Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("topic not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get topic by slug: %w", err)
	}

	return t, nil
}

// ExistsBySlug checks if a topic with the given slug exists
func (r *topicRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM topics WHERE slug = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check slug existence: %w", err)
	}

	return exists, nil
}

// ExistsByID checks if a topic with the given ID exists
func (r *topicRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM topics WHERE id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check topic existence: %w", err)
	}

	return exists, nil
}

// Update performs a partial update restricted to the allow-listed column set
func (r *topicRepository) Update(ctx context.Context, id int, fields map[string]any) error {
	setParts, args, err := buildSetClause(topicUpdateColumns, fields)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE topics
		SET %s
		WHERE id = ?
	`, strings.Join(setParts, ", "))

	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update topic: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("topic not found")
	}

	return nil
}

// UpdateStatus sets the topic status. When publishedAt is non-nil it is applied
// only if the topic never had one, so published_at is assigned exactly once.
func (r *topicRepository) UpdateStatus(ctx context.Context, id int, status models.TopicStatus, publishedAt *time.Time) error {
	query := `
		UPDATE topics
		SET status = ?, published_at = COALESCE(published_at, ?)
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, status, publishedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update topic status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("topic not found")
	}

	return nil
}

// Delete deletes a topic by ID; modules and videos cascade at the schema level
func (r *topicRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM topics WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("topic not found")
	}

	return nil
}

// GetAllIDs returns every topic id, used by the export endpoint
func (r *topicRepository) GetAllIDs(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM topics ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query topic ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan topic id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ids, nil
}
