package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

var videoUpdateColumns = map[string]string{
	"title":           "title",
	"description":     "description",
	"url":             "url",
	"videoType":       "video_type",
	"order":           "order_index",
	"orderIndex":      "order_index",
	"durationSeconds": "duration_seconds",
	"uploadId":        "upload_id",
}

type topicVideoRepository struct {
	db *sql.DB
}

// NewTopicVideoRepository creates a new topic video repository
func NewTopicVideoRepository(db *sql.DB) *topicVideoRepository {
	return &topicVideoRepository{
		db: db,
	}
}

const videoColumns = `id, topic_id, module_id, title, description, url, video_type,
		order_index, duration_seconds, upload_id, created_at, updated_at`

// GetByModuleID retrieves all videos for a module, ordered by position
func (r *topicVideoRepository) GetByModuleID(ctx context.Context, moduleID int) ([]models.TopicVideo, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM topic_videos
		WHERE module_id = ?
		ORDER BY order_index
	`, videoColumns)

	rows, err := r.db.QueryContext(ctx, query, moduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var videos []models.TopicVideo
	for rows.Next() {
		var v models.TopicVideo
		err := rows.Scan(&v.ID, &v.TopicID, &v.ModuleID, &v.Title, &v.Description, &v.URL,
			&v.VideoType, &v.OrderIndex, &v.DurationSeconds, &v.UploadID, &v.CreatedAt, &v.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return videos, nil
}

// GetByTopicID retrieves all videos under a topic, grouped for nested assembly
func (r *topicVideoRepository) GetByTopicID(ctx context.Context, topicID int) ([]models.TopicVideo, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM topic_videos
		WHERE topic_id = ?
		ORDER BY module_id, order_index
	`, videoColumns)

	rows, err := r.db.QueryContext(ctx, query, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var videos []models.TopicVideo
	for rows.Next() {
		var v models.TopicVideo
		err := rows.Scan(&v.ID, &v.TopicID, &v.ModuleID, &v.Title, &v.Description, &v.URL,
			&v.VideoType, &v.OrderIndex, &v.DurationSeconds, &v.UploadID, &v.CreatedAt, &v.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return videos, nil
}

// GetByID retrieves a video by its ID
func (r *topicVideoRepository) GetByID(ctx context.Context, id int) (*models.TopicVideo, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM topic_videos
		WHERE id = ?
		LIMIT 1
	`, videoColumns)

	var v models.TopicVideo
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.TopicID, &v.ModuleID, &v.Title, &v.Description, &v.URL,
		&v.VideoType, &v.OrderIndex, &v.DurationSeconds, &v.UploadID, &v.CreatedAt, &v.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("video not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video by id: %w", err)
	}

	return &v, nil
}

// Create appends a video to a module and recomputes parent durations in one transaction
func (r *topicVideoRepository) Create(ctx context.Context, video *models.TopicVideo) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if video.OrderIndex <= 0 {
		query := `SELECT COALESCE(MAX(order_index), 0) + 1 FROM topic_videos WHERE module_id = ?`
		if err := tx.QueryRowContext(ctx, query, video.ModuleID).Scan(&video.OrderIndex); err != nil {
			return fmt.Errorf("failed to compute video order: %w", err)
		}
	}

	query := `
		INSERT INTO topic_videos (topic_id, module_id, title, description, url, video_type,
			order_index, duration_seconds, upload_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		video.TopicID, video.ModuleID, video.Title, video.Description, video.URL,
		video.VideoType, video.OrderIndex, video.DurationSeconds, video.UploadID)
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	video.ID = int(id)

	if err := recomputeModuleDuration(ctx, tx, video.ModuleID); err != nil {
		return err
	}
	if err := recomputeTopicDuration(ctx, tx, video.TopicID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Update performs a partial update and recomputes parent durations in one transaction
func (r *topicVideoRepository) Update(ctx context.Context, id, moduleID, topicID int, fields map[string]any) error {
	setParts, args, err := buildSetClause(videoUpdateColumns, fields)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		UPDATE topic_videos
		SET %s
		WHERE id = ?
	`, strings.Join(setParts, ", "))

	args = append(args, id)

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}

	if err := recomputeModuleDuration(ctx, tx, moduleID); err != nil {
		return err
	}
	if err := recomputeTopicDuration(ctx, tx, topicID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete removes a video and recomputes parent durations in one transaction
func (r *topicVideoRepository) Delete(ctx context.Context, id, moduleID, topicID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM topic_videos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("video not found")
	}

	if err := recomputeModuleDuration(ctx, tx, moduleID); err != nil {
		return err
	}
	if err := recomputeTopicDuration(ctx, tx, topicID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Reorder applies an explicit id to order mapping for a module's videos in one transaction
func (r *topicVideoRepository) Reorder(ctx context.Context, moduleID int, entries []models.ReorderEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, entry := range entries {
		query := `UPDATE topic_videos SET order_index = ? WHERE id = ? AND module_id = ?`
		if _, err := tx.ExecContext(ctx, query, entry.Order, entry.ID, moduleID); err != nil {
			return fmt.Errorf("failed to reorder video %d: %w", entry.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
