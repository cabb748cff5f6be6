package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

type enrollmentRepository struct {
	db *sql.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *sql.DB) *enrollmentRepository {
	return &enrollmentRepository{
		db: db,
	}
}

// Exists checks if the user is already enrolled in the topic
func (r *enrollmentRepository) Exists(ctx context.Context, topicID, userID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM topic_enrollments WHERE topic_id = ? AND user_id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, topicID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check enrollment existence: %w", err)
	}

	return exists, nil
}

// Create enrolls a user and bumps the topic's denormalized enrollment counter
// in one transaction
func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.TopicEnrollment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO topic_enrollments (topic_id, user_id, progress_percent)
		VALUES (?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query, enrollment.TopicID, enrollment.UserID, enrollment.ProgressPercent)
	if err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	enrollment.ID = int(id)

	countQuery := `
		UPDATE topics
		SET enrollment_count = (SELECT COUNT(*) FROM topic_enrollments WHERE topic_id = ?)
		WHERE id = ?
	`
	if _, err := tx.ExecContext(ctx, countQuery, enrollment.TopicID, enrollment.TopicID); err != nil {
		return fmt.Errorf("failed to update enrollment count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
