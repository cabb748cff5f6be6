package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new topic review repository
func NewReviewRepository(db *sql.DB) *reviewRepository {
	return &reviewRepository{
		db: db,
	}
}

// GetByTopicID retrieves all reviews for a topic, newest first
func (r *reviewRepository) GetByTopicID(ctx context.Context, topicID int) ([]models.TopicReview, error) {
	query := `
		SELECT id, topic_id, user_id, rating, comment, created_at
		FROM topic_reviews
		WHERE topic_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []models.TopicReview
	for rows.Next() {
		var rv models.TopicReview
		err := rows.Scan(&rv.ID, &rv.TopicID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return reviews, nil
}

// Create inserts a review and refreshes the topic's denormalized average rating
// in one transaction
func (r *reviewRepository) Create(ctx context.Context, review *models.TopicReview) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO topic_reviews (topic_id, user_id, rating, comment)
		VALUES (?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query, review.TopicID, review.UserID, review.Rating, review.Comment)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	review.ID = int(id)

	avgQuery := `
		UPDATE topics
		SET average_rating = (SELECT COALESCE(AVG(rating), 0) FROM topic_reviews WHERE topic_id = ?)
		WHERE id = ?
	`
	if _, err := tx.ExecContext(ctx, avgQuery, review.TopicID, review.TopicID); err != nil {
		return fmt.Errorf("failed to update average rating: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
