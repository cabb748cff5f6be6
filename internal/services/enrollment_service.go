package services

import (
	"context"
	"fmt"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

// EnrollmentRepository is the interface that wraps methods for TopicEnrollment table data access
type EnrollmentRepository interface {
	// Exists checks if the user is already enrolled in the topic
	Exists(ctx context.Context, topicID, userID int) (bool, error)
	// Create inserts an enrollment and bumps the topic's enrollment counter
	Create(ctx context.Context, enrollment *models.TopicEnrollment) error
}

// ReviewRepository is the interface that wraps methods for TopicReview table data access
type ReviewRepository interface {
	// GetByTopicID retrieves a topic's reviews, newest first
	GetByTopicID(ctx context.Context, topicID int) ([]models.TopicReview, error)
	// Create inserts a review and refreshes the topic's average rating
	Create(ctx context.Context, review *models.TopicReview) error
}

// enrollmentService implements enrollment and review business logic
type enrollmentService struct {
	enrollmentRepo EnrollmentRepository
	reviewRepo     ReviewRepository
	topicRepo      TopicChecker
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(enrollmentRepo EnrollmentRepository, reviewRepo ReviewRepository, topicRepo TopicChecker) *enrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		reviewRepo:     reviewRepo,
		topicRepo:      topicRepo,
	}
}

// Enroll enrolls a user in a topic. Duplicate enrollments are rejected.
func (s *enrollmentService) Enroll(ctx context.Context, topicID, userID int) (*models.TopicEnrollment, error) {
	if topicID <= 0 {
		return nil, fmt.Errorf("invalid topic id")
	}

	exists, err := s.topicRepo.ExistsByID(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to check topic existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("topic not found")
	}

	enrolled, err := s.enrollmentRepo.Exists(ctx, topicID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if enrolled {
		return nil, fmt.Errorf("user is already enrolled in this topic")
	}

	enrollment := &models.TopicEnrollment{
		TopicID: topicID,
		UserID:  userID,
	}
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	return enrollment, nil
}

// GetReviews retrieves a topic's reviews
func (s *enrollmentService) GetReviews(ctx context.Context, topicID int) ([]models.TopicReview, error) {
	if topicID <= 0 {
		return nil, fmt.Errorf("invalid topic id")
	}

	exists, err := s.topicRepo.ExistsByID(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to check topic existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("topic not found")
	}

	return s.reviewRepo.GetByTopicID(ctx, topicID)
}

// CreateReview posts a rating with an optional comment
func (s *enrollmentService) CreateReview(ctx context.Context, topicID, userID int, request *models.CreateReviewRequest) (*models.TopicReview, error) {
	if topicID <= 0 {
		return nil, fmt.Errorf("invalid topic id")
	}
	if request.Rating < 1 || request.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}

	exists, err := s.topicRepo.ExistsByID(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to check topic existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("topic not found")
	}

	review := &models.TopicReview{
		TopicID: topicID,
		UserID:  userID,
		Rating:  request.Rating,
		Comment: request.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return review, nil
}
