package services

import (
	"context"
	"fmt"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

// TopicVideoRepository is the interface that wraps methods for TopicVideo table data access
type TopicVideoRepository interface {
	// GetByModuleID retrieves a module's videos ordered by order_index
	GetByModuleID(ctx context.Context, moduleID int) ([]models.TopicVideo, error)
	// GetByID retrieves a video by its ID
	GetByID(ctx context.Context, id int) (*models.TopicVideo, error)
	// Create creates a new video and recomputes parent durations
	Create(ctx context.Context, video *models.TopicVideo) error
	// Update applies a partial update and recomputes parent durations
	Update(ctx context.Context, id, moduleID, topicID int, fields map[string]any) error
	// Delete deletes a video and recomputes parent durations
	Delete(ctx context.Context, id, moduleID, topicID int) error
	// Reorder applies an explicit id to order mapping in one transaction
	Reorder(ctx context.Context, moduleID int, entries []models.ReorderEntry) error
}

// ModuleReader is the interface that wraps module lookups for parent resolution
type ModuleReader interface {
	GetByID(ctx context.Context, id int) (*models.TopicModule, error)
}

// videoService implements topic video business logic
type videoService struct {
	videoRepo  TopicVideoRepository
	moduleRepo ModuleReader
}

// NewVideoService creates a new video service
func NewVideoService(videoRepo TopicVideoRepository, moduleRepo ModuleReader) *videoService {
	return &videoService{
		videoRepo:  videoRepo,
		moduleRepo: moduleRepo,
	}
}

// GetByModuleID retrieves a module's videos
func (s *videoService) GetByModuleID(ctx context.Context, moduleID int) ([]models.TopicVideo, error) {
	if moduleID <= 0 {
		return nil, fmt.Errorf("invalid module id")
	}

	if _, err := s.moduleRepo.GetByID(ctx, moduleID); err != nil {
		return nil, err
	}

	return s.videoRepo.GetByModuleID(ctx, moduleID)
}

// GetByID retrieves a video by ID
func (s *videoService) GetByID(ctx context.Context, id int) (*models.TopicVideo, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid video id")
	}

	return s.videoRepo.GetByID(ctx, id)
}

// Create adds a video to a module
func (s *videoService) Create(ctx context.Context, moduleID int, request *models.CreateVideoRequest) (*models.TopicVideo, error) {
	if moduleID <= 0 {
		return nil, fmt.Errorf("invalid module id")
	}
	if request.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if request.URL == "" && request.UploadID == nil {
		return nil, fmt.Errorf("url is required")
	}

	videoType := request.VideoType
	if videoType == "" {
		videoType = string(models.VideoTypeMP4)
	}
	if !models.ValidVideoType(videoType) {
		return nil, fmt.Errorf("invalid video type '%s'", videoType)
	}

	module, err := s.moduleRepo.GetByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	video := &models.TopicVideo{
		TopicID:         module.TopicID,
		ModuleID:        moduleID,
		Title:           request.Title,
		Description:     request.Description,
		URL:             request.URL,
		VideoType:       models.VideoType(videoType),
		DurationSeconds: request.DurationSeconds,
		UploadID:        request.UploadID,
	}
	if request.Order != nil {
		video.OrderIndex = *request.Order
	}

	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	return s.videoRepo.GetByID(ctx, video.ID)
}

// Update applies a partial update to a video
func (s *videoService) Update(ctx context.Context, id int, fields map[string]any) (*models.TopicVideo, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid video id")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	if videoType, ok := fields["videoType"].(string); ok && !models.ValidVideoType(videoType) {
		return nil, fmt.Errorf("invalid video type '%s'", videoType)
	}

	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.videoRepo.Update(ctx, id, video.ModuleID, video.TopicID, fields); err != nil {
		return nil, err
	}

	return s.videoRepo.GetByID(ctx, id)
}

// Delete deletes a video; parent durations are recomputed
func (s *videoService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("invalid video id")
	}

	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return s.videoRepo.Delete(ctx, id, video.ModuleID, video.TopicID)
}

// Reorder applies an explicit ordering to a module's videos
func (s *videoService) Reorder(ctx context.Context, moduleID int, entries []models.ReorderEntry) ([]models.TopicVideo, error) {
	if moduleID <= 0 {
		return nil, fmt.Errorf("invalid module id")
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no reorder entries")
	}

	if err := s.videoRepo.Reorder(ctx, moduleID, entries); err != nil {
		return nil, err
	}

	return s.videoRepo.GetByModuleID(ctx, moduleID)
}
