package services

import (
	"context"
	"fmt"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

// TopicModuleRepository is the interface that wraps methods for TopicModule table data access
type TopicModuleRepository interface {
	// GetByTopicID retrieves a topic's modules ordered by order_index
	GetByTopicID(ctx context.Context, topicID int) ([]models.TopicModule, error)
	// GetByID retrieves a module by its ID
	GetByID(ctx context.Context, id int) (*models.TopicModule, error)
	// Create creates a new module, appending it when no order is set
	Create(ctx context.Context, module *models.TopicModule) error
	// Update applies a partial update over allow-listed columns
	Update(ctx context.Context, id int, fields map[string]any) error
	// Delete deletes a module and recomputes the parent topic duration
	Delete(ctx context.Context, id, topicID int) error
	// Reorder applies an explicit id to order mapping in one transaction
	Reorder(ctx context.Context, topicID int, entries []models.ReorderEntry) error
}

// TopicChecker is the interface that wraps the parent topic existence check
type TopicChecker interface {
	ExistsByID(ctx context.Context, id int) (bool, error)
}

// moduleService implements topic module business logic
type moduleService struct {
	moduleRepo TopicModuleRepository
	videoRepo  TopicVideoReaderByModule
	topicRepo  TopicChecker
}

// TopicVideoReaderByModule is the interface that wraps module-scoped video reads
type TopicVideoReaderByModule interface {
	GetByModuleID(ctx context.Context, moduleID int) ([]models.TopicVideo, error)
}

// NewModuleService creates a new module service
func NewModuleService(moduleRepo TopicModuleRepository, videoRepo TopicVideoReaderByModule, topicRepo TopicChecker) *moduleService {
	return &moduleService{
		moduleRepo: moduleRepo,
		videoRepo:  videoRepo,
		topicRepo:  topicRepo,
	}
}

// GetByTopicID retrieves a topic's modules with their videos
func (s *moduleService) GetByTopicID(ctx context.Context, topicID int) ([]models.TopicModule, error) {
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

	modules, err := s.moduleRepo.GetByTopicID(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get modules: %w", err)
	}

	for i := range modules {
		videos, err := s.videoRepo.GetByModuleID(ctx, modules[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get module videos: %w", err)
		}
		modules[i].Videos = videos
	}
	return modules, nil
}

// GetByID retrieves a module with its videos
func (s *moduleService) GetByID(ctx context.Context, id int) (*models.TopicModule, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid module id")
	}

	module, err := s.moduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	videos, err := s.videoRepo.GetByModuleID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get module videos: %w", err)
	}
	module.Videos = videos

	return module, nil
}

// Create adds a module to a topic
func (s *moduleService) Create(ctx context.Context, topicID int, request *models.CreateModuleRequest) (*models.TopicModule, error) {
	if topicID <= 0 {
		return nil, fmt.Errorf("invalid topic id")
	}
	if request.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	exists, err := s.topicRepo.ExistsByID(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to check topic existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("topic not found")
	}

	module := &models.TopicModule{
		TopicID:     topicID,
		Title:       request.Title,
		Description: request.Description,
	}
	if request.Order != nil {
		module.OrderIndex = *request.Order
	}

	if err := s.moduleRepo.Create(ctx, module); err != nil {
		return nil, fmt.Errorf("failed to create module: %w", err)
	}

	return s.moduleRepo.GetByID(ctx, module.ID)
}

// Update applies a partial update to a module
func (s *moduleService) Update(ctx context.Context, id int, fields map[string]any) (*models.TopicModule, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid module id")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	if err := s.moduleRepo.Update(ctx, id, fields); err != nil {
		return nil, err
	}

	return s.moduleRepo.GetByID(ctx, id)
}

// Delete deletes a module; its videos cascade and durations are recomputed
func (s *moduleService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("invalid module id")
	}

	module, err := s.moduleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return s.moduleRepo.Delete(ctx, id, module.TopicID)
}

// Reorder applies an explicit ordering to a topic's modules
func (s *moduleService) Reorder(ctx context.Context, topicID int, entries []models.ReorderEntry) ([]models.TopicModule, error) {
	if topicID <= 0 {
		return nil, fmt.Errorf("invalid topic id")
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no reorder entries")
	}

	if err := s.moduleRepo.Reorder(ctx, topicID, entries); err != nil {
		return nil, err
	}

	return s.moduleRepo.GetByTopicID(ctx, topicID)
}
