package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

// TopicRepository is the interface that wraps methods for Topic table data access
type TopicRepository interface {
	// GetAll retrieves a paginated list of topics matching the filter
	//
	// If some error will occur during data retrieve, the error will be returned together with "nil" value.
	GetAll(ctx context.Context, filter models.TopicListFilter) ([]models.Topic, int, error)
	// GetByID retrieves a topic by its ID
	//
	// If some error will occur during data retrieve, the error will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Topic, error)
	// ExistsBySlug checks if a topic with the given slug exists
	//
	// If some error will occur during data check, the error will be returned together with "false" value.
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	// Create inserts a topic together with its nested modules and videos in one transaction
	//
	// If some error will occur during data creation, the error will be returned.
	Create(ctx context.Context, topic *models.Topic, modules []models.ModuleInput) error
	// ReconcileModules replaces a topic's child set with the desired state in one transaction.
	// Entries with a resolvable id are updated, new entries inserted, absent rows deleted.
	//
	// If some error will occur during reconciliation, the error will be returned.
	ReconcileModules(ctx context.Context, topicID int, modules []models.ModuleInput) error
	// Update applies a partial update over allow-listed columns
	//
	// If some error will occur during data update, the error will be returned.
	Update(ctx context.Context, id int, fields map[string]any) error
	// UpdateStatus transitions a topic's lifecycle status, setting published_at
	// at most once when provided
	//
	// If some error will occur during data update, the error will be returned.
	UpdateStatus(ctx context.Context, id int, status models.TopicStatus, publishedAt *time.Time) error
	// Delete deletes a topic by its ID, cascading modules and videos
	//
	// If some error will occur during data deletion, the error will be returned.
	Delete(ctx context.Context, id int) error
	// GetAllIDs retrieves every topic ID for the export endpoint
	//
	// If some error will occur during data retrieve, the error will be returned together with "nil" value.
	GetAllIDs(ctx context.Context) ([]int, error)
}

// TopicModuleReader is the interface that wraps nested module reads
type TopicModuleReader interface {
	// GetByTopicID retrieves a topic's modules ordered by order_index
	GetByTopicID(ctx context.Context, topicID int) ([]models.TopicModule, error)
}

// TopicVideoReader is the interface that wraps nested video reads
type TopicVideoReader interface {
	// GetByTopicID retrieves every video under a topic for nested assembly
	GetByTopicID(ctx context.Context, topicID int) ([]models.TopicVideo, error)
}

// SubcategoryChecker is the interface that wraps the parent subcategory existence check
type SubcategoryChecker interface {
	// ExistsByID checks if a subcategory with the given ID exists
	ExistsByID(ctx context.Context, id int) (bool, error)
}

// topicService implements topic business logic
type topicService struct {
	topicRepo       TopicRepository
	moduleRepo      TopicModuleReader
	videoRepo       TopicVideoReader
	categoryRepo    CategoryExistsChecker
	subcategoryRepo SubcategoryChecker
}

// NewTopicService creates a new topic service
func NewTopicService(
	topicRepo TopicRepository,
	moduleRepo TopicModuleReader,
	videoRepo TopicVideoReader,
	categoryRepo CategoryExistsChecker,
	subcategoryRepo SubcategoryChecker,
) *topicService {
	return &topicService{
		topicRepo:       topicRepo,
		moduleRepo:      moduleRepo,
		videoRepo:       videoRepo,
		categoryRepo:    categoryRepo,
		subcategoryRepo: subcategoryRepo,
	}
}

// GetAll retrieves a paginated list of topics
func (s *topicService) GetAll(ctx context.Context, filter models.TopicListFilter) ([]models.Topic, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	if filter.Status != "" && !models.ValidTopicStatus(filter.Status) {
		return nil, nil, fmt.Errorf("invalid status '%s'", filter.Status)
	}
	if filter.Difficulty != "" && !models.ValidTopicDifficulty(filter.Difficulty) {
		return nil, nil, fmt.Errorf("invalid difficulty '%s'", filter.Difficulty)
	}

	topics, total, err := s.topicRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get topics: %w", err)
	}

	return topics, models.NewPagination(total, filter.Page, filter.Limit), nil
}

// GetByID retrieves a topic with its nested modules and videos
func (s *topicService) GetByID(ctx context.Context, id int) (*models.Topic, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid topic id")
	}

	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	modules, err := s.moduleRepo.GetByTopicID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get topic modules: %w", err)
	}
	videos, err := s.videoRepo.GetByTopicID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get topic videos: %w", err)
	}

	// Bucket videos under their modules, keeping repository order
	byModule := make(map[int][]models.TopicVideo, len(modules))
	for _, video := range videos {
		byModule[video.ModuleID] = append(byModule[video.ModuleID], video)
	}
	for i := range modules {
		modules[i].Videos = byModule[modules[i].ID]
	}
	topic.Modules = modules

	return topic, nil
}

// Create creates a topic with an allocated slug and optional nested modules
func (s *topicService) Create(ctx context.Context, request *models.CreateTopicRequest) (*models.Topic, error) {
	if request.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if request.CategoryID <= 0 {
		return nil, fmt.Errorf("categoryId is required")
	}
	if request.SubcategoryID <= 0 {
		return nil, fmt.Errorf("subcategoryId is required")
	}

	difficulty := request.Difficulty
	if difficulty == "" {
		difficulty = string(models.DifficultyBeginner)
	}
	if !models.ValidTopicDifficulty(difficulty) {
		return nil, fmt.Errorf("invalid difficulty '%s'", difficulty)
	}

	if err := s.checkParents(ctx, request.CategoryID, request.SubcategoryID); err != nil {
		return nil, err
	}

	slug, err := allocateSlug(ctx, s.topicRepo, request.Title)
	if err != nil {
		return nil, err
	}

	topic := &models.Topic{
		Title:         request.Title,
		Slug:          slug,
		Description:   request.Description,
		CategoryID:    request.CategoryID,
		SubcategoryID: request.SubcategoryID,
		Difficulty:    models.TopicDifficulty(difficulty),
		Status:        models.TopicStatusDraft,
		IsFeatured:    request.IsFeatured,
		IsFree:        request.IsFree,
		Price:         request.Price,
		Tags:          request.Tags,
	}
	if err := s.topicRepo.Create(ctx, topic, request.Modules); err != nil {
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}

	return s.GetByID(ctx, topic.ID)
}

// Update applies a partial scalar update, regenerating the slug when the
// title changes, then reconciles nested modules when the payload carries them
func (s *topicService) Update(ctx context.Context, id int, fields map[string]any, modules []models.ModuleInput, reconcile bool) (*models.Topic, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid topic id")
	}

	// Slugs are derived from titles; a client-sent value is dropped
	delete(fields, "slug")

	if len(fields) == 0 && !reconcile {
		return nil, fmt.Errorf("no fields to update")
	}

	current, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if status, ok := fields["status"].(string); ok && !models.ValidTopicStatus(status) {
		return nil, fmt.Errorf("invalid status '%s'", status)
	}
	if difficulty, ok := fields["difficulty"].(string); ok && !models.ValidTopicDifficulty(difficulty) {
		return nil, fmt.Errorf("invalid difficulty '%s'", difficulty)
	}

	// Re-parented topics must land under existing category/subcategory rows
	if raw, ok := fields["categoryId"]; ok {
		categoryID, ok := raw.(float64)
		if !ok || categoryID <= 0 {
			return nil, fmt.Errorf("invalid categoryId")
		}
		exists, err := s.categoryRepo.ExistsByID(ctx, int(categoryID))
		if err != nil {
			return nil, fmt.Errorf("failed to check category existence: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("category %d does not exist", int(categoryID))
		}
	}
	if raw, ok := fields["subcategoryId"]; ok {
		subcategoryID, ok := raw.(float64)
		if !ok || subcategoryID <= 0 {
			return nil, fmt.Errorf("invalid subcategoryId")
		}
		exists, err := s.subcategoryRepo.ExistsByID(ctx, int(subcategoryID))
		if err != nil {
			return nil, fmt.Errorf("failed to check subcategory existence: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("subcategory %d does not exist", int(subcategoryID))
		}
	}

	// tags is a JSON column; the driver needs it serialized
	if tags, ok := fields["tags"]; ok {
		encoded, err := json.Marshal(tags)
		if err != nil {
			return nil, fmt.Errorf("invalid tags value")
		}
		fields["tags"] = string(encoded)
	}

	// A changed title takes a fresh unique slug; an unchanged title keeps the old one
	if title, ok := fields["title"].(string); ok && title != "" && title != current.Title {
		slug, err := allocateSlug(ctx, s.topicRepo, title)
		if err != nil {
			return nil, err
		}
		fields["slug"] = slug
	}

	if len(fields) > 0 {
		if err := s.topicRepo.Update(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	// Child reconciliation runs in its own transaction after the scalar
	// update has been committed
	if reconcile {
		if err := s.topicRepo.ReconcileModules(ctx, id, modules); err != nil {
			return nil, fmt.Errorf("failed to reconcile topic modules: %w", err)
		}
	}

	return s.GetByID(ctx, id)
}

// Delete deletes a topic, cascading its modules and videos
func (s *topicService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("invalid topic id")
	}

	return s.topicRepo.Delete(ctx, id)
}

// Publish transitions a draft topic to published, setting publishedAt exactly once
func (s *topicService) Publish(ctx context.Context, id int) (*models.Topic, error) {
	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch topic.Status {
	case models.TopicStatusPublished:
		return nil, fmt.Errorf("topic is already published")
	case models.TopicStatusArchived:
		return nil, fmt.Errorf("archived topic cannot be published")
	}

	now := time.Now().UTC()
	if err := s.topicRepo.UpdateStatus(ctx, id, models.TopicStatusPublished, &now); err != nil {
		return nil, err
	}

	return s.topicRepo.GetByID(ctx, id)
}

// Archive transitions a published topic to archived
func (s *topicService) Archive(ctx context.Context, id int) (*models.Topic, error) {
	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if topic.Status != models.TopicStatusPublished {
		return nil, fmt.Errorf("only published topics can be archived")
	}

	if err := s.topicRepo.UpdateStatus(ctx, id, models.TopicStatusArchived, nil); err != nil {
		return nil, err
	}

	return s.topicRepo.GetByID(ctx, id)
}

// ToggleStatus flips a topic between draft and published
func (s *topicService) ToggleStatus(ctx context.Context, id int) (*models.Topic, error) {
	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch topic.Status {
	case models.TopicStatusDraft:
		now := time.Now().UTC()
		err = s.topicRepo.UpdateStatus(ctx, id, models.TopicStatusPublished, &now)
	case models.TopicStatusPublished:
		err = s.topicRepo.UpdateStatus(ctx, id, models.TopicStatusDraft, nil)
	default:
		return nil, fmt.Errorf("archived topic status cannot be toggled")
	}
	if err != nil {
		return nil, err
	}

	return s.topicRepo.GetByID(ctx, id)
}

// ToggleFeatured flips the isFeatured flag
func (s *topicService) ToggleFeatured(ctx context.Context, id int) (*models.Topic, error) {
	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.topicRepo.Update(ctx, id, map[string]any{"isFeatured": !topic.IsFeatured}); err != nil {
		return nil, err
	}

	return s.topicRepo.GetByID(ctx, id)
}

// Duplicate copies a topic with all its modules and videos into a new draft
// under a fresh unique slug
func (s *topicService) Duplicate(ctx context.Context, id int) (*models.Topic, error) {
	source, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	title := source.Title + " (Copy)"
	slug, err := allocateSlug(ctx, s.topicRepo, title)
	if err != nil {
		return nil, err
	}

	dup := &models.Topic{
		Title:         title,
		Slug:          slug,
		Description:   source.Description,
		CategoryID:    source.CategoryID,
		SubcategoryID: source.SubcategoryID,
		Difficulty:    source.Difficulty,
		Status:        models.TopicStatusDraft,
		IsFeatured:    source.IsFeatured,
		IsFree:        source.IsFree,
		Price:         source.Price,
		Tags:          source.Tags,
	}
	if err := s.topicRepo.Create(ctx, dup, modulesToInputs(source.Modules)); err != nil {
		return nil, fmt.Errorf("failed to duplicate topic: %w", err)
	}

	return s.GetByID(ctx, dup.ID)
}

// Export dumps every topic with its full nested structure
func (s *topicService) Export(ctx context.Context) (*models.TopicExport, error) {
	ids, err := s.topicRepo.GetAllIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get topic ids: %w", err)
	}

	export := &models.TopicExport{Topics: make([]models.Topic, 0, len(ids))}
	for _, id := range ids {
		topic, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		export.Topics = append(export.Topics, *topic)
	}
	return export, nil
}

// Import bulk-creates topics from an export dump; every topic gets fresh
// ids and a fresh unique slug
func (s *topicService) Import(ctx context.Context, export *models.TopicExport) (int, error) {
	if export == nil || len(export.Topics) == 0 {
		return 0, fmt.Errorf("no topics to import")
	}

	created := 0
	for _, source := range export.Topics {
		if source.Title == "" {
			return created, fmt.Errorf("title is required")
		}

		slug, err := allocateSlug(ctx, s.topicRepo, source.Title)
		if err != nil {
			return created, err
		}

		status := source.Status
		if !models.ValidTopicStatus(string(status)) {
			status = models.TopicStatusDraft
		}
		difficulty := source.Difficulty
		if !models.ValidTopicDifficulty(string(difficulty)) {
			difficulty = models.DifficultyBeginner
		}

		topic := &models.Topic{
			Title:         source.Title,
			Slug:          slug,
			Description:   source.Description,
			CategoryID:    source.CategoryID,
			SubcategoryID: source.SubcategoryID,
			Difficulty:    difficulty,
			Status:        status,
			IsFeatured:    source.IsFeatured,
			IsFree:        source.IsFree,
			Price:         source.Price,
			Tags:          source.Tags,
		}
		if err := s.topicRepo.Create(ctx, topic, modulesToInputs(source.Modules)); err != nil {
			return created, fmt.Errorf("failed to import topic '%s': %w", source.Title, err)
		}
		created++
	}

	return created, nil
}

// checkParents validates the category and subcategory references
func (s *topicService) checkParents(ctx context.Context, categoryID, subcategoryID int) error {
	exists, err := s.categoryRepo.ExistsByID(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to check category existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("category %d does not exist", categoryID)
	}

	exists, err = s.subcategoryRepo.ExistsByID(ctx, subcategoryID)
	if err != nil {
		return fmt.Errorf("failed to check subcategory existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("subcategory %d does not exist", subcategoryID)
	}
	return nil
}

// modulesToInputs converts persisted modules into desired-state inputs with
// zeroed ids, forcing every row to be inserted as new
func modulesToInputs(modules []models.TopicModule) []models.ModuleInput {
	inputs := make([]models.ModuleInput, len(modules))
	for i, module := range modules {
		order := module.OrderIndex
		input := models.ModuleInput{
			Title:       module.Title,
			Description: module.Description,
			Order:       &order,
			Videos:      make([]models.VideoInput, len(module.Videos)),
		}
		for j, video := range module.Videos {
			videoOrder := video.OrderIndex
			input.Videos[j] = models.VideoInput{
				Title:           video.Title,
				Description:     video.Description,
				URL:             video.URL,
				VideoType:       string(video.VideoType),
				Order:           &videoOrder,
				DurationSeconds: video.DurationSeconds,
				UploadID:        video.UploadID,
			}
		}
		inputs[i] = input
	}
	return inputs
}
