package services

import (
	"context"
	"fmt"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

// SubcategoryRepository is the interface that wraps methods for Subcategory table data access
type SubcategoryRepository interface {
	// GetAll retrieves a paginated list of subcategories, optionally filtered by category
	//
	// If some error will occur during data retrieve, the error will be returned together with "nil" value.
	GetAll(ctx context.Context, page, limit, categoryID int, status, search, sortBy, sortDir string) ([]models.Subcategory, int, error)
	// GetByID retrieves a subcategory by its ID
	//
	// If some error will occur during data retrieve, the error will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Subcategory, error)
	// HasTopics checks if the subcategory still owns topic rows
	//
	// If some error will occur during data check, the error will be returned together with "false" value.
	HasTopics(ctx context.Context, id int) (bool, error)
	// Create creates a new subcategory
	//
	// If some error will occur during data creation, the error will be returned.
	Create(ctx context.Context, subcategory *models.Subcategory) error
	// Update applies a partial update over allow-listed columns
	//
	// If some error will occur during data update, the error will be returned.
	Update(ctx context.Context, id int, fields map[string]any) error
	// Delete deletes a subcategory by its ID
	//
	// If some error will occur during data deletion, the error will be returned.
	Delete(ctx context.Context, id int) error
}

// CategoryExistsChecker is the interface that wraps the parent category existence check
type CategoryExistsChecker interface {
	// ExistsByID checks if a category with the given ID exists
	//
	// If some error will occur during data check, the error will be returned together with "false" value.
	ExistsByID(ctx context.Context, id int) (bool, error)
}

// subcategoryService implements subcategory business logic
type subcategoryService struct {
	subcategoryRepo SubcategoryRepository
	categoryRepo    CategoryExistsChecker
}

// NewSubcategoryService creates a new subcategory service
func NewSubcategoryService(subcategoryRepo SubcategoryRepository, categoryRepo CategoryExistsChecker) *subcategoryService {
	return &subcategoryService{
		subcategoryRepo: subcategoryRepo,
		categoryRepo:    categoryRepo,
	}
}

// GetAll retrieves a paginated list of subcategories
func (s *subcategoryService) GetAll(ctx context.Context, page, limit, categoryID int, status, search, sortBy, sortDir string) ([]models.Subcategory, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if status != "" && !models.ValidCategoryStatus(status) {
		return nil, nil, fmt.Errorf("invalid status '%s'", status)
	}

	subcategories, total, err := s.subcategoryRepo.GetAll(ctx, page, limit, categoryID, status, search, sortBy, sortDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get subcategories: %w", err)
	}

	return subcategories, models.NewPagination(total, page, limit), nil
}

// GetByID retrieves a subcategory by ID
func (s *subcategoryService) GetByID(ctx context.Context, id int) (*models.Subcategory, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid subcategory id")
	}

	return s.subcategoryRepo.GetByID(ctx, id)
}

// Create creates a new subcategory under an existing category
func (s *subcategoryService) Create(ctx context.Context, request *models.CreateSubcategoryRequest) (*models.Subcategory, error) {
	if request.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if request.CategoryID <= 0 {
		return nil, fmt.Errorf("categoryId is required")
	}

	status := request.Status
	if status == "" {
		status = string(models.CategoryStatusActive)
	}
	if !models.ValidCategoryStatus(status) {
		return nil, fmt.Errorf("invalid status '%s'", status)
	}

	exists, err := s.categoryRepo.ExistsByID(ctx, request.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check category existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("category %d does not exist", request.CategoryID)
	}

	subcategory := &models.Subcategory{
		Name:        request.Name,
		CategoryID:  request.CategoryID,
		Description: request.Description,
		Status:      models.CategoryStatus(status),
	}
	if err := s.subcategoryRepo.Create(ctx, subcategory); err != nil {
		return nil, fmt.Errorf("failed to create subcategory: %w", err)
	}

	return s.subcategoryRepo.GetByID(ctx, subcategory.ID)
}

// Update applies a partial update to a subcategory
func (s *subcategoryService) Update(ctx context.Context, id int, fields map[string]any) (*models.Subcategory, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid subcategory id")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	if status, ok := fields["status"].(string); ok && !models.ValidCategoryStatus(status) {
		return nil, fmt.Errorf("invalid status '%s'", status)
	}

	// A moved subcategory must land under an existing category
	if categoryID, ok := fields["categoryId"]; ok {
		id, ok := categoryID.(float64)
		if !ok || id <= 0 {
			return nil, fmt.Errorf("invalid categoryId")
		}
		exists, err := s.categoryRepo.ExistsByID(ctx, int(id))
		if err != nil {
			return nil, fmt.Errorf("failed to check category existence: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("category %d does not exist", int(id))
		}
	}

	if err := s.subcategoryRepo.Update(ctx, id, fields); err != nil {
		return nil, err
	}

	return s.subcategoryRepo.GetByID(ctx, id)
}

// Delete deletes a subcategory. Subcategories with topics cannot be deleted.
func (s *subcategoryService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("invalid subcategory id")
	}

	hasTopics, err := s.subcategoryRepo.HasTopics(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check subcategory topics: %w", err)
	}
	if hasTopics {
		return fmt.Errorf("subcategory has topics and cannot be deleted")
	}

	return s.subcategoryRepo.Delete(ctx, id)
}
