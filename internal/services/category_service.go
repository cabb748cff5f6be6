package services

import (
	"context"
	"fmt"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

// CategoryRepository is the interface that wraps methods for Category table data access
type CategoryRepository interface {
	// GetAll retrieves a paginated list of categories
	//
	// "page" and "limit" parameters control pagination.
	// "status" and "search" parameters filter the result set.
	// "sortBy" and "sortDir" parameters control ordering.
	//
	// If some error will occur during data retrieve, the error will be returned together with "nil" value.
	GetAll(ctx context.Context, page, limit int, status, search, sortBy, sortDir string) ([]models.Category, int, error)
	// GetByID retrieves a category by its ID
	//
	// If some error will occur during data retrieve, the error will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Category, error)
	// ExistsByName checks if a category with the same name exists
	//
	// If some error will occur during data check, the error will be returned together with "false" value.
	ExistsByName(ctx context.Context, name string) (bool, error)
	// HasSubcategories checks if the category still owns subcategory rows
	//
	// If some error will occur during data check, the error will be returned together with "false" value.
	HasSubcategories(ctx context.Context, id int) (bool, error)
	// Create creates a new category
	//
	// If some error will occur during data creation, the error will be returned.
	Create(ctx context.Context, category *models.Category) error
	// Update applies a partial update over allow-listed columns
	//
	// If some error will occur during data update, the error will be returned.
	Update(ctx context.Context, id int, fields map[string]any) error
	// Delete deletes a category by its ID
	//
	// If some error will occur during data deletion, the error will be returned.
	Delete(ctx context.Context, id int) error
}

// categoryService implements category business logic
type categoryService struct {
	categoryRepo CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo CategoryRepository) *categoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
	}
}

// GetAll retrieves a paginated list of categories
func (s *categoryService) GetAll(ctx context.Context, page, limit int, status, search, sortBy, sortDir string) ([]models.Category, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if status != "" && !models.ValidCategoryStatus(status) {
		return nil, nil, fmt.Errorf("invalid status '%s'", status)
	}

	categories, total, err := s.categoryRepo.GetAll(ctx, page, limit, status, search, sortBy, sortDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get categories: %w", err)
	}

	return categories, models.NewPagination(total, page, limit), nil
}

// GetByID retrieves a category by ID
func (s *categoryService) GetByID(ctx context.Context, id int) (*models.Category, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid category id")
	}

	return s.categoryRepo.GetByID(ctx, id)
}

// Create creates a new category. Status defaults to Active when omitted.
func (s *categoryService) Create(ctx context.Context, request *models.CreateCategoryRequest) (*models.Category, error) {
	if request.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	status := request.Status
	if status == "" {
		status = string(models.CategoryStatusActive)
	}
	if !models.ValidCategoryStatus(status) {
		return nil, fmt.Errorf("invalid status '%s'", status)
	}

	exists, err := s.categoryRepo.ExistsByName(ctx, request.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check category existence: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("category '%s' already exists", request.Name)
	}

	category := &models.Category{
		Name:        request.Name,
		Description: request.Description,
		Status:      models.CategoryStatus(status),
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return s.categoryRepo.GetByID(ctx, category.ID)
}

// Update applies a partial update to a category
func (s *categoryService) Update(ctx context.Context, id int, fields map[string]any) (*models.Category, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid category id")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	if status, ok := fields["status"].(string); ok && !models.ValidCategoryStatus(status) {
		return nil, fmt.Errorf("invalid status '%s'", status)
	}

	if err := s.categoryRepo.Update(ctx, id, fields); err != nil {
		return nil, err
	}

	return s.categoryRepo.GetByID(ctx, id)
}

// Delete deletes a category. Categories with subcategories cannot be deleted.
func (s *categoryService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("invalid category id")
	}

	hasChildren, err := s.categoryRepo.HasSubcategories(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check category subcategories: %w", err)
	}
	if hasChildren {
		return fmt.Errorf("category has subcategories and cannot be deleted")
	}

	return s.categoryRepo.Delete(ctx, id)
}
