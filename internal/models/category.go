package models

import "time"

// CategoryStatus represents valid category lifecycle states
type CategoryStatus string

const (
	CategoryStatusActive   CategoryStatus = "Active"
	CategoryStatusInactive CategoryStatus = "Inactive"
	CategoryStatusDraft    CategoryStatus = "Draft"
)

// ValidCategoryStatus reports whether the given status is one of the allowed values
func ValidCategoryStatus(s string) bool {
	switch CategoryStatus(s) {
	case CategoryStatusActive, CategoryStatusInactive, CategoryStatusDraft:
		return true
	}
	return false
}

// Category represents a top-level content category
// TopicsCount is denormalized and maintained by database triggers; application code never writes it
type Category struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Status      CategoryStatus `json:"status"`
	TopicsCount int            `json:"topicsCount"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// CreateCategoryRequest is the payload for creating a category
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Subcategory represents a category subdivision
type Subcategory struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	CategoryID  int            `json:"categoryId"`
	Description string         `json:"description"`
	Status      CategoryStatus `json:"status"`
	TopicsCount int            `json:"topicsCount"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// CreateSubcategoryRequest is the payload for creating a subcategory
type CreateSubcategoryRequest struct {
	Name        string `json:"name"`
	CategoryID  int    `json:"categoryId"`
	Description string `json:"description"`
	Status      string `json:"status"`
}
