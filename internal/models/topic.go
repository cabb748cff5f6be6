package models

import "time"

// TopicDifficulty represents valid topic difficulty levels
type TopicDifficulty string

const (
	DifficultyBeginner     TopicDifficulty = "beginner"
	DifficultyIntermediate TopicDifficulty = "intermediate"
	DifficultyAdvanced     TopicDifficulty = "advanced"
)

// ValidTopicDifficulty reports whether the given difficulty is allowed
func ValidTopicDifficulty(s string) bool {
	switch TopicDifficulty(s) {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// TopicStatus represents the topic lifecycle state
type TopicStatus string

const (
	TopicStatusDraft     TopicStatus = "draft"
	TopicStatusPublished TopicStatus = "published"
	TopicStatusArchived  TopicStatus = "archived"
)

// ValidTopicStatus reports whether the given status is allowed
func ValidTopicStatus(s string) bool {
	switch TopicStatus(s) {
	case TopicStatusDraft, TopicStatusPublished, TopicStatusArchived:
		return true
	}
	return false
}

// Topic represents a course unit. Slug is assigned once at creation and regenerated
// only when the title changes; DurationMinutes is the sum of its modules' durations.
type Topic struct {
	ID              int             `json:"id"`
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	Description     string          `json:"description"`
	CategoryID      int             `json:"categoryId"`
	SubcategoryID   int             `json:"subcategoryId"`
	Difficulty      TopicDifficulty `json:"difficulty"`
	Status          TopicStatus     `json:"status"`
	IsFeatured      bool            `json:"isFeatured"`
	IsFree          bool            `json:"isFree"`
	Price           float64         `json:"price"`
	DurationMinutes int             `json:"durationMinutes"`
	Tags            []string        `json:"tags"`
	EnrollmentCount int             `json:"enrollmentCount"`
	AverageRating   float64         `json:"averageRating"`
	PublishedAt     *time.Time      `json:"publishedAt"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	// Populated on detail/export responses
	Modules []TopicModule `json:"modules,omitempty"`
}

// CreateTopicRequest is the payload for creating a topic, optionally with nested modules
type CreateTopicRequest struct {
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	CategoryID    int           `json:"categoryId"`
	SubcategoryID int           `json:"subcategoryId"`
	Difficulty    string        `json:"difficulty"`
	IsFeatured    bool          `json:"isFeatured"`
	IsFree        bool          `json:"isFree"`
	Price         float64       `json:"price"`
	Tags          []string      `json:"tags"`
	Modules       []ModuleInput `json:"modules"`
}

// TopicListFilter carries the validated query parameters for topic listing
type TopicListFilter struct {
	CategoryID    int
	SubcategoryID int
	Status        string
	Difficulty    string
	IsFeatured    *bool
	IsFree        *bool
	Search        string
	Page          int
	Limit         int
	SortBy        string
	SortDir       string
}

// TopicExport is the shape used by the export and import endpoints
type TopicExport struct {
	Topics []Topic `json:"topics"`
}
