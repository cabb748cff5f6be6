package models

import "time"

// TopicModule is an ordered section within a topic, owned exclusively by it.
// DurationMinutes is the sum of the module's video durations, recomputed on every video change.
type TopicModule struct {
	ID              int       `json:"id"`
	TopicID         int       `json:"topicId"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	OrderIndex      int       `json:"orderIndex"`
	DurationMinutes int       `json:"durationMinutes"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	Videos []TopicVideo `json:"videos,omitempty"`
}

// ModuleInput is a desired-state module entry inside a topic create/update payload.
// An entry whose ID does not resolve to an existing row is inserted as new.
type ModuleInput struct {
	ID          FlexID       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Order       *int         `json:"order"`
	Videos      []VideoInput `json:"videos"`
}

// CreateModuleRequest is the payload for adding a single module to a topic
type CreateModuleRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       *int   `json:"order"`
}

// ReorderEntry maps an entity id to its new order position
type ReorderEntry struct {
	ID    int `json:"id"`
	Order int `json:"order"`
}
