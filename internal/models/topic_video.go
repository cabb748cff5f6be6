package models

import "time"

// VideoType represents supported video source types
type VideoType string

const (
	VideoTypeMP4     VideoType = "mp4"
	VideoTypeYouTube VideoType = "youtube"
	VideoTypeVimeo   VideoType = "vimeo"
	VideoTypeStream  VideoType = "stream"
)

// ValidVideoType reports whether the given video type is allowed
func ValidVideoType(s string) bool {
	switch VideoType(s) {
	case VideoTypeMP4, VideoTypeYouTube, VideoTypeVimeo, VideoTypeStream:
		return true
	}
	return false
}

// TopicVideo is a video within a module, owned by it and cascade-deleted with it
type TopicVideo struct {
	ID              int       `json:"id"`
	TopicID         int       `json:"topicId"`
	ModuleID        int       `json:"moduleId"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	URL             string    `json:"url"`
	VideoType       VideoType `json:"videoType"`
	OrderIndex      int       `json:"orderIndex"`
	DurationSeconds int       `json:"durationSeconds"`
	UploadID        *string   `json:"uploadId"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// VideoInput is a desired-state video entry inside a module payload
type VideoInput struct {
	ID              FlexID  `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	URL             string  `json:"url"`
	VideoType       string  `json:"videoType"`
	Order           *int    `json:"order"`
	DurationSeconds int     `json:"durationSeconds"`
	UploadID        *string `json:"uploadId"`
}

// CreateVideoRequest is the payload for adding a single video to a module
type CreateVideoRequest struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	URL             string  `json:"url"`
	VideoType       string  `json:"videoType"`
	Order           *int    `json:"order"`
	DurationSeconds int     `json:"durationSeconds"`
	UploadID        *string `json:"uploadId"`
}
