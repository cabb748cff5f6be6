package models

import (
	"encoding/json"
	"time"
)

// UploadType represents valid upload categories, each with its own size ceiling and MIME allow-list
type UploadType string

const (
	UploadTypeImage     UploadType = "image"
	UploadTypeVideo     UploadType = "video"
	UploadTypeDocument  UploadType = "document"
	UploadTypeThumbnail UploadType = "thumbnail"
)

// ValidUploadType reports whether the given upload type is allowed
func ValidUploadType(s string) bool {
	switch UploadType(s) {
	case UploadTypeImage, UploadTypeVideo, UploadTypeDocument, UploadTypeThumbnail:
		return true
	}
	return false
}

// Upload represents stored file metadata. The binary itself lives on disk
// under a per-type directory; ID is an opaque string.
type Upload struct {
	ID           string          `json:"id"`
	OriginalName string          `json:"originalName"`
	Filename     string          `json:"filename"`
	FilePath     string          `json:"filePath"`
	MimeType     string          `json:"mimeType"`
	Size         int64           `json:"size"`
	UploadType   UploadType      `json:"uploadType"`
	URL          string          `json:"url"`
	Metadata     json.RawMessage `json:"metadata"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// LinkUploadRequest attaches an upload to a topic video
type LinkUploadRequest struct {
	VideoID         int `json:"videoId"`
	DurationSeconds int `json:"durationSeconds"`
}
