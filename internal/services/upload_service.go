package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
	"github.com/gurram-saikumar/thinkcyber-server/internal/storage"
)

// Per-type size ceilings in bytes
var uploadSizeLimits = map[models.UploadType]int64{
	models.UploadTypeImage:     10 << 20,
	models.UploadTypeVideo:     500 << 20,
	models.UploadTypeDocument:  50 << 20,
	models.UploadTypeThumbnail: 5 << 20,
}

// Per-type MIME allow-lists
var uploadMimeTypes = map[models.UploadType]map[string]bool{
	models.UploadTypeImage: {
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	},
	models.UploadTypeThumbnail: {
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	},
	models.UploadTypeVideo: {
		"video/mp4":       true,
		"video/webm":      true,
		"video/quicktime": true,
	},
	models.UploadTypeDocument: {
		"application/pdf": true,
		"text/plain":      true,
		"application/msword": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	},
}

// Storage defines the interface for file storage operations
type Storage interface {
	// Create creates a new file and returns a WriteCloser
	Create(filename, uploadType string) (io.WriteCloser, error)

	// Open opens a file for reading and returns a ReadCloser
	Open(filename, uploadType string) (io.ReadCloser, error)

	// OpenFile opens a file and returns *os.File for use with http.ServeContent
	OpenFile(filename, uploadType string) (*os.File, error)

	// Delete removes a file
	Delete(filename, uploadType string) error
}

// UploadRepository defines the interface for upload metadata data access
type UploadRepository interface {
	Create(ctx context.Context, upload *models.Upload) error
	GetByID(ctx context.Context, id string) (*models.Upload, error)
	Delete(ctx context.Context, id string) error
}

// VideoLinker is the interface that wraps the video update used when an
// upload is attached to a topic video
type VideoLinker interface {
	GetByID(ctx context.Context, id int) (*models.TopicVideo, error)
	Update(ctx context.Context, id, moduleID, topicID int, fields map[string]any) error
}

// uploadService handles file upload business logic
type uploadService struct {
	uploadRepo UploadRepository
	videoRepo  VideoLinker
	storage    Storage
	baseURL    string
}

// NewUploadService creates a new upload service
func NewUploadService(uploadRepo UploadRepository, videoRepo VideoLinker, storage Storage, baseURL string) *uploadService {
	return &uploadService{
		uploadRepo: uploadRepo,
		videoRepo:  videoRepo,
		storage:    storage,
		baseURL:    baseURL,
	}
}

// SizeLimit returns the byte ceiling for an upload type
func SizeLimit(uploadType models.UploadType) int64 {
	return uploadSizeLimits[uploadType]
}

// Upload validates, stores and records an uploaded file
func (s *uploadService) Upload(ctx context.Context, reader io.Reader, originalName, contentType, uploadType string, size int64) (*models.Upload, error) {
	if !models.ValidUploadType(uploadType) {
		return nil, fmt.Errorf("invalid upload type '%s'", uploadType)
	}
	typ := models.UploadType(uploadType)

	limit := uploadSizeLimits[typ]
	if size > limit {
		return nil, fmt.Errorf("file size exceeds the %dMB limit for %s uploads", limit>>20, uploadType)
	}
	if !uploadMimeTypes[typ][contentType] {
		return nil, fmt.Errorf("invalid content type '%s' for %s uploads", contentType, uploadType)
	}

	filename := storage.GenerateFilename(originalName)

	writeCloser, err := s.storage.Create(filename, uploadType)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer writeCloser.Close()

	// Copy with a hard cap so a lying Content-Length cannot blow past the ceiling
	written, err := io.Copy(writeCloser, io.LimitReader(reader, limit+1))
	if err != nil {
		s.storage.Delete(filename, uploadType)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if written > limit {
		s.storage.Delete(filename, uploadType)
		return nil, fmt.Errorf("file size exceeds the %dMB limit for %s uploads", limit>>20, uploadType)
	}

	upload := &models.Upload{
		ID:           uuid.New().String(),
		OriginalName: originalName,
		Filename:     filename,
		FilePath:     fmt.Sprintf("%s/%s", uploadType, filename),
		MimeType:     contentType,
		Size:         written,
		UploadType:   typ,
		URL:          fmt.Sprintf("%s/api/upload/%s/%s", s.baseURL, uploadType, filename),
		Metadata:     json.RawMessage(`{}`),
	}
	if err := s.uploadRepo.Create(ctx, upload); err != nil {
		s.storage.Delete(filename, uploadType)
		return nil, fmt.Errorf("failed to create upload record: %w", err)
	}

	return upload, nil
}

// GetByID retrieves upload metadata by ID
func (s *uploadService) GetByID(ctx context.Context, id string) (*models.Upload, error) {
	if id == "" {
		return nil, fmt.Errorf("invalid upload id")
	}

	return s.uploadRepo.GetByID(ctx, id)
}

// GetFile returns an *os.File for range-capable serving
func (s *uploadService) GetFile(filename, uploadType string) (*os.File, error) {
	if !models.ValidUploadType(uploadType) {
		return nil, fmt.Errorf("invalid upload type '%s'", uploadType)
	}

	return s.storage.OpenFile(filename, uploadType)
}

// Delete removes both the stored file and the metadata row
func (s *uploadService) Delete(ctx context.Context, id string) error {
	upload, err := s.uploadRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.storage.Delete(upload.Filename, string(upload.UploadType))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return s.uploadRepo.Delete(ctx, id)
}

// LinkToVideo attaches an upload to a topic video, setting the video URL
// and duration from the upload. Durations roll up to module and topic.
func (s *uploadService) LinkToVideo(ctx context.Context, id string, request *models.LinkUploadRequest) (*models.TopicVideo, error) {
	if request.VideoID <= 0 {
		return nil, fmt.Errorf("videoId is required")
	}

	upload, err := s.uploadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upload.UploadType != models.UploadTypeVideo {
		return nil, fmt.Errorf("only video uploads can be linked to a topic video")
	}

	video, err := s.videoRepo.GetByID(ctx, request.VideoID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"url":       upload.URL,
		"videoType": string(models.VideoTypeMP4),
		"uploadId":  upload.ID,
	}
	if request.DurationSeconds > 0 {
		fields["durationSeconds"] = request.DurationSeconds
	}

	if err := s.videoRepo.Update(ctx, request.VideoID, video.ModuleID, video.TopicID, fields); err != nil {
		return nil, err
	}

	return s.videoRepo.GetByID(ctx, request.VideoID)
}
