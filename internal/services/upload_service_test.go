package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

// mockStorage keeps written files in memory
type mockStorage struct {
	files     map[string][]byte
	createErr error
	deleted   []string
}

type mockWriteCloser struct {
	buf     bytes.Buffer
	storage *mockStorage
	key     string
}

func (w *mockWriteCloser) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *mockWriteCloser) Close() error {
	w.storage.files[w.key] = w.buf.Bytes()
	return nil
}

func (m *mockStorage) Create(filename, uploadType string) (io.WriteCloser, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	return &mockWriteCloser{storage: m, key: uploadType + "/" + filename}, nil
}

func (m *mockStorage) Open(filename, uploadType string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (m *mockStorage) OpenFile(filename, uploadType string) (*os.File, error) {
	return nil, errors.New("not implemented")
}

func (m *mockStorage) Delete(filename, uploadType string) error {
	m.deleted = append(m.deleted, uploadType+"/"+filename)
	return nil
}

// mockUploadRepository stores one upload row
type mockUploadRepository struct {
	upload    *models.Upload
	err       error
	createErr error
	deletedID string
}

func (m *mockUploadRepository) Create(ctx context.Context, upload *models.Upload) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.upload = upload
	return nil
}

func (m *mockUploadRepository) GetByID(ctx context.Context, id string) (*models.Upload, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.upload == nil {
		return nil, errors.New("upload not found")
	}
	return m.upload, nil
}

func (m *mockUploadRepository) Delete(ctx context.Context, id string) error {
	m.deletedID = id
	return nil
}

// mockVideoLinker records the linking update
type mockVideoLinker struct {
	video         *models.TopicVideo
	err           error
	updatedFields map[string]any
}

func (m *mockVideoLinker) GetByID(ctx context.Context, id int) (*models.TopicVideo, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.video == nil {
		return nil, errors.New("video not found")
	}
	return m.video, nil
}

func (m *mockVideoLinker) Update(ctx context.Context, id, moduleID, topicID int, fields map[string]any) error {
	m.updatedFields = fields
	return nil
}

func TestUploadService_Upload(t *testing.T) {
	tests := []struct {
		name          string
		originalName  string
		contentType   string
		uploadType    string
		content       string
		size          int64
		expectedError string
	}{
		{
			name:         "image upload",
			originalName: "photo.PNG",
			contentType:  "image/png",
			uploadType:   "image",
			content:      "binary",
			size:         6,
		},
		{
			name:          "unknown upload type",
			originalName:  "photo.png",
			contentType:   "image/png",
			uploadType:    "avatar",
			size:          6,
			expectedError: "invalid upload type 'avatar'",
		},
		{
			name:          "declared size over the ceiling",
			originalName:  "photo.png",
			contentType:   "image/png",
			uploadType:    "image",
			size:          11 << 20,
			expectedError: "file size exceeds the 10MB limit for image uploads",
		},
		{
			name:          "disallowed mime type",
			originalName:  "script.sh",
			contentType:   "application/x-sh",
			uploadType:    "image",
			size:          6,
			expectedError: "invalid content type 'application/x-sh' for image uploads",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStorage{}
			repo := &mockUploadRepository{}
			service := NewUploadService(repo, &mockVideoLinker{}, store, "http://localhost:8080")

			upload, err := service.Upload(context.Background(), strings.NewReader(tt.content),
				tt.originalName, tt.contentType, tt.uploadType, tt.size)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.NotEmpty(t, upload.ID)
			assert.Equal(t, tt.originalName, upload.OriginalName)
			assert.True(t, strings.HasSuffix(upload.Filename, ".png"))
			assert.Equal(t, int64(len(tt.content)), upload.Size)
			assert.Contains(t, upload.URL, "/api/upload/image/")
		})
	}
}

func TestUploadService_Upload_RecordFailureCleansFile(t *testing.T) {
	store := &mockStorage{}
	repo := &mockUploadRepository{createErr: errors.New("database error")}
	service := NewUploadService(repo, &mockVideoLinker{}, store, "http://localhost:8080")

	_, err := service.Upload(context.Background(), strings.NewReader("binary"),
		"photo.png", "image/png", "image", 6)

	assert.Error(t, err)
	assert.Len(t, store.deleted, 1)
}

func TestUploadService_LinkToVideo(t *testing.T) {
	tests := []struct {
		name          string
		request       *models.LinkUploadRequest
		upload        *models.Upload
		expectedError string
	}{
		{
			name:    "video upload linked",
			request: &models.LinkUploadRequest{VideoID: 5, DurationSeconds: 120},
			upload: &models.Upload{
				ID:         "abc",
				UploadType: models.UploadTypeVideo,
				URL:        "http://localhost:8080/api/upload/video/abc.mp4",
			},
		},
		{
			name:          "missing video id",
			request:       &models.LinkUploadRequest{},
			upload:        &models.Upload{ID: "abc", UploadType: models.UploadTypeVideo},
			expectedError: "videoId is required",
		},
		{
			name:          "non video upload rejected",
			request:       &models.LinkUploadRequest{VideoID: 5},
			upload:        &models.Upload{ID: "abc", UploadType: models.UploadTypeImage},
			expectedError: "only video uploads can be linked to a topic video",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			linker := &mockVideoLinker{video: &models.TopicVideo{ID: 5, ModuleID: 2, TopicID: 1}}
			service := NewUploadService(&mockUploadRepository{upload: tt.upload}, linker, &mockStorage{}, "http://localhost:8080")

			_, err := service.LinkToVideo(context.Background(), "abc", tt.request)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.upload.URL, linker.updatedFields["url"])
			assert.Equal(t, "abc", linker.updatedFields["uploadId"])
			assert.Equal(t, 120, linker.updatedFields["durationSeconds"])
		})
	}
}

func TestUploadService_Delete(t *testing.T) {
	store := &mockStorage{}
	repo := &mockUploadRepository{upload: &models.Upload{
		ID:         "abc",
		Filename:   "abc.png",
		UploadType: models.UploadTypeImage,
	}}
	service := NewUploadService(repo, &mockVideoLinker{}, store, "http://localhost:8080")

	err := service.Delete(context.Background(), "abc")

	assert.NoError(t, err)
	assert.Equal(t, []string{"image/abc.png"}, store.deleted)
	assert.Equal(t, "abc", repo.deletedID)
}
