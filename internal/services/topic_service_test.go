package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

// mockTopicRepository is a controllable TopicRepository for service tests
type mockTopicRepository struct {
	topics       []models.Topic
	topic        *models.Topic
	total        int
	ids          []int
	takenSlugs   map[string]bool
	err          error
	createErr    error
	updateErr    error
	statusErr    error
	reconcileErr error

	createdTopic    *models.Topic
	createdModules  []models.ModuleInput
	updatedFields   map[string]any
	updatedStatus   models.TopicStatus
	publishedAt     *time.Time
	reconciled      bool
	reconciledInput []models.ModuleInput
}

func (m *mockTopicRepository) GetAll(ctx context.Context, filter models.TopicListFilter) ([]models.Topic, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.topics, m.total, nil
}

func (m *mockTopicRepository) GetByID(ctx context.Context, id int) (*models.Topic, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.topic == nil {
		return nil, errors.New("topic not found")
	}
	clone := *m.topic
	return &clone, nil
}

func (m *mockTopicRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	return m.takenSlugs[slug], nil
}

func (m *mockTopicRepository) Create(ctx context.Context, topic *models.Topic, modules []models.ModuleInput) error {
	if m.createErr != nil {
		return m.createErr
	}
	topic.ID = 1
	m.createdTopic = topic
	m.createdModules = modules
	m.topic = topic
	return nil
}

func (m *mockTopicRepository) ReconcileModules(ctx context.Context, topicID int, modules []models.ModuleInput) error {
	if m.reconcileErr != nil {
		return m.reconcileErr
	}
	m.reconciled = true
	m.reconciledInput = modules
	return nil
}

func (m *mockTopicRepository) Update(ctx context.Context, id int, fields map[string]any) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updatedFields = fields
	return nil
}

func (m *mockTopicRepository) UpdateStatus(ctx context.Context, id int, status models.TopicStatus, publishedAt *time.Time) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	m.updatedStatus = status
	m.publishedAt = publishedAt
	m.topic.Status = status
	return nil
}

func (m *mockTopicRepository) Delete(ctx context.Context, id int) error {
	return m.err
}

func (m *mockTopicRepository) GetAllIDs(ctx context.Context) ([]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.ids, nil
}

// mockTopicModuleReader returns a fixed module list
type mockTopicModuleReader struct {
	modules []models.TopicModule
	err     error
}

func (m *mockTopicModuleReader) GetByTopicID(ctx context.Context, topicID int) ([]models.TopicModule, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.modules, nil
}

// mockTopicVideoReader returns a fixed video list
type mockTopicVideoReader struct {
	videos []models.TopicVideo
	err    error
}

func (m *mockTopicVideoReader) GetByTopicID(ctx context.Context, topicID int) ([]models.TopicVideo, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.videos, nil
}

// mockExistsChecker answers parent existence checks
type mockExistsChecker struct {
	exists bool
	err    error
}

func (m *mockExistsChecker) ExistsByID(ctx context.Context, id int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.exists, nil
}

func newTopicServiceForTest(repo *mockTopicRepository) *topicService {
	return NewTopicService(
		repo,
		&mockTopicModuleReader{},
		&mockTopicVideoReader{},
		&mockExistsChecker{exists: true},
		&mockExistsChecker{exists: true},
	)
}

func TestNewTopicService(t *testing.T) {
	repo := &mockTopicRepository{}
	service := newTopicServiceForTest(repo)

	assert.NotNil(t, service)
	assert.Equal(t, repo, service.topicRepo)
}

func TestTopicService_GetByID(t *testing.T) {
	repo := &mockTopicRepository{
		topic: &models.Topic{ID: 1, Title: "Phishing", Status: models.TopicStatusDraft},
	}
	service := NewTopicService(
		repo,
		&mockTopicModuleReader{modules: []models.TopicModule{
			{ID: 10, TopicID: 1, Title: "Basics"},
			{ID: 11, TopicID: 1, Title: "Advanced"},
		}},
		&mockTopicVideoReader{videos: []models.TopicVideo{
			{ID: 100, ModuleID: 10, Title: "Intro"},
			{ID: 101, ModuleID: 11, Title: "Deep dive"},
			{ID: 102, ModuleID: 10, Title: "Recap"},
		}},
		&mockExistsChecker{exists: true},
		&mockExistsChecker{exists: true},
	)

	topic, err := service.GetByID(context.Background(), 1)

	assert.NoError(t, err)
	assert.Len(t, topic.Modules, 2)
	assert.Len(t, topic.Modules[0].Videos, 2)
	assert.Len(t, topic.Modules[1].Videos, 1)
	assert.Equal(t, "Intro", topic.Modules[0].Videos[0].Title)
	assert.Equal(t, "Recap", topic.Modules[0].Videos[1].Title)
}

func TestTopicService_Create(t *testing.T) {
	tests := []struct {
		name          string
		request       *models.CreateTopicRequest
		repo          *mockTopicRepository
		categoryOK    bool
		subcategoryOK bool
		expectedSlug  string
		expectedError string
	}{
		{
			name: "success with allocated slug",
			request: &models.CreateTopicRequest{
				Title:         "Cloud Security",
				CategoryID:    1,
				SubcategoryID: 2,
			},
			repo:          &mockTopicRepository{takenSlugs: map[string]bool{}},
			categoryOK:    true,
			subcategoryOK: true,
			expectedSlug:  "cloud-security",
		},
		{
			name: "taken slug gets a suffix",
			request: &models.CreateTopicRequest{
				Title:         "Cloud Security",
				CategoryID:    1,
				SubcategoryID: 2,
			},
			repo: &mockTopicRepository{takenSlugs: map[string]bool{
				"cloud-security": true,
			}},
			categoryOK:    true,
			subcategoryOK: true,
			expectedSlug:  "cloud-security-1",
		},
		{
			name:          "missing title",
			request:       &models.CreateTopicRequest{CategoryID: 1, SubcategoryID: 2},
			repo:          &mockTopicRepository{},
			categoryOK:    true,
			subcategoryOK: true,
			expectedError: "title is required",
		},
		{
			name:          "missing category",
			request:       &models.CreateTopicRequest{Title: "Cloud Security", SubcategoryID: 2},
			repo:          &mockTopicRepository{},
			categoryOK:    true,
			subcategoryOK: true,
			expectedError: "categoryId is required",
		},
		{
			name: "invalid difficulty",
			request: &models.CreateTopicRequest{
				Title:         "Cloud Security",
				CategoryID:    1,
				SubcategoryID: 2,
				Difficulty:    "expert",
			},
			repo:          &mockTopicRepository{},
			categoryOK:    true,
			subcategoryOK: true,
			expectedError: "invalid difficulty 'expert'",
		},
		{
			name: "missing parent category",
			request: &models.CreateTopicRequest{
				Title:         "Cloud Security",
				CategoryID:    9,
				SubcategoryID: 2,
			},
			repo:          &mockTopicRepository{},
			categoryOK:    false,
			subcategoryOK: true,
			expectedError: "category 9 does not exist",
		},
		{
			name: "missing parent subcategory",
			request: &models.CreateTopicRequest{
				Title:         "Cloud Security",
				CategoryID:    1,
				SubcategoryID: 9,
			},
			repo:          &mockTopicRepository{},
			categoryOK:    true,
			subcategoryOK: false,
			expectedError: "subcategory 9 does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewTopicService(
				tt.repo,
				&mockTopicModuleReader{},
				&mockTopicVideoReader{},
				&mockExistsChecker{exists: tt.categoryOK},
				&mockExistsChecker{exists: tt.subcategoryOK},
			)

			topic, err := service.Create(context.Background(), tt.request)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, topic)
			assert.Equal(t, tt.expectedSlug, tt.repo.createdTopic.Slug)
			assert.Equal(t, models.TopicStatusDraft, tt.repo.createdTopic.Status)
			assert.Equal(t, models.DifficultyBeginner, tt.repo.createdTopic.Difficulty)
		})
	}
}

func TestTopicService_Update(t *testing.T) {
	t.Run("changed title regenerates slug", func(t *testing.T) {
		repo := &mockTopicRepository{
			topic:      &models.Topic{ID: 1, Title: "Old Title", Slug: "old-title"},
			takenSlugs: map[string]bool{},
		}
		service := newTopicServiceForTest(repo)

		_, err := service.Update(context.Background(), 1, map[string]any{"title": "New Title"}, nil, false)

		assert.NoError(t, err)
		assert.Equal(t, "new-title", repo.updatedFields["slug"])
	})

	t.Run("unchanged title keeps slug", func(t *testing.T) {
		repo := &mockTopicRepository{
			topic:      &models.Topic{ID: 1, Title: "Same Title", Slug: "same-title"},
			takenSlugs: map[string]bool{},
		}
		service := newTopicServiceForTest(repo)

		_, err := service.Update(context.Background(), 1, map[string]any{"title": "Same Title"}, nil, false)

		assert.NoError(t, err)
		assert.NotContains(t, repo.updatedFields, "slug")
	})

	t.Run("tags serialized to json", func(t *testing.T) {
		repo := &mockTopicRepository{
			topic:      &models.Topic{ID: 1, Title: "Title"},
			takenSlugs: map[string]bool{},
		}
		service := newTopicServiceForTest(repo)

		_, err := service.Update(context.Background(), 1, map[string]any{"tags": []any{"security", "cloud"}}, nil, false)

		assert.NoError(t, err)
		assert.Equal(t, `["security","cloud"]`, repo.updatedFields["tags"])
	})

	t.Run("modules reconciled after scalar update", func(t *testing.T) {
		repo := &mockTopicRepository{
			topic:      &models.Topic{ID: 1, Title: "Title"},
			takenSlugs: map[string]bool{},
		}
		service := newTopicServiceForTest(repo)
		modules := []models.ModuleInput{{Title: "Basics"}}

		_, err := service.Update(context.Background(), 1, map[string]any{"description": "updated"}, modules, true)

		assert.NoError(t, err)
		assert.True(t, repo.reconciled)
		assert.Equal(t, modules, repo.reconciledInput)
	})

	t.Run("modules only update skips scalar update", func(t *testing.T) {
		repo := &mockTopicRepository{
			topic:      &models.Topic{ID: 1, Title: "Title"},
			takenSlugs: map[string]bool{},
		}
		service := newTopicServiceForTest(repo)

		_, err := service.Update(context.Background(), 1, map[string]any{}, []models.ModuleInput{}, true)

		assert.NoError(t, err)
		assert.Nil(t, repo.updatedFields)
		assert.True(t, repo.reconciled)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		repo := &mockTopicRepository{topic: &models.Topic{ID: 1}}
		service := newTopicServiceForTest(repo)

		_, err := service.Update(context.Background(), 1, map[string]any{"status": "live"}, nil, false)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid status 'live'")
	})

	t.Run("no fields and no modules", func(t *testing.T) {
		repo := &mockTopicRepository{topic: &models.Topic{ID: 1}}
		service := newTopicServiceForTest(repo)

		_, err := service.Update(context.Background(), 1, map[string]any{}, nil, false)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no fields to update")
	})

	t.Run("client supplied slug is dropped", func(t *testing.T) {
		repo := &mockTopicRepository{
			topic:      &models.Topic{ID: 5, Title: "Title", Slug: "title"},
			takenSlugs: map[string]bool{},
		}
		service := newTopicServiceForTest(repo)

		_, err := service.Update(context.Background(), 5, map[string]any{
			"slug":        "client-chosen-slug",
			"description": "updated",
		}, nil, false)

		assert.NoError(t, err)
		assert.NotContains(t, repo.updatedFields, "slug")
		assert.Contains(t, repo.updatedFields, "description")
	})

	t.Run("slug only payload has nothing to update", func(t *testing.T) {
		repo := &mockTopicRepository{topic: &models.Topic{ID: 5, Slug: "title"}}
		service := newTopicServiceForTest(repo)

		_, err := service.Update(context.Background(), 5, map[string]any{"slug": "client-chosen-slug"}, nil, false)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no fields to update")
	})

	t.Run("dangling categoryId rejected", func(t *testing.T) {
		repo := &mockTopicRepository{topic: &models.Topic{ID: 1, CategoryID: 1, SubcategoryID: 2}}
		service := NewTopicService(
			repo,
			&mockTopicModuleReader{},
			&mockTopicVideoReader{},
			&mockExistsChecker{exists: false},
			&mockExistsChecker{exists: true},
		)

		_, err := service.Update(context.Background(), 1, map[string]any{"categoryId": float64(9)}, nil, false)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "category 9 does not exist")
		assert.Nil(t, repo.updatedFields)
	})

	t.Run("dangling subcategoryId rejected", func(t *testing.T) {
		repo := &mockTopicRepository{topic: &models.Topic{ID: 1, CategoryID: 1, SubcategoryID: 2}}
		service := NewTopicService(
			repo,
			&mockTopicModuleReader{},
			&mockTopicVideoReader{},
			&mockExistsChecker{exists: true},
			&mockExistsChecker{exists: false},
		)

		_, err := service.Update(context.Background(), 1, map[string]any{"subcategoryId": float64(9)}, nil, false)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "subcategory 9 does not exist")
		assert.Nil(t, repo.updatedFields)
	})

	t.Run("valid reparent passes the checks", func(t *testing.T) {
		repo := &mockTopicRepository{
			topic:      &models.Topic{ID: 1, CategoryID: 1, SubcategoryID: 2},
			takenSlugs: map[string]bool{},
		}
		service := newTopicServiceForTest(repo)

		_, err := service.Update(context.Background(), 1, map[string]any{
			"categoryId":    float64(3),
			"subcategoryId": float64(4),
		}, nil, false)

		assert.NoError(t, err)
		assert.Equal(t, float64(3), repo.updatedFields["categoryId"])
	})
}

func TestTopicService_Publish(t *testing.T) {
	tests := []struct {
		name          string
		status        models.TopicStatus
		expectedError string
	}{
		{
			name:   "draft can be published",
			status: models.TopicStatusDraft,
		},
		{
			name:          "already published",
			status:        models.TopicStatusPublished,
			expectedError: "topic is already published",
		},
		{
			name:          "archived cannot be published",
			status:        models.TopicStatusArchived,
			expectedError: "archived topic cannot be published",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTopicRepository{topic: &models.Topic{ID: 1, Status: tt.status}}
			service := newTopicServiceForTest(repo)

			topic, err := service.Publish(context.Background(), 1)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, topic)
			assert.Equal(t, models.TopicStatusPublished, repo.updatedStatus)
			assert.NotNil(t, repo.publishedAt)
		})
	}
}

func TestTopicService_Archive(t *testing.T) {
	tests := []struct {
		name          string
		status        models.TopicStatus
		expectedError string
	}{
		{
			name:   "published can be archived",
			status: models.TopicStatusPublished,
		},
		{
			name:          "draft cannot be archived",
			status:        models.TopicStatusDraft,
			expectedError: "only published topics can be archived",
		},
		{
			name:          "archived cannot be archived again",
			status:        models.TopicStatusArchived,
			expectedError: "only published topics can be archived",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTopicRepository{topic: &models.Topic{ID: 1, Status: tt.status}}
			service := newTopicServiceForTest(repo)

			_, err := service.Archive(context.Background(), 1)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, models.TopicStatusArchived, repo.updatedStatus)
			assert.Nil(t, repo.publishedAt)
		})
	}
}

func TestTopicService_ToggleStatus(t *testing.T) {
	tests := []struct {
		name           string
		status         models.TopicStatus
		expectedStatus models.TopicStatus
		expectedError  string
	}{
		{
			name:           "draft toggles to published",
			status:         models.TopicStatusDraft,
			expectedStatus: models.TopicStatusPublished,
		},
		{
			name:           "published toggles to draft",
			status:         models.TopicStatusPublished,
			expectedStatus: models.TopicStatusDraft,
		},
		{
			name:          "archived cannot be toggled",
			status:        models.TopicStatusArchived,
			expectedError: "archived topic status cannot be toggled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTopicRepository{topic: &models.Topic{ID: 1, Status: tt.status}}
			service := newTopicServiceForTest(repo)

			_, err := service.ToggleStatus(context.Background(), 1)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, repo.updatedStatus)
		})
	}
}

func TestTopicService_ToggleFeatured(t *testing.T) {
	repo := &mockTopicRepository{topic: &models.Topic{ID: 1, IsFeatured: false}}
	service := newTopicServiceForTest(repo)

	_, err := service.ToggleFeatured(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"isFeatured": true}, repo.updatedFields)
}

func TestTopicService_Duplicate(t *testing.T) {
	repo := &mockTopicRepository{
		topic: &models.Topic{
			ID:     1,
			Title:  "Cloud Security",
			Slug:   "cloud-security",
			Status: models.TopicStatusPublished,
		},
		takenSlugs: map[string]bool{"cloud-security": true},
	}
	service := NewTopicService(
		repo,
		&mockTopicModuleReader{modules: []models.TopicModule{{ID: 10, Title: "Basics", OrderIndex: 1}}},
		&mockTopicVideoReader{videos: []models.TopicVideo{{ID: 100, ModuleID: 10, Title: "Intro"}}},
		&mockExistsChecker{exists: true},
		&mockExistsChecker{exists: true},
	)

	_, err := service.Duplicate(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, "Cloud Security (Copy)", repo.createdTopic.Title)
	assert.Equal(t, "cloud-security-copy", repo.createdTopic.Slug)
	assert.Equal(t, models.TopicStatusDraft, repo.createdTopic.Status)
	assert.Len(t, repo.createdModules, 1)
	assert.Zero(t, repo.createdModules[0].Videos[0].DurationSeconds)
	assert.Equal(t, "Intro", repo.createdModules[0].Videos[0].Title)
}

func TestTopicService_Import(t *testing.T) {
	t.Run("empty export rejected", func(t *testing.T) {
		service := newTopicServiceForTest(&mockTopicRepository{})

		created, err := service.Import(context.Background(), &models.TopicExport{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no topics to import")
		assert.Zero(t, created)
	})

	t.Run("invalid status and difficulty normalized", func(t *testing.T) {
		repo := &mockTopicRepository{takenSlugs: map[string]bool{}}
		service := newTopicServiceForTest(repo)
		export := &models.TopicExport{Topics: []models.Topic{
			{Title: "Imported", Status: "live", Difficulty: "expert"},
		}}

		created, err := service.Import(context.Background(), export)

		assert.NoError(t, err)
		assert.Equal(t, 1, created)
		assert.Equal(t, models.TopicStatusDraft, repo.createdTopic.Status)
		assert.Equal(t, models.DifficultyBeginner, repo.createdTopic.Difficulty)
	})
}
