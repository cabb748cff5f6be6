package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

func setupCategoryTestRepository(t *testing.T) (*categoryRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewCategoryRepository(db)
	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestNewCategoryRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewCategoryRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestCategoryRepository_GetAll(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		status        string
		search        string
		setupMock     func(mock sqlmock.Sqlmock)
		expectedCount int
		expectedTotal int
		expectedError bool
	}{
		{
			name: "success without filters",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories`).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
				mock.ExpectQuery(`SELECT id, name, description, status, topics_count, created_at, updated_at`).
					WithArgs(10, 0).
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "status", "topics_count", "created_at", "updated_at"}).
						AddRow(1, "Security", "desc", "Active", 3, now, now).
						AddRow(2, "Networking", "desc", "Active", 0, now, now))
			},
			expectedCount: 2,
			expectedTotal: 2,
		},
		{
			name:   "status and search filters",
			status: "Active",
			search: "net",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories WHERE`).
					WithArgs("Active", "%net%", "%net%").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery(`SELECT id, name, description, status, topics_count, created_at, updated_at`).
					WithArgs("Active", "%net%", "%net%", 10, 0).
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "status", "topics_count", "created_at", "updated_at"}).
						AddRow(2, "Networking", "desc", "Active", 0, now, now))
			},
			expectedCount: 1,
			expectedTotal: 1,
		},
		{
			name: "count query error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories`).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCategoryTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			categories, total, err := repo.GetAll(context.Background(), 1, 10, tt.status, tt.search, "", "")

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, categories, tt.expectedCount)
			assert.Equal(t, tt.expectedTotal, total)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCategoryRepository_GetByID(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		setupMock     func(mock sqlmock.Sqlmock)
		expectedError string
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, description, status, topics_count, created_at, updated_at`).
					WithArgs(1).
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "status", "topics_count", "created_at", "updated_at"}).
						AddRow(1, "Security", "desc", "Active", 3, now, now))
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, description, status, topics_count, created_at, updated_at`).
					WithArgs(1).
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: "category not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCategoryTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			category, err := repo.GetByID(context.Background(), 1)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "Security", category.Name)
			assert.Equal(t, 3, category.TopicsCount)
		})
	}
}

func TestCategoryRepository_Create(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(mock sqlmock.Sqlmock)
		expectedError bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO categories`).
					WithArgs("Security", "desc", models.CategoryStatusActive).
					WillReturnResult(sqlmock.NewResult(7, 1))
			},
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO categories`).
					WithArgs("Security", "desc", models.CategoryStatusActive).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCategoryTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			category := &models.Category{
				Name:        "Security",
				Description: "desc",
				Status:      models.CategoryStatusActive,
			}
			err := repo.Create(context.Background(), category)

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, 7, category.ID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCategoryRepository_Update(t *testing.T) {
	tests := []struct {
		name          string
		fields        map[string]any
		setupMock     func(mock sqlmock.Sqlmock)
		expectedError string
	}{
		{
			name:   "success",
			fields: map[string]any{"name": "Renamed", "status": "Inactive"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE categories`).
					WithArgs("Renamed", "Inactive", 1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:          "unknown field rejected before query",
			fields:        map[string]any{"topicsCount": 5},
			setupMock:     func(mock sqlmock.Sqlmock) {},
			expectedError: `field "topicsCount" is not updatable`,
		},
		{
			name:   "no rows affected",
			fields: map[string]any{"name": "Renamed"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE categories`).
					WithArgs("Renamed", 99).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError: "category not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCategoryTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			id := 1
			if tt.name == "no rows affected" {
				id = 99
			}
			err := repo.Update(context.Background(), id, tt.fields)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCategoryRepository_Delete(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(mock sqlmock.Sqlmock)
		expectedError string
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM categories`).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM categories`).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError: "category not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCategoryTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Delete(context.Background(), 1)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			assert.NoError(t, err)
		})
	}
}
