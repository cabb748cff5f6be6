package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gurram-saikumar/thinkcyber-server/internal/cache"
	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
	"go.uber.org/zap"
)

const homepageCacheTTL = 5 * time.Minute

// HomepageRepository is the interface that wraps methods for HomepageContent table data access
type HomepageRepository interface {
	// GetByLanguage retrieves the homepage content for a language
	//
	// If some error will occur during data retrieve, the error will be returned together with "nil" value.
	GetByLanguage(ctx context.Context, language string) (*models.HomepageContent, error)
	// Upsert inserts or replaces the homepage content for a language
	//
	// If some error will occur during data upsert, the error will be returned.
	Upsert(ctx context.Context, content *models.HomepageContent) error
}

// HomepageCache is the interface that wraps homepage content caching
type HomepageCache interface {
	GetHomepage(ctx context.Context, language string) ([]byte, error)
	SetHomepage(ctx context.Context, language string, payload []byte, ttl time.Duration) error
	InvalidateHomepage(ctx context.Context, language string) error
}

// homepageService implements homepage content business logic
type homepageService struct {
	homepageRepo HomepageRepository
	cache        HomepageCache
	logger       *zap.Logger
}

// NewHomepageService creates a new homepage service. Cache may be nil, in
// which case every read goes to the database.
func NewHomepageService(homepageRepo HomepageRepository, cache HomepageCache, logger *zap.Logger) *homepageService {
	return &homepageService{
		homepageRepo: homepageRepo,
		cache:        cache,
		logger:       logger,
	}
}

// GetByLanguage retrieves homepage content, served from cache when possible
func (s *homepageService) GetByLanguage(ctx context.Context, language string) (*models.HomepageContent, error) {
	if language == "" {
		return nil, fmt.Errorf("language is required")
	}

	if s.cache != nil {
		payload, err := s.cache.GetHomepage(ctx, language)
		if err == nil {
			var content models.HomepageContent
			if err := json.Unmarshal(payload, &content); err == nil {
				return &content, nil
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			// Cache trouble is not fatal, fall through to the database
			s.logger.Warn("homepage cache read failed", zap.Error(err))
		}
	}

	content, err := s.homepageRepo.GetByLanguage(ctx, language)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(content); err == nil {
			if err := s.cache.SetHomepage(ctx, language, payload, homepageCacheTTL); err != nil {
				s.logger.Warn("homepage cache write failed", zap.Error(err))
			}
		}
	}

	return content, nil
}

// Upsert replaces a language's homepage content and drops the cached copy
func (s *homepageService) Upsert(ctx context.Context, language string, request *models.UpsertHomepageRequest) (*models.HomepageContent, error) {
	if language == "" {
		return nil, fmt.Errorf("language is required")
	}
	if request.HeroTitle == "" {
		return nil, fmt.Errorf("heroTitle is required")
	}

	content := &models.HomepageContent{
		Language:     language,
		HeroTitle:    request.HeroTitle,
		HeroSubtitle: request.HeroSubtitle,
		HeroCTAText:  request.HeroCTAText,
		HeroCTALink:  request.HeroCTALink,
		Sections:     request.Sections,
	}
	if content.Sections == nil {
		content.Sections = []models.HomepageSection{}
	}

	if err := s.homepageRepo.Upsert(ctx, content); err != nil {
		return nil, fmt.Errorf("failed to upsert homepage content: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateHomepage(ctx, language); err != nil {
			s.logger.Warn("homepage cache invalidation failed", zap.Error(err))
		}
	}

	return s.homepageRepo.GetByLanguage(ctx, language)
}
