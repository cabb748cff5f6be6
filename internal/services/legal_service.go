package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

// LegalRepository is the interface that wraps methods for LegalDocument table data access
type LegalRepository interface {
	// GetCurrent retrieves the currently published document of a type
	//
	// If some error will occur during data retrieve, the error will be returned together with "nil" value.
	GetCurrent(ctx context.Context, docType models.LegalDocumentType) (*models.LegalDocument, error)
	// GetByID retrieves a document version by its ID
	GetByID(ctx context.Context, id int) (*models.LegalDocument, error)
	// ListVersions retrieves every version of a document type, newest first
	ListVersions(ctx context.Context, docType models.LegalDocumentType) ([]models.LegalDocument, error)
	// NextVersion returns the next version number for a document type
	NextVersion(ctx context.Context, docType models.LegalDocumentType) (int, error)
	// Create inserts a new draft version
	Create(ctx context.Context, doc *models.LegalDocument) error
	// UpdateDraft updates a version that is still a draft
	UpdateDraft(ctx context.Context, id int, title, content string) error
	// Publish transitions a draft to published, archiving the previous published version
	Publish(ctx context.Context, id int, docType models.LegalDocumentType, publishedAt time.Time) error
	// Delete deletes a draft version
	Delete(ctx context.Context, id int) error
}

// legalService implements versioned legal document business logic
type legalService struct {
	legalRepo LegalRepository
}

// NewLegalService creates a new legal document service
func NewLegalService(legalRepo LegalRepository) *legalService {
	return &legalService{
		legalRepo: legalRepo,
	}
}

// GetCurrent retrieves the published version of a document type
func (s *legalService) GetCurrent(ctx context.Context, docType models.LegalDocumentType) (*models.LegalDocument, error) {
	return s.legalRepo.GetCurrent(ctx, docType)
}

// GetByID retrieves a document version by ID
func (s *legalService) GetByID(ctx context.Context, id int) (*models.LegalDocument, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid document id")
	}

	return s.legalRepo.GetByID(ctx, id)
}

// ListVersions retrieves every version of a document type
func (s *legalService) ListVersions(ctx context.Context, docType models.LegalDocumentType) ([]models.LegalDocument, error) {
	return s.legalRepo.ListVersions(ctx, docType)
}

// Create creates a new draft version with an auto-incremented version number
func (s *legalService) Create(ctx context.Context, docType models.LegalDocumentType, request *models.CreateLegalDocumentRequest) (*models.LegalDocument, error) {
	if request.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if request.Content == "" {
		return nil, fmt.Errorf("content is required")
	}

	version, err := s.legalRepo.NextVersion(ctx, docType)
	if err != nil {
		return nil, fmt.Errorf("failed to get next version: %w", err)
	}

	doc := &models.LegalDocument{
		Type:    docType,
		Version: version,
		Title:   request.Title,
		Content: request.Content,
		Status:  models.LegalStatusDraft,
	}
	if err := s.legalRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	return s.legalRepo.GetByID(ctx, doc.ID)
}

// UpdateDraft updates a draft version's title and content
func (s *legalService) UpdateDraft(ctx context.Context, id int, request *models.CreateLegalDocumentRequest) (*models.LegalDocument, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid document id")
	}

	doc, err := s.legalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.LegalStatusDraft {
		return nil, fmt.Errorf("only draft documents can be updated")
	}

	title := request.Title
	if title == "" {
		title = doc.Title
	}
	content := request.Content
	if content == "" {
		content = doc.Content
	}

	if err := s.legalRepo.UpdateDraft(ctx, id, title, content); err != nil {
		return nil, err
	}

	return s.legalRepo.GetByID(ctx, id)
}

// Publish transitions a draft to published. The previously published
// version of the same type is archived in the same transaction.
func (s *legalService) Publish(ctx context.Context, id int) (*models.LegalDocument, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid document id")
	}

	doc, err := s.legalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch doc.Status {
	case models.LegalStatusPublished:
		return nil, fmt.Errorf("document is already published")
	case models.LegalStatusArchived:
		return nil, fmt.Errorf("archived document cannot be published")
	}

	if err := s.legalRepo.Publish(ctx, id, doc.Type, time.Now().UTC()); err != nil {
		return nil, err
	}

	return s.legalRepo.GetByID(ctx, id)
}

// Delete deletes a version. Only drafts can be deleted.
func (s *legalService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("invalid document id")
	}

	doc, err := s.legalRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doc.Status != models.LegalStatusDraft {
		return fmt.Errorf("only draft documents can be deleted")
	}

	return s.legalRepo.Delete(ctx, id)
}
