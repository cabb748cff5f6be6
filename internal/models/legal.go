package models

import "time"

// LegalDocumentType distinguishes terms of service from privacy policy documents
type LegalDocumentType string

const (
	LegalTypeTerms   LegalDocumentType = "terms"
	LegalTypePrivacy LegalDocumentType = "privacy"
)

// LegalDocumentStatus represents the document lifecycle state
type LegalDocumentStatus string

const (
	LegalStatusDraft     LegalDocumentStatus = "draft"
	LegalStatusPublished LegalDocumentStatus = "published"
	LegalStatusArchived  LegalDocumentStatus = "archived"
)

// LegalDocument is a versioned terms or privacy document.
// At most one version per type is published; publishing archives the previous one.
type LegalDocument struct {
	ID          int                 `json:"id"`
	Type        LegalDocumentType   `json:"type"`
	Version     int                 `json:"version"`
	Title       string              `json:"title"`
	Content     string              `json:"content"`
	Status      LegalDocumentStatus `json:"status"`
	PublishedAt *time.Time          `json:"publishedAt"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// CreateLegalDocumentRequest is the payload for creating a new draft version
type CreateLegalDocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
