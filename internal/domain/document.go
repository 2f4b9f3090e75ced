package domain

import "time"

// DocumentStatus follows a document through the OCR pipeline.
type DocumentStatus string

const (
	DocumentStatusPending    DocumentStatus = "PENDING"
	DocumentStatusProcessing DocumentStatus = "PROCESSING"
	DocumentStatusCompleted  DocumentStatus = "COMPLETED"
	DocumentStatusFailed     DocumentStatus = "FAILED"
)

// Document holds metadata for an uploaded file awaiting or past OCR.
// The file bytes themselves live in object storage under StorageKey.
type Document struct {
	ID         string
	OwnerID    string
	PropertyID *string
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
	Status     DocumentStatus
	OCRText    *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CanTransition reports whether a status change is a legal pipeline step.
func (s DocumentStatus) CanTransition(to DocumentStatus) bool {
	switch s {
	case DocumentStatusPending:
		return to == DocumentStatusProcessing || to == DocumentStatusFailed
	case DocumentStatusProcessing:
		return to == DocumentStatusCompleted || to == DocumentStatusFailed
	}
	return false
}
