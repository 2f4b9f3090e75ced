package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/havenly/property-service/internal/domain"
	"github.com/havenly/property-service/internal/events"
	"github.com/havenly/property-service/internal/objectstore"
	"github.com/havenly/property-service/internal/realtime"
	"github.com/havenly/property-service/internal/repository"
	apperrors "github.com/havenly/property-service/pkg/util/errorutil"
)

// DocumentService drives the upload and OCR status pipeline: it hands out
// presigned upload URLs, records metadata rows, and applies status
// transitions reported by the OCR processor.
type DocumentService struct {
	documents  repository.DocumentRepository
	presigner  objectstore.Presigner
	feed       *realtime.Feed
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// DocumentDependencies encapsulates requirements for the document service.
type DocumentDependencies struct {
	DocumentRepo repository.DocumentRepository
	Presigner    objectstore.Presigner
	Feed         *realtime.Feed
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewDocumentService builds the service.
func NewDocumentService(deps DocumentDependencies) *DocumentService {
	return &DocumentService{
		documents:  deps.DocumentRepo,
		presigner:  deps.Presigner,
		feed:       deps.Feed,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// UploadGrant pairs a pending document row with its presigned upload URL.
type UploadGrant struct {
	Document  *domain.Document
	UploadURL string
}

// InitiateUpload creates the metadata row with status PENDING and returns a
// presigned PUT URL the client uploads the file bytes to directly.
func (s *DocumentService) InitiateUpload(ctx context.Context, ownerID string, propertyID *string, fileName, mimeType string, sizeBytes int64) (*UploadGrant, error) {
	if fileName == "" || mimeType == "" {
		return nil, apperrors.NewValidationError("file_name and mime_type are required", nil)
	}
	if sizeBytes <= 0 {
		return nil, apperrors.NewValidationError("size_bytes must be positive", nil)
	}

	key := objectstore.NewStorageKey(ownerID, fileName)
	uploadURL, err := s.presigner.PresignPut(ctx, key, mimeType)
	if err != nil {
		return nil, err
	}

	document := &domain.Document{
		OwnerID:    ownerID,
		PropertyID: propertyID,
		StorageKey: key,
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  sizeBytes,
		Status:     domain.DocumentStatusPending,
	}
	if err := s.documents.Create(ctx, document); err != nil {
		return nil, err
	}

	return &UploadGrant{Document: document, UploadURL: uploadURL}, nil
}

// Get returns a document visible to the requester.
func (s *DocumentService) Get(ctx context.Context, requester *domain.User, id string) (*domain.Document, error) {
	document, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if requester.Role != domain.RoleAdmin && document.OwnerID != requester.ID {
		return nil, apperrors.NewDomainError("FORBIDDEN", "document belongs to another owner", http.StatusForbidden, nil)
	}
	return document, nil
}

// ListOwned returns the requester's documents.
func (s *DocumentService) ListOwned(ctx context.Context, ownerID string) ([]domain.Document, error) {
	return s.documents.ListByOwner(ctx, ownerID)
}

// ApplyStatus records a transition reported by the OCR processor. Illegal
// transitions are rejected; a lost race against a concurrent transition is
// reported as a conflict so the processor can re-read and retry.
func (s *DocumentService) ApplyStatus(ctx context.Context, id string, status domain.DocumentStatus, ocrText *string) (*domain.Document, error) {
	document, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !document.Status.CanTransition(status) {
		return nil, apperrors.NewConflict("illegal status transition", map[string]any{
			"from": document.Status,
			"to":   status,
		})
	}

	applied, err := s.documents.UpdateStatus(ctx, id, document.Status, status, ocrText)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, apperrors.NewConflict("document status changed concurrently", nil)
	}

	oldStatus := document.Status
	document.Status = status
	if ocrText != nil {
		document.OCRText = ocrText
	}

	s.feed.PublishDocumentStatus(ctx, document)
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventDocumentStatusChanged,
			UserID:    document.OwnerID,
			Timestamp: time.Now(),
			Payload: events.DocumentStatusChangedPayload{
				DocumentID: document.ID,
				OldStatus:  oldStatus,
				NewStatus:  status,
			},
		})
	}
	return document, nil
}
