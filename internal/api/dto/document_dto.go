package dto

import (
	"time"

	"github.com/havenly/property-service/internal/domain"
)

// DocumentUploadRequest asks for a presigned upload slot.
type DocumentUploadRequest struct {
	PropertyID *string `json:"property_id,omitempty"`
	FileName   string  `json:"file_name"`
	MimeType   string  `json:"mime_type"`
	SizeBytes  int64   `json:"size_bytes"`
}

// DocumentStatusRequest is posted by the OCR processor callback.
type DocumentStatusRequest struct {
	Status  string  `json:"status"`
	OCRText *string `json:"ocr_text,omitempty"`
}

// DocumentResponse is the wire shape of a document metadata row.
type DocumentResponse struct {
	ID         string                `json:"id"`
	OwnerID    string                `json:"owner_id"`
	PropertyID *string               `json:"property_id,omitempty"`
	StorageKey string                `json:"storage_key"`
	FileName   string                `json:"file_name"`
	MimeType   string                `json:"mime_type"`
	SizeBytes  int64                 `json:"size_bytes"`
	Status     domain.DocumentStatus `json:"status"`
	OCRText    *string               `json:"ocr_text,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

// DocumentUploadResponse pairs the created row with its upload URL.
type DocumentUploadResponse struct {
	Document  DocumentResponse `json:"document"`
	UploadURL string           `json:"upload_url"`
}

// NewDocumentResponse maps a domain document onto the wire shape.
func NewDocumentResponse(d *domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:         d.ID,
		OwnerID:    d.OwnerID,
		PropertyID: d.PropertyID,
		StorageKey: d.StorageKey,
		FileName:   d.FileName,
		MimeType:   d.MimeType,
		SizeBytes:  d.SizeBytes,
		Status:     d.Status,
		OCRText:    d.OCRText,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// NewDocumentListResponse maps a slice of documents.
func NewDocumentListResponse(items []domain.Document) []DocumentResponse {
	result := make([]DocumentResponse, 0, len(items))
	for i := range items {
		result = append(result, NewDocumentResponse(&items[i]))
	}
	return result
}
