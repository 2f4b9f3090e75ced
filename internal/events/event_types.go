package events

import (
	"time"

	"github.com/havenly/property-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTransferTokenIssued    EventType = "transfer_token_issued"
	EventTransferTokenExchanged EventType = "transfer_token_exchanged"
	EventDocumentStatusChanged  EventType = "document_status_changed"
	EventPropertyCreated        EventType = "property_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TransferTokenIssuedPayload payload.
type TransferTokenIssuedPayload struct {
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TransferTokenExchangedPayload payload.
type TransferTokenExchangedPayload struct {
	SessionID string `json:"session_id"`
}

// DocumentStatusChangedPayload payload.
type DocumentStatusChangedPayload struct {
	DocumentID string                `json:"document_id"`
	OldStatus  domain.DocumentStatus `json:"old_status"`
	NewStatus  domain.DocumentStatus `json:"new_status"`
}

// PropertyCreatedPayload payload.
type PropertyCreatedPayload struct {
	PropertyID string `json:"property_id"`
	Title      string `json:"title"`
}
