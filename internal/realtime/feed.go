package realtime

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/havenly/property-service/internal/domain"
	"github.com/havenly/property-service/internal/persistence"
)

// StatusUpdate is the message published on the document status channel.
// Clients subscribed to the channel receive pipeline changes as they commit.
type StatusUpdate struct {
	DocumentID string                `json:"document_id"`
	OwnerID    string                `json:"owner_id"`
	Status     domain.DocumentStatus `json:"status"`
	Timestamp  time.Time             `json:"timestamp"`
}

// Feed publishes document status changes over Redis pub/sub.
type Feed struct {
	redis   *persistence.Redis
	channel string
	logger  *zap.Logger
}

// NewFeed constructs the feed for the configured channel.
func NewFeed(redis *persistence.Redis, channel string, logger *zap.Logger) *Feed {
	return &Feed{redis: redis, channel: channel, logger: logger}
}

// PublishDocumentStatus pushes a status update onto the channel. Publish
// failures are logged, not propagated: the database write is the source of
// truth and the feed is best effort.
func (f *Feed) PublishDocumentStatus(ctx context.Context, doc *domain.Document) {
	if f == nil || f.redis == nil || f.redis.Client == nil {
		return
	}

	update := StatusUpdate{
		DocumentID: doc.ID,
		OwnerID:    doc.OwnerID,
		Status:     doc.Status,
		Timestamp:  time.Now(),
	}
	payload, err := json.Marshal(update)
	if err != nil {
		f.logger.Error("marshal status update", zap.Error(err))
		return
	}

	if err := f.redis.Client.Publish(ctx, f.channel, payload).Err(); err != nil {
		f.logger.Warn("publish status update", zap.String("document_id", doc.ID), zap.Error(err))
	}
}
