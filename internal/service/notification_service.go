package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/havenly/property-service/internal/events"
)

// NotificationService turns domain events into audit log entries. It is the
// single subscriber that sees every handoff and pipeline event, so the logs
// it emits are where an operator distinguishes cases the API surface
// deliberately blurs.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTransferTokenIssued, n.handleTransferTokenIssued)
	n.dispatcher.Subscribe(events.EventTransferTokenExchanged, n.handleTransferTokenExchanged)
	n.dispatcher.Subscribe(events.EventDocumentStatusChanged, n.handleDocumentStatusChanged)
	n.dispatcher.Subscribe(events.EventPropertyCreated, n.handlePropertyCreated)
}

func (n *NotificationService) handleTransferTokenIssued(ctx context.Context, event events.Event) error {
	n.logger.Info("TransferTokenIssued", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTransferTokenExchanged(ctx context.Context, event events.Event) error {
	n.logger.Info("TransferTokenExchanged", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleDocumentStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("DocumentStatusChanged", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handlePropertyCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("PropertyCreated", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}
