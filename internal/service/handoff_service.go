package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/havenly/property-service/internal/auth"
	"github.com/havenly/property-service/internal/config"
	"github.com/havenly/property-service/internal/domain"
	"github.com/havenly/property-service/internal/events"
	"github.com/havenly/property-service/internal/handoff"
	"github.com/havenly/property-service/internal/repository"
)

// HandoffService implements the web-to-mobile session handoff: it issues
// single-use transfer tokens against an existing session, verifies presented
// tokens, and exchanges them for fresh sessions on the mobile side.
type HandoffService struct {
	tokens     repository.TransferTokenRepository
	users      repository.UserRepository
	sessions   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	appScheme  string
	linkPath   string
	now        func() time.Time
}

// HandoffDependencies encapsulates requirements for the handoff service.
type HandoffDependencies struct {
	TokenRepo    repository.TransferTokenRepository
	UserRepo     repository.UserRepository
	TokenManager *auth.TokenManager
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewHandoffService builds the service.
func NewHandoffService(cfg config.HandoffConfig, deps HandoffDependencies) *HandoffService {
	return &HandoffService{
		tokens:     deps.TokenRepo,
		users:      deps.UserRepo,
		sessions:   deps.TokenManager,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		appScheme:  cfg.AppScheme,
		linkPath:   cfg.LinkPath,
		now:        time.Now,
	}
}

// Generate issues a transfer token bound to the given active session. The
// role is read fresh from the profile store, not trusted from the session;
// if that lookup fails no token and no row are produced.
func (s *HandoffService) Generate(ctx context.Context, sess domain.Session) (string, error) {
	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", fmt.Errorf("profile not found for user %s", sess.UserID)
		}
		return "", fmt.Errorf("profile lookup: %w", err)
	}

	payload := handoff.NewPayload(user.ID, user.Email, user.Role, sess.AccessToken, s.now())
	token, err := payload.Encode()
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	row := &domain.TransferToken{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: payload.Expiry(),
	}
	if err := s.tokens.Create(ctx, row); err != nil {
		return "", fmt.Errorf("persist token: %w", err)
	}

	s.publish(ctx, events.EventTransferTokenIssued, user.ID, events.TransferTokenIssuedPayload{
		SessionID: payload.SessionID,
		ExpiresAt: payload.Expiry(),
	})
	return token, nil
}

// DeepLink embeds a token into the companion app's deep-link URL.
func (s *HandoffService) DeepLink(token string) string {
	return fmt.Sprintf("%s://%s?token=%s", s.appScheme, s.linkPath, token)
}

// Verify checks a presented token without mutating state. It may be called
// speculatively; repeated calls on the same token behave identically until
// the token is exchanged or expires.
func (s *HandoffService) Verify(ctx context.Context, token string) (*handoff.Payload, error) {
	payload, err := handoff.Decode(token)
	if err != nil {
		return nil, err
	}
	if payload.ExpiredAt(s.now()) {
		return nil, handoff.ErrExpired
	}

	row, err := s.tokens.GetByToken(ctx, token, payload.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, handoff.ErrNotFound
		}
		return nil, err
	}
	if row.Used {
		return nil, handoff.ErrAlreadyUsed
	}
	return &payload, nil
}

// Exchange converts an unused, unexpired token into a live session. The
// mark-used write is a conditional update, so of two concurrent exchanges on
// one token exactly one observes the unused row and succeeds. The row is
// marked before any session is minted: a failed mark aborts the exchange.
func (s *HandoffService) Exchange(ctx context.Context, token string) (*domain.Session, error) {
	payload, err := s.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	marked, err := s.tokens.MarkUsed(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("mark token used: %w", err)
	}
	if !marked {
		return nil, handoff.ErrAlreadyUsed
	}

	user, err := s.users.GetByID(ctx, payload.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	session, err := s.sessions.NewSession(user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTransferTokenExchanged, user.ID, events.TransferTokenExchangedPayload{
		SessionID: payload.SessionID,
	})
	return session, nil
}

// PurgeExpired deletes rows past their expiry. It is invoked from the admin
// maintenance endpoint; nothing in the exchange path depends on it running.
func (s *HandoffService) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := s.tokens.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("purged expired transfer tokens", zap.Int64("count", deleted))
	}
	return deleted, nil
}

func (s *HandoffService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: s.now(),
		Payload:   payload,
	})
}
