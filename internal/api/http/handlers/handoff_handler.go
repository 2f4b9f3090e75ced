package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/havenly/property-service/internal/api/dto"
	"github.com/havenly/property-service/internal/auth"
	"github.com/havenly/property-service/internal/handoff"
	"github.com/havenly/property-service/internal/service"
	apperrors "github.com/havenly/property-service/pkg/util/errorutil"
)

// invalidLinkMessage is deliberately the same for malformed, expired, unknown
// and already-used tokens so a caller cannot probe which case they hit.
const invalidLinkMessage = "this sign-in link is invalid or has expired"

// HandoffHandler exposes the transfer-token issue and exchange endpoints.
type HandoffHandler struct {
	handoff *service.HandoffService
	logger  *zap.Logger
}

// NewHandoffHandler constructs handler.
func NewHandoffHandler(handoffService *service.HandoffService, logger *zap.Logger) *HandoffHandler {
	return &HandoffHandler{handoff: handoffService, logger: logger}
}

// CreateTransferToken handles POST /api/auth/transfer-token. The caller must
// already hold a valid session; the token re-packages it for the companion
// app, it is not an independent way to authenticate.
func (h *HandoffHandler) CreateTransferToken(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	token, err := h.handoff.Generate(c.Context(), principal.Session())
	if err != nil {
		return apperrors.MapError(err)
	}

	// The token was encoded a moment ago; decoding it back is how we report
	// its expiry without widening the service signature.
	payload, err := handoff.Decode(token)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	return c.Status(http.StatusCreated).JSON(dto.TransferTokenResponse{
		Token:     token,
		DeepLink:  h.handoff.DeepLink(token),
		ExpiresAt: payload.Expiry(),
	})
}

// ExchangeToken handles POST /api/auth/exchange-token.
func (h *HandoffHandler) ExchangeToken(c *fiber.Ctx) error {
	var req dto.ExchangeTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" {
		return fiber.NewError(http.StatusBadRequest, "token required")
	}

	session, err := h.handoff.Exchange(c.Context(), req.Token)
	if err != nil {
		if code, ok := verificationCode(err); ok {
			// Logs keep the real case; the response does not.
			h.logger.Warn("transfer token rejected", zap.String("code", code))
			return apperrors.NewDomainError(code, invalidLinkMessage, http.StatusUnauthorized, nil)
		}
		return apperrors.MapError(err)
	}

	return c.JSON(dto.ExchangeTokenResponse{Session: dto.NewSessionResponse(session)})
}

func verificationCode(err error) (string, bool) {
	switch {
	case errors.Is(err, handoff.ErrInvalidFormat):
		return "TOKEN_INVALID_FORMAT", true
	case errors.Is(err, handoff.ErrExpired):
		return "TOKEN_EXPIRED", true
	case errors.Is(err, handoff.ErrNotFound):
		return "TOKEN_NOT_FOUND", true
	case errors.Is(err, handoff.ErrAlreadyUsed):
		return "TOKEN_ALREADY_USED", true
	}
	return "", false
}
