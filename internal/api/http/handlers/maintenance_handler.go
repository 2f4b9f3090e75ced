package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/havenly/property-service/internal/api/dto"
	"github.com/havenly/property-service/internal/service"
	apperrors "github.com/havenly/property-service/pkg/util/errorutil"
)

// MaintenanceHandler exposes admin-triggered housekeeping tasks. Expired
// transfer tokens are garbage-collected here, never from the exchange path.
type MaintenanceHandler struct {
	handoff *service.HandoffService
}

// NewMaintenanceHandler constructs handler.
func NewMaintenanceHandler(handoffService *service.HandoffService) *MaintenanceHandler {
	return &MaintenanceHandler{handoff: handoffService}
}

// PurgeTransferTokens handles POST /api/admin/maintenance/purge-tokens.
func (h *MaintenanceHandler) PurgeTransferTokens(c *fiber.Ctx) error {
	deleted, err := h.handoff.PurgeExpired(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(dto.PurgeTokensResponse{Deleted: deleted})
}
