package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/havenly/property-service/internal/api/dto"
	"github.com/havenly/property-service/internal/auth"
	"github.com/havenly/property-service/internal/domain"
	"github.com/havenly/property-service/internal/service"
	apperrors "github.com/havenly/property-service/pkg/util/errorutil"
)

// DocumentsHandler exposes the document upload and OCR status endpoints.
type DocumentsHandler struct {
	documents     *service.DocumentService
	callbackToken string
}

// NewDocumentsHandler constructs handler. callbackToken guards the internal
// status endpoint the OCR processor posts to.
func NewDocumentsHandler(documentService *service.DocumentService, callbackToken string) *DocumentsHandler {
	return &DocumentsHandler{documents: documentService, callbackToken: callbackToken}
}

// InitiateUpload handles POST /api/documents.
func (h *DocumentsHandler) InitiateUpload(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.DocumentUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	grant, err := h.documents.InitiateUpload(c.Context(), principal.User.ID, req.PropertyID, req.FileName, req.MimeType, req.SizeBytes)
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.Status(http.StatusCreated).JSON(dto.DocumentUploadResponse{
		Document:  dto.NewDocumentResponse(grant.Document),
		UploadURL: grant.UploadURL,
	})
}

// Get handles GET /api/documents/:id.
func (h *DocumentsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	document, err := h.documents.Get(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"document": dto.NewDocumentResponse(document)})
}

// List handles GET /api/documents.
func (h *DocumentsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	documents, err := h.documents.ListOwned(c.Context(), principal.User.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"documents": dto.NewDocumentListResponse(documents)})
}

// UpdateStatus handles POST /api/internal/documents/:id/status, the callback
// the OCR processor invokes as it works through the pipeline.
func (h *DocumentsHandler) UpdateStatus(c *fiber.Ctx) error {
	if h.callbackToken == "" {
		return fiber.NewError(http.StatusServiceUnavailable, "status callback not configured")
	}
	provided := c.Get("X-Internal-Token")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.callbackToken)) != 1 {
		return apperrors.NewUnauthorized("invalid callback token")
	}

	var req dto.DocumentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	status := domain.DocumentStatus(req.Status)
	switch status {
	case domain.DocumentStatusProcessing, domain.DocumentStatusCompleted, domain.DocumentStatusFailed:
	default:
		return fiber.NewError(http.StatusBadRequest, "unknown status")
	}

	document, err := h.documents.ApplyStatus(c.Context(), c.Params("id"), status, req.OCRText)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"document": dto.NewDocumentResponse(document)})
}
