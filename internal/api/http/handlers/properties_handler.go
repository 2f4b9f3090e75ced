package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/havenly/property-service/internal/api/dto"
	"github.com/havenly/property-service/internal/auth"
	"github.com/havenly/property-service/internal/domain"
	"github.com/havenly/property-service/internal/service"
	apperrors "github.com/havenly/property-service/pkg/util/errorutil"
)

// PropertiesHandler exposes CRUD endpoints for rental properties.
type PropertiesHandler struct {
	properties *service.PropertyService
}

// NewPropertiesHandler constructs handler.
func NewPropertiesHandler(propertyService *service.PropertyService) *PropertiesHandler {
	return &PropertiesHandler{properties: propertyService}
}

// Create handles POST /api/properties.
func (h *PropertiesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.PropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	property, err := h.properties.Create(c.Context(), principal.User.ID, propertyInput(req))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"property": dto.NewPropertyResponse(property)})
}

// List handles GET /api/properties.
func (h *PropertiesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	properties, err := h.properties.ListOwned(c.Context(), principal.User.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"properties": dto.NewPropertyListResponse(properties)})
}

// Get handles GET /api/properties/:id.
func (h *PropertiesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	property, err := h.properties.Get(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"property": dto.NewPropertyResponse(property)})
}

// Update handles PUT /api/properties/:id.
func (h *PropertiesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.PropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	property, err := h.properties.Update(c.Context(), principal.User, c.Params("id"), propertyInput(req))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"property": dto.NewPropertyResponse(property)})
}

// Delete handles DELETE /api/properties/:id.
func (h *PropertiesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	if err := h.properties.Delete(c.Context(), principal.User, c.Params("id")); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func propertyInput(req dto.PropertyRequest) service.PropertyInput {
	return service.PropertyInput{
		Title:            req.Title,
		Address:          req.Address,
		City:             req.City,
		PostalCode:       req.PostalCode,
		Bedrooms:         req.Bedrooms,
		MonthlyRentCents: req.MonthlyRentCents,
		Status:           domain.PropertyStatus(req.Status),
	}
}
