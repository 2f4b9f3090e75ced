package dto

import (
	"time"

	"github.com/havenly/property-service/internal/domain"
)

// PropertyRequest payload for creating or updating a property.
type PropertyRequest struct {
	Title            string `json:"title"`
	Address          string `json:"address"`
	City             string `json:"city"`
	PostalCode       string `json:"postal_code"`
	Bedrooms         int    `json:"bedrooms"`
	MonthlyRentCents int64  `json:"monthly_rent_cents"`
	Status           string `json:"status"`
}

// PropertyResponse is the wire shape of a property.
type PropertyResponse struct {
	ID               string                `json:"id"`
	OwnerID          string                `json:"owner_id"`
	Title            string                `json:"title"`
	Address          string                `json:"address"`
	City             string                `json:"city"`
	PostalCode       string                `json:"postal_code"`
	Bedrooms         int                   `json:"bedrooms"`
	MonthlyRentCents int64                 `json:"monthly_rent_cents"`
	Status           domain.PropertyStatus `json:"status"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// NewPropertyResponse maps a domain property onto the wire shape.
func NewPropertyResponse(p *domain.Property) PropertyResponse {
	return PropertyResponse{
		ID:               p.ID,
		OwnerID:          p.OwnerID,
		Title:            p.Title,
		Address:          p.Address,
		City:             p.City,
		PostalCode:       p.PostalCode,
		Bedrooms:         p.Bedrooms,
		MonthlyRentCents: p.MonthlyRentCents,
		Status:           p.Status,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// NewPropertyListResponse maps a slice of properties.
func NewPropertyListResponse(items []domain.Property) []PropertyResponse {
	result := make([]PropertyResponse, 0, len(items))
	for i := range items {
		result = append(result, NewPropertyResponse(&items[i]))
	}
	return result
}
