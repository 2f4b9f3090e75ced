package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/havenly/property-service/internal/domain"
	"github.com/havenly/property-service/internal/events"
	"github.com/havenly/property-service/internal/repository"
	apperrors "github.com/havenly/property-service/pkg/util/errorutil"
)

// PropertyService manages rental property listings, scoped by owner.
type PropertyService struct {
	properties repository.PropertyRepository
	dispatcher events.Dispatcher
}

// NewPropertyService builds the service.
func NewPropertyService(properties repository.PropertyRepository, dispatcher events.Dispatcher) *PropertyService {
	return &PropertyService{properties: properties, dispatcher: dispatcher}
}

// PropertyInput carries the editable fields for create and update.
type PropertyInput struct {
	Title            string
	Address          string
	City             string
	PostalCode       string
	Bedrooms         int
	MonthlyRentCents int64
	Status           domain.PropertyStatus
}

func (in PropertyInput) validate() error {
	if in.Title == "" || in.Address == "" || in.City == "" {
		return apperrors.NewValidationError("title, address and city are required", nil)
	}
	if in.MonthlyRentCents < 0 {
		return apperrors.NewValidationError("rent must not be negative", nil)
	}
	switch in.Status {
	case domain.PropertyStatusVacant, domain.PropertyStatusListed, domain.PropertyStatusOccupied, "":
	default:
		return apperrors.NewValidationError("unknown property status", map[string]any{"status": in.Status})
	}
	return nil
}

// Create adds a property owned by the given landlord.
func (s *PropertyService) Create(ctx context.Context, ownerID string, in PropertyInput) (*domain.Property, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = domain.PropertyStatusVacant
	}

	property := &domain.Property{
		OwnerID:          ownerID,
		Title:            in.Title,
		Address:          in.Address,
		City:             in.City,
		PostalCode:       in.PostalCode,
		Bedrooms:         in.Bedrooms,
		MonthlyRentCents: in.MonthlyRentCents,
		Status:           status,
	}
	if err := s.properties.Create(ctx, property); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPropertyCreated,
			UserID:    ownerID,
			Timestamp: time.Now(),
			Payload:   events.PropertyCreatedPayload{PropertyID: property.ID, Title: property.Title},
		})
	}
	return property, nil
}

// Get returns a property if the requester owns it or is an admin.
func (s *PropertyService) Get(ctx context.Context, requester *domain.User, id string) (*domain.Property, error) {
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(requester, property); err != nil {
		return nil, err
	}
	return property, nil
}

// ListOwned returns the requester's properties.
func (s *PropertyService) ListOwned(ctx context.Context, ownerID string) ([]domain.Property, error) {
	return s.properties.ListByOwner(ctx, ownerID)
}

// Update applies the input to an owned property.
func (s *PropertyService) Update(ctx context.Context, requester *domain.User, id string, in PropertyInput) (*domain.Property, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(requester, property); err != nil {
		return nil, err
	}

	property.Title = in.Title
	property.Address = in.Address
	property.City = in.City
	property.PostalCode = in.PostalCode
	property.Bedrooms = in.Bedrooms
	property.MonthlyRentCents = in.MonthlyRentCents
	if in.Status != "" {
		property.Status = in.Status
	}
	if err := s.properties.Update(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

// Delete removes an owned property.
func (s *PropertyService) Delete(ctx context.Context, requester *domain.User, id string) error {
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(requester, property); err != nil {
		return err
	}
	return s.properties.Delete(ctx, id)
}

func (s *PropertyService) authorize(requester *domain.User, property *domain.Property) error {
	if requester.Role == domain.RoleAdmin {
		return nil
	}
	if property.OwnerID != requester.ID {
		return apperrors.NewDomainError("FORBIDDEN", "property belongs to another owner", http.StatusForbidden, nil)
	}
	return nil
}
