package domain

import "time"

// PropertyStatus tracks the rental state of a listing.
type PropertyStatus string

const (
	PropertyStatusVacant   PropertyStatus = "VACANT"
	PropertyStatusListed   PropertyStatus = "LISTED"
	PropertyStatusOccupied PropertyStatus = "OCCUPIED"
)

// Property models a rental unit managed by a landlord.
type Property struct {
	ID               string
	OwnerID          string
	Title            string
	Address          string
	City             string
	PostalCode       string
	Bedrooms         int
	MonthlyRentCents int64
	Status           PropertyStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
