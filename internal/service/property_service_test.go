package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenly/property-service/internal/domain"
	apperrors "github.com/havenly/property-service/pkg/util/errorutil"
)

type fakePropertyRepo struct {
	mu   sync.Mutex
	rows map[string]*domain.Property
	seq  int
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{rows: make(map[string]*domain.Property)}
}

func (f *fakePropertyRepo) Create(_ context.Context, property *domain.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	property.ID = "p" + string(rune('0'+f.seq))
	property.CreatedAt = time.Now()
	property.UpdatedAt = property.CreatedAt
	copied := *property
	f.rows[property.ID] = &copied
	return nil
}

func (f *fakePropertyRepo) Update(_ context.Context, property *domain.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[property.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *property
	f.rows[property.ID] = &copied
	return nil
}

func (f *fakePropertyRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakePropertyRepo) GetByID(_ context.Context, id string) (*domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	property, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *property
	return &copied, nil
}

func (f *fakePropertyRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Property
	for _, property := range f.rows {
		if property.OwnerID == ownerID {
			result = append(result, *property)
		}
	}
	return result, nil
}

func validInput() PropertyInput {
	return PropertyInput{
		Title:            "Garden flat",
		Address:          "12 Elm Row",
		City:             "Leith",
		PostalCode:       "EH6 5AA",
		Bedrooms:         2,
		MonthlyRentCents: 120000,
	}
}

func TestPropertyCreateDefaultsToVacant(t *testing.T) {
	svc := NewPropertyService(newFakePropertyRepo(), nil)

	property, err := svc.Create(context.Background(), "U1", validInput())
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyStatusVacant, property.Status)
	assert.Equal(t, "U1", property.OwnerID)
}

func TestPropertyCreateValidation(t *testing.T) {
	svc := NewPropertyService(newFakePropertyRepo(), nil)

	in := validInput()
	in.Title = ""
	_, err := svc.Create(context.Background(), "U1", in)
	assert.Error(t, err)

	in = validInput()
	in.MonthlyRentCents = -1
	_, err = svc.Create(context.Background(), "U1", in)
	assert.Error(t, err)

	in = validInput()
	in.Status = "DEMOLISHED"
	_, err = svc.Create(context.Background(), "U1", in)
	assert.Error(t, err)
}

func TestPropertyOwnershipEnforced(t *testing.T) {
	repo := newFakePropertyRepo()
	svc := NewPropertyService(repo, nil)

	owner := &domain.User{ID: "U1", Role: domain.RoleLandlord}
	stranger := &domain.User{ID: "U2", Role: domain.RoleLandlord}
	admin := &domain.User{ID: "U3", Role: domain.RoleAdmin}

	property, err := svc.Create(context.Background(), owner.ID, validInput())
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), stranger, property.ID)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)

	_, err = svc.Get(context.Background(), owner, property.ID)
	assert.NoError(t, err)
	_, err = svc.Get(context.Background(), admin, property.ID)
	assert.NoError(t, err)

	err = svc.Delete(context.Background(), stranger, property.ID)
	assert.Error(t, err)
	err = svc.Delete(context.Background(), owner, property.ID)
	assert.NoError(t, err)
}

func TestPropertyUpdate(t *testing.T) {
	repo := newFakePropertyRepo()
	svc := NewPropertyService(repo, nil)
	owner := &domain.User{ID: "U1", Role: domain.RoleLandlord}

	property, err := svc.Create(context.Background(), owner.ID, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Status = domain.PropertyStatusOccupied
	in.MonthlyRentCents = 130000
	updated, err := svc.Update(context.Background(), owner, property.ID, in)
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyStatusOccupied, updated.Status)
	assert.Equal(t, int64(130000), updated.MonthlyRentCents)
}
