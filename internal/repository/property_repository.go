package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/havenly/property-service/internal/domain"
)

// PropertyRepository defines persistence access for rental properties.
type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	Update(ctx context.Context, property *domain.Property) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Property, error)
}

type propertyRepository struct {
	pool *pgxpool.Pool
}

// NewPropertyRepository returns a Postgres-backed implementation.
func NewPropertyRepository(pool *pgxpool.Pool) PropertyRepository {
	return &propertyRepository{pool: pool}
}

func (r *propertyRepository) Create(ctx context.Context, property *domain.Property) error {
	const query = `
        INSERT INTO properties (owner_id, title, address, city, postal_code, bedrooms, monthly_rent_cents, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		property.OwnerID,
		property.Title,
		property.Address,
		property.City,
		property.PostalCode,
		property.Bedrooms,
		property.MonthlyRentCents,
		property.Status,
	).Scan(&property.ID, &property.CreatedAt, &property.UpdatedAt)
}

func (r *propertyRepository) Update(ctx context.Context, property *domain.Property) error {
	const query = `
        UPDATE properties SET title=$1, address=$2, city=$3, postal_code=$4, bedrooms=$5,
            monthly_rent_cents=$6, status=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		property.Title,
		property.Address,
		property.City,
		property.PostalCode,
		property.Bedrooms,
		property.MonthlyRentCents,
		property.Status,
		property.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *propertyRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM properties WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *propertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	const query = `
        SELECT id, owner_id, title, address, city, postal_code, bedrooms, monthly_rent_cents, status, created_at, updated_at
        FROM properties WHERE id=$1`
	var property domain.Property
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&property.ID,
		&property.OwnerID,
		&property.Title,
		&property.Address,
		&property.City,
		&property.PostalCode,
		&property.Bedrooms,
		&property.MonthlyRentCents,
		&property.Status,
		&property.CreatedAt,
		&property.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Property, error) {
	const query = `
        SELECT id, owner_id, title, address, city, postal_code, bedrooms, monthly_rent_cents, status, created_at, updated_at
        FROM properties WHERE owner_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Property
	for rows.Next() {
		var property domain.Property
		if err := rows.Scan(
			&property.ID,
			&property.OwnerID,
			&property.Title,
			&property.Address,
			&property.City,
			&property.PostalCode,
			&property.Bedrooms,
			&property.MonthlyRentCents,
			&property.Status,
			&property.CreatedAt,
			&property.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, property)
	}
	return result, rows.Err()
}
