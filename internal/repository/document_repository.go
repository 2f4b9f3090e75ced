package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/havenly/property-service/internal/domain"
)

// DocumentRepository persists document metadata for the OCR pipeline.
type DocumentRepository interface {
	Create(ctx context.Context, document *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error)
	// UpdateStatus advances a document from one pipeline status to another.
	// The from-status is part of the predicate so a stale or duplicate
	// callback cannot clobber a later transition.
	UpdateStatus(ctx context.Context, id string, from, to domain.DocumentStatus, ocrText *string) (bool, error)
}

type documentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository constructs repository.
func NewDocumentRepository(pool *pgxpool.Pool) DocumentRepository {
	return &documentRepository{pool: pool}
}

func (r *documentRepository) Create(ctx context.Context, document *domain.Document) error {
	const query = `
        INSERT INTO documents (owner_id, property_id, storage_key, file_name, mime_type, size_bytes, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		document.OwnerID,
		document.PropertyID,
		document.StorageKey,
		document.FileName,
		document.MimeType,
		document.SizeBytes,
		document.Status,
	).Scan(&document.ID, &document.CreatedAt, &document.UpdatedAt)
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	const query = `
        SELECT id, owner_id, property_id, storage_key, file_name, mime_type, size_bytes, status, ocr_text, created_at, updated_at
        FROM documents WHERE id=$1`
	var document domain.Document
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&document.ID,
		&document.OwnerID,
		&document.PropertyID,
		&document.StorageKey,
		&document.FileName,
		&document.MimeType,
		&document.SizeBytes,
		&document.Status,
		&document.OCRText,
		&document.CreatedAt,
		&document.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &document, nil
}

func (r *documentRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error) {
	const query = `
        SELECT id, owner_id, property_id, storage_key, file_name, mime_type, size_bytes, status, ocr_text, created_at, updated_at
        FROM documents WHERE owner_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Document
	for rows.Next() {
		var document domain.Document
		if err := rows.Scan(
			&document.ID,
			&document.OwnerID,
			&document.PropertyID,
			&document.StorageKey,
			&document.FileName,
			&document.MimeType,
			&document.SizeBytes,
			&document.Status,
			&document.OCRText,
			&document.CreatedAt,
			&document.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, document)
	}
	return result, rows.Err()
}

func (r *documentRepository) UpdateStatus(ctx context.Context, id string, from, to domain.DocumentStatus, ocrText *string) (bool, error) {
	const query = `
        UPDATE documents SET status=$1, ocr_text=COALESCE($2, ocr_text), updated_at=NOW()
        WHERE id=$3 AND status=$4`
	cmd, err := r.pool.Exec(ctx, query, to, ocrText, id, from)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}
