package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/havenly/property-service/internal/domain"
)

// TransferTokenRepository manages single-use session handoff tokens.
type TransferTokenRepository interface {
	Create(ctx context.Context, token *domain.TransferToken) error
	GetByToken(ctx context.Context, token, userID string) (*domain.TransferToken, error)
	// MarkUsed flips the used flag only if it is currently false. It returns
	// false when the row was already used or does not exist, which is how
	// concurrent exchange attempts on one token are serialized.
	MarkUsed(ctx context.Context, token string) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type transferTokenRepository struct {
	pool *pgxpool.Pool
}

// NewTransferTokenRepository constructs repository.
func NewTransferTokenRepository(pool *pgxpool.Pool) TransferTokenRepository {
	return &transferTokenRepository{pool: pool}
}

func (r *transferTokenRepository) Create(ctx context.Context, token *domain.TransferToken) error {
	const query = `
        INSERT INTO transfer_tokens (token, user_id, expires_at, used)
        VALUES ($1,$2,$3,false)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		token.Token,
		token.UserID,
		token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)
}

func (r *transferTokenRepository) GetByToken(ctx context.Context, tokenStr, userID string) (*domain.TransferToken, error) {
	const query = `
        SELECT id, token, user_id, expires_at, used, used_at, created_at
        FROM transfer_tokens WHERE token=$1 AND user_id=$2`
	var token domain.TransferToken
	if err := r.pool.QueryRow(ctx, query, tokenStr, userID).Scan(
		&token.ID,
		&token.Token,
		&token.UserID,
		&token.ExpiresAt,
		&token.Used,
		&token.UsedAt,
		&token.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *transferTokenRepository) MarkUsed(ctx context.Context, tokenStr string) (bool, error) {
	const query = `
        UPDATE transfer_tokens SET used=true, used_at=NOW()
        WHERE token=$1 AND used=false`
	cmd, err := r.pool.Exec(ctx, query, tokenStr)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *transferTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM transfer_tokens WHERE expires_at < NOW()`
	cmd, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
