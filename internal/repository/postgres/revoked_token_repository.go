package postgres

import (
	"context"
	"database/sql"
	"time"

	"jobconnect/internal/common"
)

// RevokedTokenRepository keeps the logout denylist in Postgres when no Redis is configured.
type RevokedTokenRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewRevokedTokenRepository(db *sql.DB) *RevokedTokenRepository {
	return &RevokedTokenRepository{db: db, now: time.Now}
}

func (r *RevokedTokenRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	now := r.now().UTC()
	if tokenID == "" || !expiresAt.After(now) {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO revoked_tokens (token_id, expires_at, revoked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_id) DO NOTHING`,
		tokenID, expiresAt.UTC(), now)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to revoke token", err)
	}
	return r.DeleteExpired(ctx, now)
}

func (r *RevokedTokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	var revoked bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_id = $1 AND expires_at > $2)`,
		tokenID, r.now().UTC()).Scan(&revoked)
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to check token", err)
	}
	return revoked, nil
}

// DeleteExpired drops entries for tokens that would be rejected by their exp claim anyway.
func (r *RevokedTokenRepository) DeleteExpired(ctx context.Context, before time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < $1`, before.UTC())
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete expired tokens", err)
	}
	return nil
}
