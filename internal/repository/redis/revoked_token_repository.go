package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"jobconnect/internal/common"
)

const revokedPrefix = "jobconnect:revoked:"

type RevokedTokenRepository struct {
	client *goredis.Client
	now    func() time.Time
}

func NewRevokedTokenRepository(client *goredis.Client) *RevokedTokenRepository {
	return &RevokedTokenRepository{client: client, now: time.Now}
}

func revokedKey(tokenID string) string {
	return revokedPrefix + tokenID
}

// Revoke stores the token id until its natural expiry. Already expired tokens are ignored.
func (r *RevokedTokenRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedKey(tokenID), 1, ttl).Err(); err != nil {
		return common.NewError(common.CodeInternal, "failed to revoke token", err)
	}
	return nil
}

func (r *RevokedTokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	err := r.client.Get(ctx, revokedKey(tokenID)).Err()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to check token", err)
	}
	return true, nil
}
