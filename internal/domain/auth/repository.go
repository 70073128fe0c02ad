package auth

import (
	"context"
	"time"
)

// RevokedTokenRepository remembers logged-out access tokens until they would have expired anyway.
type RevokedTokenRepository interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
