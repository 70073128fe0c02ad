package memory

import (
	"context"
	"sync"
	"time"
)

// RevokedTokenRepository is the single-process denylist used when no Redis is configured.
type RevokedTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	now    func() time.Time
}

func NewRevokedTokenRepository() *RevokedTokenRepository {
	return &RevokedTokenRepository{tokens: make(map[string]time.Time), now: time.Now}
}

func (r *RevokedTokenRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if tokenID == "" || !expiresAt.After(now) {
		return nil
	}
	r.tokens[tokenID] = expiresAt
	r.pruneLocked(now)
	return nil
}

func (r *RevokedTokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expiresAt, ok := r.tokens[tokenID]
	if !ok {
		return false, nil
	}
	if !expiresAt.After(r.now()) {
		delete(r.tokens, tokenID)
		return false, nil
	}
	return true, nil
}

func (r *RevokedTokenRepository) pruneLocked(now time.Time) {
	for id, expiresAt := range r.tokens {
		if !expiresAt.After(now) {
			delete(r.tokens, id)
		}
	}
}
