package auth

import (
	"time"

	"jobconnect/internal/domain/user"
)

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      user.Identity
}
