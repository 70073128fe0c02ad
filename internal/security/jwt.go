package security

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/user"
)

var ErrInvalidToken = errors.New("invalid token")

type JWTProvider struct {
	secret []byte
	now    func() time.Time
}

func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), now: time.Now}
}

type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() common.UUID {
	return common.UUID(c.Subject)
}

func (c *Claims) TokenID() string {
	return c.ID
}

func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

func (p *JWTProvider) Generate(identity user.Identity, ttl time.Duration) (string, time.Time, error) {
	issuedAt := p.now().UTC()
	expiresAt := issuedAt.Add(ttl)
	claims := Claims{
		Role:  strings.TrimSpace(string(identity.Role)),
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID.String(),
			ID:        common.NewUUID().String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse verifies signature, algorithm and expiry. Every failure is reported as ErrInvalidToken.
func (p *JWTProvider) Parse(tokenString string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), &claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
