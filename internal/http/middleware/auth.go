package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/auth"
	"jobconnect/internal/domain/user"
	"jobconnect/internal/http/response"
	"jobconnect/internal/security"
)

type contextKey string

const (
	ContextIdentityKey contextKey = "identity"
	ContextTokenKey    contextKey = "token"
)

// TokenInfo identifies the presented token so logout can revoke it.
type TokenInfo struct {
	ID        string
	ExpiresAt time.Time
}

type AuthMiddleware struct {
	jwt     *security.JWTProvider
	revoked auth.RevokedTokenRepository
}

func NewAuthMiddleware(jwt *security.JWTProvider, revoked auth.RevokedTokenRepository) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, revoked: revoked}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "no token, authorization denied", nil))
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Error(w, errInvalidToken(nil))
			return
		}
		claims, err := m.jwt.Parse(parts[1])
		if err != nil {
			response.Error(w, errInvalidToken(err))
			return
		}
		userID, err := common.ParseUUID(claims.UserID().String())
		if err != nil {
			response.Error(w, errInvalidToken(err))
			return
		}
		if m.revoked != nil {
			revoked, err := m.revoked.IsRevoked(r.Context(), claims.TokenID())
			if err != nil {
				response.Error(w, common.NewError(common.CodeInternal, "failed to check token", err))
				return
			}
			if revoked {
				response.Error(w, errInvalidToken(nil))
				return
			}
		}
		identity := user.Identity{ID: userID, Email: claims.Email, Role: user.Role(claims.Role)}
		ctx := context.WithValue(r.Context(), ContextIdentityKey, identity)
		ctx = context.WithValue(ctx, ContextTokenKey, TokenInfo{ID: claims.TokenID(), ExpiresAt: claims.ExpiresAtTime()})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func errInvalidToken(err error) error {
	return common.NewError(common.CodeUnauthorized, "token is not valid", err)
}

func RequireRole(roles ...user.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				response.Error(w, common.NewError(common.CodeUnauthorized, "no token, authorization denied", nil))
				return
			}
			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Error(w, common.NewError(common.CodeForbidden, "insufficient role", nil))
		})
	}
}

func IdentityFromContext(ctx context.Context) (user.Identity, bool) {
	identity, ok := ctx.Value(ContextIdentityKey).(user.Identity)
	return identity, ok
}

func UserIDFromContext(ctx context.Context) (common.UUID, bool) {
	identity, ok := IdentityFromContext(ctx)
	if !ok || identity.ID.IsZero() {
		return "", false
	}
	return identity.ID, true
}

func TokenFromContext(ctx context.Context) (TokenInfo, bool) {
	token, ok := ctx.Value(ContextTokenKey).(TokenInfo)
	return token, ok
}
