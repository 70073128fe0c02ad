package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/user"
	"jobconnect/internal/http/middleware"
)

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return common.NewValidationError("invalid request", map[string]string{"body": "body is required"})
	}
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return common.NewValidationError("request body too large", nil)
		case errors.Is(err, io.EOF):
			return common.NewValidationError("invalid request", map[string]string{"body": "body is required"})
		default:
			return common.NewValidationError("invalid json", nil)
		}
	}
	return nil
}

// idFromPath parses the UUID at the given segment index of the URL path.
func idFromPath(r *http.Request, index int) (common.UUID, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if index >= len(parts) {
		return "", common.NewValidationError("invalid id", nil)
	}
	id, err := common.ParseUUID(parts[index])
	if err != nil {
		return "", common.NewValidationError("invalid id", map[string]string{"id": "invalid uuid"})
	}
	return id, nil
}

func queryInt(r *http.Request, name string) int {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "no token, authorization denied", nil)
}

func identityFromRequest(r *http.Request) (user.Identity, error) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok || identity.ID.IsZero() {
		return user.Identity{}, errUnauthorized()
	}
	return identity, nil
}
