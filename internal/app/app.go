package app

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/employer"
	"jobconnect/internal/domain/user"
)

// Logger is satisfied by *slog.Logger.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// Account is the loaded principal behind a token: exactly one of the fields is set.
type Account struct {
	JobSeeker *user.User
	Employer  *employer.Employer
}

func (a Account) Identity() user.Identity {
	if a.Employer != nil {
		return a.Employer.Identity()
	}
	if a.JobSeeker != nil {
		return a.JobSeeker.Identity()
	}
	return user.Identity{}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

var fieldMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email",
	"min":      "is too short",
	"max":      "is too long",
	"oneof":    "has an unsupported value",
	"eq":       "must be accepted",
}

// validateInput runs struct tags and reports failures as a validation error keyed by json field.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return common.NewError(common.CodeInternal, "failed to validate input", err)
	}
	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		message, ok := fieldMessages[fe.Tag()]
		if !ok {
			message = "is invalid"
		}
		fields[fe.Field()] = message
	}
	return common.NewValidationError("Validation failed", fields)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
