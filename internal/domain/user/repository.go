package user

import (
	"context"

	"jobconnect/internal/common"
)

type Repository interface {
	Create(ctx context.Context, account User) (*User, error)
	GetByID(ctx context.Context, id common.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, account User) (*User, error)
	UpdateResumeURL(ctx context.Context, id common.UUID, resumeURL string) error
	Delete(ctx context.Context, id common.UUID) error
	ListByRole(ctx context.Context, role Role) ([]User, error)
}
