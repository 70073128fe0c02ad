package company

import (
	"context"

	"jobconnect/internal/common"
)

type Repository interface {
	Create(ctx context.Context, c Company) (*Company, error)
	Update(ctx context.Context, c Company) (*Company, error)
	GetByID(ctx context.Context, id common.UUID) (*Company, error)
	GetByEmployer(ctx context.Context, employerID common.UUID) (*Company, error)
	List(ctx context.Context) ([]Company, error)
}
