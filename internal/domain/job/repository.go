package job

import (
	"context"

	"jobconnect/internal/common"
)

type Repository interface {
	Create(ctx context.Context, j Job) (*Job, error)
	Update(ctx context.Context, j Job) (*Job, error)
	// GetByID returns the job with its company embedded.
	GetByID(ctx context.Context, id common.UUID) (*Job, error)
	// ListActive returns Active jobs newest first with their company embedded.
	// A non-positive limit means no limit.
	ListActive(ctx context.Context, limit, offset int) ([]Job, error)
	ListByCompany(ctx context.Context, companyID common.UUID) ([]Job, error)
	IncrementViews(ctx context.Context, id common.UUID) (int64, error)
}
