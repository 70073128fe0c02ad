package employer

import (
	"context"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/company"
)

type Repository interface {
	// CreateWithCompany stores the employer and its company atomically.
	CreateWithCompany(ctx context.Context, e Employer, c company.Company) (*Employer, *company.Company, error)
	GetByID(ctx context.Context, id common.UUID) (*Employer, error)
	FindByEmail(ctx context.Context, email string) (*Employer, error)
	Update(ctx context.Context, e Employer) (*Employer, error)
	Delete(ctx context.Context, id common.UUID) error
	List(ctx context.Context) ([]Employer, error)
}
