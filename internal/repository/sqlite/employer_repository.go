package sqlite

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/company"
	"jobconnect/internal/domain/employer"
)

type EmployerRepository struct {
	db *gorm.DB
}

func NewEmployerRepository(db *gorm.DB) *EmployerRepository {
	return &EmployerRepository{db: db}
}

func (r *EmployerRepository) CreateWithCompany(ctx context.Context, e employer.Employer, c company.Company) (*employer.Employer, *company.Company, error) {
	now := time.Now().UTC()
	e.ID = common.NewUUID()
	e.CreatedAt = now
	e.UpdatedAt = now
	c.ID = common.NewUUID()
	c.EmployerID = e.ID
	c.CreatedAt = now
	c.UpdatedAt = now

	employerRow := newEmployerRecord(e)
	companyRow := newCompanyRecord(c)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&employerRow).Error; err != nil {
			if isUniqueViolation(err) {
				return common.NewError(common.CodeConflict, "Email already registered", err)
			}
			return common.NewError(common.CodeInternal, "failed to create employer", err)
		}
		if err := tx.Create(&companyRow).Error; err != nil {
			if isUniqueViolation(err) {
				return common.NewError(common.CodeConflict, "Company already exists", err)
			}
			return common.NewError(common.CodeInternal, "failed to create company", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	createdEmployer := employerRow.toDomain()
	createdCompany := companyRow.toDomain()
	return &createdEmployer, &createdCompany, nil
}

func (r *EmployerRepository) GetByID(ctx context.Context, id common.UUID) (*employer.Employer, error) {
	return r.first(ctx, "id = ?", id.String())
}

func (r *EmployerRepository) FindByEmail(ctx context.Context, email string) (*employer.Employer, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *EmployerRepository) Update(ctx context.Context, e employer.Employer) (*employer.Employer, error) {
	res := r.db.WithContext(ctx).Model(&employerRecord{}).Where("id = ?", e.ID.String()).Updates(map[string]any{
		"first_name":   e.FirstName,
		"last_name":    e.LastName,
		"phone":        e.Phone,
		"state":        e.State,
		"city":         e.City,
		"address":      e.Address,
		"company_name": e.CompanyName,
		"is_verified":  e.IsVerified,
		"is_active":    e.IsActive,
		"updated_at":   time.Now().UTC(),
	})
	if res.Error != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update employer", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, common.NewError(common.CodeNotFound, "User not found", nil)
	}
	return r.GetByID(ctx, e.ID)
}

func (r *EmployerRepository) Delete(ctx context.Context, id common.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&employerRecord{})
	if res.Error != nil {
		return common.NewError(common.CodeInternal, "failed to delete employer", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.NewError(common.CodeNotFound, "User not found", nil)
	}
	return nil
}

func (r *EmployerRepository) List(ctx context.Context) ([]employer.Employer, error) {
	var records []employerRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list employers", err)
	}
	items := make([]employer.Employer, 0, len(records))
	for _, record := range records {
		items = append(items, record.toDomain())
	}
	return items, nil
}

func (r *EmployerRepository) first(ctx context.Context, query string, args ...any) (*employer.Employer, error) {
	var record employerRecord
	if err := r.db.WithContext(ctx).Where(query, args...).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewError(common.CodeNotFound, "User not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load employer", err)
	}
	e := record.toDomain()
	return &e, nil
}
