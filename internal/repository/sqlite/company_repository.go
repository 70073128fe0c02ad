package sqlite

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/company"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Create(ctx context.Context, c company.Company) (*company.Company, error) {
	c.ID = common.NewUUID()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	record := newCompanyRecord(c)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "Company already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create company", err)
	}
	created := record.toDomain()
	return &created, nil
}

func (r *CompanyRepository) Update(ctx context.Context, c company.Company) (*company.Company, error) {
	record := newCompanyRecord(c)
	res := r.db.WithContext(ctx).Model(&companyRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
		"name":           record.Name,
		"tagline":        record.Tagline,
		"description":    record.Description,
		"industry":       record.Industry,
		"founded":        record.Founded,
		"team_size":      record.TeamSize,
		"website":        record.Website,
		"location":       record.Location,
		"remote_policy":  record.RemotePolicy,
		"tech_stack":     record.TechStack,
		"company_values": record.Values,
		"benefits":       record.Benefits,
		"updated_at":     time.Now().UTC(),
	})
	if res.Error != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update company", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, common.NewError(common.CodeNotFound, "Company not found", nil)
	}
	return r.GetByID(ctx, c.ID)
}

func (r *CompanyRepository) GetByID(ctx context.Context, id common.UUID) (*company.Company, error) {
	return r.first(ctx, "id = ?", id.String())
}

func (r *CompanyRepository) GetByEmployer(ctx context.Context, employerID common.UUID) (*company.Company, error) {
	return r.first(ctx, "employer_id = ?", employerID.String())
}

func (r *CompanyRepository) List(ctx context.Context) ([]company.Company, error) {
	var records []companyRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list companies", err)
	}
	items := make([]company.Company, 0, len(records))
	for _, record := range records {
		items = append(items, record.toDomain())
	}
	return items, nil
}

func (r *CompanyRepository) first(ctx context.Context, query string, args ...any) (*company.Company, error) {
	var record companyRecord
	if err := r.db.WithContext(ctx).Where(query, args...).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewError(common.CodeNotFound, "Company not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load company", err)
	}
	c := record.toDomain()
	return &c, nil
}
