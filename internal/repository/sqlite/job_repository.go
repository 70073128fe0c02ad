package sqlite

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/job"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, j job.Job) (*job.Job, error) {
	j.ID = common.NewUUID()
	now := time.Now().UTC()
	j.PostedAt = now
	j.UpdatedAt = now
	j.Views = 0
	record := newJobRecord(j)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&record).Error; err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create job", err)
	}
	return r.GetByID(ctx, j.ID)
}

func (r *JobRepository) Update(ctx context.Context, j job.Job) (*job.Job, error) {
	record := newJobRecord(j)
	res := r.db.WithContext(ctx).Model(&jobRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
		"title":            record.Title,
		"location":         record.Location,
		"work_type":        record.WorkType,
		"experience_level": record.ExperienceLevel,
		"employment_type":  record.EmploymentType,
		"salary_min":       record.SalaryMin,
		"salary_max":       record.SalaryMax,
		"equity":           record.Equity,
		"description":      record.Description,
		"requirements":     record.Requirements,
		"responsibilities": record.Responsibilities,
		"nice_to_have":     record.NiceToHave,
		"tech_stack":       record.TechStack,
		"status":           record.Status,
		"updated_at":       time.Now().UTC(),
	})
	if res.Error != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update job", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, common.NewError(common.CodeNotFound, "Job not found", nil)
	}
	return r.GetByID(ctx, j.ID)
}

func (r *JobRepository) GetByID(ctx context.Context, id common.UUID) (*job.Job, error) {
	var record jobRecord
	if err := r.db.WithContext(ctx).Preload("Company").Where("id = ?", id.String()).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewError(common.CodeNotFound, "Job not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load job", err)
	}
	j := record.toDomain()
	return &j, nil
}

func (r *JobRepository) ListActive(ctx context.Context, limit, offset int) ([]job.Job, error) {
	if offset < 0 {
		offset = 0
	}
	query := r.db.WithContext(ctx).Preload("Company").Where("status = ?", string(job.StatusActive)).Order("posted_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return r.find(query)
}

func (r *JobRepository) ListByCompany(ctx context.Context, companyID common.UUID) ([]job.Job, error) {
	return r.find(r.db.WithContext(ctx).Preload("Company").Where("company_id = ?", companyID.String()).Order("posted_at DESC"))
}

func (r *JobRepository) IncrementViews(ctx context.Context, id common.UUID) (int64, error) {
	var views int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&jobRecord{}).Where("id = ?", id.String()).UpdateColumn("views", gorm.Expr("views + ?", 1))
		if res.Error != nil {
			return common.NewError(common.CodeInternal, "failed to increment views", res.Error)
		}
		if res.RowsAffected == 0 {
			return common.NewError(common.CodeNotFound, "Job not found", nil)
		}
		if err := tx.Model(&jobRecord{}).Where("id = ?", id.String()).Pluck("views", &views).Error; err != nil {
			return common.NewError(common.CodeInternal, "failed to read views", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return views, nil
}

func (r *JobRepository) find(query *gorm.DB) ([]job.Job, error) {
	var records []jobRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list jobs", err)
	}
	items := make([]job.Job, 0, len(records))
	for _, record := range records {
		items = append(items, record.toDomain())
	}
	return items, nil
}
