package sqlite

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/application"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.AppliedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = application.StatusApplied
	}
	record := newApplicationRecord(app)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "You have already applied to this job", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	created := record.toDomain()
	return &created, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	return r.first(ctx, "id = ?", id.String())
}

func (r *ApplicationRepository) FindByJobAndApplicant(ctx context.Context, jobID, applicantID common.UUID) (*application.Application, error) {
	return r.first(ctx, "job_id = ? AND applicant_id = ?", jobID.String(), applicantID.String())
}

func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID common.UUID) ([]application.Application, error) {
	return r.find(r.db.WithContext(ctx).Preload("Job.Company").Where("applicant_id = ?", applicantID.String()).Order("applied_at DESC"))
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID common.UUID) ([]application.Application, error) {
	return r.find(r.db.WithContext(ctx).Where("job_id = ?", jobID.String()).Order("applied_at DESC"))
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id common.UUID, status application.Status) (*application.Application, error) {
	res := r.db.WithContext(ctx).Model(&applicationRecord{}).Where("id = ?", id.String()).Updates(map[string]any{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update application", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, common.NewError(common.CodeNotFound, "Application not found", nil)
	}
	return r.GetByID(ctx, id)
}

func (r *ApplicationRepository) first(ctx context.Context, query string, args ...any) (*application.Application, error) {
	var record applicationRecord
	if err := r.db.WithContext(ctx).Where(query, args...).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewError(common.CodeNotFound, "Application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	app := record.toDomain()
	return &app, nil
}

func (r *ApplicationRepository) find(query *gorm.DB) ([]application.Application, error) {
	var records []applicationRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	items := make([]application.Application, 0, len(records))
	for _, record := range records {
		items = append(items, record.toDomain())
	}
	return items, nil
}
