package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/application"
)

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, job_id, applicant_id, status, cover_letter, resume_url, applied_at, updated_at`

// Foreign keys guarantee the job and its company exist, so an inner join keeps every application.
var applicationWithJobSelect = `SELECT ` + prefixed(applicationColumns, "a") + `, ` + prefixed(jobColumns, "j") + `, ` + prefixed(companyColumns, "c") + `
	FROM applications a
	JOIN jobs j ON j.id = a.job_id
	JOIN companies c ON c.id = j.company_id`

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.AppliedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = application.StatusApplied
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		app.ID, app.JobID, app.ApplicantID, app.Status, app.CoverLetter, app.ResumeURL, app.AppliedAt, app.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "You have already applied to this job", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	return scanApplication(row)
}

func (r *ApplicationRepository) FindByJobAndApplicant(ctx context.Context, jobID, applicantID common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 AND applicant_id = $2`, jobID, applicantID)
	return scanApplication(row)
}

func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID common.UUID) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, applicationWithJobSelect+` WHERE a.applicant_id = $1 ORDER BY a.applied_at DESC`, applicantID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	items := []application.Application{}
	for rows.Next() {
		var app application.Application
		var jr jobRow
		targets := append([]any{&app.ID, &app.JobID, &app.ApplicantID, &app.Status, &app.CoverLetter, &app.ResumeURL, &app.AppliedAt, &app.UpdatedAt}, jr.targets()...)
		if err := rows.Scan(targets...); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to load application", err)
		}
		if app.Job, err = jr.build(); err != nil {
			return nil, err
		}
		items = append(items, app)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	return items, nil
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID common.UUID) ([]application.Application, error) {
	return r.query(ctx, `SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 ORDER BY applied_at DESC`, jobID)
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id common.UUID, status application.Status) (*application.Application, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now().UTC(), id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update application", err)
	}
	if err := requireAffected(res, "Application not found"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *ApplicationRepository) query(ctx context.Context, query string, args ...any) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	items := []application.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	return items, nil
}

func scanApplication(row rowScanner) (*application.Application, error) {
	var app application.Application
	if err := row.Scan(&app.ID, &app.JobID, &app.ApplicantID, &app.Status, &app.CoverLetter, &app.ResumeURL, &app.AppliedAt, &app.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "Application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return &app, nil
}
