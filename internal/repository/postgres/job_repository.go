package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/company"
	"jobconnect/internal/domain/job"
)

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

const jobColumns = `id, company_id, title, location, work_type, experience_level, employment_type, salary_min, salary_max, equity, description, requirements, responsibilities, nice_to_have, tech_stack, status, views, posted_at, updated_at`

func prefixed(columns, alias string) string {
	parts := strings.Split(columns, ", ")
	for i, part := range parts {
		parts[i] = alias + "." + part
	}
	return strings.Join(parts, ", ")
}

var jobWithCompanySelect = `SELECT ` + prefixed(jobColumns, "j") + `, ` + prefixed(companyColumns, "c") + `
	FROM jobs j JOIN companies c ON c.id = j.company_id`

func (r *JobRepository) Create(ctx context.Context, j job.Job) (*job.Job, error) {
	j.ID = common.NewUUID()
	now := time.Now().UTC()
	j.PostedAt = now
	j.UpdatedAt = now
	j.Views = 0
	normalizeJobLists(&j)
	_, err := r.db.ExecContext(ctx, `INSERT INTO jobs (`+jobColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		j.ID, j.CompanyID, j.Title, j.Location, j.WorkType, j.ExperienceLevel, j.EmploymentType, j.SalaryMin, j.SalaryMax, j.Equity, j.Description,
		pq.Array(j.Requirements), pq.Array(j.Responsibilities), pq.Array(j.NiceToHave), pq.Array(j.TechStack), j.Status, j.Views, j.PostedAt, j.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create job", err)
	}
	return r.GetByID(ctx, j.ID)
}

func (r *JobRepository) Update(ctx context.Context, j job.Job) (*job.Job, error) {
	normalizeJobLists(&j)
	res, err := r.db.ExecContext(ctx, `UPDATE jobs SET title = $1, location = $2, work_type = $3, experience_level = $4, employment_type = $5, salary_min = $6, salary_max = $7, equity = $8, description = $9,
		requirements = $10, responsibilities = $11, nice_to_have = $12, tech_stack = $13, status = $14, updated_at = $15
		WHERE id = $16`,
		j.Title, j.Location, j.WorkType, j.ExperienceLevel, j.EmploymentType, j.SalaryMin, j.SalaryMax, j.Equity, j.Description,
		pq.Array(j.Requirements), pq.Array(j.Responsibilities), pq.Array(j.NiceToHave), pq.Array(j.TechStack), j.Status, time.Now().UTC(), j.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update job", err)
	}
	if err := requireAffected(res, "Job not found"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, j.ID)
}

func (r *JobRepository) GetByID(ctx context.Context, id common.UUID) (*job.Job, error) {
	row := r.db.QueryRowContext(ctx, jobWithCompanySelect+` WHERE j.id = $1`, id)
	return scanJobWithCompany(row)
}

func (r *JobRepository) ListActive(ctx context.Context, limit, offset int) ([]job.Job, error) {
	if offset < 0 {
		offset = 0
	}
	query := jobWithCompanySelect + ` WHERE j.status = $1 ORDER BY j.posted_at DESC`
	args := []any{job.StatusActive}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	} else if offset > 0 {
		query += ` OFFSET $2`
		args = append(args, offset)
	}
	return r.queryJobs(ctx, query, args...)
}

func (r *JobRepository) ListByCompany(ctx context.Context, companyID common.UUID) ([]job.Job, error) {
	return r.queryJobs(ctx, jobWithCompanySelect+` WHERE j.company_id = $1 ORDER BY j.posted_at DESC`, companyID)
}

func (r *JobRepository) IncrementViews(ctx context.Context, id common.UUID) (int64, error) {
	var views int64
	err := r.db.QueryRowContext(ctx, `UPDATE jobs SET views = views + 1 WHERE id = $1 RETURNING views`, id).Scan(&views)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.NewError(common.CodeNotFound, "Job not found", err)
		}
		return 0, common.NewError(common.CodeInternal, "failed to increment views", err)
	}
	return views, nil
}

func (r *JobRepository) queryJobs(ctx context.Context, query string, args ...any) ([]job.Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list jobs", err)
	}
	defer rows.Close()
	items := []job.Job{}
	for rows.Next() {
		j, err := scanJobWithCompany(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list jobs", err)
	}
	return items, nil
}

func scanJobWithCompany(row rowScanner) (*job.Job, error) {
	var dest jobRow
	if err := row.Scan(dest.targets()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "Job not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load job", err)
	}
	return dest.build()
}

// jobRow holds scan targets for jobWithCompanySelect columns so other queries can embed them.
type jobRow struct {
	job                         job.Job
	company                     company.Company
	salaryMin, salaryMax        sql.NullInt64
	techStack, values, benefits []byte
}

func (d *jobRow) targets() []any {
	j, c := &d.job, &d.company
	return []any{&j.ID, &j.CompanyID, &j.Title, &j.Location, &j.WorkType, &j.ExperienceLevel, &j.EmploymentType, &d.salaryMin, &d.salaryMax, &j.Equity, &j.Description,
		pq.Array(&j.Requirements), pq.Array(&j.Responsibilities), pq.Array(&j.NiceToHave), pq.Array(&j.TechStack), &j.Status, &j.Views, &j.PostedAt, &j.UpdatedAt,
		&c.ID, &c.EmployerID, &c.Name, &c.Tagline, &c.Description, &c.Industry, &c.Founded, &c.TeamSize, &c.Website, &c.Location, &c.RemotePolicy, &d.techStack, &d.values, &d.benefits, &c.Verified, &c.CreatedAt, &c.UpdatedAt}
}

func (d *jobRow) build() (*job.Job, error) {
	c := d.company
	if err := decodeCompanyJSON(&c, d.techStack, d.values, d.benefits); err != nil {
		return nil, err
	}
	j := d.job
	j.SalaryMin = nullableInt(d.salaryMin)
	j.SalaryMax = nullableInt(d.salaryMax)
	normalizeJobLists(&j)
	j.Company = &c
	return &j, nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func normalizeJobLists(j *job.Job) {
	for _, list := range []*[]string{&j.Requirements, &j.Responsibilities, &j.NiceToHave, &j.TechStack} {
		if *list == nil {
			*list = []string{}
		}
	}
}
