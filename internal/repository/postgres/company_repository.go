package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/company"
)

type CompanyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

const companyColumns = `id, employer_id, name, tagline, description, industry, founded, team_size, website, location, remote_policy, tech_stack, company_values, benefits, verified, created_at, updated_at`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *CompanyRepository) Create(ctx context.Context, c company.Company) (*company.Company, error) {
	return insertCompany(ctx, r.db, c)
}

func insertCompany(ctx context.Context, db execer, c company.Company) (*company.Company, error) {
	c.ID = common.NewUUID()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Normalize()
	techStack, values, benefits, err := encodeCompanyJSON(c)
	if err != nil {
		return nil, err
	}
	_, err = db.ExecContext(ctx, `INSERT INTO companies (`+companyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		c.ID, c.EmployerID, c.Name, c.Tagline, c.Description, c.Industry, c.Founded, c.TeamSize, c.Website, c.Location, c.RemotePolicy, techStack, values, benefits, c.Verified, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "Company already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create company", err)
	}
	return &c, nil
}

func (r *CompanyRepository) Update(ctx context.Context, c company.Company) (*company.Company, error) {
	c.Normalize()
	techStack, values, benefits, err := encodeCompanyJSON(c)
	if err != nil {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE companies SET name = $1, tagline = $2, description = $3, industry = $4, founded = $5, team_size = $6, website = $7, location = $8, remote_policy = $9, tech_stack = $10, company_values = $11, benefits = $12, updated_at = $13
		WHERE id = $14`,
		c.Name, c.Tagline, c.Description, c.Industry, c.Founded, c.TeamSize, c.Website, c.Location, c.RemotePolicy, techStack, values, benefits, time.Now().UTC(), c.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update company", err)
	}
	if err := requireAffected(res, "Company not found"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, c.ID)
}

func (r *CompanyRepository) GetByID(ctx context.Context, id common.UUID) (*company.Company, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	return scanCompany(row)
}

func (r *CompanyRepository) GetByEmployer(ctx context.Context, employerID common.UUID) (*company.Company, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE employer_id = $1`, employerID)
	return scanCompany(row)
}

func (r *CompanyRepository) List(ctx context.Context) ([]company.Company, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY created_at DESC`)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list companies", err)
	}
	defer rows.Close()
	items := []company.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list companies", err)
	}
	return items, nil
}

func encodeCompanyJSON(c company.Company) (string, string, string, error) {
	techStack, err := json.Marshal(c.TechStack)
	if err != nil {
		return "", "", "", common.NewError(common.CodeInternal, "failed to encode tech stack", err)
	}
	values, err := json.Marshal(c.Values)
	if err != nil {
		return "", "", "", common.NewError(common.CodeInternal, "failed to encode values", err)
	}
	benefits, err := json.Marshal(c.Benefits)
	if err != nil {
		return "", "", "", common.NewError(common.CodeInternal, "failed to encode benefits", err)
	}
	return string(techStack), string(values), string(benefits), nil
}

func scanCompany(row rowScanner) (*company.Company, error) {
	var c company.Company
	var techStack, values, benefits []byte
	if err := row.Scan(&c.ID, &c.EmployerID, &c.Name, &c.Tagline, &c.Description, &c.Industry, &c.Founded, &c.TeamSize, &c.Website, &c.Location, &c.RemotePolicy, &techStack, &values, &benefits, &c.Verified, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "Company not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load company", err)
	}
	if err := decodeCompanyJSON(&c, techStack, values, benefits); err != nil {
		return nil, err
	}
	return &c, nil
}

func decodeCompanyJSON(c *company.Company, techStack, values, benefits []byte) error {
	for _, field := range []struct {
		raw []byte
		dst any
	}{{techStack, &c.TechStack}, {values, &c.Values}, {benefits, &c.Benefits}} {
		if len(field.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(field.raw, field.dst); err != nil {
			return common.NewError(common.CodeInternal, "failed to decode company", err)
		}
	}
	c.Normalize()
	return nil
}
