package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/company"
	"jobconnect/internal/domain/employer"
)

type EmployerRepository struct {
	db *sql.DB
}

func NewEmployerRepository(db *sql.DB) *EmployerRepository {
	return &EmployerRepository{db: db}
}

const employerColumns = `id, first_name, last_name, email, password_hash, phone, state, city, address, company_name, is_verified, is_active, terms_accepted, created_at, updated_at`

func (r *EmployerRepository) CreateWithCompany(ctx context.Context, e employer.Employer, c company.Company) (*employer.Employer, *company.Company, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	e.ID = common.NewUUID()
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	_, err = tx.ExecContext(ctx, `INSERT INTO employers (`+employerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		e.ID, e.FirstName, e.LastName, e.Email, e.PasswordHash, e.Phone, e.State, e.City, e.Address, e.CompanyName, e.IsVerified, e.IsActive, e.TermsAccepted, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, nil, common.NewError(common.CodeConflict, "Email already registered", err)
		}
		return nil, nil, common.NewError(common.CodeInternal, "failed to create employer", err)
	}

	c.EmployerID = e.ID
	created, err := insertCompany(ctx, tx, c)
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, common.NewError(common.CodeInternal, "failed to commit employer", err)
	}
	return &e, created, nil
}

func (r *EmployerRepository) GetByID(ctx context.Context, id common.UUID) (*employer.Employer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+employerColumns+` FROM employers WHERE id = $1`, id)
	return scanEmployer(row)
}

func (r *EmployerRepository) FindByEmail(ctx context.Context, email string) (*employer.Employer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+employerColumns+` FROM employers WHERE email = $1`, email)
	return scanEmployer(row)
}

func (r *EmployerRepository) Update(ctx context.Context, e employer.Employer) (*employer.Employer, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE employers SET first_name = $1, last_name = $2, phone = $3, state = $4, city = $5, address = $6, company_name = $7, is_verified = $8, is_active = $9, updated_at = $10
		WHERE id = $11`,
		e.FirstName, e.LastName, e.Phone, e.State, e.City, e.Address, e.CompanyName, e.IsVerified, e.IsActive, time.Now().UTC(), e.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update employer", err)
	}
	if err := requireAffected(res, "User not found"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, e.ID)
}

func (r *EmployerRepository) Delete(ctx context.Context, id common.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employers WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete employer", err)
	}
	return requireAffected(res, "User not found")
}

func (r *EmployerRepository) List(ctx context.Context) ([]employer.Employer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+employerColumns+` FROM employers ORDER BY created_at DESC`)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list employers", err)
	}
	defer rows.Close()
	items := []employer.Employer{}
	for rows.Next() {
		e, err := scanEmployer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list employers", err)
	}
	return items, nil
}

func scanEmployer(row rowScanner) (*employer.Employer, error) {
	var e employer.Employer
	if err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.PasswordHash, &e.Phone, &e.State, &e.City, &e.Address, &e.CompanyName, &e.IsVerified, &e.IsActive, &e.TermsAccepted, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "User not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load employer", err)
	}
	return &e, nil
}
