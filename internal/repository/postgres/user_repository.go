package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/user"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, password_hash, social_provider, social_id, role, profile, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, account user.User) (*user.User, error) {
	account.ID = common.NewUUID()
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	profile, err := json.Marshal(account.Profile)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode profile", err)
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		account.ID, account.Name, account.Email, account.PasswordHash, account.SocialProvider, account.SocialID, account.Role, string(profile), account.CreatedAt, account.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "Email already registered", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create user", err)
	}
	return &account, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) Update(ctx context.Context, account user.User) (*user.User, error) {
	profile, err := json.Marshal(account.Profile)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode profile", err)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE users SET name = $1, profile = $2, updated_at = $3 WHERE id = $4`,
		account.Name, string(profile), time.Now().UTC(), account.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update user", err)
	}
	if err := requireAffected(res, "User not found"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, account.ID)
}

func (r *UserRepository) UpdateResumeURL(ctx context.Context, id common.UUID, resumeURL string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET profile = jsonb_set(profile, '{resumeUrl}', to_jsonb($1::text), true), updated_at = $2 WHERE id = $3`,
		resumeURL, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to update resume", err)
	}
	return requireAffected(res, "User not found")
}

func (r *UserRepository) Delete(ctx context.Context, id common.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete user", err)
	}
	return requireAffected(res, "User not found")
}

func (r *UserRepository) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at DESC`, role)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list users", err)
	}
	defer rows.Close()
	items := []user.User{}
	for rows.Next() {
		account, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list users", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*user.User, error) {
	var account user.User
	var profile []byte
	if err := row.Scan(&account.ID, &account.Name, &account.Email, &account.PasswordHash, &account.SocialProvider, &account.SocialID, &account.Role, &profile, &account.CreatedAt, &account.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "User not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load user", err)
	}
	account.Profile = user.NewProfile()
	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &account.Profile); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to decode profile", err)
		}
	}
	return &account, nil
}

func requireAffected(res sql.Result, notFound string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to read result", err)
	}
	if affected == 0 {
		return common.NewError(common.CodeNotFound, notFound, nil)
	}
	return nil
}
