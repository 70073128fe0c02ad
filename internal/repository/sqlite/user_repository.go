package sqlite

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, account user.User) (*user.User, error) {
	account.ID = common.NewUUID()
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	record := newUserRecord(account)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "Email already registered", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create user", err)
	}
	created := record.toDomain()
	return &created, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	return r.first(ctx, "id = ?", id.String())
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) Update(ctx context.Context, account user.User) (*user.User, error) {
	res := r.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", account.ID.String()).Updates(map[string]any{
		"name":       account.Name,
		"profile":    newUserRecord(account).Profile,
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update user", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, common.NewError(common.CodeNotFound, "User not found", nil)
	}
	return r.GetByID(ctx, account.ID)
}

func (r *UserRepository) UpdateResumeURL(ctx context.Context, id common.UUID, resumeURL string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record userRecord
		if err := tx.Where("id = ?", id.String()).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.NewError(common.CodeNotFound, "User not found", err)
			}
			return common.NewError(common.CodeInternal, "failed to load user", err)
		}
		profile := record.Profile.Data()
		profile.ResumeURL = resumeURL
		err := tx.Model(&userRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
			"profile":    newUserRecord(user.User{Profile: profile}).Profile,
			"updated_at": time.Now().UTC(),
		}).Error
		if err != nil {
			return common.NewError(common.CodeInternal, "failed to update resume", err)
		}
		return nil
	})
}

func (r *UserRepository) Delete(ctx context.Context, id common.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&userRecord{})
	if res.Error != nil {
		return common.NewError(common.CodeInternal, "failed to delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.NewError(common.CodeNotFound, "User not found", nil)
	}
	return nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	var records []userRecord
	if err := r.db.WithContext(ctx).Where("role = ?", string(role)).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list users", err)
	}
	items := make([]user.User, 0, len(records))
	for _, record := range records {
		items = append(items, record.toDomain())
	}
	return items, nil
}

func (r *UserRepository) first(ctx context.Context, query string, args ...any) (*user.User, error) {
	var record userRecord
	if err := r.db.WithContext(ctx).Where(query, args...).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewError(common.CodeNotFound, "User not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load user", err)
	}
	account := record.toDomain()
	return &account, nil
}
