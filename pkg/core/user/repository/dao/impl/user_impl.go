package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "samaajseva/pkg/common/errors"
	"samaajseva/pkg/core/user/model"
	"samaajseva/pkg/core/user/repository/dao"
)

type GormUserRepository struct {
	db *gorm.DB
}

var _ dao.UserRepository = (*GormUserRepository)(nil)

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) QueryByID(ctx context.Context, id uint64) (model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return model.User{}, apperrors.WrapGormError(err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

func (r *GormUserRepository) QueryByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Select("id", "name", "email", "password_hash", "role").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return model.User{}, apperrors.WrapGormError(err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

func (r *GormUserRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, apperrors.WrapGormError(err, apperrors.ErrUserNotFound)
	}
	return count > 0, nil
}

// CreateUser relies on the unique email index; there is no SELECT before the
// INSERT, so concurrent registrations cannot both succeed.
func (r *GormUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if apperrors.IsDuplicateError(err) {
				return apperrors.ErrEmailTaken
			}
			return apperrors.WrapGormError(err, apperrors.ErrUserNotFound)
		}
		return nil
	})
}

// UpdateProfile overwrites the four profile columns with version control.
func (r *GormUserRepository) UpdateProfile(ctx context.Context, id uint64, fields model.ProfileFields) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "version").
			Where("id = ?", id).
			First(&user).Error; err != nil {
			return apperrors.WrapGormError(err, apperrors.ErrUserNotFound)
		}

		result := tx.Model(&model.User{}).
			Where("id = ? AND version = ?", id, user.Version).
			Updates(map[string]interface{}{
				"bio":        fields.Bio,
				"city":       fields.City,
				"skills":     fields.Skills,
				"interests":  fields.Interests,
				"version":    user.Version + 1,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return apperrors.WrapGormError(result.Error, apperrors.ErrUserNotFound)
		}
		if result.RowsAffected == 0 {
			return apperrors.Internal(errors.New("profile update lost version race"))
		}
		return nil
	})
}
