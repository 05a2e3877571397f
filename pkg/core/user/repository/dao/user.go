package dao

import (
	"context"

	"samaajseva/pkg/core/user/model"
)

type UserRepository interface {
	QueryByID(ctx context.Context, id uint64) (model.User, error)
	QueryByEmail(ctx context.Context, email string) (model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateProfile(ctx context.Context, id uint64, fields model.ProfileFields) error
	Exists(ctx context.Context, id uint64) (bool, error)
}
