package repository

import (
	"context"

	"app/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error

	//見つからない場合は (nil, nil)
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	//見つからない場合は ErrNotFound
	FindByID(ctx context.Context, id int64) (model.User, error)

	//新しい順
	ListNewestFirst(ctx context.Context) ([]model.User, error)

	DeleteByID(ctx context.Context, id int64) error
}
