package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

type ProductRepository interface {
	FindByID(ctx context.Context, productID int64) (model.Product, error)

	//新しい順
	ListNewestFirst(ctx context.Context) ([]model.Product, error)

	Create(ctx context.Context, p model.Product) (int64, error)

	//画像以外のフィールドを更新。対象が無ければ ErrNotFound。
	Update(ctx context.Context, p model.Product) error

	DeleteByID(ctx context.Context, productID int64) error
}
