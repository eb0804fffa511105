package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)

	FindByUserProductSize(ctx context.Context, userID int64, productID int64, size string) (model.CartItem, error)

	//同一 (user, product, size) 行が既にあれば quantity を+1、無ければquantity=1で作成。
	//read-modify-writeではなくストア側のatomic upsertで行う。
	AddOne(ctx context.Context, userID int64, productID int64, size string) error

	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error

	DeleteByID(ctx context.Context, cartItemID int64) error

	//そのユーザーの行を全削除。空でもエラーにしない。
	ClearByUserID(ctx context.Context, userID int64) error
}
