package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderItemRepository interface {
	//注文と同時に明細をまとめて作成
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error

	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)

	DeleteByOrderIDs(ctx context.Context, orderIDs []int64) error
}
