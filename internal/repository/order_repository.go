package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (int64, error)

	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	//管理者用の全件一覧（新しい順）
	ListAllNewestFirst(ctx context.Context) ([]model.Order, error)

	//本人の注文のみ（新しい順）
	ListByUserIDNewestFirst(ctx context.Context, userID int64) ([]model.Order, error)

	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	//payment=true かつ status="Order Placed" にする（決済確認の反映）
	MarkPaid(ctx context.Context, orderID int64) error

	SetStripeSessionID(ctx context.Context, orderID int64, sessionID string) error

	DeleteByUserID(ctx context.Context, userID int64) error
}
