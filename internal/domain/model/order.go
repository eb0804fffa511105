package model

import "time"

type OrderStatus string

const (
	//カード決済開始〜確認待ちの一時状態
	OrderStatusPending OrderStatus = "Pending"

	//配送進捗
	OrderStatusPlaced         OrderStatus = "Order Placed"
	OrderStatusPacking        OrderStatus = "Packing"
	OrderStatusShipped        OrderStatus = "Shipped"
	OrderStatusOutForDelivery OrderStatus = "Out for Delivery"
	OrderStatusDelivered      OrderStatus = "Delivered"
)

type Order struct {
	ID     int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64   `gorm:"not null;index" json:"user_id"`
	Amount float64 `gorm:"not null" json:"amount"`

	Address Address `gorm:"serializer:json" json:"address"`

	PaymentMethod string `gorm:"type:varchar(50);not null" json:"paymentMethod"`

	//決済確認済みフラグ
	Payment bool `gorm:"not null;default:false" json:"payment"`

	Status OrderStatus `gorm:"type:varchar(30);not null;default:'Order Placed'" json:"status"`

	//決済プロバイダのcheckoutセッションID
	StripeSessionID string `gorm:"type:varchar(255)" json:"-"`

	Date time.Time `gorm:"not null;autoCreateTime" json:"date"`
}
