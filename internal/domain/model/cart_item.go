package model

import "time"

// カートの明細
// (user, product, size) ごとに必ず1行。quantityは1以上で、0以下は行ごと削除する。
type CartItem struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64  `gorm:"not null;uniqueIndex:idx_cart_user_product_size" json:"user_id"`
	ProductID int64  `gorm:"not null;uniqueIndex:idx_cart_user_product_size" json:"product_id"`
	Size      string `gorm:"type:varchar(20);not null;uniqueIndex:idx_cart_user_product_size" json:"size"`
	Quantity  int64  `gorm:"not null" json:"quantity"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
