package model

import "time"

type Product struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`

	//ホスト済み画像URLのリスト（並び順を保持）
	Image []string `gorm:"serializer:json" json:"image"`

	Category    string `gorm:"type:varchar(100)" json:"category"`
	SubCategory string `gorm:"type:varchar(100)" json:"subCategory"`

	//サイズラベルの集合
	Sizes []string `gorm:"serializer:json" json:"sizes"`

	BestSeller bool `gorm:"not null;default:false" json:"bestSeller"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
