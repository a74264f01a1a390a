package models

import "time"

type Product struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:200;not null"`
	SKU         string  `gorm:"size:64;index"` // boş olabilir
	Price       float64 `gorm:"not null;default:0"`
	Description string  `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
