package models

import "time"

// ProductMeta - ürüne bağlı anahtar/değer kaydı. (product_id, meta_key) çifti tekildir.
type ProductMeta struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID uint   `gorm:"not null;uniqueIndex:idx_product_meta_key"`
	MetaKey   string `gorm:"size:191;not null;uniqueIndex:idx_product_meta_key"`
	MetaValue string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProductMeta) TableName() string {
	return "product_meta"
}
