// Package metastore - ürün bazlı anahtar/değer kayıt deposu
package metastore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"countdown-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidRecord = errors.New("geçersiz kayıt id")

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get - anahtar yoksa boş string döner, hata değil
func (s *GormStore) Get(ctx context.Context, recordID uint, key string) (string, error) {
	if recordID == 0 {
		return "", ErrInvalidRecord
	}

	var rows []models.ProductMeta
	err := s.db.WithContext(ctx).
		Where("product_id = ? AND meta_key = ?", recordID, key).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return "", fmt.Errorf("meta okunamadı (%d/%s): %w", recordID, key, err)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].MetaValue, nil
}

// GetMany - istenen anahtarların hepsi map'te bulunur, olmayanlar boş string
func (s *GormStore) GetMany(ctx context.Context, recordID uint, keys ...string) (map[string]string, error) {
	if recordID == 0 {
		return nil, ErrInvalidRecord
	}

	out := make(map[string]string, len(keys))
	for _, k := range keys {
		out[k] = ""
	}
	if len(keys) == 0 {
		return out, nil
	}

	var rows []models.ProductMeta
	err := s.db.WithContext(ctx).
		Where("product_id = ? AND meta_key IN ?", recordID, keys).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("meta okunamadı (%d): %w", recordID, err)
	}
	for _, r := range rows {
		out[r.MetaKey] = r.MetaValue
	}
	return out, nil
}

func (s *GormStore) Set(ctx context.Context, recordID uint, key, value string) error {
	return s.SetMany(ctx, recordID, map[string]string{key: value})
}

// SetMany - tüm değerler tek transaction içinde yazılır, son yazan kazanır
func (s *GormStore) SetMany(ctx context.Context, recordID uint, values map[string]string) error {
	if recordID == 0 {
		return ErrInvalidRecord
	}
	if len(values) == 0 {
		return nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]models.ProductMeta, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, models.ProductMeta{
			ProductID: recordID,
			MetaKey:   k,
			MetaValue: values[k],
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "meta_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"meta_value", "updated_at"}),
		}).Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("meta kaydedilemedi (%d): %w", recordID, err)
	}
	return nil
}

// DeleteRecord - ürün silindiğinde tüm meta kayıtlarını temizler
func (s *GormStore) DeleteRecord(ctx context.Context, recordID uint) error {
	if recordID == 0 {
		return ErrInvalidRecord
	}
	if err := s.db.WithContext(ctx).Where("product_id = ?", recordID).Delete(&models.ProductMeta{}).Error; err != nil {
		return fmt.Errorf("meta silinemedi (%d): %w", recordID, err)
	}
	return nil
}
