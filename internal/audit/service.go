package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"countdown-backend/internal/countdown"
	"countdown-backend/internal/database"
	"countdown-backend/internal/metastore"
	"countdown-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	EntityProduct   = "product"
	EntityCountdown = "product_countdown"
)

var ErrAlreadyUndone = errors.New("bu işlem zaten geri alınmış")

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

type Actor struct {
	ID   uint
	Name string
}

type actorKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}

func toJSON(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func WriteLog(opts LogOptions) error {
	log := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  toJSON(opts.Before),
		AfterData:   toJSON(opts.After),
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}
	return nil
}

// CountdownSaved - countdown.Module.OnSaved callback'i. Aktör context'ten okunur.
func CountdownSaved(ctx context.Context, productID uint, before, after countdown.Configuration) {
	actor, _ := ActorFrom(ctx)
	err := WriteLog(LogOptions{
		UserID:      actor.ID,
		UserName:    actor.Name,
		EntityType:  EntityCountdown,
		EntityID:    productID,
		Action:      models.AuditActionUpdate,
		Description: fmt.Sprintf("Geri sayım güncellendi: %s", after.Stamp()),
		Before:      before,
		After:       after,
	})
	if err != nil {
		zap.L().Error("countdown audit log", zap.Uint("product_id", productID), zap.Error(err))
	}
}

// UndoLog - bir audit log'u geri alır
func UndoLog(ctx context.Context, logID uint, userID uint, userName string) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var log models.AuditLog
		if err := tx.First(&log, "id = ?", logID).Error; err != nil {
			return fmt.Errorf("log bulunamadı: %w", err)
		}
		if log.IsUndone {
			return ErrAlreadyUndone
		}

		var err error
		switch log.Action {
		case models.AuditActionCreate:
			err = deleteEntity(ctx, tx, log.EntityType, log.EntityID)
		case models.AuditActionUpdate:
			err = restoreEntity(ctx, tx, log.EntityType, log.EntityID, log.BeforeData)
		case models.AuditActionDelete:
			err = recreateEntity(tx, log.EntityType, log.BeforeData)
		default:
			return fmt.Errorf("bu işlem türü geri alınamaz")
		}
		if err != nil {
			return fmt.Errorf("geri alma başarısız: %w", err)
		}

		now := time.Now()
		log.IsUndone = true
		log.UndoneBy = &userID
		log.UndoneAt = &now
		if err := tx.Save(&log).Error; err != nil {
			return fmt.Errorf("log güncellenemedi: %w", err)
		}

		undoLog := models.AuditLog{
			UserID:      userID,
			UserName:    userName,
			EntityType:  log.EntityType,
			EntityID:    log.EntityID,
			Action:      models.AuditActionUndo,
			Description: fmt.Sprintf("Geri alındı: %s", log.Description),
			BeforeData:  log.AfterData,
			AfterData:   log.BeforeData,
			Undone:      true,
		}
		if err := tx.Create(&undoLog).Error; err != nil {
			return fmt.Errorf("undo log kaydedilemedi: %w", err)
		}
		return nil
	})
}

func deleteEntity(ctx context.Context, tx *gorm.DB, entityType string, entityID uint) error {
	switch entityType {
	case EntityProduct:
		if err := tx.Delete(&models.Product{}, "id = ?", entityID).Error; err != nil {
			return err
		}
		return metastore.NewGormStore(tx).DeleteRecord(ctx, entityID)
	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}

func recreateEntity(tx *gorm.DB, entityType string, dataJSON string) error {
	switch entityType {
	case EntityProduct:
		var p models.Product
		if err := json.Unmarshal([]byte(dataJSON), &p); err != nil {
			return err
		}
		// aynı ID ile geri oluştur, meta kayıtları bu ID'ye bağlı
		return tx.Create(&p).Error
	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}

func restoreEntity(ctx context.Context, tx *gorm.DB, entityType string, entityID uint, dataJSON string) error {
	switch entityType {
	case EntityProduct:
		var p models.Product
		if err := json.Unmarshal([]byte(dataJSON), &p); err != nil {
			return err
		}
		return tx.Model(&models.Product{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"name":        p.Name,
			"sku":         p.SKU,
			"price":       p.Price,
			"description": p.Description,
		}).Error

	case EntityCountdown:
		var cfg countdown.Configuration
		if err := json.Unmarshal([]byte(dataJSON), &cfg); err != nil {
			return err
		}
		return metastore.NewGormStore(tx).SetMany(ctx, entityID, cfg.Values())

	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}
