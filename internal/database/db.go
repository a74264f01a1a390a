package database

import (
	"fmt"
	"time"

	"countdown-backend/internal/config"
	"countdown-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init - bağlantıyı açar, migration'ı çalıştırır ve global DB'yi set eder
func Init(cfg *config.Config) error {
	db, err := Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	if err := Migrate(db); err != nil {
		return err
	}

	DB = db
	zap.S().Infow("Veritabanı bağlantısı başarılı, migration tamamlandı", "driver", cfg.DBDriver)
	return nil
}

// Open - driver'a göre gorm bağlantısı. sqlite tek bağlantı ile çalışır.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("desteklenmeyen veritabanı: %s", driver)
	}

	gormLogger := logger.New(
		zapWriter{},
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}

	if driver == "sqlite" {
		// "database is locked" hatalarını önlemek için
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sql db alınamadı: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}

	return db, nil
}

// Migrate - model listesi tek yerde
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductMeta{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("AutoMigrate hatası: %w", err)
	}
	return nil
}

// zapWriter gorm logger çıktısını zap'e yönlendirir
type zapWriter struct{}

func (zapWriter) Printf(format string, args ...interface{}) {
	zap.S().Warnf(format, args...)
}
