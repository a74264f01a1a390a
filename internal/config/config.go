package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const defaultDSN = "host=localhost user=postgres password=postgres dbname=countdown port=5432 sslmode=disable"

type Config struct {
	HTTPPort     string
	DBDriver     string // postgres | sqlite
	DatabaseDSN  string
	JWTSecret    string
	JWTTTLHours  int // token geçerlilik süresi (saat)
	CORSOrigins  string
	LogMode      string // development | production
	LogFile      string // boşsa sadece stdout
	SiteTimezone string // sunucu tarafı geri sayım hesaplaması için

	// StrictTimestamp açıkken aktif bir sayaç çözümlenemeyen tarih/saat ile kaydedilemez.
	StrictTimestamp bool
	// StreamTickMs SSE akışında iki kare arasındaki süre (ms).
	StreamTickMs int
}

// Load - .env (varsa) ve ortam değişkenlerinden config oluşturur
func Load() (*Config, error) {
	// .env yoksa sorun değil, ortam değişkenleri yeterli
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DBDriver:        strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseDSN:     getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTTTLHours:     cast.ToInt(getEnv("JWT_TTL_HOURS", "24")),
		CORSOrigins:     getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		LogMode:         getEnv("LOG_MODE", "development"),
		LogFile:         getEnv("LOG_FILE", ""),
		SiteTimezone:    getEnv("SITE_TIMEZONE", "Local"),
		StrictTimestamp: cast.ToBool(getEnv("COUNTDOWN_STRICT_TIMESTAMP", "false")),
		StreamTickMs:    cast.ToInt(getEnv("COUNTDOWN_TICK_MS", "1000")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate - güvenli varsayılanı olmayan alanları kontrol eder
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET tanımlanmamış")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET en az 32 karakter olmalıdır")
	}
	if c.DBDriver != "postgres" && c.DBDriver != "sqlite" {
		return fmt.Errorf("desteklenmeyen DB_DRIVER: %s", c.DBDriver)
	}
	if c.StreamTickMs <= 0 {
		c.StreamTickMs = 1000
	}
	if c.JWTTTLHours <= 0 {
		c.JWTTTLHours = 24
	}
	return nil
}

// TokenTTL - tanımsızsa 1 gün
func (c *Config) TokenTTL() time.Duration {
	if c.JWTTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.JWTTTLHours) * time.Hour
}

// Warnings - açılışta loglanacak, fatal olmayan uyarılar
func (c *Config) Warnings() []string {
	var warns []string
	if c.DBDriver == "postgres" && c.DatabaseDSN == defaultDSN {
		warns = append(warns, "DATABASE_DSN varsayılan değer kullanılıyor, production için kendi Postgres bağlantı bilgisini tanımla")
	}
	if c.CORSOrigins == "http://localhost:5173" {
		warns = append(warns, "CORS_ALLOWED_ORIGINS varsayılan değer kullanılıyor, production için kendi domain'ini tanımla")
	}
	return warns
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
