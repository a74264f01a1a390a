package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"countdown-backend/internal/config"
	"countdown-backend/internal/countdown"
	"countdown-backend/internal/database"
	"countdown-backend/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "HTTP sunucusunu başlatır",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Veritabanı migration'ını çalıştırır ve çıkar",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		defer zap.L().Sync()
		zap.S().Infow("Migration tamamlandı", "driver", cfg.DBDriver)
		return nil
	},
}

// setup - config, logger ve veritabanı
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if _, err := logger.Init(cfg); err != nil {
		return nil, fmt.Errorf("logger başlatılamadı: %w", err)
	}
	for _, w := range cfg.Warnings() {
		zap.S().Warn(w)
	}
	if err := database.Init(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func countdownOptions(cfg *config.Config, loc *time.Location) []countdown.Option {
	if !cfg.StrictTimestamp {
		return nil
	}
	return []countdown.Option{countdown.WithStrictTimestamp(loc)}
}

func siteLocation(cfg *config.Config) *time.Location {
	if cfg.SiteTimezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(cfg.SiteTimezone)
	if err != nil {
		zap.S().Warnw("SITE_TIMEZONE okunamadı, sunucu saat dilimi kullanılıyor", "tz", cfg.SiteTimezone, "error", err)
		return time.Local
	}
	return loc
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer zap.L().Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	app, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}

	g.Go(func() error {
		zap.S().Infow("Sunucu başlatılıyor", "port", cfg.HTTPPort)
		return app.Listen(":" + cfg.HTTPPort)
	})
	g.Go(func() error {
		<-ctx.Done()
		zap.S().Info("Sunucu kapatılıyor")
		// açık SSE akışları en fazla bu kadar beklenir
		return app.ShutdownWithTimeout(10 * time.Second)
	})
	return g.Wait()
}
