package countdown

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func productIDParam(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün ID")
	}
	return uint(id), nil
}

// GET /api/products/:id/countdown
func StatusHandler(m *Module) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := productIDParam(c)
		if err != nil {
			return err
		}

		status, err := m.Status(c.UserContext(), id)
		if err != nil {
			zap.L().Error("countdown status", zap.Uint("product_id", id), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Geri sayım okunamadı")
		}
		return c.JSON(status)
	}
}

// GET /api/products/:id/countdown/stream (text/event-stream)
// Akış sayaç bitince, istemci bağlantıyı kapatınca ya da ctx (sunucu kapanışı) bitince sona erer.
func StreamHandler(ctx context.Context, m *Module, interval time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := productIDParam(c)
		if err != nil {
			return err
		}

		cfg, err := m.adapter.Load(c.UserContext(), id)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Geri sayım okunamadı")
		}
		if !cfg.Active() {
			return fiber.NewError(fiber.StatusNotFound, "Bu ürün için aktif geri sayım yok")
		}

		target := ParseTarget(cfg.EndDate, cfg.EndTime, m.location)
		timer := NewTimer(target)

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")

		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			show := func(f Frame) error {
				return writeEvent(w, newStatus(cfg, target, f))
			}

			first := timer.Tick(m.now())
			if err := show(first); err != nil || first.State == Expired {
				return
			}

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			last, err := timer.Run(ctx, ticker.C, show)
			if err != nil {
				zap.L().Debug("countdown stream closed", zap.Uint("product_id", id), zap.Error(err))
				return
			}
			zap.L().Debug("countdown stream finished", zap.Uint("product_id", id), zap.Stringer("state", last.State))
		})
		return nil
	}
}

func writeEvent(w *bufio.Writer, s Status) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", s.State, data); err != nil {
		return err
	}
	return w.Flush()
}
