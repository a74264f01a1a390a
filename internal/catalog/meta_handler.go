package catalog

import (
	"errors"
	"strings"

	"countdown-backend/internal/audit"
	"countdown-backend/internal/auth"
	"countdown-backend/internal/countdown"
	"countdown-backend/internal/database"
	"countdown-backend/internal/host"
	"countdown-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

type TabResponse struct {
	Key    string     `json:"key"`
	Label  string     `json:"label"`
	Target string     `json:"target"`
	Panel  host.Panel `json:"panel"`
}

func loadProduct(c *fiber.Ctx) (models.Product, error) {
	var p models.Product
	if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
		return p, fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
	}
	return p, nil
}

// formValues - gönderilen alanları okur; gönderilmeyen checkbox map'te yer almaz.
// JSON gövdede false/null checkbox gönderilmemiş sayılır.
func formValues(c *fiber.Ctx) (host.FormValues, error) {
	out := host.FormValues{}
	ct := strings.ToLower(string(c.Request().Header.ContentType()))

	switch {
	case strings.HasPrefix(ct, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		for k, vs := range form.Value {
			if len(vs) > 0 {
				out[k] = vs[0]
			}
		}

	case strings.HasPrefix(ct, fiber.MIMEApplicationJSON):
		var body map[string]interface{}
		if err := c.BodyParser(&body); err != nil {
			return nil, err
		}
		for k, v := range body {
			if v == nil {
				continue
			}
			if b, ok := v.(bool); ok && !b {
				continue
			}
			out[k] = cast.ToString(v)
		}

	default:
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			out[string(k)] = string(v)
		})
	}
	return out, nil
}

// GET /api/admin/products/:id/tabs
func ProductTabsHandler(reg *host.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := loadProduct(c)
		if err != nil {
			return err
		}

		tabs := reg.Tabs()
		res := make([]TabResponse, 0, len(tabs))
		for _, tab := range tabs {
			panel, err := tab.Panel(c.UserContext(), p.ID)
			if err != nil {
				zap.L().Error("product tab panel", zap.String("tab", tab.Key), zap.Uint("product_id", p.ID), zap.Error(err))
				return fiber.NewError(fiber.StatusInternalServerError, "Ayarlar okunamadı")
			}
			res = append(res, TabResponse{Key: tab.Key, Label: tab.Label, Target: tab.Target, Panel: panel})
		}
		return c.JSON(res)
	}
}

// POST /api/admin/products/:id/meta - ürün kaydedilince kayıtlı save hook'ları çalıştırır
func SaveProductMetaHandler(reg *host.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := loadProduct(c)
		if err != nil {
			return err
		}

		form, err := formValues(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz form verisi")
		}

		ctx := c.UserContext()
		if userID, userName, ok := auth.CurrentUser(c); ok {
			ctx = audit.WithActor(ctx, audit.Actor{ID: userID, Name: userName})
		}

		if err := reg.Save(ctx, p.ID, form); err != nil {
			if errors.Is(err, countdown.ErrInvalidTimestamp) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			zap.L().Error("product meta save", zap.Uint("product_id", p.ID), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Ayarlar kaydedilemedi")
		}

		return c.JSON(fiber.Map{
			"message": "Ayarlar kaydedildi",
			"id":      p.ID,
		})
	}
}
