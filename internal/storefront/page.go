// Package storefront - public ürün sayfası, host'a kayıtlı özet blokları ve stylesheet'lerle
package storefront

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"countdown-backend/internal/database"
	"countdown-backend/internal/host"
	"countdown-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"go.uber.org/zap"
)

//go:embed templates/product.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/product.html.tmpl"))

type pageData struct {
	ID          uint
	Name        string
	Price       string
	Description string
	Styles      []host.Style
	Summary     template.HTML
}

// MountAssets - eklenen her stylesheet ağacını kendi prefix'i altında sunar
func MountAssets(app fiber.Router, reg *host.Registry) {
	for _, s := range reg.Styles() {
		if s.Files == nil {
			continue
		}
		app.Use(s.Prefix, filesystem.New(filesystem.Config{
			Root:   http.FS(s.Files),
			MaxAge: 3600,
		}))
	}
}

// GET /products/:id
func ProductPageHandler(reg *host.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Product
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		summary, err := reg.RenderSummary(c.UserContext(), p.ID)
		if err != nil {
			zap.L().Error("product summary", zap.Uint("product_id", p.ID), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün sayfası oluşturulamadı")
		}

		var buf bytes.Buffer
		err = pageTemplate.Execute(&buf, pageData{
			ID:          p.ID,
			Name:        p.Name,
			Price:       fmt.Sprintf("%.2f", p.Price),
			Description: p.Description,
			Styles:      reg.Styles(),
			Summary:     summary,
		})
		if err != nil {
			zap.L().Error("product page template", zap.Uint("product_id", p.ID), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün sayfası oluşturulamadı")
		}

		c.Type("html", "utf-8")
		return c.Send(buf.Bytes())
	}
}
