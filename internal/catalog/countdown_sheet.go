package catalog

import (
	"fmt"
	"strings"

	"countdown-backend/internal/audit"
	"countdown-backend/internal/auth"
	"countdown-backend/internal/countdown"
	"countdown-backend/internal/database"
	"countdown-backend/internal/host"
	"countdown-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const sheetName = "Countdowns"

var sheetHeader = []interface{}{"Ürün", "SKU", "Bitiş Tarihi", "Saat", "Başlık", "Aktif"}

// normalizeTurkish - Türkçe karakterleri ASCII karşılıklarına çevirip küçültür
// Örn: "ÇİKOLATALI KEK" -> "cikolatali kek"
func normalizeTurkish(s string) string {
	replacements := map[rune]string{
		'ç': "c", 'Ç': "C",
		'ğ': "g", 'Ğ': "G",
		'ı': "i", 'İ': "I",
		'ö': "o", 'Ö': "O",
		'ş': "s", 'Ş': "S",
		'ü': "u", 'Ü': "U",
	}

	var result strings.Builder
	for _, r := range s {
		if replacement, ok := replacements[r]; ok {
			result.WriteString(replacement)
		} else {
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(strings.ToLower(result.String())), " ")
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToUpper(strings.TrimSpace(row[0]))
	return strings.Contains(first, "ÜRÜN") || strings.Contains(first, "PRODUCT")
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// enabledCell - "Aktif" kolonu yoksa ya da boşsa sayaç açık kabul edilir
func enabledCell(v string) bool {
	switch normalizeTurkish(v) {
	case "no", "hayir", "0", "false", "off", "-":
		return false
	}
	return true
}

func matchProduct(products []models.Product, name, sku string) (models.Product, bool) {
	if sku != "" {
		for _, p := range products {
			if p.SKU != "" && strings.EqualFold(p.SKU, sku) {
				return p, true
			}
		}
	}
	n := normalizeTurkish(name)
	if n == "" {
		return models.Product{}, false
	}
	for _, p := range products {
		if normalizeTurkish(p.Name) == n {
			return p, true
		}
	}
	return models.Product{}, false
}

// POST /api/admin/products/countdowns/import
// XLSX: Ürün | SKU | Bitiş Tarihi | Saat | Başlık | Aktif. Her satır ürün kaydetme akışından geçer.
func ImportCountdownsHandler(reg *host.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenemedi: "+err.Error())
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece .xlsx dosyaları yüklenebilir")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya açılamadı: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası okunamadı: "+err.Error())
		}
		defer excelFile.Close()

		sheets := excelFile.GetSheetList()
		if len(sheets) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyasında sheet bulunamadı")
		}
		rows, err := excelFile.GetRows(sheets[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Sheet okunamadı: "+err.Error())
		}
		if len(rows) > 0 && isHeaderRow(rows[0]) {
			rows = rows[1:]
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası boş")
		}

		var products []models.Product
		if err := database.DB.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler okunamadı")
		}

		ctx := c.UserContext()
		if userID, userName, ok := auth.CurrentUser(c); ok {
			ctx = audit.WithActor(ctx, audit.Actor{ID: userID, Name: userName})
		}

		savedCount := 0
		unmatched := make([]string, 0)
		failed := make([]string, 0)

		for _, row := range rows {
			name, sku := cell(row, 0), cell(row, 1)
			if name == "" && sku == "" {
				continue
			}

			p, ok := matchProduct(products, name, sku)
			if !ok {
				unmatched = append(unmatched, strings.TrimSpace(name+" "+sku))
				continue
			}

			form := host.FormValues{
				countdown.KeyEndDate: cell(row, 2),
				countdown.KeyEndTime: cell(row, 3),
				countdown.KeyHeading: cell(row, 4),
			}
			if enabledCell(cell(row, 5)) {
				form[countdown.KeyEnabled] = countdown.Yes
			}

			if err := reg.Save(ctx, p.ID, form); err != nil {
				zap.L().Warn("countdown import row", zap.Uint("product_id", p.ID), zap.Error(err))
				failed = append(failed, p.Name)
				continue
			}
			savedCount++
		}

		return c.JSON(fiber.Map{
			"success":            true,
			"saved_count":        savedCount,
			"unmatched_products": unmatched,
			"failed_products":    failed,
			"message":            fmt.Sprintf("%d ürünün sayacı kaydedildi. %d ürün eşleşmedi.", savedCount, len(unmatched)),
		})
	}
}

// GET /api/admin/products/countdowns/export - import ile aynı kolonlar
func ExportCountdownsHandler(m *countdown.Module) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler okunamadı")
		}

		f := excelize.NewFile()
		defer f.Close()

		if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, "A1", &sheetHeader); err != nil {
			return err
		}

		for i, p := range products {
			cfg, err := m.Adapter().Load(c.UserContext(), p.ID)
			if err != nil {
				zap.L().Error("countdown export", zap.Uint("product_id", p.ID), zap.Error(err))
				return fiber.NewError(fiber.StatusInternalServerError, "Sayaç ayarları okunamadı")
			}

			active := "hayır"
			if cfg.Enabled == countdown.Yes {
				active = "evet"
			}
			row := []interface{}{p.Name, p.SKU, cfg.EndDate, cfg.EndTime, cfg.HeadingText, active}
			axis, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheetName, axis, &row); err != nil {
				return err
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Attachment("countdowns.xlsx")
		return c.Send(buf.Bytes())
	}
}
