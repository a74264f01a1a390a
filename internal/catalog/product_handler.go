package catalog

import (
	"fmt"
	"strings"

	"countdown-backend/internal/audit"
	"countdown-backend/internal/auth"
	"countdown-backend/internal/database"
	"countdown-backend/internal/metastore"
	"countdown-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProductResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	SKU         string  `json:"sku"` // Opsiyonel
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	SKU         *string  `json:"sku"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Price:       p.Price,
		Description: p.Description,
	}
}

func writeAudit(c *fiber.Ctx, action models.AuditAction, id uint, desc string, before, after any) {
	userID, userName, _ := auth.CurrentUser(c)
	err := audit.WriteLog(audit.LogOptions{
		UserID:      userID,
		UserName:    userName,
		EntityType:  audit.EntityProduct,
		EntityID:    id,
		Action:      action,
		Description: desc,
		Before:      before,
		After:       after,
	})
	if err != nil {
		zap.L().Error("product audit log", zap.Uint("product_id", id), zap.Error(err))
	}
}

func skuTaken(sku string, exceptID uint) bool {
	if sku == "" {
		return false
	}
	var count int64
	database.DB.Model(&models.Product{}).Where("sku = ? AND id <> ?", sku, exceptID).Count(&count)
	return count > 0
}

// GET /api/products?q=...
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Product{})
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			dbq = dbq.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
		}

		var products []models.Product
		if err := dbq.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, toProductResponse(p))
		}
		return c.JSON(res)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Product
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		return c.JSON(toProductResponse(p))
	}
}

// POST /api/admin/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.SKU = strings.TrimSpace(body.SKU)

		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün adı zorunlu")
		}
		if body.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Fiyat negatif olamaz")
		}
		if skuTaken(body.SKU, 0) {
			return fiber.NewError(fiber.StatusBadRequest, "Bu SKU zaten kullanılıyor")
		}

		p := models.Product{
			Name:        body.Name,
			SKU:         body.SKU,
			Price:       body.Price,
			Description: body.Description,
		}
		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		writeAudit(c, models.AuditActionCreate, p.ID, fmt.Sprintf("Ürün oluşturuldu: %s", p.Name), nil, p)
		return c.Status(fiber.StatusCreated).JSON(toProductResponse(p))
	}
}

// PUT /api/admin/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Product
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		before := p

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Ürün adı boş olamaz")
			}
			p.Name = name
		}
		if body.SKU != nil {
			sku := strings.TrimSpace(*body.SKU)
			if skuTaken(sku, p.ID) {
				return fiber.NewError(fiber.StatusBadRequest, "Bu SKU zaten kullanılıyor")
			}
			p.SKU = sku
		}
		if body.Price != nil {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Fiyat negatif olamaz")
			}
			p.Price = *body.Price
		}
		if body.Description != nil {
			p.Description = *body.Description
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		writeAudit(c, models.AuditActionUpdate, p.ID, fmt.Sprintf("Ürün güncellendi: %s", p.Name), before, p)
		return c.JSON(toProductResponse(p))
	}
}

// DELETE /api/admin/products/:id - ürünün meta kayıtları da silinir
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Product
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		if err := database.DB.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}
		if err := metastore.NewGormStore(database.DB).DeleteRecord(c.UserContext(), p.ID); err != nil {
			zap.L().Warn("product meta cleanup", zap.Uint("product_id", p.ID), zap.Error(err))
		}

		writeAudit(c, models.AuditActionDelete, p.ID, fmt.Sprintf("Ürün silindi: %s", p.Name), p, nil)
		return c.SendStatus(fiber.StatusNoContent)
	}
}
