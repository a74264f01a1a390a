package auth

import (
	"strings"

	"countdown-backend/internal/config"
	"countdown-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserNameKey = "user_name"
	CtxUserRoleKey = "user_role"
)

func bearerToken(c *fiber.Ctx) (string, error) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Authorization header eksik")
	}

	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Authorization formatı 'Bearer <token>' olmalı")
	}
	return token, nil
}

// JWTMiddleware - admin isteklerinde kullanıcıyı token'dan okur
func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := bearerToken(c)
		if err != nil {
			return err
		}

		claims, err := ParseToken(cfg.JWTSecret, raw)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Geçersiz veya süresi dolmuş token")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserNameKey, claims.Name)
		c.Locals(CtxUserRoleKey, claims.Role)
		return c.Next()
	}
}

// RequireRole - ürün ayarlarını admin ve mağaza yöneticisi düzenler, kullanıcı eklemek sadece admin
func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Bu işlem için yetkiniz yok")
	}
}

// CurrentUser - JWTMiddleware'in bıraktığı kullanıcı; audit log aktörü buradan gelir
func CurrentUser(c *fiber.Ctx) (id uint, name string, ok bool) {
	id, ok = c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return 0, "", false
	}
	name, _ = c.Locals(CtxUserNameKey).(string)
	return id, name, true
}
