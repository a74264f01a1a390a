package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"countdown-backend/internal/config"
	"countdown-backend/internal/database"
	"countdown-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) (*fiber.App, *config.Config) {
	t.Helper()

	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	cfg := &config.Config{JWTSecret: "0123456789abcdef0123456789abcdef"}

	app := fiber.New()
	app.Post("/auth/register-admin", RegisterAdminHandler())
	app.Post("/auth/login", LoginHandler(cfg))

	protected := app.Group("", JWTMiddleware(cfg))
	protected.Get("/auth/me", MeHandler())
	protected.Post("/admin/users", RequireRole(models.RoleAdmin), CreateShopManagerHandler())

	return app, cfg
}

func doJSON(t *testing.T, app *fiber.App, method, path, token, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp := doJSON(t, app, "POST", "/auth/login", "", `{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Token string       `json:"token"`
		User  UserResponse `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func TestRegisterAdminOnlyOnce(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, "POST", "/auth/register-admin", "", `{"name":"Ayşe","email":" Admin@Shop.test ","password":"supersecret"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var user UserResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "admin@shop.test", user.Email)
	assert.Equal(t, models.RoleAdmin, user.Role)

	resp = doJSON(t, app, "POST", "/auth/register-admin", "", `{"name":"B","email":"b@shop.test","password":"supersecret"}`)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, "POST", "/auth/register-admin", "", `{"name":"","email":"a@b.c","password":"supersecret"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/auth/register-admin", "", `{"name":"A","email":"a@b.c","password":"short"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLoginAndMe(t *testing.T) {
	app, _ := setupApp(t)
	doJSON(t, app, "POST", "/auth/register-admin", "", `{"name":"Ayşe","email":"admin@shop.test","password":"supersecret"}`)

	resp := doJSON(t, app, "POST", "/auth/login", "", `{"email":"admin@shop.test","password":"wrong-password"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token := login(t, app, "admin@shop.test", "supersecret")

	resp = doJSON(t, app, "GET", "/auth/me", token, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var me UserResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	assert.Equal(t, "Ayşe", me.Name)
}

func TestMiddlewareRejects(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, "GET", "/auth/me", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/auth/me", "not-a-jwt", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	other, err := GenerateToken("another-secret-another-secret-xx", time.Hour, &models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	resp = doJSON(t, app, "GET", "/auth/me", other, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestShopManagerCannotCreateUsers(t *testing.T) {
	app, _ := setupApp(t)
	doJSON(t, app, "POST", "/auth/register-admin", "", `{"name":"Admin","email":"admin@shop.test","password":"supersecret"}`)
	adminToken := login(t, app, "admin@shop.test", "supersecret")

	resp := doJSON(t, app, "POST", "/admin/users", adminToken, `{"name":"Mehmet","email":"m@shop.test","password":"managerpass"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	managerToken := login(t, app, "m@shop.test", "managerpass")
	resp = doJSON(t, app, "POST", "/admin/users", managerToken, `{"name":"X","email":"x@shop.test","password":"xxxxxxxx"}`)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/admin/users", adminToken, `{"name":"Dup","email":"m@shop.test","password":"managerpass"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
