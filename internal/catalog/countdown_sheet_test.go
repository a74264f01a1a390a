package catalog

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"countdown-backend/internal/countdown"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sheetBytes(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, axis, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func upload(t *testing.T, app *fiber.App, filename string, data []byte) (int, map[string]interface{}) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/admin/countdowns/import", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)

	out := map[string]interface{}{}
	b, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(b, &out)
	return resp.StatusCode, out
}

func TestNormalizeTurkish(t *testing.T) {
	assert.Equal(t, "cikolatali kek", normalizeTurkish("  ÇİKOLATALI   Kek "))
	assert.Equal(t, "hayir", normalizeTurkish("Hayır"))
}

func TestImportCountdowns(t *testing.T) {
	app := setupApp(t)
	createProduct(t, app, `{"name":"Çikolatalı Kek"}`)
	createProduct(t, app, `{"name":"Kettle","sku":"K-1"}`)

	data := sheetBytes(t, [][]interface{}{
		{"Ürün", "SKU", "Bitiş Tarihi", "Saat", "Başlık", "Aktif"},
		{"ÇİKOLATALI KEK", "", "2026-12-01", "10:00", "Son gün"},
		{"", "k-1", "2026-11-20", "", "", "hayır"},
		{"Bilinmeyen", "", "2026-12-01"},
	})

	status, body := upload(t, app, "countdowns.xlsx", data)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 2, body["saved_count"])
	assert.Equal(t, []interface{}{"Bilinmeyen"}, body["unmatched_products"])

	fields := tabFields(t, app, "1")
	assert.Equal(t, countdown.Yes, fields[countdown.KeyEnabled])
	assert.Equal(t, "2026-12-01", fields[countdown.KeyEndDate])
	assert.Equal(t, "Son gün", fields[countdown.KeyHeading])

	fields = tabFields(t, app, "2")
	assert.Equal(t, countdown.No, fields[countdown.KeyEnabled])
	assert.Equal(t, "2026-11-20", fields[countdown.KeyEndDate])
}

func TestImportRejectsNonXLSX(t *testing.T) {
	app := setupApp(t)

	status, _ := upload(t, app, "countdowns.csv", []byte("a,b"))
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestExportCountdowns(t *testing.T) {
	app := setupApp(t)
	createProduct(t, app, `{"name":"Kettle","sku":"K-1"}`)

	resp := do(t, app, "POST", "/admin/products/1/meta", fiber.MIMEApplicationForm, "_enable_timer=yes&_valid_for_date=2026-12-01&_valid_for_date_time=10:00")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = do(t, app, "GET", "/admin/countdowns/export", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Kettle", "K-1", "2026-12-01", "10:00", "", "evet"}, rows[1])
}
