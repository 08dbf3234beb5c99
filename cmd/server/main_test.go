package main

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"depo-backend/internal/config"
	"depo-backend/internal/inventory"
	"depo-backend/internal/logger"
	"depo-backend/internal/reports"
	"depo-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &config.Config{
		StorageDriver: config.DriverFile,
		DataDir:       t.TempDir(),
		CORSOrigins:   "http://localhost:3000",
	}
	log := logger.Nop()

	store, err := openStore(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	inv := inventory.NewService(store, inventory.Options{Location: time.UTC, Logger: log})
	rep := reports.NewService(store, reports.Options{Location: time.UTC, Logger: log})
	return newApp(cfg, log, inv, rep)
}

func call(t *testing.T, app *fiber.App, method, url, body string, target any) int {
	t.Helper()
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	if target != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
	}
	return resp.StatusCode
}

func TestServerFlow(t *testing.T) {
	app := newTestServer(t)

	var added struct {
		Urun struct {
			ID string `json:"id"`
		} `json:"urun"`
	}
	require.Equal(t, fiber.StatusCreated, call(t, app, fiber.MethodPost, "/api/urun-ekle",
		`{"ad":"Kola","kategori":"İçecek","miktar":20}`, &added))

	for _, konum := range []string{"Bar", "Mutfak", "bar"} {
		status := call(t, app, fiber.MethodPost, "/api/transfer-olustur",
			`{"teslimEden":"Depo","teslimAlan":"Ali","hedefKonum":"`+konum+`","urunler":[{"id":"`+added.Urun.ID+`","miktar":2}]}`, nil)
		require.Equal(t, fiber.StatusCreated, status)
	}

	var overview struct {
		Report reports.Overview `json:"report"`
	}
	require.Equal(t, fiber.StatusOK, call(t, app, fiber.MethodGet, "/api/raporlar/genel", "", &overview))
	assert.Equal(t, 3, overview.Report.TotalTransfers)
	assert.Equal(t, 6.0, overview.Report.TotalItemsDelivered)
	assert.Equal(t, 4.0, overview.Report.DeliveredToBar)

	var breakdown struct {
		Report reports.LocationBreakdownReport `json:"report"`
	}
	require.Equal(t, fiber.StatusOK, call(t, app, fiber.MethodGet, "/api/raporlar/konum-urunleri", "", &breakdown))
	require.NotEmpty(t, breakdown.Report.Locations)
	assert.Equal(t, "Bar", breakdown.Report.Locations[0].Location)

	var products struct {
		Urunler []struct {
			Miktar float64 `json:"miktar"`
		} `json:"urunler"`
	}
	require.Equal(t, fiber.StatusOK, call(t, app, fiber.MethodGet, "/api/urunler", "", &products))
	require.Len(t, products.Urunler, 1)
	assert.Equal(t, 14.0, products.Urunler[0].Miktar)
}

func TestServerErrorEnvelope(t *testing.T) {
	app := newTestServer(t)

	var body map[string]string
	status := call(t, app, fiber.MethodGet, "/api/transferler/TR404", "", &body)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Transfer bulunamadı", body["error"])
}

func TestOpenStoreUsesFileDriver(t *testing.T) {
	store, err := openStore(&config.Config{StorageDriver: config.DriverFile, DataDir: t.TempDir()}, logger.Nop())
	require.NoError(t, err)
	_, ok := store.(*storage.FileStore)
	assert.True(t, ok)
}
