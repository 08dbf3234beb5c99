package inventory

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newHandlerApp(t *testing.T) *fiber.App {
	t.Helper()
	svc, _, _ := newTestService(t)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *fiber.Error
			if errors.As(err, &e) {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Beklenmeyen sunucu hatası"})
		},
	})
	api := app.Group("/api")
	api.Get("/urunler", ListProductsHandler(svc))
	api.Get("/urunler/xlsx", ExportProductsHandler(svc))
	api.Post("/urun-ekle", AddProductHandler(svc))
	api.Post("/stok-guncelle", IncreaseStockHandler(svc))
	api.Get("/stok-hareketleri", ListMovementsHandler(svc))
	api.Post("/transfer-olustur", CreateTransferHandler(svc))
	api.Get("/transferler", ListTransfersHandler(svc))
	api.Get("/transferler/:transferId", GetTransferHandler(svc))
	return app
}

func do(t *testing.T, app *fiber.App, method, url, body string) (int, map[string]json.RawMessage) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)

	out := map[string]json.RawMessage{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func errorMessage(t *testing.T, body map[string]json.RawMessage) string {
	t.Helper()
	var msg string
	require.NoError(t, json.Unmarshal(body["error"], &msg))
	return msg
}

func TestAddProductHandlerStatuses(t *testing.T) {
	app := newHandlerApp(t)

	status, body := do(t, app, fiber.MethodPost, "/api/urun-ekle", `{"ad":"Kola","kategori":"İçecek","miktar":"12"}`)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.JSONEq(t, `false`, string(body["guncellendi"]))

	status, body = do(t, app, fiber.MethodPost, "/api/urun-ekle", `{"ad":"kola","kategori":"içecek","miktar":3}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `true`, string(body["guncellendi"]))

	var urun struct {
		Miktar float64 `json:"miktar"`
	}
	require.NoError(t, json.Unmarshal(body["urun"], &urun))
	assert.Equal(t, 15.0, urun.Miktar)

	status, body = do(t, app, fiber.MethodPost, "/api/urun-ekle", `{"ad":"Kola","kategori":"İçecek","miktar":null}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Gerekli alanlar eksik", errorMessage(t, body))

	status, body = do(t, app, fiber.MethodPost, "/api/urun-ekle", `{"ad":"Kola","kategori":"İçecek","miktar":""}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Gerekli alanlar eksik", errorMessage(t, body))

	status, body = do(t, app, fiber.MethodPost, "/api/urun-ekle", `{"ad":"Kola","kategori":"İçecek","miktar":"  "}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Miktar pozitif bir sayı olmalıdır", errorMessage(t, body))

	status, body = do(t, app, fiber.MethodPost, "/api/urun-ekle", `{"ad":"Kola","kategori":"İçecek","miktar":"beş"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Miktar pozitif bir sayı olmalıdır", errorMessage(t, body))

	status, body = do(t, app, fiber.MethodPost, "/api/urun-ekle", `{bozuk`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Geçersiz veri", errorMessage(t, body))

	status, body = do(t, app, fiber.MethodGet, "/api/urunler", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `1`, string(body["toplam"]))

	status, body = do(t, app, fiber.MethodGet, "/api/stok-hareketleri", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `2`, string(body["toplam"]))
}

func TestStockAndTransferHandlers(t *testing.T) {
	app := newHandlerApp(t)

	_, body := do(t, app, fiber.MethodPost, "/api/urun-ekle", `{"ad":"Un","kategori":"Gıda","birim":"kg","miktar":5}`)
	var urun struct {
		ID     string `json:"id"`
		Barkod string `json:"barkod"`
	}
	require.NoError(t, json.Unmarshal(body["urun"], &urun))

	status, body := do(t, app, fiber.MethodPost, "/api/stok-guncelle", `{"urunId":"`+urun.Barkod+`","eklenenMiktar":"2.5","not":"tedarikçi"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body["mesaj"]), "Stok başarıyla güncellendi")

	status, body = do(t, app, fiber.MethodPost, "/api/stok-guncelle", `{"urunId":"yok","eklenenMiktar":1}`)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Ürün bulunamadı", errorMessage(t, body))

	status, body = do(t, app, fiber.MethodPost, "/api/transfer-olustur", `{
		"teslimEden": "Depo", "teslimAlan": "Mehmet", "hedefKonum": "Mutfak",
		"urunler": [{"id": "`+urun.ID+`", "miktar": 100}]
	}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Un ürünü için yeterli miktar bulunmuyor. Depodaki: 7.5", errorMessage(t, body))

	status, body = do(t, app, fiber.MethodPost, "/api/transfer-olustur", `{
		"teslimEden": "Depo", "teslimAlan": "Mehmet", "hedefKonum": "Mutfak",
		"urunler": [{"id": "`+urun.ID+`", "miktar": "1.5"}]
	}`)
	require.Equal(t, fiber.StatusCreated, status)

	var created struct {
		ID      string `json:"id"`
		Urunler []struct {
			Miktar      float64 `json:"miktar"`
			KalanMiktar float64 `json:"kalanMiktar"`
			Birim       string  `json:"birim"`
		} `json:"urunler"`
	}
	require.NoError(t, json.Unmarshal(body["transfer"], &created))
	require.Len(t, created.Urunler, 1)
	assert.Equal(t, 1.5, created.Urunler[0].Miktar)
	assert.Equal(t, 6.0, created.Urunler[0].KalanMiktar)
	assert.Equal(t, "kg", created.Urunler[0].Birim)

	status, body = do(t, app, fiber.MethodGet, "/api/transferler", "")
	assert.Equal(t, fiber.StatusOK, status)
	var list []json.RawMessage
	require.NoError(t, json.Unmarshal(body["transferler"], &list))
	assert.Len(t, list, 1)

	status, _ = do(t, app, fiber.MethodGet, "/api/transferler/"+created.ID, "")
	assert.Equal(t, fiber.StatusOK, status)

	status, body = do(t, app, fiber.MethodGet, "/api/transferler/TR0", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Transfer bulunamadı", errorMessage(t, body))
}

func TestCreateTransferHandlerValidation(t *testing.T) {
	app := newHandlerApp(t)

	status, body := do(t, app, fiber.MethodPost, "/api/transfer-olustur", `{"teslimEden":"Depo","teslimAlan":"Ali","hedefKonum":" "}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Teslim eden, teslim alan ve hedef konum alanları zorunludur", errorMessage(t, body))

	status, body = do(t, app, fiber.MethodPost, "/api/transfer-olustur", `{"teslimEden":"Depo","teslimAlan":"Ali","hedefKonum":"Bar","urunler":[]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Transfer için en az bir ürün seçilmelidir", errorMessage(t, body))

	status, body = do(t, app, fiber.MethodPost, "/api/transfer-olustur", `{"teslimEden":"Depo","teslimAlan":"Ali","hedefKonum":"Bar","urunler":[{"id":"P1","miktar":"x"}]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Geçersiz ürün miktarı gönderildi", errorMessage(t, body))
}

func TestExportProductsHandler(t *testing.T) {
	app := newHandlerApp(t)
	do(t, app, fiber.MethodPost, "/api/urun-ekle", `{"ad":"Kola","kategori":"İçecek","miktar":12}`)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/urunler/xlsx", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(productsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Barkod", rows[0][0])
	assert.Equal(t, "Kola", rows[1][1])
	assert.Equal(t, "12", rows[1][3])
	assert.Equal(t, "adet", rows[1][4])
}
