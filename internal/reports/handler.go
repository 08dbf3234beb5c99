package reports

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GET /api/raporlar/genel
func OverviewHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"report": svc.Overview(c.UserContext())})
	}
}

// GET /api/raporlar/konumlar
func LocationTotalsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"report": svc.LocationTotals(c.UserContext())})
	}
}

// GET /api/raporlar/kategoriler
func CategoryTotalsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"report": svc.CategoryTotals(c.UserContext())})
	}
}

// GET /api/raporlar/en-cok-gonderilenler?limit=5
// Geçersiz ya da pozitif olmayan limit varsayılana döner
func TopProductsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"report": svc.TopProducts(c.UserContext(), parseLimit(c.Query("limit")))})
	}
}

func parseLimit(raw string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	if v < 1 {
		return 1
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

// GET /api/raporlar/konum-urunleri?konum=bar,mutfak
// konum parametresi yoksa varsayılan hedefler, boş verilirse tüm konumlar
func LocationBreakdownHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var targets []string
		if c.Context().QueryArgs().Has("konum") {
			targets = []string{}
			for _, part := range strings.Split(c.Query("konum"), ",") {
				if part = strings.TrimSpace(part); part != "" {
					targets = append(targets, part)
				}
			}
		}
		return c.JSON(fiber.Map{"report": svc.LocationProductBreakdown(c.UserContext(), targets)})
	}
}

// GET /api/raporlar/service-hizi
func ServiceSpeedHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"report": svc.ServiceSpeed(c.UserContext())})
	}
}

// GET /api/raporlar/retro-analiz?start=2025-01-01&end=2025-01-31
// Çözülemeyen tarih parametreleri yok sayılır
func RetroAnalysisHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report := svc.RetroAnalysis(c.UserContext(), retroFilterFromQuery(c))
		return c.JSON(fiber.Map{"report": report})
	}
}

// GET /api/raporlar/retro-analiz/xlsx?start=&end=
func RetroAnalysisExportHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report := svc.RetroAnalysis(c.UserContext(), retroFilterFromQuery(c))

		f, err := RetroWorkbook(report)
		if err != nil {
			return fmt.Errorf("retro analiz tablosu hazırlanamadı: %w", err)
		}
		defer f.Close()

		var buf bytes.Buffer
		if err := f.Write(&buf); err != nil {
			return fmt.Errorf("retro analiz tablosu yazılamadı: %w", err)
		}

		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="retro-analiz.xlsx"`)
		return c.Send(buf.Bytes())
	}
}

func retroFilterFromQuery(c *fiber.Ctx) RetroFilter {
	return RetroFilter{
		StartDate: strings.TrimSpace(c.Query("start")),
		EndDate:   strings.TrimSpace(c.Query("end")),
	}
}
