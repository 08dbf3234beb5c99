package inventory

import (
	"bytes"

	"depo-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

const productsSheet = "Ürünler"

// ProductsWorkbook: depodaki ürünlerin stok listesi
func ProductsWorkbook(products []models.Product) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", productsSheet); err != nil {
		f.Close()
		return nil, err
	}

	header := []any{"Barkod", "Ürün", "Kategori", "Miktar", "Birim", "Son Güncelleme"}
	if err := f.SetSheetRow(productsSheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}
	for i, p := range products {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := []any{p.Barkod, p.Ad, p.Kategori, p.Miktar, p.UnitOrDefault(), p.GuncellemeTarihi}
		if err := f.SetSheetRow(productsSheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := f.SetColWidth(productsSheet, "A", "F", 18); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// GET /api/urunler/xlsx
func ExportProductsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		products, err := svc.ListProducts(c.UserContext())
		if err != nil {
			return respondError(svc, err, "Ürünler yüklenirken bir hata oluştu")
		}

		f, err := ProductsWorkbook(products)
		if err != nil {
			return respondError(svc, err, "Ürün listesi hazırlanamadı")
		}
		defer f.Close()

		var buf bytes.Buffer
		if err := f.Write(&buf); err != nil {
			return respondError(svc, err, "Ürün listesi hazırlanamadı")
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="urunler.xlsx"`)
		return c.Send(buf.Bytes())
	}
}
