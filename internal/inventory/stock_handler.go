package inventory

import (
	"github.com/gofiber/fiber/v2"
)

// POST /api/stok-guncelle
func IncreaseStockHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body IncreaseStockInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		product, err := svc.IncreaseStock(c.UserContext(), body)
		if err != nil {
			return respondError(svc, err, "Stok güncellenirken bir hata oluştu")
		}

		return c.JSON(fiber.Map{
			"mesaj": "Stok başarıyla güncellendi",
			"urun":  product,
		})
	}
}

// GET /api/stok-hareketleri
func ListMovementsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		movements, err := svc.ListMovements(c.UserContext())
		if err != nil {
			return respondError(svc, err, "Stok hareketleri yüklenirken bir hata oluştu")
		}
		return c.JSON(fiber.Map{
			"hareketler": movements,
			"toplam":     len(movements),
		})
	}
}
