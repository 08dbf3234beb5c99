package inventory

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// respondError: servis hatasını fiber hatasına çevirir. Beklenmeyen hatalar
// loglanır ve fallback mesajı ile 500 döner.
func respondError(svc *Service, err error, fallback string) error {
	var e *Error
	if errors.As(err, &e) {
		return fiber.NewError(e.Status(), e.Message)
	}
	svc.log.Errorw(fallback, "error", err)
	return fiber.NewError(fiber.StatusInternalServerError, fallback)
}

// GET /api/urunler
func ListProductsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		products, err := svc.ListProducts(c.UserContext())
		if err != nil {
			return respondError(svc, err, "Ürünler yüklenirken bir hata oluştu")
		}
		return c.JSON(fiber.Map{
			"urunler": products,
			"toplam":  len(products),
		})
	}
}

// POST /api/urun-ekle
// Aynı ad/kategori/birimde ürün varsa stoğu arttırılır (200), yoksa yeni ürün açılır (201)
func AddProductHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AddProductInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		res, err := svc.AddProduct(c.UserContext(), body)
		if err != nil {
			return respondError(svc, err, "Ürün eklenirken bir hata oluştu")
		}

		if res.Updated {
			return c.JSON(fiber.Map{
				"mesaj":       "Mevcut ürün stoğu güncellendi",
				"urun":        res.Product,
				"guncellendi": true,
			})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"mesaj":       "Ürün başarıyla eklendi",
			"urun":        res.Product,
			"guncellendi": false,
		})
	}
}
