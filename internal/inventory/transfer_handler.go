package inventory

import (
	"github.com/gofiber/fiber/v2"
)

// POST /api/transfer-olustur
func CreateTransferHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTransferInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		transfer, err := svc.CreateTransfer(c.UserContext(), body)
		if err != nil {
			return respondError(svc, err, "Transfer oluşturulurken bir hata oluştu")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"mesaj":    "Transfer başarıyla oluşturuldu",
			"transfer": transfer,
		})
	}
}

// GET /api/transferler
func ListTransfersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"transferler": svc.ListTransfers(c.UserContext())})
	}
}

// GET /api/transferler/:transferId
// Parametre yoksa ?id= ya da ?transferId= okunur
func GetTransferHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("transferId")
		if id == "" {
			id = c.Query("id", c.Query("transferId"))
		}

		transfer, err := svc.GetTransfer(c.UserContext(), id)
		if err != nil {
			return respondError(svc, err, "Transfer bilgisi alınırken bir hata oluştu")
		}
		return c.JSON(fiber.Map{"transfer": transfer})
	}
}
