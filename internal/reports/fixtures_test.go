package reports

import (
	"context"
	"errors"

	"depo-backend/internal/models"
)

func line(id, name, category string, qty float64) models.TransferItem {
	return models.TransferItem{
		ID:       models.Text(id),
		Ad:       models.Text(name),
		Kategori: models.Text(category),
		Miktar:   models.NewQuantity(qty),
	}
}

func transfer(id, location, createdAt string, items ...models.TransferItem) models.Transfer {
	return models.Transfer{
		ID:              models.Text(id),
		TeslimEden:      "Depo",
		TeslimAlan:      "Ali",
		HedefKonum:      models.Text(location),
		OlusturmaTarihi: models.Text(createdAt),
		Urunler:         items,
	}
}

// sampleLog: farklı yazılmış konumlar, geçersiz tarih, geçersiz miktar ve
// kimliksiz kalem içeren küçük bir günlük
func sampleLog() []models.Transfer {
	invalid := models.TransferItem{ID: "P4", Ad: "Buz"}
	return []models.Transfer{
		transfer("T1", "Bar", "2024-01-01T10:00:00.000Z",
			line("P1", "Kola", "İçecek", 10),
			line("P2", "Su", "İçecek", 4),
		),
		transfer("T2", "Mutfak", "2024-01-02T09:00:00.000Z",
			line("P3", "Un", "Gıda", 25.5),
		),
		transfer("T3", "bar", "2024-01-05T10:00:00.000Z",
			line("P1", "Kola", "İçecek", 5),
		),
		transfer("T4", "Teras", "geçersiz",
			line("P2", "Su", "İçecek", 1),
			invalid,
		),
		transfer("T5", "", "2024-01-03T12:00:00.000Z",
			line("", "Limon", "Meyve", 2),
		),
	}
}

func kolaLog() []models.Transfer {
	return []models.Transfer{
		transfer("TR1", "Bar", "2024-01-01T10:00:00Z", line("P1", "Kola", "İçecek", 10)),
		transfer("TR2", "Bar", "2024-01-05T10:00:00Z", line("P1", "Kola", "İçecek", 5)),
	}
}

type stubSource struct {
	transfers []models.Transfer
	err       error
	calls     int
}

func (s *stubSource) ListTransfers(ctx context.Context) ([]models.Transfer, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.transfers, nil
}

var errStorage = errors.New("disk okunamadı")
