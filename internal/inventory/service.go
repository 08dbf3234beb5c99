package inventory

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"time"

	"depo-backend/internal/logger"
	"depo-backend/internal/models"
	"depo-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	barcodePrefix = "BRK"
	barcodeDigits = 10
	sourceAddForm = "urun-ekle"
)

type Options struct {
	Location *time.Location // transfer tarihlerinin sıralanmasında
	Logger   *logger.Logger
	Now      func() time.Time
}

// Service: ürün, stok ve transfer işlemleri. Her yazma işlemi tek bir
// storage.Update içinde ya tamamen uygulanır ya da hiç uygulanmaz.
type Service struct {
	store storage.Store
	loc   *time.Location
	log   *logger.Logger
	now   func() time.Time
}

func NewService(store storage.Store, opts Options) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store: store,
		loc:   loc,
		log:   logger.OrNop(opts.Logger).WithComponent("inventory"),
		now:   now,
	}
}

type AddProductInput struct {
	Ad       models.Text      `json:"ad"`
	Kategori models.Text      `json:"kategori"`
	Birim    models.Text      `json:"birim"`
	Miktar   *models.Quantity `json:"miktar"`
}

type AddProductResult struct {
	Product models.Product
	Updated bool // mevcut ürünün stoğu arttırıldı
}

type IncreaseStockInput struct {
	UrunID        models.Text     `json:"urunId"` // id veya barkod
	EklenenMiktar models.Quantity `json:"eklenenMiktar"`
	Not           models.Text     `json:"not"`
}

type TransferLineInput struct {
	ID     models.Text     `json:"id"`
	Miktar models.Quantity `json:"miktar"`
}

type CreateTransferInput struct {
	TeslimEden models.Text         `json:"teslimEden"`
	TeslimAlan models.Text         `json:"teslimAlan"`
	HedefKonum models.Text         `json:"hedefKonum"`
	Aciklama   models.Text         `json:"aciklama"`
	Urunler    []TransferLineInput `json:"urunler"`
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (s *Service) ListMovements(ctx context.Context) ([]models.StockMovement, error) {
	movements, err := s.store.ListMovements(ctx)
	if err != nil {
		return nil, err
	}
	if movements == nil {
		movements = []models.StockMovement{}
	}
	return movements, nil
}

// AddProduct: aynı ad + kategori (Türkçe normalize) ve aynı birimde ürün varsa
// stoğu arttırır, yoksa yeni ürün ve barkod oluşturur.
func (s *Service) AddProduct(ctx context.Context, in AddProductInput) (AddProductResult, error) {
	name := in.Ad.Trimmed()
	category := in.Kategori.Trimmed()
	if name == "" || category == "" || in.Miktar == nil || in.Miktar.Blank {
		return AddProductResult{}, failf(ErrValidation, "Gerekli alanlar eksik")
	}
	if !in.Miktar.Valid || in.Miktar.Amount <= 0 {
		return AddProductResult{}, failf(ErrValidation, "Miktar pozitif bir sayı olmalıdır")
	}
	amount := in.Miktar.Amount

	unit := in.Birim.Trimmed()
	if unit == "" {
		unit = models.DefaultUnit
	}
	nameKey, categoryKey := normalizeText(name), normalizeText(category)

	var result AddProductResult
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		products, err := tx.ListProducts()
		if err != nil {
			return err
		}
		now := s.now()
		stamp := models.FormatTimestamp(now)

		for i := range products {
			p := products[i]
			if normalizeText(p.Ad) != nameKey || normalizeText(p.Kategori) != categoryKey || p.UnitOrDefault() != unit {
				continue
			}

			// tx.ListProducts hareketleri içermeyebilir, güncel kaydı tekrar al
			current, err := tx.ProductByID(p.ID)
			if err != nil {
				return err
			}
			previous := current.Miktar
			current.Miktar = round2(previous + amount)
			current.GuncellemeTarihi = stamp

			movement := models.StockMovement{
				ID:           uuid.NewString(),
				UrunID:       current.ID,
				Tur:          models.MovementProductAdded,
				Miktar:       amount,
				OncekiMiktar: previous,
				YeniMiktar:   current.Miktar,
				Aciklama:     "Ürün ekleme formu üzerinden stok arttırma",
				Tarih:        stamp,
				Barkod:       current.Barkod,
				Ad:           current.Ad,
				Kategori:     current.Kategori,
				Birim:        current.UnitOrDefault(),
				Kaynak:       sourceAddForm,
			}
			current.Hareketler = append(current.Hareketler, movement)

			if err := tx.SaveProduct(current); err != nil {
				return err
			}
			if err := tx.AppendMovement(&movement); err != nil {
				return err
			}
			result = AddProductResult{Product: *current, Updated: true}
			return nil
		}

		ids := make(map[string]struct{}, len(products))
		barcodes := make(map[string]struct{}, len(products))
		for _, p := range products {
			ids[p.ID] = struct{}{}
			if p.Barkod != "" {
				barcodes[p.Barkod] = struct{}{}
			}
		}

		product := models.Product{
			ID:               newProductID(now, ids),
			Ad:               name,
			Barkod:           generateBarcode(barcodes),
			Kategori:         category,
			Miktar:           round2(amount),
			Birim:            unit,
			OlusturmaTarihi:  stamp,
			GuncellemeTarihi: stamp,
		}
		movement := models.StockMovement{
			ID:           uuid.NewString(),
			UrunID:       product.ID,
			Tur:          models.MovementProductAdded,
			Miktar:       amount,
			OncekiMiktar: 0,
			YeniMiktar:   product.Miktar,
			Aciklama:     "Yeni ürün girişi",
			Tarih:        stamp,
			Barkod:       product.Barkod,
			Ad:           product.Ad,
			Kategori:     product.Kategori,
			Birim:        product.Birim,
			Kaynak:       sourceAddForm,
		}
		product.Hareketler = []models.StockMovement{movement}

		if err := tx.CreateProduct(&product); err != nil {
			return err
		}
		if err := tx.AppendMovement(&movement); err != nil {
			return err
		}
		result = AddProductResult{Product: product}
		return nil
	})
	if err != nil {
		return AddProductResult{}, err
	}

	s.log.Infow("Ürün girişi yapıldı",
		"urun_id", result.Product.ID,
		"miktar", amount,
		"guncellendi", result.Updated,
	)
	return result, nil
}

// IncreaseStock: id veya barkod ile bulunan ürünün stoğunu arttırır
func (s *Service) IncreaseStock(ctx context.Context, in IncreaseStockInput) (models.Product, error) {
	ref := in.UrunID.Trimmed()
	if ref == "" {
		return models.Product{}, failf(ErrValidation, "Güncellenecek ürün belirtilmedi")
	}
	if !in.EklenenMiktar.Valid || in.EklenenMiktar.Amount <= 0 {
		return models.Product{}, failf(ErrValidation, "Eklenen miktar pozitif bir sayı olmalıdır")
	}
	amount := in.EklenenMiktar.Amount

	var updated models.Product
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		p, err := tx.ProductByRef(ref)
		if errors.Is(err, storage.ErrNotFound) {
			return failf(ErrNotFound, "Ürün bulunamadı")
		}
		if err != nil {
			return err
		}

		stamp := models.FormatTimestamp(s.now())
		previous := p.Miktar
		p.Miktar = round2(previous + amount)
		p.GuncellemeTarihi = stamp

		movement := models.StockMovement{
			ID:           uuid.NewString(),
			UrunID:       p.ID,
			Tur:          models.MovementStockIncrease,
			Miktar:       amount,
			OncekiMiktar: previous,
			YeniMiktar:   p.Miktar,
			Aciklama:     in.Not.String(),
			Tarih:        stamp,
			Barkod:       p.Barkod,
			Ad:           p.Ad,
			Kategori:     p.Kategori,
		}
		p.Hareketler = append(p.Hareketler, movement)

		if err := tx.SaveProduct(p); err != nil {
			return err
		}
		if err := tx.AppendMovement(&movement); err != nil {
			return err
		}
		updated = *p
		return nil
	})
	if err != nil {
		return models.Product{}, err
	}

	s.log.Infow("Stok arttırıldı", "urun_id", updated.ID, "miktar", amount, "yeni_miktar", updated.Miktar)
	return updated, nil
}

// CreateTransfer: tüm kalemler doğrulanır ve stoktan düşülür, herhangi bir kalem
// başarısız olursa hiçbir stok değişmez ve transfer kaydedilmez.
func (s *Service) CreateTransfer(ctx context.Context, in CreateTransferInput) (models.Transfer, error) {
	teslimEden, teslimAlan, hedefKonum := in.TeslimEden.Trimmed(), in.TeslimAlan.Trimmed(), in.HedefKonum.Trimmed()
	if teslimEden == "" || teslimAlan == "" || hedefKonum == "" {
		return models.Transfer{}, failf(ErrValidation, "Teslim eden, teslim alan ve hedef konum alanları zorunludur")
	}
	if len(in.Urunler) == 0 {
		return models.Transfer{}, failf(ErrValidation, "Transfer için en az bir ürün seçilmelidir")
	}

	var transfer models.Transfer
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		now := s.now()
		stamp := models.FormatTimestamp(now)
		items := make([]models.TransferItem, 0, len(in.Urunler))

		for _, line := range in.Urunler {
			id := line.ID.Trimmed()
			if id == "" || !line.Miktar.Valid || line.Miktar.Amount <= 0 {
				return failf(ErrValidation, "Geçersiz ürün miktarı gönderildi")
			}
			amount := line.Miktar.Amount

			// aynı ürün birden fazla satırda ise önceki düşüşü görür
			p, err := tx.ProductByID(id)
			if errors.Is(err, storage.ErrNotFound) {
				return failf(ErrNotFound, "Ürün bulunamadı: %s", id)
			}
			if err != nil {
				return err
			}
			if p.Miktar < amount {
				return failf(ErrInsufficientStock, "%s ürünü için yeterli miktar bulunmuyor. Depodaki: %s", p.Ad, formatAmount(p.Miktar))
			}

			p.Miktar = round2(p.Miktar - amount)
			p.GuncellemeTarihi = stamp
			if err := tx.SaveProduct(p); err != nil {
				return err
			}

			remaining := models.NewQuantity(p.Miktar)
			items = append(items, models.TransferItem{
				ID:          models.Text(p.ID),
				Ad:          models.Text(p.Ad),
				Barkod:      models.Text(p.Barkod),
				Kategori:    models.Text(p.Kategori),
				Birim:       models.Text(p.Birim),
				Miktar:      models.NewQuantity(amount),
				KalanMiktar: &remaining,
			})
		}

		transfer = models.Transfer{
			ID:              models.Text(fmt.Sprintf("TR%d", now.UnixMilli())),
			TeslimEden:      models.Text(teslimEden),
			TeslimAlan:      models.Text(teslimAlan),
			HedefKonum:      models.Text(hedefKonum),
			Aciklama:        models.Text(in.Aciklama.Trimmed()),
			Urunler:         items,
			OlusturmaTarihi: models.Text(stamp),
		}
		return tx.AppendTransfer(&transfer)
	})
	if err != nil {
		return models.Transfer{}, err
	}

	s.log.Infow("Transfer oluşturuldu",
		"transfer_id", transfer.ID,
		"hedef_konum", transfer.HedefKonum,
		"kalem", len(transfer.Urunler),
	)
	return transfer, nil
}

// ListTransfers: en yeni önce. Tarihi çözülemeyen kayıtlar yerinde kalır.
// Okuma hatası boş liste olarak döner.
func (s *Service) ListTransfers(ctx context.Context) []models.Transfer {
	transfers, err := s.store.ListTransfers(ctx)
	if err != nil {
		s.log.Warnw("Transfer verisi okunamadı", "error", err)
		return []models.Transfer{}
	}
	if transfers == nil {
		return []models.Transfer{}
	}
	sortNewestFirst(transfers, s.loc)
	return transfers
}

func (s *Service) GetTransfer(ctx context.Context, id string) (models.Transfer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Transfer{}, failf(ErrValidation, "Transfer kimliği belirtilmedi")
	}

	t, err := s.store.FindTransfer(ctx, id)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warnw("Transfer verisi okunamadı", "transfer_id", id, "error", err)
		}
		return models.Transfer{}, failf(ErrNotFound, "Transfer bulunamadı")
	}
	return *t, nil
}

func sortNewestFirst(transfers []models.Transfer, loc *time.Location) {
	type dated struct {
		at time.Time
		t  models.Transfer
	}
	var (
		slots []int
		valid []dated
	)
	for i := range transfers {
		if at, ok := models.ParseTimestamp(transfers[i].OlusturmaTarihi.String(), loc); ok {
			slots = append(slots, i)
			valid = append(valid, dated{at: at, t: transfers[i]})
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].at.After(valid[j].at)
	})
	for k, i := range slots {
		transfers[i] = valid[k].t
	}
}

// newProductID: unix ms, çakışırsa bir arttırılır
func newProductID(now time.Time, existing map[string]struct{}) string {
	ms := now.UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if _, taken := existing[id]; !taken {
			return id
		}
		ms++
	}
}

func generateBarcode(existing map[string]struct{}) string {
	for {
		var b strings.Builder
		b.WriteString(barcodePrefix)
		for range barcodeDigits {
			b.WriteByte(byte('0' + rand.IntN(10)))
		}
		if _, taken := existing[b.String()]; !taken {
			return b.String()
		}
	}
}
