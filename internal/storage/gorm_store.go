package storage

import (
	"context"
	"errors"
	"fmt"

	"depo-backend/internal/database"
	"depo-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore: Postgres üzerinde aynı kayıtlar. Ekleme sırası seq kolonuyla korunur.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func orderedMovements(db *gorm.DB) *gorm.DB {
	return db.Order("seq asc")
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("row_id asc")
}

func (s *GormStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Preload("Hareketler", orderedMovements).
		Order("seq asc").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("ürünler listelenemedi: %w", err)
	}
	return products, nil
}

func (s *GormStore) ListMovements(ctx context.Context) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	if err := s.db.WithContext(ctx).Order("seq asc").Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("stok hareketleri listelenemedi: %w", err)
	}
	return movements, nil
}

func (s *GormStore) ListTransfers(ctx context.Context) ([]models.Transfer, error) {
	var transfers []models.Transfer
	err := s.db.WithContext(ctx).
		Preload("Urunler", orderedItems).
		Order("seq asc").
		Find(&transfers).Error
	if err != nil {
		return nil, fmt.Errorf("transferler listelenemedi: %w", err)
	}
	return transfers, nil
}

func (s *GormStore) FindTransfer(ctx context.Context, id string) (*models.Transfer, error) {
	var t models.Transfer
	err := s.db.WithContext(ctx).
		Preload("Urunler", orderedItems).
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *GormStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&gormTx{db: db})
	})
}

func (s *GormStore) Close() error {
	return database.Close(s.db)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

type gormTx struct {
	db *gorm.DB
}

func (tx *gormTx) ListProducts() ([]models.Product, error) {
	var products []models.Product
	if err := tx.db.Order("seq asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// lockedProduct: aynı ürünü güncelleyen eşzamanlı işlemler sıraya girer
func (tx *gormTx) lockedProduct(query string, args ...any) (*models.Product, error) {
	var p models.Product
	err := tx.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Hareketler", orderedMovements).
		Where(query, args...).
		Order("seq asc").
		Take(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (tx *gormTx) ProductByID(id string) (*models.Product, error) {
	return tx.lockedProduct("id = ?", id)
}

func (tx *gormTx) ProductByRef(ref string) (*models.Product, error) {
	return tx.lockedProduct("id = ? OR barkod = ?", ref, ref)
}

// Hareketler ayrıca AppendMovement ile yazılır
func (tx *gormTx) CreateProduct(p *models.Product) error {
	return tx.db.Omit(clause.Associations).Create(p).Error
}

func (tx *gormTx) SaveProduct(p *models.Product) error {
	return tx.db.Omit(clause.Associations).Save(p).Error
}

func (tx *gormTx) AppendMovement(m *models.StockMovement) error {
	return tx.db.Create(m).Error
}

func (tx *gormTx) AppendTransfer(t *models.Transfer) error {
	return tx.db.Create(t).Error
}
