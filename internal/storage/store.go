// Package storage: ürün, stok hareketi ve transfer kayıtlarının kalıcı katmanı.
// Varsayılan sürücü düz JSON dosyalarıdır, Postgres isteğe bağlıdır.
package storage

import (
	"context"
	"errors"

	"depo-backend/internal/models"
)

var ErrNotFound = errors.New("kayıt bulunamadı")

// Store: okuma işlemleri doğrudan, yazma işlemleri Update içinde yapılır
type Store interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListMovements(ctx context.Context) ([]models.StockMovement, error)
	ListTransfers(ctx context.Context) ([]models.Transfer, error)
	FindTransfer(ctx context.Context, id string) (*models.Transfer, error)

	// Update: fn hata dönerse hiçbir değişiklik kalıcı olmaz
	Update(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// Tx: tek bir yazma işleminin görünümü. Dönen ürünler kopyadır,
// değişiklikler SaveProduct ile geri yazılır.
type Tx interface {
	ListProducts() ([]models.Product, error)
	ProductByID(id string) (*models.Product, error)
	// ProductByRef: id veya barkod ile arar
	ProductByRef(ref string) (*models.Product, error)
	CreateProduct(p *models.Product) error
	SaveProduct(p *models.Product) error
	AppendMovement(m *models.StockMovement) error
	AppendTransfer(t *models.Transfer) error
}
