package storage

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"depo-backend/internal/database"
	"depo-backend/internal/logger"
	"depo-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqlRecorder: çalıştırılan (DryRun'da üretilen) SQL cümlelerini toplar
type sqlRecorder struct {
	mu   sync.Mutex
	sqls []string
}

func (r *sqlRecorder) LogMode(gormlogger.LogLevel) gormlogger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.mu.Lock()
	r.sqls = append(r.sqls, sql)
	r.mu.Unlock()
}

func (r *sqlRecorder) last(t *testing.T) string {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.sqls)
	return r.sqls[len(r.sqls)-1]
}

// dryRunStore: bağlantı açmadan sorgu üreten store
func dryRunStore(t *testing.T) (*GormStore, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	db, err := gorm.Open(postgres.Open("host=localhost user=depo dbname=depo sslmode=disable"), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 rec,
	})
	require.NoError(t, err)
	return NewGormStore(db), rec
}

func TestGormStoreQueriesKeepInsertionOrder(t *testing.T) {
	s, rec := dryRunStore(t)
	ctx := context.Background()

	_, err := s.ListTransfers(ctx)
	require.NoError(t, err)
	assert.Contains(t, rec.last(t), `FROM "transferler"`)
	assert.Contains(t, rec.last(t), "ORDER BY seq asc")

	_, err = s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Contains(t, rec.last(t), `FROM "urunler"`)
	assert.Contains(t, rec.last(t), "ORDER BY seq asc")

	_, err = s.ListMovements(ctx)
	require.NoError(t, err)
	assert.Contains(t, rec.last(t), `FROM "stok_hareketleri"`)
	assert.Contains(t, rec.last(t), "ORDER BY seq asc")
}

func TestGormTxLocksProductRow(t *testing.T) {
	s, rec := dryRunStore(t)
	tx := &gormTx{db: s.db}

	_, err := tx.ProductByRef("BRK0000000001")
	require.NoError(t, err)

	sql := rec.last(t)
	assert.Contains(t, sql, `FROM "urunler"`)
	assert.Contains(t, sql, "barkod = 'BRK0000000001'")
	assert.Contains(t, sql, "ORDER BY seq asc")
	assert.Contains(t, sql, "FOR UPDATE")
}

// Postgres'e karşı çalışan testler DEPO_TEST_DATABASE_DSN verilmişse koşar
func openTestDatabase(t *testing.T) *GormStore {
	t.Helper()
	dsn := os.Getenv("DEPO_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("DEPO_TEST_DATABASE_DSN tanımlı değil")
	}
	db, err := database.Open(dsn, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Exec(`TRUNCATE transfer_kalemleri, transferler, stok_hareketleri, urunler RESTART IDENTITY`).Error)

	s := NewGormStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGormStoreTransfersInInsertionOrder(t *testing.T) {
	s := openTestDatabase(t)
	ctx := context.Background()

	for _, id := range []string{"TR9", "TR1"} {
		tr := models.Transfer{
			ID:              models.Text(id),
			HedefKonum:      "Bar",
			OlusturmaTarihi: "2024-01-01T10:00:00.000Z",
			Urunler: []models.TransferItem{
				{ID: "P2", Ad: "Su", Miktar: models.NewQuantity(1)},
				{ID: "P1", Ad: "Kola", Miktar: models.NewQuantity(2)},
			},
		}
		require.NoError(t, s.Update(ctx, func(tx Tx) error { return tx.AppendTransfer(&tr) }))
	}

	transfers, err := s.ListTransfers(ctx)
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	assert.Equal(t, models.Text("TR9"), transfers[0].ID)
	assert.Equal(t, models.Text("TR1"), transfers[1].ID)
	require.Len(t, transfers[0].Urunler, 2)
	assert.Equal(t, models.Text("P2"), transfers[0].Urunler[0].ID)
	assert.Equal(t, models.Text("P1"), transfers[0].Urunler[1].ID)

	found, err := s.FindTransfer(ctx, "TR1")
	require.NoError(t, err)
	assert.Equal(t, models.NewQuantity(2), found.Urunler[1].Miktar)

	_, err = s.FindTransfer(ctx, "TR404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStoreUpdateRollsBack(t *testing.T) {
	s := openTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, func(tx Tx) error {
		return tx.CreateProduct(&models.Product{ID: "1", Ad: "Kola", Barkod: "BRK0000000001", Kategori: "İçecek", Miktar: 10, Birim: "adet"})
	}))

	errBoom := errors.New("ikinci satır yok")
	err := s.Update(ctx, func(tx Tx) error {
		p, err := tx.ProductByRef("BRK0000000001")
		if err != nil {
			return err
		}
		p.Miktar = 4
		if err := tx.SaveProduct(p); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 10.0, products[0].Miktar)
}
