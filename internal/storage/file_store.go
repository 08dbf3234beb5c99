package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"depo-backend/internal/logger"
	"depo-backend/internal/models"
)

const (
	productsFile  = "urunler.json"
	transfersFile = "transfers.json"
	movementsFile = "stok-hareketleri.json"
)

type productsDoc struct {
	Urunler []models.Product `json:"urunler"`
}

type movementsDoc struct {
	Hareketler []models.StockMovement `json:"hareketler"`
}

type transfersDoc struct {
	Transfers []models.Transfer `json:"transfers"`
}

// FileStore: DATA_DIR altındaki üç JSON dosyası. Her yazma dosyanın tamamını
// geçici dosyaya yazıp rename eder.
type FileStore struct {
	dir string
	mu  sync.RWMutex
	log *logger.Logger
}

func NewFileStore(dir string, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("veri klasörü oluşturulamadı: %w", err)
	}
	return &FileStore{dir: dir, log: logger.OrNop(log).WithComponent("file-store")}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *FileStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readProducts()
}

func (s *FileStore) ListMovements(ctx context.Context) ([]models.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readMovements()
}

func (s *FileStore) ListTransfers(ctx context.Context) ([]models.Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readTransfers()
}

func (s *FileStore) FindTransfer(ctx context.Context, id string) (*models.Transfer, error) {
	transfers, err := s.ListTransfers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range transfers {
		if transfers[i].ID.String() == id {
			return &transfers[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.readProducts()
	if err != nil {
		return err
	}
	tx := &fileTx{store: s, products: products}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit()
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) readProducts() ([]models.Product, error) {
	var doc productsDoc
	if err := readDocument(s.path(productsFile), &doc); err != nil {
		return nil, fmt.Errorf("ürün dosyası okunamadı: %w", err)
	}
	return doc.Urunler, nil
}

func (s *FileStore) readMovements() ([]models.StockMovement, error) {
	var doc movementsDoc
	if err := readDocument(s.path(movementsFile), &doc); err != nil {
		return nil, fmt.Errorf("stok hareketleri okunamadı: %w", err)
	}
	return doc.Hareketler, nil
}

func (s *FileStore) readTransfers() ([]models.Transfer, error) {
	var doc transfersDoc
	if err := readDocument(s.path(transfersFile), &doc); err != nil {
		return nil, fmt.Errorf("transfer dosyası okunamadı: %w", err)
	}
	return doc.Transfers, nil
}

// readDocument: dosya yoksa ya da boşsa hedef boş kalır.
// Kök obje değilse ya da beklenen anahtar dizi değilse yine boş kabul edilir,
// sadece bozuk JSON hata döner.
func readDocument(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		if !json.Valid(data) {
			return err
		}
		return nil
	}
	for key, raw := range root {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '[' {
			delete(root, key)
		}
	}
	cleaned, err := json.Marshal(root)
	if err != nil {
		return err
	}
	return json.Unmarshal(cleaned, target)
}

// writeDocument: geçici dosya + rename, 2 boşluk girinti
func writeDocument(path string, doc any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(bytes.TrimRight(buf.Bytes(), "\n")); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// fileTx: değişiklikler bellekte birikir, commit sırasında dosyalara yazılır
type fileTx struct {
	store *FileStore

	products      []models.Product
	productsDirty bool

	newMovements []models.StockMovement
	newTransfers []models.Transfer
}

func (tx *fileTx) ListProducts() ([]models.Product, error) {
	out := make([]models.Product, len(tx.products))
	copy(out, tx.products)
	return out, nil
}

func (tx *fileTx) find(match func(p *models.Product) bool) (*models.Product, error) {
	for i := range tx.products {
		if match(&tx.products[i]) {
			p := cloneProduct(tx.products[i])
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (tx *fileTx) ProductByID(id string) (*models.Product, error) {
	return tx.find(func(p *models.Product) bool { return p.ID == id })
}

func (tx *fileTx) ProductByRef(ref string) (*models.Product, error) {
	return tx.find(func(p *models.Product) bool { return p.ID == ref || p.Barkod == ref })
}

func (tx *fileTx) CreateProduct(p *models.Product) error {
	for i := range tx.products {
		if tx.products[i].ID == p.ID {
			return fmt.Errorf("ürün zaten var: %s", p.ID)
		}
	}
	tx.products = append(tx.products, cloneProduct(*p))
	tx.productsDirty = true
	return nil
}

func (tx *fileTx) SaveProduct(p *models.Product) error {
	for i := range tx.products {
		if tx.products[i].ID == p.ID {
			tx.products[i] = cloneProduct(*p)
			tx.productsDirty = true
			return nil
		}
	}
	return ErrNotFound
}

func (tx *fileTx) AppendMovement(m *models.StockMovement) error {
	tx.newMovements = append(tx.newMovements, *m)
	return nil
}

func (tx *fileTx) AppendTransfer(t *models.Transfer) error {
	tx.newTransfers = append(tx.newTransfers, *t)
	return nil
}

// commit: mevcut hareket ve transfer dosyaları bozuksa üzerine yazılmaz
func (tx *fileTx) commit() error {
	s := tx.store

	var movements []models.StockMovement
	if len(tx.newMovements) > 0 {
		existing, err := s.readMovements()
		if err != nil {
			return err
		}
		movements = append(existing, tx.newMovements...)
	}

	var transfers []models.Transfer
	if len(tx.newTransfers) > 0 {
		existing, err := s.readTransfers()
		if err != nil {
			return err
		}
		transfers = append(existing, tx.newTransfers...)
	}

	if tx.productsDirty {
		if err := writeDocument(s.path(productsFile), productsDoc{Urunler: nonNil(tx.products)}); err != nil {
			return fmt.Errorf("ürün dosyası yazılamadı: %w", err)
		}
	}
	if movements != nil {
		if err := writeDocument(s.path(movementsFile), movementsDoc{Hareketler: movements}); err != nil {
			return fmt.Errorf("stok hareketleri yazılamadı: %w", err)
		}
	}
	if transfers != nil {
		if err := writeDocument(s.path(transfersFile), transfersDoc{Transfers: transfers}); err != nil {
			return fmt.Errorf("transfer dosyası yazılamadı: %w", err)
		}
	}

	s.log.Debugw("Depo dosyaları güncellendi",
		"products", tx.productsDirty,
		"movements", len(tx.newMovements),
		"transfers", len(tx.newTransfers),
	)
	return nil
}

func cloneProduct(p models.Product) models.Product {
	p.Hareketler = append([]models.StockMovement(nil), p.Hareketler...)
	return p
}

func nonNil(products []models.Product) []models.Product {
	if products == nil {
		return []models.Product{}
	}
	return products
}
