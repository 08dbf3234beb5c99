package models

type MovementType string

const (
	MovementProductAdded  MovementType = "urun-ekleme"
	MovementStockIncrease MovementType = "stok-artis"
)

// StockMovement: stok artış kaydı. Hem ürünün kendi geçmişinde hem de genel
// hareket günlüğünde tutulur.
type StockMovement struct {
	ID           string       `gorm:"primaryKey;size:36" json:"id"`
	Seq          int64        `gorm:"autoIncrement;index" json:"-"`
	UrunID       string       `gorm:"index;size:64" json:"urunId,omitempty"`
	Tur          MovementType `gorm:"size:20;not null" json:"tur"`
	Miktar       float64      `json:"miktar"`
	OncekiMiktar float64      `json:"oncekiMiktar"`
	YeniMiktar   float64      `json:"yeniMiktar"`
	Aciklama     string       `gorm:"size:255" json:"aciklama"`
	Tarih        string       `gorm:"size:40;index" json:"tarih"`
	Barkod       string       `gorm:"size:32" json:"barkod,omitempty"`
	Ad           string       `gorm:"size:150" json:"ad,omitempty"`
	Kategori     string       `gorm:"size:100" json:"kategori,omitempty"`
	Birim        string       `gorm:"size:20" json:"birim,omitempty"`
	Kaynak       string       `gorm:"size:30" json:"kaynak,omitempty"` // ör: "urun-ekle"
}

func (StockMovement) TableName() string {
	return "stok_hareketleri"
}
