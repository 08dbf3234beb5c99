package models

const DefaultUnit = "adet"

// Product: merkez depodaki ürün ve güncel stok miktarı
type Product struct {
	Seq              int64           `gorm:"autoIncrement;index" json:"-"`
	ID               string          `gorm:"primaryKey;size:64" json:"id"`
	Ad               string          `gorm:"size:150;not null" json:"ad"`
	Barkod           string          `gorm:"size:32;uniqueIndex" json:"barkod"`
	Kategori         string          `gorm:"size:100;index" json:"kategori"`
	Miktar           float64         `gorm:"not null" json:"miktar"` // depodaki miktar
	Birim            string          `gorm:"size:20;not null" json:"birim"`
	OlusturmaTarihi  string          `gorm:"size:40" json:"olusturmaTarihi"`
	GuncellemeTarihi string          `gorm:"size:40" json:"guncellemeTarihi"`
	Hareketler       []StockMovement `gorm:"foreignKey:UrunID;references:ID" json:"hareketler,omitempty"`
}

func (Product) TableName() string {
	return "urunler"
}

// UnitOrDefault: birim boşsa "adet"
func (p Product) UnitOrDefault() string {
	if p.Birim == "" {
		return DefaultUnit
	}
	return p.Birim
}
