package models

import (
	"bytes"
	"encoding/json"
)

// Transfer: depodan bir konuma (Bar, Mutfak ...) yapılan teslimat kaydı.
// Kayıt oluşturulduktan sonra değişmez, transfer günlüğüne sadece eklenir.
type Transfer struct {
	Seq             int64          `gorm:"autoIncrement;index" json:"-"` // ekleme sırası (postgres)
	ID              Text           `gorm:"primaryKey;size:64" json:"id"`
	TeslimEden      Text           `gorm:"size:100" json:"teslimEden"`
	TeslimAlan      Text           `gorm:"size:100" json:"teslimAlan"`
	HedefKonum      Text           `gorm:"size:100;index" json:"hedefKonum"`
	Aciklama        Text           `gorm:"size:255" json:"aciklama"`
	Urunler         []TransferItem `gorm:"foreignKey:TransferID;constraint:OnDelete:CASCADE" json:"urunler"`
	OlusturmaTarihi Text           `gorm:"size:40;index" json:"olusturmaTarihi"`
}

func (Transfer) TableName() string {
	return "transferler"
}

// TransferItem: transfer içindeki tek ürün satırı
type TransferItem struct {
	RowID       uint      `gorm:"primaryKey" json:"-"`
	TransferID  Text      `gorm:"index;size:64" json:"-"`
	ID          Text      `gorm:"column:urun_id;size:64;index" json:"id,omitempty"`
	Ad          Text      `gorm:"size:150" json:"ad,omitempty"`
	Barkod      Text      `gorm:"size:32" json:"barkod,omitempty"`
	Kategori    Text      `gorm:"size:100" json:"kategori,omitempty"`
	Birim       Text      `gorm:"size:20" json:"birim,omitempty"`
	Miktar      Quantity  `json:"miktar"`
	KalanMiktar *Quantity `json:"kalanMiktar,omitempty"` // transfer sonrası depoda kalan
}

func (TransferItem) TableName() string {
	return "transfer_kalemleri"
}

// UnmarshalJSON: obje olmayan kayıt boş transfer olarak okunur. "urunler" dizi
// değilse boş kabul edilir, obje olmayan elemanlar boş kalem olarak okunur
// (sayımda yer alır, toplamlara girmez).
func (t *Transfer) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		*t = Transfer{}
		return nil
	}

	type plain Transfer
	aux := struct {
		*plain
		Urunler json.RawMessage `json:"urunler"`
	}{plain: (*plain)(t)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.Urunler = decodeLineItems(aux.Urunler)
	return nil
}

func decodeLineItems(raw json.RawMessage) []TransferItem {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}

	items := make([]TransferItem, 0, len(elems))
	for _, e := range elems {
		var item TransferItem
		if e = bytes.TrimSpace(e); len(e) > 0 && e[0] == '{' {
			if err := json.Unmarshal(e, &item); err != nil {
				item = TransferItem{}
			}
		}
		items = append(items, item)
	}
	return items
}
