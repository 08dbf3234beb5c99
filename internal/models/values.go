package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Text: JSON dosyasındaki serbest metin alanları.
// Sayı/boolean gelirse metne çevrilir, null/obje/dizi boş kabul edilir.
// Böylece tek bir bozuk alan bütün belgenin okunmasını engellemez.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || string(raw) == "null" {
		*t = ""
		return nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '{', '[':
		*t = ""
	default:
		// sayı, true, false
		*t = Text(raw)
	}
	return nil
}

func (t Text) String() string {
	return string(t)
}

// Trimmed: baştaki ve sondaki boşlukları atar
func (t Text) Trimmed() string {
	return strings.TrimSpace(string(t))
}

// OrDefault: boşsa fallback döner (değer trim edilmez)
func (t Text) OrDefault(fallback string) string {
	if t == "" {
		return fallback
	}
	return string(t)
}

// Quantity: kalem miktarı. Valid=false ise değer toplamlara katılmaz.
//
// Kabul edilenler: sayı, sayısal string, null (0), true/false (1/0).
// Boş string 0 olarak okunur ve Blank işaretlenir; form girişinde eksik alan sayılır.
// Alan hiç yoksa, sayısal değilse ya da sonsuz/NaN ise miktar geçersizdir.
type Quantity struct {
	Amount float64
	Valid  bool
	Blank  bool
}

func NewQuantity(v float64) Quantity {
	return Quantity{Amount: v, Valid: true}
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	*q = Quantity{}
	if len(raw) == 0 {
		return nil
	}

	switch {
	case string(raw) == "null", string(raw) == "false":
		*q = NewQuantity(0)
	case string(raw) == "true":
		*q = NewQuantity(1)
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		q.parse(s)
		q.Blank = s == ""
	case raw[0] == '{', raw[0] == '[':
		// geçersiz
	default:
		q.parse(string(raw))
	}
	return nil
}

func (q *Quantity) parse(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		*q = NewQuantity(0)
		return
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*q = Quantity{}
		return
	}
	*q = NewQuantity(v)
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	if !q.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(q.Amount, 'f', -1, 64)), nil
}

// Scan: sql.Scanner (gorm)
func (q *Quantity) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*q = Quantity{}
	case float64:
		*q = NewQuantity(v)
	case float32:
		*q = NewQuantity(float64(v))
	case int64:
		*q = NewQuantity(float64(v))
	case []byte:
		q.parse(string(v))
	case string:
		q.parse(v)
	default:
		return fmt.Errorf("miktar okunamadı: %T", value)
	}
	return nil
}

// Value: driver.Valuer (gorm)
func (q Quantity) Value() (driver.Value, error) {
	if !q.Valid {
		return nil, nil
	}
	return q.Amount, nil
}

func (Quantity) GormDataType() string {
	return "float"
}
