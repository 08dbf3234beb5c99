package reports

import (
	"strings"
	"time"

	"depo-backend/internal/models"

	"github.com/shopspring/decimal"
)

const (
	UnspecifiedLocation = "Belirtilmedi"
	UnnamedProduct      = "İsimsiz Ürün"
	NoCategory          = "Kategori Yok"
	BarLocation         = "bar"
)

// DefaultBreakdownLocations: konum-ürün dağılımında varsayılan hedefler
var DefaultBreakdownLocations = []string{"bar", "mutfak"}

// round2: çıktı değerleri 2 haneye yuvarlanır, birikim tam hassasiyetle yapılır
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func normalizeKey(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// trimmedOr: trim edilmiş değer, boşsa fallback
func trimmedOr(v models.Text, fallback string) string {
	if s := v.Trimmed(); s != "" {
		return s
	}
	return fallback
}

// destination: konum etiketi ve gruplama anahtarı. Alan yoksa "Belirtilmedi"
// grubuna, sadece boşluktan oluşuyorsa boş anahtarlı ayrı bir gruba düşer
// (etiketi yine "Belirtilmedi").
func destination(v models.Text) (label, key string) {
	if v == "" {
		return UnspecifiedLocation, normalizeKey(UnspecifiedLocation)
	}
	trimmed := v.Trimmed()
	if trimmed == "" {
		return UnspecifiedLocation, ""
	}
	return trimmed, normalizeKey(trimmed)
}

func isoPtr(t time.Time) *string {
	s := models.FormatTimestamp(t)
	return &s
}

func floatPtr(v float64) *float64 {
	return &v
}

func textPtr(v models.Text) *string {
	if v == "" {
		return nil
	}
	s := string(v)
	return &s
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func nextDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, loc)
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

func locationOrLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}

// orderedMap: ilk görülme sırasını koruyan gruplayıcı.
// Go map'lerinin sırası belirsiz olduğundan sıra ayrı bir dilimde tutulur.
type orderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]*V
}

func newOrderedMap[K comparable, V any]() *orderedMap[K, V] {
	return &orderedMap[K, V]{values: make(map[K]*V)}
}

func (m *orderedMap[K, V]) getOrCreate(key K, create func() V) *V {
	if v, ok := m.values[key]; ok {
		return v
	}
	v := create()
	m.values[key] = &v
	m.keys = append(m.keys, key)
	return &v
}

func (m *orderedMap[K, V]) len() int {
	return len(m.keys)
}

// ordered: değerler ekleme sırasıyla
func (m *orderedMap[K, V]) ordered() []*V {
	out := make([]*V, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.values[k])
	}
	return out
}

type stringSet map[string]struct{}

func (s stringSet) add(v string) {
	s[v] = struct{}{}
}
