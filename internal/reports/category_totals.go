package reports

import (
	"sort"

	"depo-backend/internal/models"
)

type CategorySummary struct {
	Category      string  `json:"category"`
	TotalQuantity float64 `json:"totalQuantity"`
	LineCount     int     `json:"lineCount"`
}

type CategoryTotalsReport struct {
	Categories []CategorySummary `json:"categories"`
}

// BuildCategoryTotals: kalemleri kategoriye göre gruplar. Miktarı geçersiz
// kalemler de satır sayısına dahildir.
func BuildCategoryTotals(transfers []models.Transfer) CategoryTotalsReport {
	groups := newOrderedMap[string, CategorySummary]()

	for _, t := range transfers {
		for _, item := range t.Urunler {
			name := item.Kategori.OrDefault(NoCategory)
			entry := groups.getOrCreate(name, func() CategorySummary {
				return CategorySummary{Category: name}
			})
			if item.Miktar.Valid {
				entry.TotalQuantity += item.Miktar.Amount
			}
			entry.LineCount++
		}
	}

	categories := make([]CategorySummary, 0, groups.len())
	for _, e := range groups.ordered() {
		categories = append(categories, CategorySummary{
			Category:      e.Category,
			TotalQuantity: round2(e.TotalQuantity),
			LineCount:     e.LineCount,
		})
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].TotalQuantity > categories[j].TotalQuantity
	})

	return CategoryTotalsReport{Categories: categories}
}
