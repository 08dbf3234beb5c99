package reports

import (
	"sort"

	"depo-backend/internal/models"
)

const DefaultTopProductsLimit = 5

type ProductSummary struct {
	ProductID     string  `json:"productId"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	TotalQuantity float64 `json:"totalQuantity"`
}

type TopProductsReport struct {
	Products []ProductSummary `json:"products"`
}

// BuildTopProducts: ürün kimliğine göre en çok gönderilenler. Kimliği olmayan
// kalemler bu rapora girmez. limit en az 1'dir.
func BuildTopProducts(transfers []models.Transfer, limit int) TopProductsReport {
	if limit < 1 {
		limit = 1
	}
	groups := newOrderedMap[string, ProductSummary]()

	for _, t := range transfers {
		for _, item := range t.Urunler {
			if item.ID == "" {
				continue
			}
			id := item.ID.String()
			entry := groups.getOrCreate(id, func() ProductSummary {
				return ProductSummary{
					ProductID: id,
					Name:      item.Ad.OrDefault(UnnamedProduct),
					Category:  item.Kategori.OrDefault(NoCategory),
				}
			})
			if item.Miktar.Valid {
				entry.TotalQuantity += item.Miktar.Amount
			}
		}
	}

	products := make([]ProductSummary, 0, groups.len())
	for _, e := range groups.ordered() {
		p := *e
		p.TotalQuantity = round2(p.TotalQuantity)
		products = append(products, p)
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].TotalQuantity > products[j].TotalQuantity
	})
	if len(products) > limit {
		products = products[:limit]
	}

	return TopProductsReport{Products: products}
}
