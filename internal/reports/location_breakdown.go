package reports

import (
	"sort"

	"depo-backend/internal/models"
)

type BreakdownProduct struct {
	ProductID     *string `json:"productId"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	TotalQuantity float64 `json:"totalQuantity"`
}

type LocationProductBreakdown struct {
	Location      string             `json:"location"`
	TotalQuantity float64            `json:"totalQuantity"`
	Products      []BreakdownProduct `json:"products"`
}

type LocationBreakdownReport struct {
	Locations []LocationProductBreakdown `json:"locations"`
}

// BuildLocationProductBreakdown: konum -> ürün iki seviyeli dağılım.
// targets boş değilse sadece o konumlar (trim + küçük harf karşılaştırma) alınır.
// Konumlar transfer günlüğünde ilk görüldükleri sırayla döner.
func BuildLocationProductBreakdown(transfers []models.Transfer, targets []string) LocationBreakdownReport {
	allowed := stringSet{}
	for _, t := range targets {
		if k := normalizeKey(t); k != "" {
			allowed.add(k)
		}
	}

	type locationAgg struct {
		location      string
		totalQuantity float64
		products      *orderedMap[string, BreakdownProduct]
	}
	groups := newOrderedMap[string, locationAgg]()

	for _, t := range transfers {
		raw, key := destination(t.HedefKonum)
		if len(allowed) > 0 {
			if _, ok := allowed[key]; !ok {
				continue
			}
		}

		entry := groups.getOrCreate(key, func() locationAgg {
			return locationAgg{location: raw, products: newOrderedMap[string, BreakdownProduct]()}
		})

		for _, item := range t.Urunler {
			if !item.Miktar.Valid {
				continue
			}
			amount := item.Miktar.Amount
			entry.totalQuantity += amount

			name := item.Ad.OrDefault(UnnamedProduct)
			productKey := name
			if item.ID != "" {
				productKey = item.ID.String()
			}
			product := entry.products.getOrCreate(productKey, func() BreakdownProduct {
				return BreakdownProduct{
					ProductID: textPtr(item.ID),
					Name:      name,
					Category:  item.Kategori.OrDefault(NoCategory),
				}
			})
			product.TotalQuantity += amount
		}
	}

	locations := make([]LocationProductBreakdown, 0, groups.len())
	for _, e := range groups.ordered() {
		products := make([]BreakdownProduct, 0, e.products.len())
		for _, p := range e.products.ordered() {
			out := *p
			out.TotalQuantity = round2(out.TotalQuantity)
			products = append(products, out)
		}
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].TotalQuantity > products[j].TotalQuantity
		})

		locations = append(locations, LocationProductBreakdown{
			Location:      e.location,
			TotalQuantity: round2(e.totalQuantity),
			Products:      products,
		})
	}

	return LocationBreakdownReport{Locations: locations}
}
