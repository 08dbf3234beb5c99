package reports

import (
	"sort"

	"depo-backend/internal/models"
)

type LocationSummary struct {
	Location             string  `json:"location"`
	TransferCount        int     `json:"transferCount"`
	TotalQuantity        float64 `json:"totalQuantity"`
	DistinctProductCount int     `json:"distinctProductCount"`
}

type LocationTotalsReport struct {
	Locations []LocationSummary `json:"locations"`
}

// BuildLocationTotals: transferleri hedef konumun ham değerine göre gruplar
// (büyük/küçük harf ayrımı korunur).
func BuildLocationTotals(transfers []models.Transfer) LocationTotalsReport {
	type agg struct {
		location      string
		transferCount int
		totalQuantity float64
		products      stringSet
	}
	groups := newOrderedMap[string, agg]()

	for _, t := range transfers {
		name := t.HedefKonum.OrDefault(UnspecifiedLocation)
		entry := groups.getOrCreate(name, func() agg {
			return agg{location: name, products: stringSet{}}
		})
		entry.transferCount++

		for _, item := range t.Urunler {
			if item.Miktar.Valid {
				entry.totalQuantity += item.Miktar.Amount
			}
			if item.ID != "" {
				entry.products.add(item.ID.String())
			}
		}
	}

	locations := make([]LocationSummary, 0, groups.len())
	for _, e := range groups.ordered() {
		locations = append(locations, LocationSummary{
			Location:             e.location,
			TransferCount:        e.transferCount,
			TotalQuantity:        round2(e.totalQuantity),
			DistinctProductCount: len(e.products),
		})
	}
	sort.SliceStable(locations, func(i, j int) bool {
		return locations[i].TotalQuantity > locations[j].TotalQuantity
	})

	return LocationTotalsReport{Locations: locations}
}
