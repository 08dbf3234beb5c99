package reports

import (
	"fmt"
	"sort"
	"time"

	"depo-backend/internal/models"
)

const (
	retroTopLocationsLimit = 10
	retroTopProductsLimit  = 15

	// MaxTimelineDays: bu sınırdan geniş pencerede zaman çizelgesi sadece
	// transfer bulunan ilk ve son gün arasını kapsar
	MaxTimelineDays = 3660
)

// RetroFilter: takvim günü sınırları (her iki uç dahil). Çözülemeyen değer yok sayılır.
type RetroFilter struct {
	StartDate string
	EndDate   string
}

type RetroSummary struct {
	TotalTransfers        int     `json:"totalTransfers"`
	TotalQuantity         float64 `json:"totalQuantity"`
	DistinctProductCount  int     `json:"distinctProductCount"`
	DistinctLocationCount int     `json:"distinctLocationCount"`
}

type RetroTimelinePoint struct {
	Date                 string  `json:"date"`
	TransferCount        int     `json:"transferCount"`
	TotalQuantity        float64 `json:"totalQuantity"`
	DistinctProductCount int     `json:"distinctProductCount"`
}

type RetroLocation struct {
	Location      string  `json:"location"`
	TransferCount int     `json:"transferCount"`
	TotalQuantity float64 `json:"totalQuantity"`
}

type RetroProduct struct {
	Location      string  `json:"location"`
	ProductID     *string `json:"productId"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	TotalQuantity float64 `json:"totalQuantity"`
	TransferCount int     `json:"transferCount"`
}

type RetroEvent struct {
	ID            string  `json:"id"`
	Timestamp     string  `json:"timestamp"`
	Location      string  `json:"location"`
	ProductCount  int     `json:"productCount"`
	TotalQuantity float64 `json:"totalQuantity"`
	TeslimAlan    string  `json:"teslimAlan"`
	TeslimEden    string  `json:"teslimEden"`
	Aciklama      string  `json:"aciklama"`

	at time.Time
}

type RetroFilters struct {
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

type RetroAnalysisReport struct {
	Summary      RetroSummary         `json:"summary"`
	Timeline     []RetroTimelinePoint `json:"timeline"`
	TopLocations []RetroLocation      `json:"topLocations"`
	TopProducts  []RetroProduct       `json:"topProducts"`
	Events       []RetroEvent         `json:"events"`
	Filters      RetroFilters         `json:"filters"`
}

func emptyRetroReport(filters RetroFilters) RetroAnalysisReport {
	return RetroAnalysisReport{
		Timeline:     []RetroTimelinePoint{},
		TopLocations: []RetroLocation{},
		TopProducts:  []RetroProduct{},
		Events:       []RetroEvent{},
		Filters:      filters,
	}
}

// BuildRetroAnalysis: seçilen aralık için günlük zaman çizelgesi, konum/ürün
// kırılımları ve kronolojik olay listesi. Zaman çizelgesi aralıktaki her günü
// içerir; transfer olmayan günler sıfırla doldurulur.
func BuildRetroAnalysis(transfers []models.Transfer, filter RetroFilter, loc *time.Location) RetroAnalysisReport {
	loc = locationOrLocal(loc)

	var (
		start, end       time.Time
		hasStart, hasEnd bool
		requested        RetroFilters
	)
	if filter.StartDate != "" {
		if t, ok := models.ParseTimestamp(filter.StartDate, loc); ok {
			start, hasStart = startOfDay(t, loc), true
			requested.StartDate = isoPtr(start)
		}
	}
	if filter.EndDate != "" {
		if t, ok := models.ParseTimestamp(filter.EndDate, loc); ok {
			end, hasEnd = startOfDay(t, loc), true
			requested.EndDate = isoPtr(end)
		}
	}
	// bitiş günü gün sonuna kadar dahil
	endLimit := nextDay(end, loc).Add(-time.Millisecond)

	filtered := make([]timedTransfer, 0, len(transfers))
	for i := range transfers {
		ts, ok := models.ParseTimestamp(transfers[i].OlusturmaTarihi.String(), loc)
		if !ok {
			continue
		}
		if hasStart && ts.Before(start) {
			continue
		}
		if hasEnd && ts.After(endLimit) {
			continue
		}
		filtered = append(filtered, timedTransfer{at: ts, Transfer: &transfers[i]})
	}

	if len(filtered) == 0 {
		return emptyRetroReport(requested)
	}

	lo, hi := filtered[0].at, filtered[0].at
	for _, t := range filtered[1:] {
		if t.at.Before(lo) {
			lo = t.at
		}
		if t.at.After(hi) {
			hi = t.at
		}
	}
	actualStart, actualEnd := start, end
	if !hasStart {
		actualStart = startOfDay(lo, loc)
	}
	if !hasEnd {
		actualEnd = startOfDay(hi, loc)
	}
	timelineStart, timelineEnd := actualStart, actualEnd
	if actualEnd.Sub(actualStart).Hours()/24 > MaxTimelineDays {
		timelineStart, timelineEnd = startOfDay(lo, loc), startOfDay(hi, loc)
	}

	type dayAgg struct {
		transferCount int
		totalQuantity float64
		products      stringSet
	}
	days := map[string]*dayAgg{}
	locations := newOrderedMap[string, RetroLocation]()
	products := newOrderedMap[string, RetroProduct]()
	productKeys := stringSet{}

	var summary RetroSummary
	events := make([]RetroEvent, 0, len(filtered))

	for _, t := range filtered {
		location := trimmedOr(t.HedefKonum, UnspecifiedLocation)
		locationKey := normalizeKey(location)
		key := dayKey(t.at, loc)

		summary.TotalTransfers++

		day, ok := days[key]
		if !ok {
			day = &dayAgg{products: stringSet{}}
			days[key] = day
		}
		place := locations.getOrCreate(locationKey, func() RetroLocation {
			return RetroLocation{Location: location}
		})
		day.transferCount++
		place.TransferCount++

		var transferQuantity float64
		for _, item := range t.Urunler {
			if !item.Miktar.Valid {
				continue
			}
			amount := item.Miktar.Amount
			name := trimmedOr(item.Ad, UnnamedProduct)
			productKey := name
			if item.ID != "" {
				productKey = item.ID.String()
			}

			transferQuantity += amount
			summary.TotalQuantity += amount
			day.totalQuantity += amount
			place.TotalQuantity += amount
			day.products.add(productKey)
			productKeys.add(productKey)

			p := products.getOrCreate(locationKey+"::"+productKey, func() RetroProduct {
				return RetroProduct{
					Location:  location,
					ProductID: textPtr(item.ID),
					Name:      name,
					Category:  trimmedOr(item.Kategori, NoCategory),
				}
			})
			p.TotalQuantity += amount
			p.TransferCount++
		}

		id := t.ID.String()
		if id == "" {
			id = fmt.Sprintf("%d-%s", t.at.UnixMilli(), location)
		}
		events = append(events, RetroEvent{
			ID:            id,
			Timestamp:     models.FormatTimestamp(t.at),
			Location:      location,
			ProductCount:  len(t.Urunler),
			TotalQuantity: round2(transferQuantity),
			TeslimAlan:    trimmedOr(t.TeslimAlan, "-"),
			TeslimEden:    trimmedOr(t.TeslimEden, "-"),
			Aciklama:      t.Aciklama.Trimmed(),
			at:            t.at,
		})
	}

	summary.TotalQuantity = round2(summary.TotalQuantity)
	summary.DistinctProductCount = len(productKeys)
	summary.DistinctLocationCount = locations.len()

	timeline := []RetroTimelinePoint{}
	for d := timelineStart; !d.After(timelineEnd); d = nextDay(d, loc) {
		key := dayKey(d, loc)
		point := RetroTimelinePoint{Date: key}
		if agg, ok := days[key]; ok {
			point.TransferCount = agg.transferCount
			point.TotalQuantity = round2(agg.totalQuantity)
			point.DistinctProductCount = len(agg.products)
		}
		timeline = append(timeline, point)
	}

	topLocations := make([]RetroLocation, 0, locations.len())
	for _, l := range locations.ordered() {
		out := *l
		out.TotalQuantity = round2(out.TotalQuantity)
		topLocations = append(topLocations, out)
	}
	sort.SliceStable(topLocations, func(i, j int) bool {
		return topLocations[i].TotalQuantity > topLocations[j].TotalQuantity
	})
	if len(topLocations) > retroTopLocationsLimit {
		topLocations = topLocations[:retroTopLocationsLimit]
	}

	topProducts := make([]RetroProduct, 0, products.len())
	for _, p := range products.ordered() {
		out := *p
		out.TotalQuantity = round2(out.TotalQuantity)
		topProducts = append(topProducts, out)
	}
	sort.SliceStable(topProducts, func(i, j int) bool {
		return topProducts[i].TotalQuantity > topProducts[j].TotalQuantity
	})
	if len(topProducts) > retroTopProductsLimit {
		topProducts = topProducts[:retroTopProductsLimit]
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].at.Before(events[j].at)
	})

	return RetroAnalysisReport{
		Summary:      summary,
		Timeline:     timeline,
		TopLocations: topLocations,
		TopProducts:  topProducts,
		Events:       events,
		Filters: RetroFilters{
			StartDate: isoPtr(actualStart),
			EndDate:   isoPtr(actualEnd),
		},
	}
}
