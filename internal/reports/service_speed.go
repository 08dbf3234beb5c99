package reports

import (
	"sort"
	"time"

	"depo-backend/internal/models"
)

const serviceSpeedListLimit = 10

type LocationSpeed struct {
	Location             string   `json:"location"`
	AverageIntervalDays  *float64 `json:"averageIntervalDays"`
	TotalTransfers       int      `json:"totalTransfers"`
	DistinctProductCount int      `json:"distinctProductCount"`
	LastTransferDate     *string  `json:"lastTransferDate"`
}

type ProductSpeed struct {
	Location            string   `json:"location"`
	ProductID           *string  `json:"productId"`
	Name                string   `json:"name"`
	Category            string   `json:"category"`
	AverageIntervalDays *float64 `json:"averageIntervalDays"`
	LastIntervalDays    *float64 `json:"lastIntervalDays"`
	LastTransferDate    *string  `json:"lastTransferDate"`
	FirstTransferDate   *string  `json:"firstTransferDate"`
	TotalQuantity       float64  `json:"totalQuantity"`
	TransferCount       int      `json:"transferCount"`

	lastTimestamp time.Time
}

type ServiceSpeedReport struct {
	Locations              []LocationSpeed `json:"locations"`
	FastestProducts        []ProductSpeed  `json:"fastestProducts"`
	SlowestProducts        []ProductSpeed  `json:"slowestProducts"`
	SingleTransferProducts []ProductSpeed  `json:"singleTransferProducts"`
}

// intervalStats: ardışık iki teslimat arasındaki gün farkları
type intervalStats struct {
	sum   float64
	count int
}

func (s *intervalStats) add(days float64) {
	s.sum += days
	s.count++
}

func (s intervalStats) average() *float64 {
	if s.count == 0 {
		return nil
	}
	return floatPtr(round2(s.sum / float64(s.count)))
}

type locationSpeedAgg struct {
	location      string
	intervals     intervalStats
	transferCount int
	products      stringSet
	last          time.Time
	hasLast       bool
}

type productSpeedAgg struct {
	location     string
	productID    *string
	name         string
	category     string
	last         *time.Time
	first        time.Time
	intervals    intervalStats
	lastInterval *float64
	quantity     float64
	transfers    int
}

type timedTransfer struct {
	at time.Time
	*models.Transfer
}

// BuildServiceSpeed: aynı ürünün aynı konuma ardışık teslimatları arasındaki
// ortalama gün sayısı (ikmal sıklığı). Tarihi çözülemeyen transferler atlanır.
// Sıfır ya da negatif farklar aralık sayılmaz; aynı gün tekrar ikmaller
// ortalamayı düşürmez.
func BuildServiceSpeed(transfers []models.Transfer, loc *time.Location) ServiceSpeedReport {
	loc = locationOrLocal(loc)

	timed := make([]timedTransfer, 0, len(transfers))
	for i := range transfers {
		if ts, ok := models.ParseTimestamp(transfers[i].OlusturmaTarihi.String(), loc); ok {
			timed = append(timed, timedTransfer{at: ts, Transfer: &transfers[i]})
		}
	}
	sort.SliceStable(timed, func(i, j int) bool {
		return timed[i].at.Before(timed[j].at)
	})

	locations := newOrderedMap[string, locationSpeedAgg]()
	products := newOrderedMap[string, productSpeedAgg]()

	for _, t := range timed {
		raw, locationKey := destination(t.HedefKonum)
		place := locations.getOrCreate(locationKey, func() locationSpeedAgg {
			return locationSpeedAgg{location: raw, products: stringSet{}}
		})
		place.transferCount++
		if !place.hasLast || t.at.After(place.last) {
			place.last = t.at
			place.hasLast = true
		}

		for _, item := range t.Urunler {
			if !item.Miktar.Valid {
				continue
			}
			name := item.Ad.OrDefault(UnnamedProduct)
			productKey := locationKey + "::" + name
			if item.ID != "" {
				productKey = locationKey + "::" + item.ID.String()
			}

			p := products.getOrCreate(productKey, func() productSpeedAgg {
				return productSpeedAgg{
					location:  raw,
					productID: textPtr(item.ID),
					name:      name,
					category:  item.Kategori.OrDefault(NoCategory),
					first:     t.at,
				}
			})
			p.transfers++
			p.quantity += item.Miktar.Amount

			if p.last != nil {
				diffDays := t.at.Sub(*p.last).Hours() / 24
				if diffDays > 0 {
					p.intervals.add(diffDays)
					p.lastInterval = floatPtr(diffDays)
					place.intervals.add(diffDays)
				}
			}
			at := t.at
			p.last = &at

			place.products.add(productKey)
		}
	}

	report := ServiceSpeedReport{
		Locations:              make([]LocationSpeed, 0, locations.len()),
		FastestProducts:        []ProductSpeed{},
		SlowestProducts:        []ProductSpeed{},
		SingleTransferProducts: []ProductSpeed{},
	}

	for _, l := range locations.ordered() {
		s := LocationSpeed{
			Location:             l.location,
			AverageIntervalDays:  l.intervals.average(),
			TotalTransfers:       l.transferCount,
			DistinctProductCount: len(l.products),
		}
		if l.hasLast {
			s.LastTransferDate = isoPtr(l.last)
		}
		report.Locations = append(report.Locations, s)
	}

	var measured, single []ProductSpeed
	for _, p := range products.ordered() {
		s := ProductSpeed{
			Location:            p.location,
			ProductID:           p.productID,
			Name:                p.name,
			Category:            p.category,
			AverageIntervalDays: p.intervals.average(),
			FirstTransferDate:   isoPtr(p.first),
			TotalQuantity:       round2(p.quantity),
			TransferCount:       p.transfers,
		}
		if p.lastInterval != nil {
			s.LastIntervalDays = floatPtr(round2(*p.lastInterval))
		}
		if p.last != nil {
			s.LastTransferDate = isoPtr(*p.last)
			s.lastTimestamp = *p.last
		}

		if s.AverageIntervalDays != nil {
			measured = append(measured, s)
		} else {
			single = append(single, s)
		}
	}

	fastest := append([]ProductSpeed(nil), measured...)
	sort.SliceStable(fastest, func(i, j int) bool {
		return *fastest[i].AverageIntervalDays < *fastest[j].AverageIntervalDays
	})
	slowest := append([]ProductSpeed(nil), measured...)
	sort.SliceStable(slowest, func(i, j int) bool {
		return *slowest[i].AverageIntervalDays > *slowest[j].AverageIntervalDays
	})
	sort.SliceStable(single, func(i, j int) bool {
		return single[i].lastTimestamp.After(single[j].lastTimestamp)
	})

	report.FastestProducts = append(report.FastestProducts, limitSpeeds(fastest)...)
	report.SlowestProducts = append(report.SlowestProducts, limitSpeeds(slowest)...)
	report.SingleTransferProducts = append(report.SingleTransferProducts, limitSpeeds(single)...)
	return report
}

func limitSpeeds(list []ProductSpeed) []ProductSpeed {
	if len(list) > serviceSpeedListLimit {
		return list[:serviceSpeedListLimit]
	}
	return list
}
