package reports

import (
	"strings"
	"time"

	"depo-backend/internal/models"
)

// Overview: genel rapor
type Overview struct {
	TotalTransfers          int     `json:"totalTransfers"`
	TotalItemsDelivered     float64 `json:"totalItemsDelivered"`
	DistinctProductCount    int     `json:"distinctProductCount"`
	FirstTransferDate       *string `json:"firstTransferDate"`
	LastTransferDate        *string `json:"lastTransferDate"`
	AverageItemsPerTransfer float64 `json:"averageItemsPerTransfer"`
	DeliveredToBar          float64 `json:"deliveredToBar"`
}

func BuildOverview(transfers []models.Transfer, loc *time.Location) Overview {
	if len(transfers) == 0 {
		return Overview{}
	}
	loc = locationOrLocal(loc)

	var (
		totalItems     float64
		deliveredToBar float64
		first, last    time.Time
		hasTimestamp   bool
	)
	productIDs := stringSet{}

	for _, t := range transfers {
		if ts, ok := models.ParseTimestamp(t.OlusturmaTarihi.String(), loc); ok {
			if !hasTimestamp || ts.Before(first) {
				first = ts
			}
			if !hasTimestamp || ts.After(last) {
				last = ts
			}
			hasTimestamp = true
		}

		toBar := strings.ToLower(t.HedefKonum.String()) == BarLocation
		for _, item := range t.Urunler {
			if item.Miktar.Valid {
				totalItems += item.Miktar.Amount
				if toBar {
					deliveredToBar += item.Miktar.Amount
				}
			}
			if item.ID != "" {
				productIDs.add(item.ID.String())
			}
		}
	}

	o := Overview{
		TotalTransfers:          len(transfers),
		TotalItemsDelivered:     round2(totalItems),
		DistinctProductCount:    len(productIDs),
		AverageItemsPerTransfer: round2(totalItems / float64(len(transfers))),
		DeliveredToBar:          round2(deliveredToBar),
	}
	if hasTimestamp {
		o.FirstTransferDate = isoPtr(first)
		o.LastTransferDate = isoPtr(last)
	}
	return o
}
