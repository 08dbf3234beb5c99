package reports

import (
	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary   = "Özet"
	sheetTimeline  = "Zaman Çizelgesi"
	sheetLocations = "Konumlar"
	sheetProducts  = "Ürünler"
	sheetEvents    = "Olaylar"
)

// RetroWorkbook: retro analiz raporunu sekmelere bölünmüş bir XLSX dosyasına döker
func RetroWorkbook(report RetroAnalysisReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		f.Close()
		return nil, err
	}

	startDate, endDate := "-", "-"
	if report.Filters.StartDate != nil {
		startDate = *report.Filters.StartDate
	}
	if report.Filters.EndDate != nil {
		endDate = *report.Filters.EndDate
	}
	summary := [][]any{
		{"Başlangıç", startDate},
		{"Bitiş", endDate},
		{"Toplam Transfer", report.Summary.TotalTransfers},
		{"Toplam Miktar", report.Summary.TotalQuantity},
		{"Farklı Ürün", report.Summary.DistinctProductCount},
		{"Farklı Konum", report.Summary.DistinctLocationCount},
	}
	if err := writeSheet(f, sheetSummary, []any{"Alan", "Değer"}, summary); err != nil {
		f.Close()
		return nil, err
	}

	timeline := make([][]any, 0, len(report.Timeline))
	for _, p := range report.Timeline {
		timeline = append(timeline, []any{p.Date, p.TransferCount, p.TotalQuantity, p.DistinctProductCount})
	}

	locations := make([][]any, 0, len(report.TopLocations))
	for _, l := range report.TopLocations {
		locations = append(locations, []any{l.Location, l.TransferCount, l.TotalQuantity})
	}

	products := make([][]any, 0, len(report.TopProducts))
	for _, p := range report.TopProducts {
		id := ""
		if p.ProductID != nil {
			id = *p.ProductID
		}
		products = append(products, []any{p.Location, id, p.Name, p.Category, p.TotalQuantity, p.TransferCount})
	}

	events := make([][]any, 0, len(report.Events))
	for _, e := range report.Events {
		events = append(events, []any{e.ID, e.Timestamp, e.Location, e.ProductCount, e.TotalQuantity, e.TeslimEden, e.TeslimAlan, e.Aciklama})
	}

	sheets := []struct {
		name   string
		header []any
		rows   [][]any
	}{
		{sheetTimeline, []any{"Tarih", "Transfer", "Miktar", "Farklı Ürün"}, timeline},
		{sheetLocations, []any{"Konum", "Transfer", "Miktar"}, locations},
		{sheetProducts, []any{"Konum", "Ürün ID", "Ürün", "Kategori", "Miktar", "Transfer"}, products},
		{sheetEvents, []any{"ID", "Tarih", "Konum", "Kalem", "Miktar", "Teslim Eden", "Teslim Alan", "Açıklama"}, events},
	}
	for _, s := range sheets {
		if _, err := f.NewSheet(s.name); err != nil {
			f.Close()
			return nil, err
		}
		if err := writeSheet(f, s.name, s.header, s.rows); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
