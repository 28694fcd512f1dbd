package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const dailyReportSheet = "Günlük Rapor"

// GenerateDailyReportExcel creates an Excel workbook from a DailyReport and
// returns the file contents as a byte slice.
func GenerateDailyReportExcel(company CompanyInfo, report *DailyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := dailyReportSheet

	// Rename default sheet.
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	// Column references (A through G).
	columns := []string{"A", "B", "C", "D", "E", "F", "G"}
	lastCol := columns[len(columns)-1]

	widths := []float64{6, 32, 40, 12, 12, 16, 12}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 16,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 11,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	// Column header style: bold, white text, charcoal background, centered.
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
			Size:  11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	rowStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 10,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create row style: %w", err)
	}

	metricLabelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create metric label style: %w", err)
	}

	// ── Header Rows (1-2) ───────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(company.Name+" - Günlük Aktivite Raporu"))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
		return nil, fmt.Errorf("merge date: %w", err)
	}
	subtitle := "Tarih: " + report.Date
	if report.UserName != "" {
		subtitle = sanitizeExcelCell(report.UserName) + "  |  " + subtitle
	}
	f.SetCellValue(sheetName, "A2", subtitle)
	f.SetCellStyle(sheetName, "A2", lastCol+"2", subtitleStyle)

	// ── Metrics (rows 4-9) ──────────────────────────────────────────────

	metrics := []struct {
		label string
		value any
	}{
		{"Toplam Ziyaret", report.Metrics.TotalVisits},
		{"Tamamlanan", report.Metrics.CompletedVisits},
		{"Planlanan", report.Metrics.PlannedVisits},
		{"Toplam Süre (dk)", report.Metrics.TotalDurationMinutes},
		{"Teklif Sayısı", report.Metrics.OfferCount},
		{"Dönüşüm (%)", report.Metrics.ConversionRate},
	}
	row := 4
	for _, mt := range metrics {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "B"+rowStr, mt.label)
		f.SetCellStyle(sheetName, "B"+rowStr, "B"+rowStr, metricLabelStyle)
		f.SetCellValue(sheetName, "C"+rowStr, mt.value)
		row++
	}

	// ── Visit table ─────────────────────────────────────────────────────

	row++
	headerRow := fmt.Sprintf("%d", row)
	headers := []string{"#", "Müşteri", "Adres", "Başlangıç", "Süre (dk)", "Durum", "Teklif"}
	for i, h := range headers {
		f.SetCellValue(sheetName, columns[i]+headerRow, h)
	}
	f.SetCellStyle(sheetName, "A"+headerRow, lastCol+headerRow, headerStyle)
	row++

	for i, v := range report.Visits {
		rowStr := fmt.Sprintf("%d", row)

		started := ""
		if !v.StartedAt.IsZero() {
			started = v.StartedAt.Format("15:04")
		}
		offer := "Yok"
		if v.OfferGiven {
			offer = "Verildi"
		}

		f.SetCellValue(sheetName, "A"+rowStr, i+1)
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(v.PlaceName))
		f.SetCellValue(sheetName, "C"+rowStr, sanitizeExcelCell(v.Address))
		f.SetCellValue(sheetName, "D"+rowStr, started)
		f.SetCellValue(sheetName, "E"+rowStr, v.DurationMinutes())
		f.SetCellValue(sheetName, "F"+rowStr, VisitStatusLabel(v.Status))
		f.SetCellValue(sheetName, "G"+rowStr, offer)
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, rowStyle)

		row++
	}

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
