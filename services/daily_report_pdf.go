package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateDailyReportPDF creates the daily activity report using maroto/v2.
// It returns the raw PDF bytes or an error.
func GenerateDailyReportPDF(company CompanyInfo, report *DailyReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Sayfa {current} / {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	// --- Header Section ---
	addReportHeader(m, company, report)

	// --- Metrics ---
	addReportMetrics(m, report.Metrics)

	// --- Visit Table ---
	addReportTableHeader(m)
	for i, v := range report.Visits {
		addReportTableRow(m, i, v)
	}
	if len(report.Visits) == 0 {
		m.AddRows(
			row.New(8).Add(
				col.New(12).Add(text.New("Bu tarihte ziyaret kaydı yok.", props.Text{
					Size:  8,
					Style: fontstyle.Italic,
					Align: align.Center,
					Color: colorMuted,
				})),
			),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate report PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addReportHeader adds the title, the representative and the date.
func addReportHeader(m core.Maroto, company CompanyInfo, report *DailyReport) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(company.Name+" - Günlük Aktivite Raporu", props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(
				text.New(fmtField("Personel", report.UserName), props.Text{
					Size:  10,
					Align: align.Left,
				}),
			),
			col.New(6).Add(
				text.New("Tarih: "+report.Date, props.Text{
					Size:  10,
					Align: align.Right,
				}),
			),
		),
	)

	m.AddRows(row.New(4))
}

// addReportMetrics adds the six metric cells in one row.
func addReportMetrics(m core.Maroto, metrics DailyMetrics) {
	cells := []struct {
		label string
		value string
	}{
		{"Toplam Ziyaret", fmt.Sprintf("%d", metrics.TotalVisits)},
		{"Tamamlanan", fmt.Sprintf("%d", metrics.CompletedVisits)},
		{"Planlanan", fmt.Sprintf("%d", metrics.PlannedVisits)},
		{"Toplam Süre", fmt.Sprintf("%d dk", metrics.TotalDurationMinutes)},
		{"Teklif Sayısı", fmt.Sprintf("%d", metrics.OfferCount)},
		{"Dönüşüm", fmt.Sprintf("%%%d", metrics.ConversionRate)},
	}

	panel := &props.Cell{BackgroundColor: colorPanel}
	labels := make([]core.Col, len(cells))
	values := make([]core.Col, len(cells))
	for i, c := range cells {
		labels[i] = col.New(2).Add(text.New(c.label, props.Text{
			Size:  7,
			Style: fontstyle.Bold,
			Align: align.Center,
			Color: colorMuted,
		})).WithStyle(panel)
		values[i] = col.New(2).Add(text.New(c.value, props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Align: align.Center,
		})).WithStyle(panel)
	}

	m.AddRows(row.New(6).Add(labels...))
	m.AddRows(row.New(9).Add(values...))
	m.AddRows(row.New(5))
}

// addReportTableHeader adds the column headers for the visit table.
func addReportTableHeader(m core.Maroto) {
	headerStyle := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: colorWhite,
	}
	headerCell := &props.Cell{BackgroundColor: colorDark}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerStyle)).WithStyle(headerCell),
			col.New(3).Add(text.New("Müşteri", headerStyle)).WithStyle(headerCell),
			col.New(3).Add(text.New("Adres", headerStyle)).WithStyle(headerCell),
			col.New(1).Add(text.New("Başlangıç", headerStyle)).WithStyle(headerCell),
			col.New(1).Add(text.New("Süre", headerStyle)).WithStyle(headerCell),
			col.New(2).Add(text.New("Durum", headerStyle)).WithStyle(headerCell),
			col.New(1).Add(text.New("Teklif", headerStyle)).WithStyle(headerCell),
		),
	)
}

// addReportTableRow adds a single visit row with alternating background.
func addReportTableRow(m core.Maroto, i int, v DailyVisitRow) {
	body := props.Text{Size: 8, Align: align.Center}
	bodyLeft := props.Text{Size: 8, Align: align.Left}

	offer := "Yok"
	if v.OfferGiven {
		offer = "Verildi"
	}
	started := ""
	if !v.StartedAt.IsZero() {
		started = v.StartedAt.Format("15:04")
	}

	cols := []core.Col{
		col.New(1).Add(text.New(fmt.Sprintf("%d", i+1), body)),
		col.New(3).Add(text.New(v.PlaceName, bodyLeft)),
		col.New(3).Add(text.New(v.Address, bodyLeft)),
		col.New(1).Add(text.New(started, body)),
		col.New(1).Add(text.New(fmt.Sprintf("%d dk", v.DurationMinutes()), body)),
		col.New(2).Add(text.New(VisitStatusLabel(v.Status), body)),
		col.New(1).Add(text.New(offer, body)),
	}
	if i%2 == 1 {
		for j := range cols {
			cols[j] = cols[j].WithStyle(&props.Cell{BackgroundColor: colorAlt})
		}
	}

	m.AddRows(row.New(7).Add(cols...))
}
