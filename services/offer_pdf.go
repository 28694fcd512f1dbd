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

	"github.com/cenkokut62/sagaplus/pricing"
)

var (
	colorDark  = &props.Color{Red: 33, Green: 37, Blue: 41}
	colorMuted = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorAlt   = &props.Color{Red: 248, Green: 249, Blue: 250}
	colorPanel = &props.Color{Red: 245, Green: 245, Blue: 245}
	colorBrand = &props.Color{Red: 192, Green: 30, Blue: 45}
)

// GenerateOfferPDF creates the customer offer document using maroto/v2.
// It returns the raw PDF bytes or an error.
func GenerateOfferPDF(data *OfferExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Sayfa {current} / {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addOfferHeader(m, data)
	addOfferCustomer(m, data)
	addOfferLinesTable(m, data)
	addOfferTotals(m, data.Breakdown)
	addOfferCampaign(m, data.Campaign)
	addOfferPersonnel(m, data.Personnel)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate offer PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addOfferHeader adds company name, tagline, offer title and number.
func addOfferHeader(m core.Maroto, data *OfferExportData) {
	m.AddRows(
		row.New(10).Add(
			col.New(7).Add(
				text.New(data.Company.Name, props.Text{
					Size:  15,
					Style: fontstyle.Bold,
					Align: align.Left,
					Color: colorBrand,
				}),
			),
			col.New(5).Add(
				text.New("FİYAT TEKLİFİ", props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: colorDark,
				}),
			),
		),
	)

	m.AddRows(
		row.New(7).Add(
			col.New(7).Add(
				text.New(data.Company.Tagline, props.Text{
					Size:  8,
					Align: align.Left,
					Color: colorMuted,
				}),
			),
			col.New(5).Add(
				text.New(fmt.Sprintf("No: %s  |  %s", data.OfferNumber, data.OfferDate), props.Text{
					Size:  9,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			),
		),
	)

	m.AddRows(row.New(4))
}

// addOfferCustomer adds the business block and the product line.
func addOfferCustomer(m core.Maroto, data *OfferExportData) {
	label := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Left, Color: colorMuted}
	value := props.Text{Size: 8, Align: align.Left}
	panel := &props.Cell{BackgroundColor: colorPanel}

	m.AddRows(
		row.New(6).Add(
			col.New(8).Add(text.New("MÜŞTERİ", label)).WithStyle(panel),
			col.New(4).Add(text.New("ÜRÜN GRUBU", label)).WithStyle(panel),
		),
	)
	m.AddRows(
		row.New(7).Add(
			col.New(8).Add(text.New(data.BusinessName, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Left})),
			col.New(4).Add(text.New(LineLabel(data.Line), value)),
		),
	)
	if data.Address != "" {
		m.AddRows(row.New(6).Add(col.New(12).Add(text.New(data.Address, value))))
	}
	if data.ContactName != "" {
		m.AddRows(row.New(6).Add(col.New(12).Add(text.New(fmtField("Yetkili", data.ContactName), value))))
	}

	m.AddRows(row.New(4))
}

// addOfferLinesTable adds the product table with alternating backgrounds.
func addOfferLinesTable(m core.Maroto, data *OfferExportData) {
	headerText := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Center, Color: colorWhite}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	headerCell := &props.Cell{BackgroundColor: colorDark}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerText)).WithStyle(headerCell),
			col.New(5).Add(text.New("ÜRÜN / HİZMET", headerTextLeft)).WithStyle(headerCell),
			col.New(2).Add(text.New("TİP", headerText)).WithStyle(headerCell),
			col.New(1).Add(text.New("ADET", headerText)).WithStyle(headerCell),
			col.New(1).Add(text.New("BİRİM", headerText)).WithStyle(headerCell),
			col.New(2).Add(text.New("TOPLAM", headerText)).WithStyle(headerCell),
		),
	)

	body := props.Text{Size: 7, Align: align.Center}
	bodyLeft := props.Text{Size: 7, Align: align.Left}
	bodyRight := props.Text{Size: 7, Align: align.Right}

	for i, l := range data.Lines {
		cols := []core.Col{
			col.New(1).Add(text.New(fmt.Sprintf("%d", i+1), body)),
			col.New(5).Add(text.New(l.Name, bodyLeft)),
			col.New(2).Add(text.New(VariantLabel(l.Variant), body)),
			col.New(1).Add(text.New(fmt.Sprintf("%d", l.Quantity), body)),
			col.New(1).Add(text.New(FormatTRY(l.UnitNet), bodyRight)),
			col.New(2).Add(text.New(FormatTRY(l.LineNet), bodyRight)),
		}
		if i%2 == 1 {
			for j := range cols {
				cols[j] = cols[j].WithStyle(&props.Cell{BackgroundColor: colorAlt})
			}
		}
		m.AddRows(row.New(7).Add(cols...))
	}

	m.AddRows(
		row.New(5).Add(
			col.New(12).Add(text.New("Fiyatlar aylık abonelik bedelidir, KDV hariçtir.", props.Text{
				Size:  6,
				Style: fontstyle.Italic,
				Align: align.Right,
				Color: colorMuted,
			})),
		),
	)
	m.AddRows(row.New(2))
}

// addOfferTotals adds subscription and one-time fee blocks, then the grand total.
func addOfferTotals(m core.Maroto, b pricing.Breakdown) {
	summary := &props.Cell{BackgroundColor: colorPanel}
	label := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	value := props.Text{Size: 8, Align: align.Right}

	totalRow := func(l string, v float64) {
		m.AddRows(
			row.New(6).Add(
				col.New(9).Add(text.New(l, label)).WithStyle(summary),
				col.New(3).Add(text.New(FormatTRY(v), value)).WithStyle(summary),
			),
		)
	}

	totalRow("Aylık Abonelik (KDV Hariç)", b.SubscriptionNet)
	totalRow(fmt.Sprintf("KDV %%%.0f", pricing.VATRate*100), b.SubscriptionVAT)
	totalRow("Aylık Abonelik Toplamı", b.SubscriptionTotal)

	if b.OneTimeFeesNet > 0 {
		m.AddRows(row.New(2))
		if b.ActivationNet > 0 {
			totalRow("Aktivasyon Bedeli", b.ActivationNet)
		}
		if b.InstallationNet > 0 {
			totalRow("Kurulum Bedeli", b.InstallationNet)
		}
		totalRow("Tek Seferlik KDV", b.OneTimeFeesVAT)
		totalRow("Tek Seferlik Ödemeler Toplamı", b.OneTimeFeesTotal)
	}

	grand := &props.Cell{BackgroundColor: colorDark}
	grandText := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Color: colorWhite}
	m.AddRows(
		row.New(8).Add(
			col.New(9).Add(text.New("GENEL TOPLAM (KDV Dahil)", grandText)).WithStyle(grand),
			col.New(3).Add(text.New(FormatTRY(b.GrandTotal), grandText)).WithStyle(grand),
		),
	)

	m.AddRows(row.New(4))
}

// addOfferCampaign adds the first-three-months note if the campaign applies.
func addOfferCampaign(m core.Maroto, c *pricing.CampaignPreview) {
	if c == nil {
		return
	}

	label := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left, Color: colorBrand}
	value := props.Text{Size: 8, Align: align.Left}

	m.AddRows(row.New(6).Add(col.New(12).Add(text.New("KAMPANYA: İLK 3 AY %50 İNDİRİM", label))))
	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(text.New(fmtField("İlk 3 ay aylık", FormatTRY(c.DiscountedTotal)), value)),
			col.New(6).Add(text.New(fmtField("Sonraki aylar", FormatTRY(c.NormalTotal)), value)),
		),
	)
	m.AddRows(row.New(6).Add(col.New(12).Add(text.New(fmtField("Toplam kazanç", FormatTRY(c.ThreeMonthBenefit)), value))))

	m.AddRows(row.New(4))
}

// addOfferPersonnel adds the sales representative block at the bottom.
func addOfferPersonnel(m core.Maroto, p OfferPersonnel) {
	if p.FullName == "" {
		return
	}

	label := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Left, Color: colorMuted}
	value := props.Text{Size: 8, Align: align.Left}

	m.AddRows(row.New(6).Add(col.New(12).Add(text.New("SATIŞ TEMSİLCİSİ", label))))
	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(text.New(p.FullName, props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left})),
			col.New(6).Add(text.New(p.Title, value)),
		),
	)
	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(text.New(p.Email, value)),
			col.New(6).Add(text.New(p.Phone, value)),
		),
	)
}

// fmtField returns "label: value" if value is non-empty, otherwise empty string.
func fmtField(label, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("%s: %s", label, value)
}
