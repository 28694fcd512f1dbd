// Package templates renders the HTML fragments returned to HTMX requests.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/cenkokut62/sagaplus/pricing"
	"github.com/cenkokut62/sagaplus/services"
)

// QuoteLineView is one row of the quote summary table.
type QuoteLineView struct {
	Name     string
	Variant  string
	Quantity int
	UnitNet  float64
	LineNet  float64
}

// QuoteSummaryData holds everything the quote summary fragment shows.
type QuoteSummaryData struct {
	QuoteID     string
	Line        pricing.Category
	Lines       []QuoteLineView
	Breakdown   pricing.Breakdown
	Campaign    *pricing.CampaignPreview
	VisitFlow   bool
	Submittable bool
}

// htmlWriter stops at the first write error so components can write
// unconditionally and check once.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

// QuoteSummary renders the live price panel of a quote session.
func QuoteSummary(d QuoteSummaryData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		h.raw(`<div id="quote-summary" class="quote-summary" data-quote-id="`)
		h.text(d.QuoteID)
		h.raw(`"><h3>`)
		h.text(services.LineLabel(d.Line) + " Teklif")
		h.raw(`</h3>`)

		if len(d.Lines) == 0 {
			h.raw(`<p class="empty">Henüz ürün seçilmedi.</p>`)
		} else {
			h.raw(`<table class="quote-lines"><thead><tr><th>Ürün</th><th>Tip</th><th>Adet</th><th>Birim</th><th>Toplam</th></tr></thead><tbody>`)
			for _, l := range d.Lines {
				h.raw(`<tr><td>`)
				h.text(l.Name)
				h.raw(`</td><td>`)
				h.text(services.VariantLabel(l.Variant))
				h.rawf(`</td><td>%d</td><td>`, l.Quantity)
				h.text(services.FormatTRY(l.UnitNet))
				h.raw(`</td><td>`)
				h.text(services.FormatTRY(l.LineNet))
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}

		b := d.Breakdown
		h.raw(`<dl class="quote-totals">`)
		summaryRow(h, "Aylık Abonelik (KDV Hariç)", b.SubscriptionNet)
		summaryRow(h, "KDV", b.SubscriptionVAT)
		summaryRow(h, "Aylık Toplam", b.SubscriptionTotal)
		if d.VisitFlow {
			summaryRow(h, "Aktivasyon", b.ActivationNet)
			summaryRow(h, "Kurulum", b.InstallationNet)
			summaryRow(h, "Tek Seferlik Toplam", b.OneTimeFeesTotal)
		}
		h.raw(`</dl><p class="grand-total">Genel Toplam: <strong>`)
		h.text(services.FormatTRY(b.GrandTotal))
		h.raw(`</strong></p>`)

		if d.Campaign != nil {
			h.raw(`<div class="campaign"><p>İlk 3 ay: `)
			h.text(services.FormatTRY(d.Campaign.DiscountedTotal))
			h.raw(` / ay</p><p>Kazanç: `)
			h.text(services.FormatTRY(d.Campaign.ThreeMonthBenefit))
			h.raw(`</p></div>`)
		}

		if d.VisitFlow {
			h.raw(`<button class="btn btn-primary" hx-post="/api/quotes/`)
			h.text(d.QuoteID)
			h.raw(`/finalize" hx-target="#quote-summary" hx-swap="outerHTML"`)
			if !d.Submittable {
				h.raw(` disabled`)
			}
			h.raw(`>Teklifi Oluştur</button>`)
		}

		h.raw(`</div>`)
		return h.err
	})
}

func summaryRow(h *htmlWriter, label string, amount float64) {
	h.raw(`<dt>`)
	h.text(label)
	h.raw(`</dt><dd>`)
	h.text(services.FormatTRY(amount))
	h.raw(`</dd>`)
}

// OfferSaved replaces the quote summary once the offer is stored.
func OfferSaved(offerID, offerNumber string, total float64) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div id="quote-summary" class="offer-saved"><p>Teklif oluşturuldu: <strong>`)
		h.text(offerNumber)
		h.raw(`</strong></p><p>Toplam: `)
		h.text(services.FormatTRY(total))
		h.raw(`</p><a class="btn" href="/api/offers/`)
		h.text(offerID)
		h.raw(`/pdf" target="_blank">PDF</a></div>`)
		return h.err
	})
}

// ImportValidationResults shows the outcome of a catalog upload.
func ImportValidationResults(result *services.ValidationResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div id="import-results">`)
		h.rawf(`<p>%d satır, %d geçerli, %d hatalı.</p>`, result.TotalRows, result.ValidRows, result.ErrorRows)
		if len(result.Errors) > 0 {
			h.raw(`<table class="import-errors"><thead><tr><th>Satır</th><th>Alan</th><th>Hata</th></tr></thead><tbody>`)
			for _, e := range result.Errors {
				h.rawf(`<tr><td>%d</td><td>`, e.Row)
				h.text(e.Field)
				h.raw(`</td><td>`)
				h.text(e.Message)
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}
		h.raw(`</div>`)
		return h.err
	})
}
