package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"github.com/cenkokut62/sagaplus/pricing"
)

// CompanyInfo is printed in document headers.
type CompanyInfo struct {
	Name    string
	Tagline string
}

// OfferLine is one row of a saved offer, as stored in offers.products_data.
type OfferLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Variant   string  `json:"variant,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitNet   float64 `json:"unit_net"`
	LineNet   float64 `json:"line_net"`
}

// OfferPersonnel is the sales representative block of the offer PDF.
type OfferPersonnel struct {
	FullName string
	Title    string
	Email    string
	Phone    string
}

// OfferExportData holds all data needed to generate an offer PDF.
type OfferExportData struct {
	Company     CompanyInfo
	OfferNumber string
	OfferDate   string

	// Customer
	BusinessName string
	Address      string
	ContactName  string

	Line      pricing.Category
	Lines     []OfferLine
	Breakdown pricing.Breakdown

	// Campaign is set only when the campaign was applied.
	Campaign *pricing.CampaignPreview

	Personnel OfferPersonnel
}

// OfferLines flattens a selection into stored offer rows.
func OfferLines(sel pricing.Selection) []OfferLine {
	items := sel.Lines()
	lines := make([]OfferLine, 0, len(items))
	for _, l := range items {
		lines = append(lines, OfferLine{
			ProductID: l.ProductID,
			Name:      l.DisplayName,
			Variant:   string(l.Variant),
			Quantity:  l.Quantity,
			UnitNet:   l.UnitPrice,
			LineNet:   l.Net(),
		})
	}
	return lines
}

// VariantLabel is the customer-facing name of a variant.
func VariantLabel(v string) string {
	switch pricing.Variant(v) {
	case pricing.VariantWired:
		return "Kablolu"
	case pricing.VariantWireless:
		return "Kablosuz"
	}
	return ""
}

// LineLabel is the customer-facing name of a product line.
func LineLabel(c pricing.Category) string {
	if c == pricing.CategoryPremium {
		return "Premium"
	}
	return "Standart"
}

// BuildOfferExportData assembles the offer document from the selection and
// the visit and user records.
func BuildOfferExportData(
	app core.App,
	company CompanyInfo,
	offerNumber string,
	sel pricing.Selection,
	flags pricing.Flags,
	visitID string,
	userID string,
	now time.Time,
) (*OfferExportData, error) {
	visit, err := app.FindRecordById("visits", visitID)
	if err != nil {
		return nil, fmt.Errorf("visit not found: %w", err)
	}

	breakdown := pricing.Compute(sel, flags)

	data := &OfferExportData{
		Company:      company,
		OfferNumber:  offerNumber,
		OfferDate:    now.Format("02.01.2006"),
		BusinessName: visit.GetString("place_name"),
		Address:      visit.GetString("address"),
		ContactName:  visit.GetString("contact_name"),
		Line:         sel.Line,
		Lines:        OfferLines(sel),
		Breakdown:    breakdown,
	}

	if flags.CampaignApplied {
		preview := pricing.PreviewCampaign(breakdown.SubscriptionNet)
		data.Campaign = &preview
	}

	if user, err := app.FindRecordById("users", userID); err == nil {
		data.Personnel = personnelFromRecord(user)
	} else {
		zap.L().Warn("offer_export: could not find user", zap.String("user_id", userID), zap.Error(err))
	}

	return data, nil
}

func personnelFromRecord(user *core.Record) OfferPersonnel {
	name := user.GetString("full_name")
	if name == "" {
		name = user.GetString("name")
	}
	title := user.GetString("title")
	if title == "" {
		title = "Personel"
	}
	return OfferPersonnel{
		FullName: name,
		Title:    title,
		Email:    user.Email(),
		Phone:    user.GetString("phone"),
	}
}
