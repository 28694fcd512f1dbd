package pricing

// Flags are the per-quote switches the sales representative controls.
type Flags struct {
	CampaignApplied  bool `json:"campaign_applied"`
	ActivationWaived bool `json:"activation_waived"`

	// ExtraInstallationFeeNet is the manual wiring fee entered on the
	// standard line. It is ignored for premium quotes.
	ExtraInstallationFeeNet float64 `json:"extra_installation_fee_net"`

	// VisitFlow is true when the quote belongs to an active field visit.
	// One-time fees are only charged inside a visit.
	VisitFlow bool `json:"visit_flow"`
}

// Breakdown is the computed price of a selection. All amounts are
// unrounded; round only when displaying.
type Breakdown struct {
	SubscriptionNet   float64 `json:"subscription_net"`
	SubscriptionVAT   float64 `json:"subscription_vat"`
	SubscriptionTotal float64 `json:"subscription_total"`

	ActivationNet   float64 `json:"activation_net"`
	InstallationNet float64 `json:"installation_net"`
	WiredUnitCount  int     `json:"wired_unit_count"`

	OneTimeFeesNet   float64 `json:"one_time_fees_net"`
	OneTimeFeesVAT   float64 `json:"one_time_fees_vat"`
	OneTimeFeesTotal float64 `json:"one_time_fees_total"`

	GrandTotal float64 `json:"grand_total"`
}

// CampaignPreview projects the first three months at half price. It is
// informational and never changes Breakdown.GrandTotal.
type CampaignPreview struct {
	DiscountedNet     float64 `json:"discounted_net"`
	DiscountedTotal   float64 `json:"discounted_total"`
	NormalTotal       float64 `json:"normal_total"`
	ThreeMonthBenefit float64 `json:"three_month_benefit"`
}

// Compute folds a selection and its flags into a Breakdown. It never fails:
// without a package the one-time fees are zero, and an empty selection
// prices at zero.
func Compute(s Selection, f Flags) Breakdown {
	var b Breakdown

	if s.Package != nil {
		b.SubscriptionNet = s.PackagePrice
	}
	for _, l := range s.Peripherals {
		b.SubscriptionNet += l.Net()
	}
	b.SubscriptionVAT = VATFromNet(b.SubscriptionNet)
	b.SubscriptionTotal = b.SubscriptionNet + b.SubscriptionVAT

	b.WiredUnitCount = s.WiredUnitCount()
	if f.VisitFlow && s.Package != nil {
		if !f.ActivationWaived {
			b.ActivationNet = ActivationFeeNet
		}
		b.InstallationNet = installationNet(s, f, b.WiredUnitCount)
	}

	b.OneTimeFeesNet = b.ActivationNet + b.InstallationNet
	b.OneTimeFeesVAT = VATFromNet(b.OneTimeFeesNet)
	b.OneTimeFeesTotal = b.OneTimeFeesNet + b.OneTimeFeesVAT

	b.GrandTotal = b.SubscriptionTotal + b.OneTimeFeesTotal
	return b
}

// A wired package already prices the wiring in, so only a wireless
// package pays per wired unit.
func installationNet(s Selection, f Flags, wiredUnits int) float64 {
	if s.Line != CategoryStandard {
		return 0
	}
	var fee float64
	if s.Package != nil && s.PackageVariant == VariantWireless {
		fee = float64(wiredUnits) * PerWiredUnitInstallFee
	}
	if f.ExtraInstallationFeeNet > 0 {
		fee += f.ExtraInstallationFeeNet
	}
	return fee
}

// PreviewCampaign computes the half-price projection for a subscription net.
func PreviewCampaign(subscriptionNet float64) CampaignPreview {
	discountedNet := subscriptionNet * campaignDiscount
	discountedTotal := GrossFromNet(discountedNet)
	normalTotal := GrossFromNet(subscriptionNet)
	return CampaignPreview{
		DiscountedNet:     discountedNet,
		DiscountedTotal:   discountedTotal,
		NormalTotal:       normalTotal,
		ThreeMonthBenefit: (normalTotal - discountedTotal) * campaignMonths,
	}
}

// CheckSubmittable reports whether a computed quote may be finalized: a
// package must be selected and the subscription must be billable.
func CheckSubmittable(s Selection, b Breakdown) error {
	if !s.HasPackage() {
		return ErrNoPackageSelected
	}
	if b.SubscriptionNet <= 0 {
		return ErrEmptyQuote
	}
	return nil
}
