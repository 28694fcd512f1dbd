// Package pricing computes subscription quotes for the standard and premium
// product lines: catalog partitioning, the in-progress selection and the
// final price breakdown. It performs no I/O.
package pricing

const (
	// ActivationFeeNet is the one-time activation fee before VAT.
	ActivationFeeNet = 4560.0

	// VATRate is applied additively: gross = net + net*VATRate.
	VATRate = 0.20

	// PerWiredUnitInstallFee is charged for every wired peripheral unit paired
	// with a wireless standard package.
	PerWiredUnitInstallFee = 216.0

	// MaxWiredUnitsOnWirelessPackage caps wired peripheral units under a
	// wireless standard package.
	MaxWiredUnitsOnWirelessPackage = 2

	// campaignDiscount and campaignMonths drive the campaign preview.
	campaignDiscount = 0.5
	campaignMonths   = 3
)

// VATFromNet returns the VAT portion of a net amount.
func VATFromNet(net float64) float64 {
	return net * VATRate
}

// GrossFromNet returns net plus VAT.
func GrossFromNet(net float64) float64 {
	return net * (1 + VATRate)
}
