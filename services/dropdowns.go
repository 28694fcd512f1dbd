package services

import "github.com/cenkokut62/sagaplus/pricing"

// Option is one entry of a select box.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ProductLineOptions returns the list of product line options.
var ProductLineOptions = []Option{
	{Value: string(pricing.CategoryStandard), Label: "Standart"},
	{Value: string(pricing.CategoryPremium), Label: "Premium"},
}

// VariantOptions returns the list of standard-line variant options.
var VariantOptions = []Option{
	{Value: string(pricing.VariantWired), Label: "Kablolu"},
	{Value: string(pricing.VariantWireless), Label: "Kablosuz"},
}

// VisitStatusOptions returns the list of visit status options.
var VisitStatusOptions = []Option{
	{Value: "planned", Label: "Planlı"},
	{Value: "active", Label: "Devam Ediyor"},
	{Value: "completed", Label: "Tamamlandı"},
	{Value: "cancelled", Label: "İptal"},
}
