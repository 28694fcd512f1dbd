package services

import (
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/cenkokut62/sagaplus/pricing"
)

// RecordToProduct maps a products record to the pricing model. Number fields
// cannot be null, so a zero price means the variant is not offered.
func RecordToProduct(rec *core.Record) pricing.Product {
	return pricing.Product{
		ID:             rec.Id,
		Code:           rec.GetString("code"),
		Name:           rec.GetString("name"),
		Category:       pricing.Category(rec.GetString("category")),
		Type:           pricing.ProductType(rec.GetString("type")),
		PriceWired:     nonZeroPrice(rec.GetFloat("price_wired")),
		PriceWireless:  nonZeroPrice(rec.GetFloat("price_wireless")),
		CodeWired:      rec.GetString("code_wired"),
		CodeWireless:   rec.GetString("code_wireless"),
		Price:          nonZeroPrice(rec.GetFloat("price")),
		HubCompatible:  rec.GetBool("hub_compatible"),
		Hub2Compatible: rec.GetBool("hub2_compatible"),
	}
}

func nonZeroPrice(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return pricing.Money(v)
}

// LoadProducts returns the active catalog of one product line.
func LoadProducts(app *pocketbase.PocketBase, category pricing.Category) ([]pricing.Product, error) {
	records, err := app.FindAllRecords("products",
		dbx.HashExp{"category": string(category), "archived": false},
	)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	products := make([]pricing.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, RecordToProduct(rec))
	}
	return products, nil
}

// FindProduct loads one product by id.
func FindProduct(app *pocketbase.PocketBase, id string) (pricing.Product, error) {
	rec, err := app.FindRecordById("products", id)
	if err != nil {
		return pricing.Product{}, fmt.Errorf("product %s not found: %w", id, err)
	}
	if rec.GetBool("archived") {
		return pricing.Product{}, fmt.Errorf("product %s is archived", id)
	}
	return RecordToProduct(rec), nil
}
