package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

type productDef struct {
	code          string
	name          string
	category      string
	productType   string
	priceWired    float64
	priceWireless float64
	codeWired     string
	codeWireless  string
	price         float64
	hub           bool
	hub2          bool
}

var seedTeams = []string{"Anadolu Yakası", "Avrupa Yakası"}

var seedProducts = []productDef{
	// ── Standard packages ────────────────────────────────────────────
	{code: "STD-PKT-01", name: "Ev Başlangıç Paketi", category: "standard", productType: "package",
		priceWired: 650, priceWireless: 500, codeWired: "STD-PKT-01-K", codeWireless: "STD-PKT-01-KS"},
	{code: "STD-PKT-02", name: "İşyeri Paketi", category: "standard", productType: "package",
		priceWired: 890, priceWireless: 720, codeWired: "STD-PKT-02-K", codeWireless: "STD-PKT-02-KS"},
	{code: "STD-PKT-03", name: "Villa Paketi", category: "standard", productType: "package",
		priceWired: 1250, priceWireless: 990, codeWired: "STD-PKT-03-K", codeWireless: "STD-PKT-03-KS"},

	// ── Standard peripherals ─────────────────────────────────────────
	{code: "STD-HD", name: "Hareket Dedektörü", category: "standard", productType: "peripheral",
		priceWired: 50, priceWireless: 80, codeWired: "STD-HD-K", codeWireless: "STD-HD-KS"},
	{code: "STD-MK", name: "Manyetik Kontak", category: "standard", productType: "peripheral",
		priceWired: 30, priceWireless: 55, codeWired: "STD-MK-K", codeWireless: "STD-MK-KS"},
	{code: "STD-DD", name: "Duman Dedektörü", category: "standard", productType: "peripheral",
		priceWireless: 95, codeWireless: "STD-DD-KS"},
	{code: "STD-SR", name: "Dış Siren", category: "standard", productType: "peripheral",
		priceWired: 70, codeWired: "STD-SR-K"},
	{code: "STD-PB", name: "Panik Butonu", category: "standard", productType: "peripheral",
		priceWired: 25, priceWireless: 45, codeWired: "STD-PB-K", codeWireless: "STD-PB-KS"},
	{code: "STD-CK", name: "Cam Kırılma Dedektörü", category: "standard", productType: "peripheral",
		priceWired: 60, priceWireless: 85, codeWired: "STD-CK-K", codeWireless: "STD-CK-KS"},

	// ── Premium hubs ─────────────────────────────────────────────────
	{code: "PRM-HUB", name: "Akıllı Hub", category: "premium", productType: "package",
		price: 300, hub: true},
	{code: "PRM-HUB2", name: "Akıllı Hub 2 Plus", category: "premium", productType: "package",
		price: 450, hub2: true},

	// ── Premium peripherals ──────────────────────────────────────────
	{code: "PRM-KAM", name: "Kameralı Hareket Dedektörü", category: "premium", productType: "peripheral",
		price: 120, hub: true, hub2: true},
	{code: "PRM-KLV", name: "Kablosuz Klavye", category: "premium", productType: "peripheral",
		price: 90, hub: true, hub2: true},
	{code: "PRM-SU", name: "Su Baskın Dedektörü", category: "premium", productType: "peripheral",
		price: 70, hub: true},
	{code: "PRM-IPC", name: "IP Kamera", category: "premium", productType: "peripheral",
		price: 210, hub2: true},
	{code: "PRM-ŞAL", name: "Şifreli Anahtarlık", category: "premium", productType: "peripheral",
		price: 40, hub: true, hub2: true},
}

// Seed populates the product catalog and the default sales teams. It is safe
// to call on every startup because it returns early if any product records
// already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if products already exist ──────────────────
	productsCol, err := app.FindCollectionByNameOrId("products")
	if err != nil {
		return fmt.Errorf("seed: could not find products collection: %w", err)
	}
	total, err := app.CountRecords(productsCol)
	if err != nil {
		return fmt.Errorf("seed: could not count products: %w", err)
	}
	if total > 0 {
		return nil // already seeded
	}

	zap.L().Info("seed: products collection is empty, inserting seed catalog")

	teamsCol, err := app.FindCollectionByNameOrId("teams")
	if err != nil {
		return fmt.Errorf("seed: could not find teams collection: %w", err)
	}

	return app.RunInTransaction(func(txApp core.App) error {
		for _, name := range seedTeams {
			r := core.NewRecord(teamsCol)
			r.Set("name", name)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: team %q: %w", name, err)
			}
		}

		for _, d := range seedProducts {
			r := core.NewRecord(productsCol)
			r.Set("code", d.code)
			r.Set("name", d.name)
			r.Set("category", d.category)
			r.Set("type", d.productType)
			r.Set("price_wired", d.priceWired)
			r.Set("price_wireless", d.priceWireless)
			r.Set("code_wired", d.codeWired)
			r.Set("code_wireless", d.codeWireless)
			r.Set("price", d.price)
			r.Set("hub_compatible", d.hub)
			r.Set("hub2_compatible", d.hub2)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: product %q: %w", d.code, err)
			}
		}
		return nil
	})
}
