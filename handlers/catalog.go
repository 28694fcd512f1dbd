package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/cenkokut62/sagaplus/pricing"
	"github.com/cenkokut62/sagaplus/services"
)

// HandleCatalog returns the packages and peripherals of one product line.
// Route: GET /api/catalog/{category}
func HandleCatalog(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		category := pricing.Category(e.Request.PathValue("category"))
		if !category.Valid() {
			return ErrorToast(e, http.StatusNotFound, "Ürün hattı bulunamadı")
		}

		products, err := services.LoadProducts(app, category)
		if err != nil {
			return respondError(e, "catalog: load products", err)
		}

		return e.JSON(http.StatusOK, pricing.SplitCatalog(products, category))
	}
}

// HandleCompatiblePeripherals returns the premium peripherals that work with
// the hub given in ?hub=. Without a hub the list is empty.
// Route: GET /api/catalog/premium/compatible
func HandleCompatiblePeripherals(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var hub *pricing.Product
		if hubID := e.Request.URL.Query().Get("hub"); hubID != "" {
			p, err := services.FindProduct(app, hubID)
			if err != nil {
				return ErrorToast(e, http.StatusNotFound, "Hub bulunamadı")
			}
			if p.Category != pricing.CategoryPremium || p.Type != pricing.TypePackage {
				return respondError(e, "catalog: compatible", pricing.ErrNotAPackage)
			}
			hub = &p
		}

		products, err := services.LoadProducts(app, pricing.CategoryPremium)
		if err != nil {
			return respondError(e, "catalog: load products", err)
		}
		catalog := pricing.SplitCatalog(products, pricing.CategoryPremium)

		return e.JSON(http.StatusOK, map[string]any{
			"peripherals": pricing.CompatiblePeripherals(catalog.Peripherals, hub),
		})
	}
}

// HandleOptions returns the select box options of the quote and visit forms.
// Route: GET /api/options
func HandleOptions() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, map[string][]services.Option{
			"product_lines":  services.ProductLineOptions,
			"variants":       services.VariantOptions,
			"visit_statuses": services.VisitStatusOptions,
		})
	}
}
