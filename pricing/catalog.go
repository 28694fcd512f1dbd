package pricing

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Catalog is the selectable view of one product line.
type Catalog struct {
	Packages    []Product `json:"packages"`
	Peripherals []Product `json:"peripherals"`
}

// SplitCatalog keeps the products of the given category and partitions them
// into packages, ordered by baseline price, and peripherals, ordered by name.
// Products of other types are ignored.
func SplitCatalog(products []Product, category Category) Catalog {
	catalog := Catalog{
		Packages:    []Product{},
		Peripherals: []Product{},
	}
	for _, p := range products {
		if p.Category != category {
			continue
		}
		switch p.Type {
		case TypePackage:
			catalog.Packages = append(catalog.Packages, p)
		case TypePeripheral:
			catalog.Peripherals = append(catalog.Peripherals, p)
		}
	}

	sort.SliceStable(catalog.Packages, func(i, j int) bool {
		return catalog.Packages[i].baselinePrice() < catalog.Packages[j].baselinePrice()
	})
	sortByName(catalog.Peripherals)

	return catalog
}

// CompatiblePeripherals returns the premium peripherals sharing at least one
// hub tag with hub. A nil hub yields an empty list.
func CompatiblePeripherals(peripherals []Product, hub *Product) []Product {
	out := []Product{}
	if hub == nil {
		return out
	}
	for _, p := range peripherals {
		if IsCompatible(*hub, p) {
			out = append(out, p)
		}
	}
	return out
}

// IsCompatible applies the tag test (hub∧hub) ∨ (hub2∧hub2). A peripheral
// without either tag is never compatible.
func IsCompatible(hub, peripheral Product) bool {
	return (hub.HubCompatible && peripheral.HubCompatible) ||
		(hub.Hub2Compatible && peripheral.Hub2Compatible)
}

// Names are Turkish product names; collation puts "Ç" after "C" and so on.
func sortByName(products []Product) {
	c := collate.New(language.Turkish)
	sort.SliceStable(products, func(i, j int) bool {
		return c.CompareString(products[i].Name, products[j].Name) < 0
	})
}
