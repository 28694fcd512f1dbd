package pricing

import "fmt"

// Category is the product line a product belongs to.
type Category string

const (
	CategoryStandard Category = "standard"
	CategoryPremium  Category = "premium"
)

// Valid reports whether c is a known product line.
func (c Category) Valid() bool {
	return c == CategoryStandard || c == CategoryPremium
}

// ProductType separates packages (hubs) from peripherals.
type ProductType string

const (
	TypePackage    ProductType = "package"
	TypePeripheral ProductType = "peripheral"
)

// Variant selects the wired or wireless price of a standard product.
// Premium products always use VariantNone.
type Variant string

const (
	VariantNone     Variant = ""
	VariantWired    Variant = "wired"
	VariantWireless Variant = "wireless"
)

// ParseVariant accepts "", "wired" and "wireless".
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantNone, VariantWired, VariantWireless:
		return v, nil
	}
	return VariantNone, fmt.Errorf("unknown variant %q", s)
}

// Product is a catalog entry. Standard products carry PriceWired and/or
// PriceWireless; premium products carry Price and the two hub tags.
type Product struct {
	ID       string      `json:"id"`
	Code     string      `json:"code,omitempty"`
	Name     string      `json:"name"`
	Category Category    `json:"category"`
	Type     ProductType `json:"type"`

	PriceWired    *float64 `json:"price_wired,omitempty"`
	PriceWireless *float64 `json:"price_wireless,omitempty"`
	CodeWired     string   `json:"code_wired,omitempty"`
	CodeWireless  string   `json:"code_wireless,omitempty"`

	Price          *float64 `json:"price,omitempty"`
	HubCompatible  bool     `json:"hub_compatible,omitempty"`
	Hub2Compatible bool     `json:"hub2_compatible,omitempty"`
}

// Money returns a pointer to v, for building nullable catalog prices.
func Money(v float64) *float64 {
	return &v
}

// Validate checks the catalog invariants for the product's category.
func (p Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w %s: name is required", ErrInvalidProduct, p.ID)
	}
	if p.Type != TypePackage && p.Type != TypePeripheral {
		return fmt.Errorf("%w %s: unknown type %q", ErrInvalidProduct, p.ID, p.Type)
	}

	switch p.Category {
	case CategoryStandard:
		if p.PriceWired == nil && p.PriceWireless == nil {
			return fmt.Errorf("%w %s: standard product needs a wired or wireless price", ErrInvalidProduct, p.ID)
		}
	case CategoryPremium:
		if p.Price == nil {
			return fmt.Errorf("%w %s: premium product needs a price", ErrInvalidProduct, p.ID)
		}
	default:
		return fmt.Errorf("%w %s: unknown category %q", ErrInvalidProduct, p.ID, p.Category)
	}
	return nil
}

// UnitPrice resolves the net monthly price for a variant.
func (p Product) UnitPrice(v Variant) (float64, error) {
	if p.Category == CategoryPremium {
		if v != VariantNone {
			return 0, fmt.Errorf("%w: premium products have no %q variant", ErrVariantUnavailable, v)
		}
		if p.Price == nil {
			return 0, fmt.Errorf("%w: %s has no price", ErrVariantUnavailable, p.ID)
		}
		return *p.Price, nil
	}

	var price *float64
	switch v {
	case VariantWired:
		price = p.PriceWired
	case VariantWireless:
		price = p.PriceWireless
	default:
		return 0, fmt.Errorf("%w: standard products need a wired or wireless variant", ErrVariantUnavailable)
	}
	if price == nil {
		return 0, fmt.Errorf("%w: %s has no %s price", ErrVariantUnavailable, p.ID, v)
	}
	return *price, nil
}

// baselinePrice is the sort key for packages: wireless price for standard,
// price for premium, with null treated as zero.
func (p Product) baselinePrice() float64 {
	var price *float64
	if p.Category == CategoryPremium {
		price = p.Price
	} else {
		price = p.PriceWireless
	}
	if price == nil {
		return 0
	}
	return *price
}
