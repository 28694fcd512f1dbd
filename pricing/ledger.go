package pricing

import "fmt"

// LineItem is one peripheral row of a quote. UnitPrice is the catalog price
// captured when the line was first added.
type LineItem struct {
	ProductID   string  `json:"product_id"`
	DisplayName string  `json:"display_name"`
	Variant     Variant `json:"variant,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Net returns UnitPrice × Quantity.
func (l LineItem) Net() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Selection is the in-progress quote of one product line: at most one
// package and an ordered list of peripheral lines.
//
// Selection behaves as a value. Every mutating method returns a new
// Selection and leaves the receiver untouched, so a rejected operation
// never needs to be rolled back.
type Selection struct {
	Line           Category   `json:"line"`
	Package        *Product   `json:"package,omitempty"`
	PackageVariant Variant    `json:"package_variant,omitempty"`
	PackagePrice   float64    `json:"package_price"`
	Peripherals    []LineItem `json:"peripherals"`
}

// NewSelection starts an empty selection for a product line.
func NewSelection(line Category) Selection {
	return Selection{
		Line:        line,
		Peripherals: []LineItem{},
	}
}

// HasPackage reports whether a package or hub is selected.
func (s Selection) HasPackage() bool {
	return s.Package != nil
}

// SelectPackage replaces the selected package. The standard line keeps its
// peripherals; the premium line drops them because compatibility depends on
// the hub. Switching a standard quote to a wireless package fails with
// ErrPeripheralCapExceeded while it carries more wired units than the cap.
func (s Selection) SelectPackage(p Product, v Variant) (Selection, error) {
	if err := s.checkProduct(p, TypePackage); err != nil {
		return s, err
	}
	price, err := p.UnitPrice(v)
	if err != nil {
		return s, err
	}
	if s.Line == CategoryStandard && v == VariantWireless && s.WiredUnitCount() > MaxWiredUnitsOnWirelessPackage {
		return s, fmt.Errorf("%w: %d wired units selected, at most %d with a wireless package",
			ErrPeripheralCapExceeded, s.WiredUnitCount(), MaxWiredUnitsOnWirelessPackage)
	}

	out := s.clone()
	pkg := p
	out.Package = &pkg
	out.PackageVariant = v
	out.PackagePrice = price
	if s.Line == CategoryPremium {
		out.Peripherals = []LineItem{}
	}
	return out, nil
}

// ClearPackage removes the package and leaves peripherals as they are.
func (s Selection) ClearPackage() Selection {
	out := s.clone()
	out.Package = nil
	out.PackageVariant = VariantNone
	out.PackagePrice = 0
	return out
}

// SetPeripheralQuantity sets the quantity of the (product, variant) line.
// Zero removes the line, and removing a missing line is a no-op. Raising the
// wired unit count under a wireless standard package past the cap fails with
// ErrPeripheralCapExceeded.
func (s Selection) SetPeripheralQuantity(p Product, v Variant, quantity int) (Selection, error) {
	if quantity < 0 {
		return s, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	idx := s.indexOf(p.ID, v)
	if quantity == 0 {
		if idx < 0 {
			return s, nil
		}
		out := s.clone()
		out.Peripherals = append(out.Peripherals[:idx], out.Peripherals[idx+1:]...)
		return out, nil
	}

	if !s.HasPackage() {
		return s, ErrNoPackageSelected
	}
	if err := s.checkProduct(p, TypePeripheral); err != nil {
		return s, err
	}
	if s.Line == CategoryPremium && !IsCompatible(*s.Package, p) {
		return s, fmt.Errorf("%w: %s", ErrIncompatiblePeripheral, p.Name)
	}

	current := 0
	if idx >= 0 {
		current = s.Peripherals[idx].Quantity
	}
	if quantity > current && v == VariantWired && s.wiredCapApplies() {
		if s.WiredUnitCount()-current+quantity > MaxWiredUnitsOnWirelessPackage {
			return s, fmt.Errorf("%w: at most %d wired units with a wireless package",
				ErrPeripheralCapExceeded, MaxWiredUnitsOnWirelessPackage)
		}
	}

	out := s.clone()
	if idx >= 0 {
		out.Peripherals[idx].Quantity = quantity
		return out, nil
	}

	price, err := p.UnitPrice(v)
	if err != nil {
		return s, err
	}
	out.Peripherals = append(out.Peripherals, LineItem{
		ProductID:   p.ID,
		DisplayName: p.Name,
		Variant:     v,
		Quantity:    quantity,
		UnitPrice:   price,
	})
	return out, nil
}

// AddPeripheralUnit adds one unit of the (product, variant) line.
func (s Selection) AddPeripheralUnit(p Product, v Variant) (Selection, error) {
	current := 0
	if idx := s.indexOf(p.ID, v); idx >= 0 {
		current = s.Peripherals[idx].Quantity
	}
	return s.SetPeripheralQuantity(p, v, current+1)
}

// WiredUnitCount sums the quantities of wired peripheral lines.
func (s Selection) WiredUnitCount() int {
	n := 0
	for _, l := range s.Peripherals {
		if l.Variant == VariantWired {
			n += l.Quantity
		}
	}
	return n
}

// Lines returns the package line followed by the peripheral lines, in the
// shape handed to document rendering and persistence.
func (s Selection) Lines() []LineItem {
	lines := make([]LineItem, 0, len(s.Peripherals)+1)
	if s.Package != nil {
		lines = append(lines, LineItem{
			ProductID:   s.Package.ID,
			DisplayName: s.Package.Name,
			Variant:     s.PackageVariant,
			Quantity:    1,
			UnitPrice:   s.PackagePrice,
		})
	}
	return append(lines, s.Peripherals...)
}

func (s Selection) wiredCapApplies() bool {
	return s.Line == CategoryStandard && s.Package != nil && s.PackageVariant == VariantWireless
}

func (s Selection) checkProduct(p Product, want ProductType) error {
	if p.Category != s.Line {
		return fmt.Errorf("%w: %s is %s, quote is %s", ErrWrongProductLine, p.Name, p.Category, s.Line)
	}
	if p.Type != want {
		if want == TypePackage {
			return fmt.Errorf("%w: %s", ErrNotAPackage, p.Name)
		}
		return fmt.Errorf("%w: %s", ErrNotAPeripheral, p.Name)
	}
	return nil
}

func (s Selection) indexOf(productID string, v Variant) int {
	for i, l := range s.Peripherals {
		if l.ProductID == productID && l.Variant == v {
			return i
		}
	}
	return -1
}

func (s Selection) clone() Selection {
	out := s
	out.Peripherals = make([]LineItem, len(s.Peripherals))
	copy(out.Peripherals, s.Peripherals)
	return out
}
