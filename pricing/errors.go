package pricing

import "errors"

var (
	// ErrNoPackageSelected is returned when a peripheral is added before a package or hub.
	ErrNoPackageSelected = errors.New("no package selected")
	// ErrPeripheralCapExceeded is returned when a wireless standard package would carry
	// more than MaxWiredUnitsOnWirelessPackage wired units.
	ErrPeripheralCapExceeded = errors.New("wired peripheral cap exceeded")
	// ErrInvalidQuantity is returned for negative quantities.
	ErrInvalidQuantity = errors.New("invalid quantity")

	ErrVariantUnavailable     = errors.New("variant not available for product")
	ErrWrongProductLine       = errors.New("product belongs to another product line")
	ErrNotAPackage            = errors.New("product is not a package")
	ErrNotAPeripheral         = errors.New("product is not a peripheral")
	ErrIncompatiblePeripheral = errors.New("peripheral is not compatible with the selected hub")
	ErrInvalidProduct         = errors.New("invalid product")
	ErrEmptyQuote             = errors.New("quote has no billable subscription")
)
