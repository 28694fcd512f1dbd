package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestSplitCatalog(t *testing.T) {
	products := []Product{
		{ID: "1", Name: "Büyük Paket", Category: CategoryStandard, Type: TypePackage, PriceWireless: Money(900)},
		{ID: "2", Name: "Küçük Paket", Category: CategoryStandard, Type: TypePackage, PriceWireless: Money(400)},
		{ID: "3", Name: "Kablolu Paket", Category: CategoryStandard, Type: TypePackage, PriceWired: Money(100)},
		{ID: "4", Name: "Şok Sensörü", Category: CategoryStandard, Type: TypePeripheral, PriceWired: Money(10)},
		{ID: "5", Name: "Siren", Category: CategoryStandard, Type: TypePeripheral, PriceWired: Money(10)},
		{ID: "6", Name: "Çakmak Dedektörü", Category: CategoryStandard, Type: TypePeripheral, PriceWired: Money(10)},
		{ID: "7", Name: "Cam Kırılma", Category: CategoryStandard, Type: TypePeripheral, PriceWired: Money(10)},
		{ID: "8", Name: "Hub", Category: CategoryPremium, Type: TypePackage, Price: Money(300)},
		{ID: "9", Name: "Garip", Category: CategoryStandard, Type: "accessory"},
	}

	c := SplitCatalog(products, CategoryStandard)
	assert.Equal(t, []string{"Kablolu Paket", "Küçük Paket", "Büyük Paket"}, names(c.Packages))
	assert.Equal(t, []string{"Cam Kırılma", "Çakmak Dedektörü", "Siren", "Şok Sensörü"}, names(c.Peripherals))

	p := SplitCatalog(products, CategoryPremium)
	assert.Equal(t, []string{"Hub"}, names(p.Packages))
	require.NotNil(t, p.Peripherals)
	assert.Empty(t, p.Peripherals)
}

func TestSplitCatalog_StableOnEqualPrice(t *testing.T) {
	products := []Product{
		{ID: "a", Name: "A", Category: CategoryPremium, Type: TypePackage, Price: Money(100)},
		{ID: "b", Name: "B", Category: CategoryPremium, Type: TypePackage, Price: Money(100)},
		{ID: "c", Name: "C", Category: CategoryPremium, Type: TypePackage},
	}
	c := SplitCatalog(products, CategoryPremium)
	assert.Equal(t, []string{"C", "A", "B"}, names(c.Packages))
}

func TestIsCompatible(t *testing.T) {
	tests := []struct {
		name        string
		hub, periph Product
		want        bool
	}{
		{"hub tag shared", Product{HubCompatible: true}, Product{HubCompatible: true, Hub2Compatible: true}, true},
		{"hub2 tag shared", Product{Hub2Compatible: true}, Product{Hub2Compatible: true}, true},
		{"no hub tags", Product{}, Product{HubCompatible: true, Hub2Compatible: true}, false},
		{"untagged peripheral", Product{HubCompatible: true, Hub2Compatible: true}, Product{}, false},
		{"disjoint tags", Product{HubCompatible: true}, Product{Hub2Compatible: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCompatible(tt.hub, tt.periph))
		})
	}
}

func TestCompatiblePeripherals(t *testing.T) {
	peripherals := []Product{premCamera, premKeypad}

	assert.Equal(t, []string{"Kamera", "Tuş Takımı"}, names(CompatiblePeripherals(peripherals, &premHubA)))
	assert.Equal(t, []string{"Kamera"}, names(CompatiblePeripherals(peripherals, &premHubB)))

	none := CompatiblePeripherals(peripherals, nil)
	require.NotNil(t, none)
	assert.Empty(t, none)
}

func TestProductValidate(t *testing.T) {
	assert.NoError(t, stdPackageA.Validate())
	assert.NoError(t, premCamera.Validate())

	bad := []Product{
		{ID: "1", Category: CategoryStandard, Type: TypePackage, PriceWired: Money(1)},
		{ID: "2", Name: "x", Category: CategoryStandard, Type: TypePackage},
		{ID: "3", Name: "x", Category: CategoryPremium, Type: TypePeripheral},
		{ID: "4", Name: "x", Category: "gold", Type: TypePeripheral, Price: Money(1)},
		{ID: "5", Name: "x", Category: CategoryPremium, Type: "bundle", Price: Money(1)},
	}
	for _, p := range bad {
		assert.ErrorIs(t, p.Validate(), ErrInvalidProduct, p.ID)
	}
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("wired")
	require.NoError(t, err)
	assert.Equal(t, VariantWired, v)

	_, err = ParseVariant("fiber")
	assert.Error(t, err)
}
