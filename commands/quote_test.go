package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cenkokut62/sagaplus/pricing"
	"github.com/cenkokut62/sagaplus/testhelpers"
)

func catalogApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()
	app := testhelpers.NewTestApp(t)
	for _, p := range []struct {
		code, name, typ string
		wired, wireless float64
	}{
		{"STD-EV", "Ev Paketi", "package", 550, 500},
		{"STD-SIR", "Siren", "peripheral", 75, 90},
	} {
		rec := testhelpers.CreateTestProduct(t, app, p.name, "standard", p.typ, p.wired, p.wireless, 0)
		rec.Set("code", p.code)
		require.NoError(t, app.Save(rec))
	}
	return app
}

func TestPriceSelection(t *testing.T) {
	app := catalogApp(t)

	input := `{
		"line": "standard",
		"package": {"code": "STD-EV", "variant": "wireless"},
		"peripherals": [{"code": "STD-SIR", "variant": "wired", "quantity": 2}],
		"flags": {"visit_flow": true, "campaign_applied": true}
	}`

	result, err := PriceSelection(app, strings.NewReader(input))
	require.NoError(t, err)

	assert.InDelta(t, 650, result.Breakdown.SubscriptionNet, 0.001)
	assert.InDelta(t, 432, result.Breakdown.InstallationNet, 0.001)
	assert.InDelta(t, pricing.ActivationFeeNet, result.Breakdown.ActivationNet, 0.001)
	assert.Equal(t, 2, result.Breakdown.WiredUnitCount)
	require.NotNil(t, result.Campaign)
	assert.InDelta(t, 390, result.Campaign.DiscountedTotal, 0.001)
}

func TestPriceSelection_Rejections(t *testing.T) {
	app := catalogApp(t)

	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{
			name:    "wired cap",
			input:   `{"line":"standard","package":{"code":"STD-EV","variant":"wireless"},"peripherals":[{"code":"STD-SIR","variant":"wired","quantity":3}]}`,
			wantErr: pricing.ErrPeripheralCapExceeded,
		},
		{
			name:    "peripheral without package",
			input:   `{"line":"standard","peripherals":[{"code":"STD-SIR","variant":"wired","quantity":1}]}`,
			wantErr: pricing.ErrNoPackageSelected,
		},
		{
			name:    "unknown product",
			input:   `{"line":"standard","package":{"code":"NOPE","variant":"wired"}}`,
			wantMsg: "not found",
		},
		{
			name:    "unknown line",
			input:   `{"line":"gold"}`,
			wantMsg: "unknown product line",
		},
		{
			name:    "malformed",
			input:   `{"line":`,
			wantMsg: "decode selection file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PriceSelection(app, strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestQuoteCommand(t *testing.T) {
	app := catalogApp(t)

	path := filepath.Join(t.TempDir(), "selection.json")
	input := `{"line":"standard","package":{"code":"STD-EV","variant":"wired"}}`
	require.NoError(t, os.WriteFile(path, []byte(input), 0o600))

	t.Run("table", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewQuoteCommand(app)
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--file", path})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "Ev Paketi")
		assert.Contains(t, out.String(), "Genel Toplam")
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewQuoteCommand(app)
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--file", path, "--json"})

		require.NoError(t, cmd.Execute())

		var result QuoteResult
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		// Wired package: 550 net, no visit so no one-time fees.
		assert.InDelta(t, 660, result.Breakdown.GrandTotal, 0.001)
	})

	t.Run("missing file flag", func(t *testing.T) {
		cmd := NewQuoteCommand(app)
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{})
		assert.Error(t, cmd.Execute())
	})
}

func TestPriceSelection_InlineCatalog(t *testing.T) {
	input := `{
		"catalog": [
			{"id": "hub", "name": "Hub 2", "category": "premium", "type": "package", "price": 900, "hub2_compatible": true},
			{"id": "cam", "name": "Kamera", "category": "premium", "type": "peripheral", "price": 400, "hub2_compatible": true},
			{"id": "old", "name": "Eski Sensör", "category": "premium", "type": "peripheral", "price": 60, "hub_compatible": true}
		],
		"line": "premium",
		"package": {"product_id": "hub"},
		"peripherals": [{"product_id": "cam", "quantity": 2}]
	}`

	result, err := PriceSelection(nil, strings.NewReader(input))
	require.NoError(t, err)
	assert.InDelta(t, 1700, result.Breakdown.SubscriptionNet, 0.001)
	assert.Zero(t, result.Breakdown.OneTimeFeesTotal)

	incompatible := strings.Replace(input, `"product_id": "cam"`, `"product_id": "old"`, 1)
	_, err = PriceSelection(nil, strings.NewReader(incompatible))
	assert.ErrorIs(t, err, pricing.ErrIncompatiblePeripheral)

	invalid := `{"catalog":[{"id":"x","name":"X","category":"premium","type":"package"}],"line":"premium"}`
	_, err = PriceSelection(nil, strings.NewReader(invalid))
	assert.ErrorIs(t, err, pricing.ErrInvalidProduct)
}
