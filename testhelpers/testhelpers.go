// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/cenkokut62/sagaplus/collections"
)

const testPassword = "test-password-123"

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// NewSeededTestApp is NewTestApp plus the seed catalog.
func NewSeededTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	app := NewTestApp(t)
	if err := collections.Seed(app); err != nil {
		t.Fatalf("failed to seed test app: %v", err)
	}
	return app
}

// CreateTestTeam creates a team record with the given name and returns it.
func CreateTestTeam(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("teams")
	if err != nil {
		t.Fatalf("failed to find teams collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test team: %v", err)
	}

	return record
}

// CreateTestUser creates a sales representative. teamID may be empty.
func CreateTestUser(t *testing.T, app *pocketbase.PocketBase, email, fullName, teamID string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		t.Fatalf("failed to find users collection: %v", err)
	}

	record := core.NewRecord(col)
	record.SetEmail(email)
	record.SetPassword(testPassword)
	record.Set("full_name", fullName)
	record.Set("title", "Satış Temsilcisi")
	record.Set("phone", "0555 000 00 00")
	record.Set("city", "İstanbul")
	if teamID != "" {
		record.Set("team", teamID)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test user: %v", err)
	}

	return record
}

// CreateTestProduct creates a catalog record. Zero prices are stored as not
// offered.
func CreateTestProduct(t *testing.T, app *pocketbase.PocketBase, name, category, productType string, priceWired, priceWireless, price float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("products")
	if err != nil {
		t.Fatalf("failed to find products collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("category", category)
	record.Set("type", productType)
	record.Set("price_wired", priceWired)
	record.Set("price_wireless", priceWireless)
	record.Set("price", price)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test product: %v", err)
	}

	return record
}

// CreateTestVisit creates a visit for a user that started at startedAt.
func CreateTestVisit(t *testing.T, app *pocketbase.PocketBase, userID, placeName, status string, startedAt time.Time) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("visits")
	if err != nil {
		t.Fatalf("failed to find visits collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("user", userID)
	record.Set("place_name", placeName)
	record.Set("address", "Bağdat Cd. No:1, Kadıköy")
	record.Set("status", status)
	record.Set("started_at", startedAt)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test visit: %v", err)
	}

	return record
}

// CreateTestOffer creates an offer record linked to a visit.
func CreateTestOffer(t *testing.T, app *pocketbase.PocketBase, visitID, userID, offerNumber string, total float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("offers")
	if err != nil {
		t.Fatalf("failed to find offers collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("visit", visitID)
	record.Set("user", userID)
	record.Set("offer_number", offerNumber)
	record.Set("line", "standard")
	record.Set("products_data", []any{})
	record.Set("total_price", total)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test offer: %v", err)
	}

	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
