package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/cenkokut62/sagaplus/pricing"
	"github.com/cenkokut62/sagaplus/testhelpers"
)

func setHubTags(t *testing.T, app *pocketbase.PocketBase, rec *core.Record, hub, hub2 bool) {
	t.Helper()
	rec.Set("hub_compatible", hub)
	rec.Set("hub2_compatible", hub2)
	if err := app.Save(rec); err != nil {
		t.Fatalf("save hub tags: %v", err)
	}
}

func TestHandleCatalog_Standard(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProduct(t, app, "Büyük Paket", "standard", "package", 700, 650, 0)
	testhelpers.CreateTestProduct(t, app, "Küçük Paket", "standard", "package", 450, 400, 0)
	testhelpers.CreateTestProduct(t, app, "Siren", "standard", "peripheral", 75, 90, 0)
	testhelpers.CreateTestProduct(t, app, "Hub", "premium", "package", 0, 0, 900)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/standard", nil)
	req.SetPathValue("category", "standard")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleCatalog(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var catalog pricing.Catalog
	decodeJSON(t, rec, &catalog)

	if len(catalog.Packages) != 2 {
		t.Fatalf("expected 2 packages, got %d", len(catalog.Packages))
	}
	if catalog.Packages[0].Name != "Küçük Paket" {
		t.Errorf("expected cheapest package first, got %q", catalog.Packages[0].Name)
	}
	if len(catalog.Peripherals) != 1 || catalog.Peripherals[0].Name != "Siren" {
		t.Errorf("unexpected peripherals %+v", catalog.Peripherals)
	}
}

func TestHandleCatalog_UnknownCategory(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/deluxe", nil)
	req.SetPathValue("category", "deluxe")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	HandleCatalog(app)(e)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleCompatiblePeripherals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	hub := testhelpers.CreateTestProduct(t, app, "Hub 2", "premium", "package", 0, 0, 900)
	setHubTags(t, app, hub, false, true)
	both := testhelpers.CreateTestProduct(t, app, "Hareket Dedektörü", "premium", "peripheral", 0, 0, 120)
	setHubTags(t, app, both, true, true)
	hubOnly := testhelpers.CreateTestProduct(t, app, "Eski Sensör", "premium", "peripheral", 0, 0, 60)
	setHubTags(t, app, hubOnly, true, false)

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantNames []string
	}{
		{"hub2 tag match", "?hub=" + hub.Id, http.StatusOK, []string{"Hareket Dedektörü"}},
		{"no hub", "", http.StatusOK, []string{}},
		{"unknown hub", "?hub=missing", http.StatusNotFound, nil},
		{"peripheral as hub", "?hub=" + both.Id, http.StatusUnprocessableEntity, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/catalog/premium/compatible"+tt.query, nil)
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, req, rec)

			HandleCompatiblePeripherals(app)(e)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantNames == nil {
				return
			}

			var body struct {
				Peripherals []pricing.Product `json:"peripherals"`
			}
			decodeJSON(t, rec, &body)
			if len(body.Peripherals) != len(tt.wantNames) {
				t.Fatalf("expected %d peripherals, got %d", len(tt.wantNames), len(body.Peripherals))
			}
			for i, name := range tt.wantNames {
				if body.Peripherals[i].Name != name {
					t.Errorf("peripheral %d = %q, want %q", i, body.Peripherals[i].Name, name)
				}
			}
		})
	}
}

func TestHandleOptions(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/options", nil)
	rec := httptest.NewRecorder()
	if err := HandleOptions()(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var body map[string][]map[string]string
	decodeJSON(t, rec, &body)
	if len(body["product_lines"]) != 2 || len(body["variants"]) != 2 || len(body["visit_statuses"]) != 4 {
		t.Errorf("unexpected options %v", body)
	}
	if body["variants"][0]["label"] != "Kablolu" {
		t.Errorf("first variant label = %q", body["variants"][0]["label"])
	}
}
