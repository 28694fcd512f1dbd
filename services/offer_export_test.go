package services

import (
	"testing"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"github.com/cenkokut62/sagaplus/pricing"
	"github.com/cenkokut62/sagaplus/testhelpers"
)

var testCompany = CompanyInfo{Name: "Saga Güvenlik", Tagline: "Alarm ve izleme hizmetleri"}

// standardSelection builds a wireless package with one wired peripheral.
func standardSelection(t *testing.T) pricing.Selection {
	t.Helper()

	pkg := pricing.Product{
		ID: "pkg1", Name: "Ev Paketi", Category: pricing.CategoryStandard, Type: pricing.TypePackage,
		PriceWired: pricing.Money(650), PriceWireless: pricing.Money(500),
	}
	siren := pricing.Product{
		ID: "sir1", Name: "Siren", Category: pricing.CategoryStandard, Type: pricing.TypePeripheral,
		PriceWired: pricing.Money(75), PriceWireless: pricing.Money(120),
	}

	sel, err := pricing.NewSelection(pricing.CategoryStandard).SelectPackage(pkg, pricing.VariantWireless)
	if err != nil {
		t.Fatalf("SelectPackage: %v", err)
	}
	sel, err = sel.SetPeripheralQuantity(siren, pricing.VariantWired, 2)
	if err != nil {
		t.Fatalf("SetPeripheralQuantity: %v", err)
	}
	return sel
}

func TestOfferLines_PackageFirst(t *testing.T) {
	lines := OfferLines(standardSelection(t))
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if lines[0].ProductID != "pkg1" || lines[0].Quantity != 1 || lines[0].Variant != "wireless" {
		t.Errorf("package line = %+v", lines[0])
	}
	if lines[1].Name != "Siren" || lines[1].Quantity != 2 || !floatClose(lines[1].LineNet, 150) {
		t.Errorf("peripheral line = %+v", lines[1])
	}
}

func TestVariantAndLineLabels(t *testing.T) {
	if got := VariantLabel("wired"); got != "Kablolu" {
		t.Errorf("VariantLabel(wired) = %q", got)
	}
	if got := VariantLabel("wireless"); got != "Kablosuz" {
		t.Errorf("VariantLabel(wireless) = %q", got)
	}
	if got := VariantLabel(""); got != "" {
		t.Errorf("VariantLabel(\"\") = %q, want empty", got)
	}
	if got := LineLabel(pricing.CategoryPremium); got != "Premium" {
		t.Errorf("LineLabel(premium) = %q", got)
	}
	if got := LineLabel(pricing.CategoryStandard); got != "Standart" {
		t.Errorf("LineLabel(standard) = %q", got)
	}
}

func TestBuildOfferExportData_Complete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "ayse@saga.test", "Ayşe Yılmaz", "")
	visit := testhelpers.CreateTestVisit(t, app, user.Id, "Kuaför Nil", "active", time.Now())
	visit.Set("contact_name", "Nil Demir")
	if err := app.Save(visit); err != nil {
		t.Fatalf("failed to update visit: %v", err)
	}

	now := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)
	flags := pricing.Flags{CampaignApplied: true, VisitFlow: true}

	data, err := BuildOfferExportData(app, testCompany, "TKL-2025-0001", standardSelection(t), flags, visit.Id, user.Id, now)
	if err != nil {
		t.Fatalf("BuildOfferExportData failed: %v", err)
	}

	if data.OfferDate != "07.03.2025" {
		t.Errorf("OfferDate = %q, want %q", data.OfferDate, "07.03.2025")
	}
	if data.BusinessName != "Kuaför Nil" || data.ContactName != "Nil Demir" {
		t.Errorf("customer = %q / %q", data.BusinessName, data.ContactName)
	}
	if data.Address == "" {
		t.Error("expected visit address to be copied")
	}
	if len(data.Lines) != 2 {
		t.Errorf("len(Lines) = %d, want 2", len(data.Lines))
	}

	// 500 + 2×75 = 650 net; activation 4560 + installation 2×216.
	if !floatClose(data.Breakdown.SubscriptionNet, 650) {
		t.Errorf("SubscriptionNet = %v, want 650", data.Breakdown.SubscriptionNet)
	}
	if !floatClose(data.Breakdown.InstallationNet, 432) {
		t.Errorf("InstallationNet = %v, want 432", data.Breakdown.InstallationNet)
	}
	if data.Campaign == nil {
		t.Fatal("expected campaign preview")
	}
	if !floatClose(data.Campaign.DiscountedNet, 325) {
		t.Errorf("Campaign.DiscountedNet = %v, want 325", data.Campaign.DiscountedNet)
	}

	if data.Personnel.FullName != "Ayşe Yılmaz" || data.Personnel.Email != "ayse@saga.test" {
		t.Errorf("Personnel = %+v", data.Personnel)
	}
}

func TestBuildOfferExportData_InsideTransaction(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "ayse@saga.test", "Ayşe Yılmaz", "")

	var data *OfferExportData
	err := app.RunInTransaction(func(txApp core.App) error {
		// A visit created in the transaction is only visible through txApp.
		col, err := txApp.FindCollectionByNameOrId("visits")
		if err != nil {
			return err
		}
		visit := core.NewRecord(col)
		visit.Set("user", user.Id)
		visit.Set("place_name", "Fırın Ekmek")
		visit.Set("status", "active")
		visit.Set("started_at", time.Now())
		if err := txApp.Save(visit); err != nil {
			return err
		}

		data, err = BuildOfferExportData(txApp, testCompany, "TKL-2025-0004", standardSelection(t), pricing.Flags{VisitFlow: true}, visit.Id, user.Id, time.Now())
		return err
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
	if data.BusinessName != "Fırın Ekmek" || data.Personnel.FullName != "Ayşe Yılmaz" {
		t.Errorf("data = %+v", data)
	}
}

func TestBuildOfferExportData_NoCampaignMissingUser(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "ali@saga.test", "Ali Kaya", "")
	visit := testhelpers.CreateTestVisit(t, app, user.Id, "Market", "active", time.Now())

	data, err := BuildOfferExportData(app, testCompany, "TKL-2025-0002", standardSelection(t), pricing.Flags{VisitFlow: true}, visit.Id, "missing", time.Now())
	if err != nil {
		t.Fatalf("BuildOfferExportData failed: %v", err)
	}
	if data.Campaign != nil {
		t.Error("expected no campaign preview")
	}
	if data.Personnel.FullName != "" {
		t.Errorf("expected empty personnel, got %+v", data.Personnel)
	}
}

func TestBuildOfferExportData_VisitNotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	_, err := BuildOfferExportData(app, testCompany, "TKL-2025-0003", standardSelection(t), pricing.Flags{}, "missing", "", time.Now())
	if err == nil {
		t.Fatal("expected error for missing visit")
	}
}

func TestPersonnelFromRecord_DefaultTitle(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "can@saga.test", "Can Er", "")
	user.Set("title", "")

	p := personnelFromRecord(user)
	if p.Title != "Personel" {
		t.Errorf("Title = %q, want %q", p.Title, "Personel")
	}
	if p.Phone == "" {
		t.Error("expected phone to be copied")
	}
}

func TestGenerateOfferPDF_Complete(t *testing.T) {
	preview := pricing.PreviewCampaign(650)
	data := &OfferExportData{
		Company:      testCompany,
		OfferNumber:  "TKL-2025-0001",
		OfferDate:    "07.03.2025",
		BusinessName: "Kuaför Nil",
		Address:      "Bağdat Cd. No:1, Kadıköy",
		ContactName:  "Nil Demir",
		Line:         pricing.CategoryStandard,
		Lines:        OfferLines(standardSelection(t)),
		Breakdown:    pricing.Compute(standardSelection(t), pricing.Flags{VisitFlow: true, CampaignApplied: true}),
		Campaign:     &preview,
		Personnel: OfferPersonnel{
			FullName: "Ayşe Yılmaz",
			Title:    "Satış Temsilcisi",
			Email:    "ayse@saga.test",
			Phone:    "0555 000 00 00",
		},
	}

	result, err := GenerateOfferPDF(data)
	if err != nil {
		t.Fatalf("GenerateOfferPDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateOfferPDF() returned empty bytes")
	}
	if len(result) > 5 && string(result[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header")
	}
}

func TestGenerateOfferPDF_Minimal(t *testing.T) {
	data := &OfferExportData{
		Company:     CompanyInfo{Name: "Saga Güvenlik"},
		OfferNumber: "TKL-2025-0002",
		Line:        pricing.CategoryPremium,
		Lines:       []OfferLine{},
	}

	result, err := GenerateOfferPDF(data)
	if err != nil {
		t.Fatalf("GenerateOfferPDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateOfferPDF() returned empty bytes")
	}
}

func TestFmtField(t *testing.T) {
	if got := fmtField("Yetkili", ""); got != "" {
		t.Errorf("fmtField with empty value = %q, want empty", got)
	}
	if got := fmtField("Yetkili", "Nil"); got != "Yetkili: Nil" {
		t.Errorf("fmtField = %q", got)
	}
}
