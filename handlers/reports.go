package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/cenkokut62/sagaplus/services"
)

// loadDailyReport builds the report of the current user for ?date=, which
// defaults to today in loc.
func loadDailyReport(app *pocketbase.PocketBase, e *core.RequestEvent, loc *time.Location) (*services.DailyReport, time.Time, error) {
	userID, ok := currentUserID(e)
	if !ok {
		return nil, time.Time{}, errUnauthenticated
	}

	day, err := services.ParseReportDate(e.Request.URL.Query().Get("date"), loc, time.Now())
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}

	report, err := services.LoadDailyReport(app, userID, day, loc)
	if err != nil {
		return nil, time.Time{}, err
	}
	return report, day, nil
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, `"`, "")
	return s
}

func reportFilename(day time.Time, ext string) string {
	return fmt.Sprintf("Gunluk_Rapor_%s.%s", sanitizeFilename(day.Format("2006-01-02")), ext)
}

// HandleDailyReport returns the daily activity metrics and visit rows.
// Route: GET /api/reports/daily
func HandleDailyReport(app *pocketbase.PocketBase, loc *time.Location) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		report, _, err := loadDailyReport(app, e, loc)
		if err != nil {
			return respondError(e, "daily_report", err)
		}
		return e.JSON(http.StatusOK, report)
	}
}

// HandleDailyReportPDF downloads the daily activity report as PDF.
// Route: GET /api/reports/daily/pdf
func HandleDailyReportPDF(app *pocketbase.PocketBase, company services.CompanyInfo, loc *time.Location) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		report, day, err := loadDailyReport(app, e, loc)
		if err != nil {
			return respondError(e, "daily_report_pdf", err)
		}

		pdfBytes, err := services.GenerateDailyReportPDF(company, report)
		if err != nil {
			return respondError(e, "daily_report_pdf: generate", err)
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, reportFilename(day, "pdf")))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// HandleDailyReportExcel downloads the daily activity report as an Excel workbook.
// Route: GET /api/reports/daily/xlsx
func HandleDailyReportExcel(app *pocketbase.PocketBase, company services.CompanyInfo, loc *time.Location) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		report, day, err := loadDailyReport(app, e, loc)
		if err != nil {
			return respondError(e, "daily_report_excel", err)
		}

		xlsxBytes, err := services.GenerateDailyReportExcel(company, report)
		if err != nil {
			return respondError(e, "daily_report_excel: generate", err)
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, reportFilename(day, "xlsx")))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
