package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"github.com/cenkokut62/sagaplus/services"
	"github.com/cenkokut62/sagaplus/templates"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type productImportResponse struct {
	Validation *services.ValidationResult `json:"validation"`
	Import     *services.ImportResult     `json:"import,omitempty"`
}

// HandleProductImport validates an uploaded catalog file. With ?commit=true
// the valid rows are saved, matched to existing products by code.
// Route: POST /api/products/import
func HandleProductImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Dosya çok büyük veya form geçersiz")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Lütfen yüklenecek dosyayı seçin")
		}
		defer file.Close()

		result, err := services.ValidateProductFile(file, header.Filename)
		if err != nil {
			zap.L().Info("product_import: rejected file", zap.String("file", header.Filename), zap.Error(err))
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		resp := productImportResponse{Validation: result}

		if e.Request.URL.Query().Get("commit") == "true" && len(result.Products) > 0 {
			imported, err := services.CommitProductImport(app, result.Products)
			if err != nil {
				return respondError(e, "product_import: commit", err)
			}
			resp.Import = imported

			zap.L().Info("product import committed",
				zap.String("file", header.Filename),
				zap.Int("created", imported.Created),
				zap.Int("updated", imported.Updated),
				zap.Int("failed", imported.Failed),
			)

			toastType := "success"
			if imported.Failed > 0 {
				toastType = "warning"
			}
			SetToast(e, toastType, fmt.Sprintf("%d ürün eklendi, %d ürün güncellendi", imported.Created, imported.Updated))
		}

		if isHTMX(e) {
			component := templates.ImportValidationResults(result)
			return component.Render(e.Request.Context(), e.Response)
		}
		return e.JSON(http.StatusOK, resp)
	}
}

// HandleProductErrorReport downloads posted validation errors as an Excel file.
// Route: POST /api/products/import/errors
func HandleProductErrorReport() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var validationErrors []services.ValidationError
		if err := json.NewDecoder(e.Request.Body).Decode(&validationErrors); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Geçersiz hata verisi")
		}

		xlsxBytes, err := services.GenerateErrorReport(validationErrors)
		if err != nil {
			return respondError(e, "product_error_report", err)
		}

		filename := fmt.Sprintf("Urun_Hatalari_%s.xlsx", time.Now().Format("2006-01-02"))
		e.Response.Header().Set("Content-Type", xlsxContentType)
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleProductTemplateDownload serves the empty catalog import template.
// Route: GET /api/products/import/template
func HandleProductTemplateDownload() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateProductTemplate()
		if err != nil {
			return respondError(e, "product_template", err)
		}

		e.Response.Header().Set("Content-Type", xlsxContentType)
		e.Response.Header().Set("Content-Disposition", `attachment; filename="Urun_Sablonu.xlsx"`)
		e.Response.Write(xlsxBytes)
		return nil
	}
}
