package services

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/cenkokut62/sagaplus/pricing"
)

const importBatchSize = 100

// ImportField is one recognized column of the catalog import file.
type ImportField struct {
	Key      string
	Label    string
	Required bool
}

// ProductImportFields lists the catalog columns in template order.
func ProductImportFields() []ImportField {
	return []ImportField{
		{Key: "code", Label: "Kod", Required: true},
		{Key: "name", Label: "Ürün Adı", Required: true},
		{Key: "category", Label: "Kategori", Required: true},
		{Key: "type", Label: "Tip", Required: true},
		{Key: "price_wired", Label: "Kablolu Fiyat"},
		{Key: "price_wireless", Label: "Kablosuz Fiyat"},
		{Key: "code_wired", Label: "Kablolu Kod"},
		{Key: "code_wireless", Label: "Kablosuz Kod"},
		{Key: "price", Label: "Fiyat"},
		{Key: "hub_compatible", Label: "Hub Uyumlu"},
		{Key: "hub2_compatible", Label: "Hub 2 Uyumlu"},
	}
}

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is returned after parsing and validating an uploaded file.
type ValidationResult struct {
	TotalRows int               `json:"total_rows"`
	ValidRows int               `json:"valid_rows"`
	ErrorRows int               `json:"error_rows"`
	Errors    []ValidationError `json:"errors"`
	Products  []pricing.Product `json:"-"`
	FileName  string            `json:"-"`
}

// ImportResult holds the outcome of a batch import operation.
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Created    int              `json:"created"`
	Updated    int              `json:"updated"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
	RolledBack bool             `json:"rolled_back"`
}

// ImportRowError represents a failure to save a specific row.
type ImportRowError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// parseCSV reads a CSV file and returns headers + data rows. Both comma and
// semicolon separated files are accepted.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	if firstLine, _, _ := bytes.Cut(raw, []byte("\n")); bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		reader.Comma = ';'
	}

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	headers := allRows[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
	dataRows := allRows[1:]
	return headers, dataRows, nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	headers := rows[0]
	dataRows := rows[1:]
	return headers, dataRows, nil
}

// mapHeadersToFields maps uploaded column headers to field keys. A header may
// be either the key or the label. Returns ordered list of field keys (one per
// column) and any unrecognized columns.
func mapHeadersToFields(headers []string, fields []ImportField) ([]string, []string) {
	lookup := make(map[string]string, len(fields)*2)
	for _, f := range fields {
		lookup[strings.ToLower(f.Key)] = f.Key
		lookup[strings.ToLower(strings.TrimSpace(f.Label))] = f.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string

	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))

		if key, ok := lookup[norm]; ok {
			mapped[i] = key
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ValidateProductFile parses and validates an uploaded catalog file (.csv or
// .xlsx). Rows that pass validation are returned in result.Products.
func ValidateProductFile(file io.Reader, fileName string) (*ValidationResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	fields := ProductImportFields()
	columnKeys, _ := mapHeadersToFields(headers, fields)

	present := make(map[string]bool, len(columnKeys))
	for _, k := range columnKeys {
		if k != "" {
			present[k] = true
		}
	}
	for _, f := range fields {
		if f.Required && !present[f.Key] {
			return nil, fmt.Errorf("missing required column %q", f.Key)
		}
	}

	result := &ValidationResult{
		TotalRows: len(dataRows),
		FileName:  fileName,
		Products:  make([]pricing.Product, 0, len(dataRows)),
	}

	seenCodes := make(map[string]int)
	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row

		rowData := make(map[string]string, len(columnKeys))
		for colIdx, key := range columnKeys {
			if key == "" {
				continue
			}
			if colIdx < len(row) {
				rowData[key] = strings.TrimSpace(row[colIdx])
			}
		}

		product, rowErrors := parseProductRow(rowNum, rowData, fields)

		if code := product.Code; code != "" {
			if first, dup := seenCodes[code]; dup {
				rowErrors = append(rowErrors, ValidationError{
					Row:     rowNum,
					Field:   "code",
					Message: fmt.Sprintf("duplicate code %q (first seen on row %d)", code, first),
				})
			} else {
				seenCodes[code] = rowNum
			}
		}

		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			continue
		}
		result.Products = append(result.Products, product)
	}

	errorRowSet := make(map[int]bool)
	for _, e := range result.Errors {
		errorRowSet[e.Row] = true
	}
	result.ErrorRows = len(errorRowSet)
	result.ValidRows = result.TotalRows - result.ErrorRows

	return result, nil
}

// parseProductRow converts one mapped row into a product and reports every
// problem found on it.
func parseProductRow(rowNum int, data map[string]string, fields []ImportField) (pricing.Product, []ValidationError) {
	var errs []ValidationError
	fail := func(field, msg string) {
		errs = append(errs, ValidationError{Row: rowNum, Field: field, Message: msg})
	}

	for _, f := range fields {
		if f.Required && data[f.Key] == "" {
			fail(f.Key, fmt.Sprintf("%s is required", f.Label))
		}
	}

	p := pricing.Product{
		Code:         data["code"],
		Name:         data["name"],
		Category:     pricing.Category(strings.ToLower(data["category"])),
		Type:         pricing.ProductType(strings.ToLower(data["type"])),
		CodeWired:    data["code_wired"],
		CodeWireless: data["code_wireless"],
	}

	price := func(key string) *float64 {
		v := data[key]
		if v == "" {
			return nil
		}
		amount, err := ParseMoney(v)
		if err != nil {
			fail(key, err.Error())
			return nil
		}
		if amount <= 0 {
			fail(key, "price must be greater than zero")
			return nil
		}
		return pricing.Money(amount)
	}
	p.PriceWired = price("price_wired")
	p.PriceWireless = price("price_wireless")
	p.Price = price("price")

	flag := func(key string) bool {
		v, err := parseImportBool(data[key])
		if err != nil {
			fail(key, err.Error())
		}
		return v
	}
	p.HubCompatible = flag("hub_compatible")
	p.Hub2Compatible = flag("hub2_compatible")

	if len(errs) == 0 {
		if err := p.Validate(); err != nil {
			fail("", err.Error())
		}
	}

	return p, errs
}

// parseImportBool accepts the spellings found in hand-edited sheets.
func parseImportBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "hayır", "hayir", "h", "no", "n":
		return false, nil
	case "1", "true", "evet", "e", "yes", "y", "x":
		return true, nil
	}
	return false, fmt.Errorf("invalid yes/no value %q", s)
}

// CommitProductImport inserts or updates products by code. It processes rows
// in chunks of importBatchSize; a failing chunk is rolled back and the next
// chunk continues.
func CommitProductImport(app *pocketbase.PocketBase, products []pricing.Product) (*ImportResult, error) {
	col, err := app.FindCollectionByNameOrId("products")
	if err != nil {
		return nil, fmt.Errorf("products collection not found: %w", err)
	}

	result := &ImportResult{TotalRows: len(products)}

	for chunkStart := 0; chunkStart < len(products); chunkStart += importBatchSize {
		chunkEnd := min(chunkStart+importBatchSize, len(products))
		chunk := products[chunkStart:chunkEnd]

		created, updated, chunkErrors := upsertChunk(app, col, chunk)
		if len(chunkErrors) > 0 {
			result.Errors = append(result.Errors, chunkErrors...)
			result.Failed += len(chunk)
			result.RolledBack = true
			continue
		}
		result.Created += created
		result.Updated += updated
	}

	return result, nil
}

// upsertChunk saves a batch of products within a RunInTransaction block.
// If any row fails, the entire chunk is rolled back and errors are returned.
func upsertChunk(app *pocketbase.PocketBase, col *core.Collection, products []pricing.Product) (int, int, []ImportRowError) {
	var created, updated int
	var chunkErrors []ImportRowError

	err := app.RunInTransaction(func(txApp core.App) error {
		for _, p := range products {
			record, err := txApp.FindFirstRecordByData(col, "code", p.Code)
			switch {
			case err == nil:
				updated++
			case errors.Is(err, sql.ErrNoRows):
				record = core.NewRecord(col)
				created++
			default:
				return err
			}

			applyProduct(record, p)
			if err := txApp.Save(record); err != nil {
				chunkErrors = append(chunkErrors, ImportRowError{
					Code:    p.Code,
					Message: fmt.Sprintf("Failed to save: %s", err.Error()),
				})
				return fmt.Errorf("save failed for %s: %w", p.Code, err)
			}
		}
		return nil
	})

	if err != nil {
		zap.L().Warn("product_import: chunk rolled back", zap.Error(err))
		if len(chunkErrors) == 0 {
			chunkErrors = append(chunkErrors, ImportRowError{
				Message: fmt.Sprintf("Transaction failed: %s", err.Error()),
			})
		}
		return 0, 0, chunkErrors
	}

	return created, updated, nil
}

// applyProduct copies an imported product onto a record. Missing prices are
// stored as zero, which reads back as not offered.
func applyProduct(record *core.Record, p pricing.Product) {
	record.Set("code", p.Code)
	record.Set("name", p.Name)
	record.Set("category", string(p.Category))
	record.Set("type", string(p.Type))
	record.Set("price_wired", priceOrZero(p.PriceWired))
	record.Set("price_wireless", priceOrZero(p.PriceWireless))
	record.Set("code_wired", p.CodeWired)
	record.Set("code_wireless", p.CodeWireless)
	record.Set("price", priceOrZero(p.Price))
	record.Set("hub_compatible", p.HubCompatible)
	record.Set("hub2_compatible", p.Hub2Compatible)
	record.Set("archived", false)
}

func priceOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// GenerateProductTemplate creates an empty .xlsx import template with one
// example row.
func GenerateProductTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Ürünler"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	example := []any{"STD-PIR", "Hareket Dedektörü", "standard", "peripheral", 80, 110, "PIR-K", "PIR-W", "", "", ""}
	for i, field := range ProductImportFields() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, field.Key)
		exampleCell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, exampleCell, example[i])
	}
	lastCell, _ := excelize.CoordinatesToCellName(len(example), 1)
	f.SetCellStyle(sheet, "A1", lastCell, headerStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write template: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(validationErrors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Hatalar"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

	// Header style
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	// Headers
	f.SetCellValue(sheet, "A1", "Satır")
	f.SetCellValue(sheet, "B1", "Alan")
	f.SetCellValue(sheet, "C1", "Hata")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range validationErrors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
