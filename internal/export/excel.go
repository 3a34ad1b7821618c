package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/snapextract/snapextract/internal/models"
)

// WorkbookContentType is the MIME type of the generated XLSX workbook.
const WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const workbookSheet = "Bill Data"

// RenderWorkbook renders the bundle into an XLSX workbook with the same
// layout as the CSV target. The caller owns the returned file and is
// responsible for closing it.
func RenderWorkbook(bundle models.ExportBundle) (*excelize.File, error) {
	if bundle.Record == nil {
		return nil, ErrMissingRecord
	}
	rec := bundle.Record

	f := excelize.NewFile()
	index, err := f.NewSheet(workbookSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	row := 1
	setRow := func(key string, value interface{}) error {
		if err := f.SetCellValue(workbookSheet, fmt.Sprintf("A%d", row), key); err != nil {
			return err
		}
		if err := f.SetCellValue(workbookSheet, fmt.Sprintf("B%d", row), value); err != nil {
			return err
		}
		row++
		return nil
	}

	cells := []struct {
		key   string
		value interface{}
	}{
		{"Key", "Value"},
		{"Vendor", rec.Vendor},
		{"Date", rec.Date},
		{"Total Amount", fmt.Sprintf("%.2f", rec.Amount)},
	}
	for _, c := range cells {
		if err := setRow(c.key, c.value); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to fill workbook: %w", err)
		}
	}

	if len(rec.LineItems) > 0 {
		row++ // separator
		if err := setRow("Item Description", "Item Amount"); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to fill workbook: %w", err)
		}
		for _, item := range rec.LineItems {
			if err := setRow(item.Description, fmt.Sprintf("%.2f", item.Amount)); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to fill workbook: %w", err)
			}
		}
	}

	row++ // separator
	summary := ""
	if bundle.HasSummary {
		summary = bundle.Summary
	}
	if err := setRow("AI Summary", summary); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to fill workbook: %w", err)
	}

	return f, nil
}

// WorkbookFilename mirrors the CSV filename pattern with an .xlsx suffix.
func WorkbookFilename(rec *models.BillRecord) string {
	return fmt.Sprintf("bill_data_%s_%s.xlsx", underscoreVendor(rec.Vendor), rec.Date)
}
