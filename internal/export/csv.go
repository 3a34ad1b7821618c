package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/snapextract/snapextract/internal/models"
)

// CSVContentType is the MIME type of the generated CSV document.
const CSVContentType = "text/csv;charset=utf-8"

// RenderCSV renders the bundle as a key/value CSV document: one row per
// top-level field, a blank separator row, the line-item table when items
// exist, and a final AI Summary row.
func RenderCSV(bundle models.ExportBundle) (string, error) {
	if bundle.Record == nil {
		return "", ErrMissingRecord
	}
	rec := bundle.Record

	rows := []string{`"Key","Value"`}
	rows = append(rows,
		EscapeCSVCell("Vendor")+","+EscapeCSVCell(rec.Vendor),
		EscapeCSVCell("Date")+","+EscapeCSVCell(rec.Date),
		EscapeCSVCell("Total Amount")+","+EscapeCSVCell(fmt.Sprintf("%.2f", rec.Amount)),
		"",
	)

	if len(rec.LineItems) > 0 {
		rows = append(rows, EscapeCSVCell("Item Description")+","+EscapeCSVCell("Item Amount"))
		for _, item := range rec.LineItems {
			rows = append(rows, EscapeCSVCell(item.Description)+","+EscapeCSVCell(fmt.Sprintf("%.2f", item.Amount)))
		}
		rows = append(rows, "")
	}

	summaryCell := ""
	if bundle.HasSummary {
		summaryCell = EscapeCSVCell(bundle.Summary)
	}
	rows = append(rows, EscapeCSVCell("AI Summary")+","+summaryCell)

	return strings.Join(rows, "\n"), nil
}

// EscapeCSVCell quotes a cell value when it contains a comma, a double
// quote or a newline, doubling any embedded quotes. Values without those
// characters pass through unchanged.
func EscapeCSVCell(cell string) string {
	if strings.ContainsAny(cell, ",\"\n") {
		return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
	}
	return cell
}

// CSVFilename builds the download filename for a record:
// bill_data_{vendor with whitespace runs replaced by underscores}_{date}.csv
func CSVFilename(rec *models.BillRecord) string {
	return fmt.Sprintf("bill_data_%s_%s.csv", underscoreVendor(rec.Vendor), rec.Date)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// underscoreVendor maps every whitespace run to a single underscore,
// leading and trailing runs included.
func underscoreVendor(vendor string) string {
	return whitespaceRun.ReplaceAllString(vendor, "_")
}
