package export

import "github.com/snapextract/snapextract/internal/models"

// SheetRow is the payload handed to a sheet-append sink. It is a direct
// passthrough of the bundle fields; LineItems is always non-nil so the
// sink never has to distinguish absent from empty.
type SheetRow struct {
	Vendor    string            `json:"vendor"`
	Date      string            `json:"date"`
	Amount    float64           `json:"amount"`
	LineItems []models.LineItem `json:"lineItems"`
	Summary   string            `json:"summary"`
}

// RenderSheetRow shapes the bundle for handoff to an external append-row
// collaborator. Delivery, retry and authentication are the sink's problem;
// this only guarantees the payload shape.
func RenderSheetRow(bundle models.ExportBundle) (SheetRow, error) {
	if bundle.Record == nil {
		return SheetRow{}, ErrMissingRecord
	}
	rec := bundle.Record

	items := rec.LineItems
	if items == nil {
		items = []models.LineItem{}
	}

	summary := ""
	if bundle.HasSummary {
		summary = bundle.Summary
	}

	return SheetRow{
		Vendor:    rec.Vendor,
		Date:      rec.Date,
		Amount:    rec.Amount,
		LineItems: items,
		Summary:   summary,
	}, nil
}
