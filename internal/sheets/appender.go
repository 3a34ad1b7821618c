// Package sheets holds the sheet-append sink the exporter hands its row
// payload to. The default implementation simulates the append; delivery,
// retry and authentication are out of scope here.
package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/snapextract/snapextract/internal/export"
)

// AppendResult reports the outcome of an append call.
type AppendResult struct {
	SheetURL string `json:"sheet_url"`
	Message  string `json:"message"`
}

// Appender accepts a sheet-row payload for a remote spreadsheet.
type Appender interface {
	Append(ctx context.Context, row export.SheetRow) (AppendResult, error)
}

// SimulatedAppender logs the row and reports what would have been sent.
// It stands in for a real spreadsheet integration.
type SimulatedAppender struct {
	spreadsheetID string
	logger        *zap.Logger
}

// NewSimulatedAppender creates a simulated sink for the given spreadsheet
// ID. An empty ID is valid; the result then tells the caller to configure
// one.
func NewSimulatedAppender(spreadsheetID string, logger *zap.Logger) *SimulatedAppender {
	return &SimulatedAppender{
		spreadsheetID: spreadsheetID,
		logger:        logger,
	}
}

// Append pretends to append the row and returns the target sheet URL.
func (a *SimulatedAppender) Append(ctx context.Context, row export.SheetRow) (AppendResult, error) {
	if err := ctx.Err(); err != nil {
		return AppendResult{}, err
	}

	a.logger.Info("Simulated sheet append",
		zap.String("vendor", row.Vendor),
		zap.String("date", row.Date),
		zap.Float64("amount", row.Amount),
		zap.Int("line_items", len(row.LineItems)),
		zap.String("spreadsheet_id", a.spreadsheetID))

	if a.spreadsheetID == "" {
		return AppendResult{
			SheetURL: "#",
			Message: fmt.Sprintf("SIMULATION: Data for %q (including %d line items) would be exported. Configure sheets.spreadsheet_id to target a sheet.",
				row.Vendor, len(row.LineItems)),
		}, nil
	}

	return AppendResult{
		SheetURL: fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s", a.spreadsheetID),
		Message: fmt.Sprintf("Data for %q (including %d line items) (simulated) exported. Target sheet: %s.",
			row.Vendor, len(row.LineItems), a.spreadsheetID),
	}, nil
}
