// Package export renders a consolidated bill record into each of the
// supported output forms: plain text, mailto URI, CSV, XLSX workbook and
// a sheet-row payload. Every render function is pure; the caller performs
// the actual side effect (clipboard write, mail client, file download,
// remote append).
package export

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/snapextract/snapextract/internal/models"
)

// NoSummaryFallback is the literal emitted when a bundle carries no summary.
const NoSummaryFallback = "No summary available."

// RenderPlainText renders the bundle as the canonical text block. This
// exact text is the payload for both the clipboard copy and the mailto
// body, so the two export paths are byte-identical by construction.
func RenderPlainText(bundle models.ExportBundle) (string, error) {
	if bundle.Record == nil {
		return "", ErrMissingRecord
	}
	rec := bundle.Record

	var b strings.Builder
	fmt.Fprintf(&b, "Vendor: %s\n", rec.Vendor)
	fmt.Fprintf(&b, "Date: %s\n", rec.Date)
	fmt.Fprintf(&b, "Total Amount: $%.2f\n", rec.Amount)

	if len(rec.LineItems) > 0 {
		b.WriteString("\nLine Items:\n")
		for _, item := range rec.LineItems {
			fmt.Fprintf(&b, "- %s: $%.2f\n", item.Description, item.Amount)
		}
	}

	b.WriteString("\nSummary:\n")
	if bundle.HasSummary {
		b.WriteString(bundle.Summary)
	} else {
		b.WriteString(NoSummaryFallback)
	}

	return b.String(), nil
}

// RenderMailSubject renders the subject line for the mailto export.
func RenderMailSubject(bundle models.ExportBundle) (string, error) {
	if bundle.Record == nil {
		return "", ErrMissingRecord
	}
	return fmt.Sprintf("Extracted Bill Data: %s", bundle.Record.Vendor), nil
}

// RenderMailtoURI builds the full mailto: URI for the given recipient.
// The body is RenderPlainText verbatim.
func RenderMailtoURI(bundle models.ExportBundle, to string) (string, error) {
	subject, err := RenderMailSubject(bundle)
	if err != nil {
		return "", err
	}
	body, err := RenderPlainText(bundle)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		to, percentEncode(subject), percentEncode(body)), nil
}

// percentEncode escapes a query component with %20 for spaces, matching
// what mail clients expect inside a mailto URI.
func percentEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
