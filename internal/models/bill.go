package models

// LineItem is a single priced entry on a bill. Items carry no identity
// beyond their position; equal descriptions are kept as separate entries.
type LineItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// BillRecord is the consolidated reading of one or more bill images.
// LineItems is always non-nil: absence is normalized to an empty slice
// at every boundary so the renderers never see a missing field.
type BillRecord struct {
	Vendor    string     `json:"vendor"`
	Date      string     `json:"date"` // YYYY-MM-DD
	Amount    float64    `json:"amount"`
	LineItems []LineItem `json:"lineItems"`
}

// NormalizeLineItems replaces a nil slice with an empty one.
func (r *BillRecord) NormalizeLineItems() {
	if r.LineItems == nil {
		r.LineItems = []LineItem{}
	}
}

// RawLineItem is the wire shape of a line item as returned by the model.
// Amount is a pointer so that a missing value can be told apart from zero;
// items without an amount are dropped during validation, never zeroed.
type RawLineItem struct {
	Description string   `json:"description"`
	Amount      *float64 `json:"amount"`
}

// RawExtraction is one image's isolated reading, produced by the extractor
// and consumed by the consolidator. It is never persisted.
type RawExtraction struct {
	Vendor    string        `json:"vendor"`
	Date      string        `json:"date"`
	Amount    float64       `json:"amount"`
	LineItems []RawLineItem `json:"lineItems,omitempty"`
}

// ValidLineItems returns the items that carry both a description and an
// amount, in source order.
func (r RawExtraction) ValidLineItems() []LineItem {
	items := make([]LineItem, 0, len(r.LineItems))
	for _, item := range r.LineItems {
		if item.Description == "" || item.Amount == nil {
			continue
		}
		items = append(items, LineItem{Description: item.Description, Amount: *item.Amount})
	}
	return items
}

// ExportBundle is the read-only value handed to every render target:
// a consolidated record plus its optional natural-language summary.
// HasSummary distinguishes "no summary produced" from an empty string.
type ExportBundle struct {
	Record     *BillRecord `json:"record"`
	Summary    string      `json:"summary"`
	HasSummary bool        `json:"hasSummary"`
}
