// Package consolidate merges per-image extraction records into a single
// bill record under explicit, named policies. All functions are pure:
// no I/O, no retained state between calls.
package consolidate

import (
	"time"

	"github.com/snapextract/snapextract/internal/models"
)

const dateLayout = "2006-01-02"

// Consolidate merges records (one per source image, in upload order) into
// exactly one BillRecord.
//
// The total amount is the sum of every record's amount, accumulated in
// input order so results are reproducible bit for bit. Line items are the
// concatenation of each record's valid items in input order. Records whose
// date does not parse as YYYY-MM-DD are excluded from the date vote but
// still contribute their amount and line items.
func Consolidate(records []models.RawExtraction, opts Options) (models.BillRecord, error) {
	if len(records) == 0 {
		return models.BillRecord{}, ErrNoRecords
	}
	opts = opts.withDefaults()

	var amount float64
	items := []models.LineItem{}
	for _, rec := range records {
		amount += rec.Amount
		items = append(items, rec.ValidLineItems()...)
	}

	return models.BillRecord{
		Vendor:    pickVendor(records, opts.VendorPolicy),
		Date:      pickDate(records, opts.DatePolicy),
		Amount:    amount,
		LineItems: items,
	}, nil
}

func pickVendor(records []models.RawExtraction, policy VendorPolicy) string {
	first := records[0].Vendor
	agree := true
	for _, rec := range records[1:] {
		if rec.Vendor != first {
			agree = false
			break
		}
	}
	if agree {
		return first
	}

	switch policy {
	case VendorMostFrequent:
		return mostFrequent(vendorStrings(records))
	default:
		return MultipleVendorsLabel
	}
}

func vendorStrings(records []models.RawExtraction) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.Vendor
	}
	return out
}

type parsedDate struct {
	raw string
	t   time.Time
}

func pickDate(records []models.RawExtraction, policy DatePolicy) string {
	var dates []parsedDate
	for _, rec := range records {
		t, err := time.Parse(dateLayout, rec.Date)
		if err != nil {
			continue
		}
		dates = append(dates, parsedDate{raw: rec.Date, t: t})
	}
	if len(dates) == 0 {
		// Nothing parsed; carry the first record's raw date through.
		return records[0].Date
	}

	switch policy {
	case DateEarliest:
		min := dates[0]
		for _, d := range dates[1:] {
			if d.t.Before(min.t) {
				min = d
			}
		}
		return min.raw
	case DateLatest:
		max := dates[0]
		for _, d := range dates[1:] {
			if d.t.After(max.t) {
				max = d
			}
		}
		return max.raw
	default:
		raws := make([]string, len(dates))
		for i, d := range dates {
			raws[i] = d.raw
		}
		return mostFrequent(raws)
	}
}

// mostFrequent returns the mode of values, ties broken by first
// occurrence in input order.
func mostFrequent(values []string) string {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	best := values[0]
	bestCount := counts[best]
	for _, v := range values {
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best
}
