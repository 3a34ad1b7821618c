package consolidate

import "fmt"

// DatePolicy selects which date wins when source images disagree.
type DatePolicy string

const (
	// DateEarliest picks the minimum parsed date.
	DateEarliest DatePolicy = "earliest"
	// DateLatest picks the maximum parsed date.
	DateLatest DatePolicy = "latest"
	// DateMostFrequent picks the mode, ties broken by first occurrence
	// in input order. This is the default.
	DateMostFrequent DatePolicy = "most-frequent"
)

// VendorPolicy selects the vendor name when source images disagree.
type VendorPolicy string

const (
	// VendorMultipleLabel emits the literal "Multiple Vendors" label on
	// disagreement. This is the default.
	VendorMultipleLabel VendorPolicy = "multiple-label"
	// VendorMostFrequent picks the most frequent vendor string, ties
	// broken by first occurrence in input order.
	VendorMostFrequent VendorPolicy = "most-frequent"
)

// MultipleVendorsLabel is the synthetic vendor emitted when the sources
// disagree under VendorMultipleLabel.
const MultipleVendorsLabel = "Multiple Vendors"

// ParseDatePolicy maps a policy name to a DatePolicy. The empty string
// selects the default.
func ParseDatePolicy(s string) (DatePolicy, error) {
	switch DatePolicy(s) {
	case "":
		return DateMostFrequent, nil
	case DateEarliest, DateLatest, DateMostFrequent:
		return DatePolicy(s), nil
	}
	return "", fmt.Errorf("unknown date policy: %q", s)
}

// ParseVendorPolicy maps a policy name to a VendorPolicy. The empty string
// selects the default.
func ParseVendorPolicy(s string) (VendorPolicy, error) {
	switch VendorPolicy(s) {
	case "":
		return VendorMultipleLabel, nil
	case VendorMultipleLabel, VendorMostFrequent:
		return VendorPolicy(s), nil
	}
	return "", fmt.Errorf("unknown vendor policy: %q", s)
}

// Options holds the consolidation policies. The zero value selects the
// defaults (most-frequent date, "Multiple Vendors" label).
type Options struct {
	DatePolicy   DatePolicy
	VendorPolicy VendorPolicy
}

func (o Options) withDefaults() Options {
	if o.DatePolicy == "" {
		o.DatePolicy = DateMostFrequent
	}
	if o.VendorPolicy == "" {
		o.VendorPolicy = VendorMultipleLabel
	}
	return o
}
