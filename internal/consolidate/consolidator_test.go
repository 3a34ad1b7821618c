package consolidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapextract/snapextract/internal/models"
)

func amount(v float64) *float64 { return &v }

func TestConsolidate_EmptyInput(t *testing.T) {
	_, err := Consolidate(nil, Options{})
	require.ErrorIs(t, err, ErrNoRecords)

	_, err = Consolidate([]models.RawExtraction{}, Options{})
	require.ErrorIs(t, err, ErrNoRecords)
}

func TestConsolidate_SingleVendorAndDate(t *testing.T) {
	records := []models.RawExtraction{
		{
			Vendor: "Acme", Date: "2024-01-05", Amount: 12.50,
			LineItems: []models.RawLineItem{{Description: "Widget", Amount: amount(12.50)}},
		},
		{Vendor: "Acme", Date: "2024-01-05", Amount: 7.25},
	}

	rec, err := Consolidate(records, Options{})
	require.NoError(t, err)

	assert.Equal(t, "Acme", rec.Vendor)
	assert.Equal(t, "2024-01-05", rec.Date)
	assert.Equal(t, 19.75, rec.Amount)
	require.Len(t, rec.LineItems, 1)
	assert.Equal(t, models.LineItem{Description: "Widget", Amount: 12.50}, rec.LineItems[0])
}

func TestConsolidate_VendorPolicies(t *testing.T) {
	tests := []struct {
		name    string
		vendors []string
		policy  VendorPolicy
		want    string
	}{
		{
			name:    "disagreement emits label by default",
			vendors: []string{"Acme", "Globex"},
			want:    MultipleVendorsLabel,
		},
		{
			name:    "agreement keeps the shared vendor",
			vendors: []string{"Acme", "Acme", "Acme"},
			policy:  VendorMostFrequent,
			want:    "Acme",
		},
		{
			name:    "most frequent wins under most-frequent policy",
			vendors: []string{"Globex", "Acme", "Acme"},
			policy:  VendorMostFrequent,
			want:    "Acme",
		},
		{
			name:    "most-frequent tie breaks by first occurrence",
			vendors: []string{"Globex", "Acme"},
			policy:  VendorMostFrequent,
			want:    "Globex",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]models.RawExtraction, len(tt.vendors))
			for i, v := range tt.vendors {
				records[i] = models.RawExtraction{Vendor: v, Date: "2024-01-05", Amount: 1}
			}

			rec, err := Consolidate(records, Options{VendorPolicy: tt.policy})
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Vendor)
		})
	}
}

func TestConsolidate_DatePolicies(t *testing.T) {
	tests := []struct {
		name   string
		dates  []string
		policy DatePolicy
		want   string
	}{
		{
			name:   "earliest picks the minimum",
			dates:  []string{"2024-03-01", "2024-01-15", "2024-02-20"},
			policy: DateEarliest,
			want:   "2024-01-15",
		},
		{
			name:   "latest picks the maximum",
			dates:  []string{"2024-03-01", "2024-01-15", "2024-02-20"},
			policy: DateLatest,
			want:   "2024-03-01",
		},
		{
			name:   "most frequent picks the mode",
			dates:  []string{"2024-03-01", "2024-01-15", "2024-01-15"},
			policy: DateMostFrequent,
			want:   "2024-01-15",
		},
		{
			name:  "most frequent is the default",
			dates: []string{"2024-03-01", "2024-01-15", "2024-01-15"},
			want:  "2024-01-15",
		},
		{
			name:   "mode tie breaks by first occurrence",
			dates:  []string{"2024-03-01", "2024-01-15"},
			policy: DateMostFrequent,
			want:   "2024-03-01",
		},
		{
			name:   "unparsable dates are excluded from the vote",
			dates:  []string{"not-a-date", "2024-01-15", "garbage"},
			policy: DateMostFrequent,
			want:   "2024-01-15",
		},
		{
			name:   "no parsable date falls back to the first raw value",
			dates:  []string{"March 1st", "garbage"},
			policy: DateEarliest,
			want:   "March 1st",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]models.RawExtraction, len(tt.dates))
			for i, d := range tt.dates {
				records[i] = models.RawExtraction{Vendor: "Acme", Date: d, Amount: 1}
			}

			rec, err := Consolidate(records, Options{DatePolicy: tt.policy})
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Date)
		})
	}
}

func TestConsolidate_UnparsableDateStillContributes(t *testing.T) {
	records := []models.RawExtraction{
		{Vendor: "Acme", Date: "2024-01-05", Amount: 10},
		{
			Vendor: "Acme", Date: "bogus", Amount: 5.5,
			LineItems: []models.RawLineItem{{Description: "Fee", Amount: amount(5.5)}},
		},
	}

	rec, err := Consolidate(records, Options{})
	require.NoError(t, err)

	assert.Equal(t, 15.5, rec.Amount)
	assert.Equal(t, "2024-01-05", rec.Date)
	require.Len(t, rec.LineItems, 1)
	assert.Equal(t, "Fee", rec.LineItems[0].Description)
}

func TestConsolidate_AmountSumInInputOrder(t *testing.T) {
	// Float accumulation order matters; the sum must match a plain
	// left-to-right fold over the inputs.
	amounts := []float64{0.1, 0.2, 0.3, 12.57, 1e-8, 99.99}
	records := make([]models.RawExtraction, len(amounts))
	var want float64
	for i, a := range amounts {
		records[i] = models.RawExtraction{Vendor: "Acme", Date: "2024-01-05", Amount: a}
		want += a
	}

	first, err := Consolidate(records, Options{})
	require.NoError(t, err)
	second, err := Consolidate(records, Options{})
	require.NoError(t, err)

	assert.Equal(t, want, first.Amount)
	assert.Equal(t, first.Amount, second.Amount)
}

func TestConsolidate_LineItemConcatenation(t *testing.T) {
	records := []models.RawExtraction{
		{
			Vendor: "Acme", Date: "2024-01-05", Amount: 10,
			LineItems: []models.RawLineItem{
				{Description: "A1", Amount: amount(1)},
				{Description: "A2", Amount: amount(2)},
			},
		},
		{Vendor: "Acme", Date: "2024-01-05", Amount: 5},
		{
			Vendor: "Acme", Date: "2024-01-05", Amount: 3,
			LineItems: []models.RawLineItem{
				{Description: "C1", Amount: amount(3)},
			},
		},
	}

	rec, err := Consolidate(records, Options{})
	require.NoError(t, err)

	descriptions := make([]string, len(rec.LineItems))
	for i, item := range rec.LineItems {
		descriptions[i] = item.Description
	}
	assert.Equal(t, []string{"A1", "A2", "C1"}, descriptions)
}

func TestConsolidate_DropsItemsWithoutAmount(t *testing.T) {
	records := []models.RawExtraction{
		{
			Vendor: "Acme", Date: "2024-01-05", Amount: 10,
			LineItems: []models.RawLineItem{
				{Description: "Priced", Amount: amount(4.20)},
				{Description: "Missing amount"},
				{Description: "", Amount: amount(1)},
			},
		},
	}

	rec, err := Consolidate(records, Options{})
	require.NoError(t, err)

	require.Len(t, rec.LineItems, 1)
	assert.Equal(t, models.LineItem{Description: "Priced", Amount: 4.20}, rec.LineItems[0])
}

func TestConsolidate_LineItemsNeverNil(t *testing.T) {
	rec, err := Consolidate([]models.RawExtraction{
		{Vendor: "Acme", Date: "2024-01-05", Amount: 1},
	}, Options{})
	require.NoError(t, err)

	assert.NotNil(t, rec.LineItems)
	assert.Empty(t, rec.LineItems)
}

func TestParsePolicies(t *testing.T) {
	dp, err := ParseDatePolicy("")
	require.NoError(t, err)
	assert.Equal(t, DateMostFrequent, dp)

	_, err = ParseDatePolicy("newest")
	require.Error(t, err)

	vp, err := ParseVendorPolicy("most-frequent")
	require.NoError(t, err)
	assert.Equal(t, VendorMostFrequent, vp)

	_, err = ParseVendorPolicy("first")
	require.Error(t, err)
}
