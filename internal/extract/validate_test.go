package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapextract/snapextract/internal/models"
)

func TestValidateRawExtraction(t *testing.T) {
	amount := func(v float64) *float64 { return &v }

	t.Run("accepts a well-formed extraction", func(t *testing.T) {
		raw := models.RawExtraction{
			Vendor: "Acme", Date: "2024-01-05", Amount: 10,
			LineItems: []models.RawLineItem{{Description: "Widget", Amount: amount(10)}},
		}
		require.NoError(t, ValidateRawExtraction(&raw))
	})

	t.Run("rejects a missing vendor", func(t *testing.T) {
		raw := models.RawExtraction{Date: "2024-01-05", Amount: 10}
		require.Error(t, ValidateRawExtraction(&raw))
	})

	t.Run("rejects a negative amount", func(t *testing.T) {
		raw := models.RawExtraction{Vendor: "Acme", Amount: -1}
		require.Error(t, ValidateRawExtraction(&raw))
	})

	t.Run("normalizes absent line items to empty", func(t *testing.T) {
		raw := models.RawExtraction{Vendor: "Acme", Amount: 10}
		require.NoError(t, ValidateRawExtraction(&raw))
		assert.NotNil(t, raw.LineItems)
		assert.Empty(t, raw.LineItems)
	})

	t.Run("strips control characters from model text", func(t *testing.T) {
		raw := models.RawExtraction{
			Vendor: "Acme\x00 Store", Amount: 10,
			LineItems: []models.RawLineItem{{Description: "Wid\x1fget", Amount: amount(10)}},
		}
		require.NoError(t, ValidateRawExtraction(&raw))
		assert.Equal(t, "Acme Store", raw.Vendor)
		assert.Equal(t, "Widget", raw.LineItems[0].Description)
	})

	t.Run("rejects a vendor that is only control characters", func(t *testing.T) {
		raw := models.RawExtraction{Vendor: "\x00\x1f", Amount: 10}
		require.Error(t, ValidateRawExtraction(&raw))
	})

	t.Run("keeps items without amounts for later filtering", func(t *testing.T) {
		raw := models.RawExtraction{
			Vendor: "Acme", Amount: 10,
			LineItems: []models.RawLineItem{{Description: "Unpriced"}},
		}
		require.NoError(t, ValidateRawExtraction(&raw))
		require.Len(t, raw.LineItems, 1)
		assert.Empty(t, raw.ValidLineItems())
	})
}
