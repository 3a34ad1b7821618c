package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapextract/snapextract/internal/models"
)

func TestRenderSheetRow(t *testing.T) {
	bundle := sampleBundle()
	row, err := RenderSheetRow(bundle)
	require.NoError(t, err)

	assert.Equal(t, bundle.Record.Vendor, row.Vendor)
	assert.Equal(t, bundle.Record.Date, row.Date)
	assert.Equal(t, bundle.Record.Amount, row.Amount)
	assert.Equal(t, bundle.Record.LineItems, row.LineItems)
	assert.Equal(t, bundle.Summary, row.Summary)
}

func TestRenderSheetRow_LineItemsNeverNil(t *testing.T) {
	bundle := sampleBundle()
	bundle.Record.LineItems = nil

	row, err := RenderSheetRow(bundle)
	require.NoError(t, err)
	assert.NotNil(t, row.LineItems)
	assert.Empty(t, row.LineItems)
}

func TestRenderSheetRow_NoSummary(t *testing.T) {
	bundle := sampleBundle()
	bundle.Summary = "stale text"
	bundle.HasSummary = false

	row, err := RenderSheetRow(bundle)
	require.NoError(t, err)
	assert.Empty(t, row.Summary)
}

func TestRenderSheetRow_MissingRecord(t *testing.T) {
	_, err := RenderSheetRow(models.ExportBundle{})
	require.ErrorIs(t, err, ErrMissingRecord)
}
