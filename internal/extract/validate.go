package extract

import (
	"fmt"

	"github.com/snapextract/snapextract/internal/models"
	"github.com/snapextract/snapextract/pkg/utils"
)

// ValidateRawExtraction checks a model response before it is accepted
// into consolidation. The vendor and item descriptions are sanitized
// (model text can carry control characters) and an absent line-item
// array is normalized to an empty one. Items with a missing amount or
// empty description stay in the raw record; they are dropped (never
// zeroed) when valid items are collected during consolidation.
func ValidateRawExtraction(raw *models.RawExtraction) error {
	raw.Vendor = utils.SanitizeString(raw.Vendor)
	if raw.Vendor == "" {
		return fmt.Errorf("extraction has no vendor")
	}
	if err := utils.ValidateAmount(raw.Amount); err != nil {
		return fmt.Errorf("extraction amount rejected: %w", err)
	}
	if raw.LineItems == nil {
		raw.LineItems = []models.RawLineItem{}
	}
	for i := range raw.LineItems {
		raw.LineItems[i].Description = utils.SanitizeString(raw.LineItems[i].Description)
	}
	return nil
}
