package accounting

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/SscSPs/ledger_reports/internal/apperrors"
	"github.com/SscSPs/ledger_reports/internal/core/domain"
)

// ParseTagFilter turns requested slot values into a TagFilter. Slots outside 1..10 are a
// validation error; blank values are dropped and duplicates collapsed.
func ParseTagFilter(requested map[int][]string) (domain.TagFilter, error) {
	var filter domain.TagFilter

	slots := make([]int, 0, len(requested))
	for slot := range requested {
		slots = append(slots, slot)
	}
	sort.Ints(slots)

	for _, slot := range slots {
		if err := ValidateTagSlot(slot); err != nil {
			return domain.TagFilter{}, err
		}
		var values []string
		for _, v := range requested[slot] {
			v = strings.TrimSpace(v)
			if v != "" && !slices.Contains(values, v) {
				values = append(values, v)
			}
		}
		if len(values) > 0 {
			filter[slot-1] = values
		}
	}
	return filter, nil
}

// ValidateTagSlot rejects slot numbers outside 1..10.
func ValidateTagSlot(slot int) error {
	if slot < 1 || slot > domain.TagSlotCount {
		return apperrors.NewAppError(apperrors.ReasonInvalidTagSlot,
			fmt.Sprintf("tag slot %d is outside 1..%d", slot, domain.TagSlotCount), apperrors.ErrValidation)
	}
	return nil
}

// ResolveTagFilter checks a filter against the organization's tag type map. A restricted slot the
// organization has not configured only produces a warning; the map labels slots and never
// changes arithmetic.
func ResolveTagFilter(filter domain.TagFilter, types domain.TagTypeMap) []domain.Warning {
	var warnings []domain.Warning
	for _, slot := range filter.Slots() {
		if _, ok := types[slot]; !ok {
			warnings = append(warnings, domain.Warning{
				Code:    domain.WarningTagSlotUnconfigured,
				Message: fmt.Sprintf("tag slot %d is not configured for this organization", slot),
			})
		}
	}
	return warnings
}
