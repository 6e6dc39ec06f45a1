package domain

import "slices"

// TagSlotCount is the number of accounting-tag dimensions carried on every entry.
const TagSlotCount = 10

// NullTag is the distinguished value standing for "slot not set".
const NullTag = "_NA_"

// Tags holds the tag values of an entry; index 0 is slot 1. Empty string means unset.
type Tags [TagSlotCount]string

// Slot returns the value of the 1-based slot, or "" when out of range.
func (t Tags) Slot(slot int) string {
	if slot < 1 || slot > TagSlotCount {
		return ""
	}
	return t[slot-1]
}

// Normalized replaces unset slots with NullTag.
func (t Tags) Normalized() Tags {
	for i, v := range t {
		if v == "" {
			t[i] = NullTag
		}
	}
	return t
}

// TagFilter restricts entries by tag values. Index 0 is slot 1; a nil slot is unrestricted.
// Values within a slot are alternatives, slots are combined with AND, and NullTag matches an
// unset slot.
type TagFilter [TagSlotCount][]string

// Active reports whether any slot is restricted.
func (f TagFilter) Active() bool {
	for _, values := range f {
		if len(values) > 0 {
			return true
		}
	}
	return false
}

// Slots returns the 1-based slots that carry a restriction.
func (f TagFilter) Slots() []int {
	var slots []int
	for i, values := range f {
		if len(values) > 0 {
			slots = append(slots, i+1)
		}
	}
	return slots
}

// Matches reports whether the tags satisfy every restricted slot.
func (f TagFilter) Matches(tags Tags) bool {
	for i, values := range f {
		if len(values) == 0 {
			continue
		}
		v := tags[i]
		if v == "" {
			v = NullTag
		}
		if !slices.Contains(values, v) {
			return false
		}
	}
	return true
}

// With returns a copy of f that additionally restricts the 1-based slot to the given values.
func (f TagFilter) With(slot int, values ...string) TagFilter {
	if slot < 1 || slot > TagSlotCount {
		return f
	}
	f[slot-1] = append(slices.Clone(f[slot-1]), values...)
	return f
}

// TagUsage names the context a tag type map applies to.
type TagUsage string

const (
	TagUsageFinancialReports TagUsage = "FINANCIALS_REPORTS"
	TagUsageEncumbrance      TagUsage = "ENCUMBRANCE"
)

// TagTypeMap maps a 1-based tag slot to the enumeration type that labels it.
type TagTypeMap map[int]string
