package accounting

import "github.com/shopspring/decimal"

// Diff returns b[k] - a[k] for every key present in either map; absent entries count as zero.
func Diff(a, b map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(a)+len(b))
	for k, v := range b {
		out[k] = v.Sub(a[k])
	}
	for k, v := range a {
		if _, ok := b[k]; !ok {
			out[k] = v.Neg()
		}
	}
	return out
}
