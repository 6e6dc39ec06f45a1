package accounting

import (
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_reports/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RoundingMode selects how report values are rounded to the configured scale.
type RoundingMode string

const (
	RoundHalfUp   RoundingMode = "HALF_UP"
	RoundHalfEven RoundingMode = "HALF_EVEN"
	RoundDown     RoundingMode = "DOWN"
	RoundUp       RoundingMode = "UP"
	RoundCeiling  RoundingMode = "CEILING"
	RoundFloor    RoundingMode = "FLOOR"
)

// ParseRoundingMode accepts the mode names case-insensitively.
func ParseRoundingMode(s string) (RoundingMode, error) {
	mode := RoundingMode(strings.ToUpper(strings.TrimSpace(s)))
	switch mode {
	case RoundHalfUp, RoundHalfEven, RoundDown, RoundUp, RoundCeiling, RoundFloor:
		return mode, nil
	}
	return "", fmt.Errorf("unknown rounding mode %q", s)
}

// Precision is the decimal scale and rounding mode applied to every report output value.
type Precision struct {
	Scale int32
	Mode  RoundingMode
}

// DefaultPrecision is two decimal places, half-up.
func DefaultPrecision() Precision {
	return Precision{Scale: 2, Mode: RoundHalfUp}
}

func (p Precision) orDefault() Precision {
	if p.Mode == "" {
		return DefaultPrecision()
	}
	return p
}

// RoundLines rounds every value of lines in place.
func (p Precision) RoundLines(lines map[string]decimal.Decimal) {
	for k, v := range lines {
		lines[k] = p.Round(v)
	}
}

// Round applies the precision to d.
func (p Precision) Round(d decimal.Decimal) decimal.Decimal {
	p = p.orDefault()
	switch p.Mode {
	case RoundHalfEven:
		return d.RoundBank(p.Scale)
	case RoundDown:
		return d.RoundDown(p.Scale)
	case RoundUp:
		return d.RoundUp(p.Scale)
	case RoundCeiling:
		return d.RoundCeil(p.Scale)
	case RoundFloor:
		return d.RoundFloor(p.Scale)
	default:
		return d.Round(p.Scale)
	}
}

// SignConvention decides, per account, which side of the ledger counts as positive.
type SignConvention func(account domain.LedgerAccount) domain.DebitCredit

// AccountNormal treats each account's own normal balance as positive.
func AccountNormal(account domain.LedgerAccount) domain.DebitCredit {
	return account.NormalBalance()
}

// SectionNormal treats the normal balance of the account's top-level section as positive, so
// contra accounts reduce their section (accumulated depreciation reduces assets).
func SectionNormal(account domain.LedgerAccount) domain.DebitCredit {
	return account.Class.Section().NormalBalance()
}

// IncomeNormal reports every account credit-positive, so revenue and income are positive while
// expenses and contra revenue are negative.
func IncomeNormal(domain.LedgerAccount) domain.DebitCredit {
	return domain.Credit
}

// CalculateSignedAmount applies the sign convention to one entry:
// +amount when the entry sits on the normal side, -amount otherwise.
func CalculateSignedAmount(entry domain.LedgerEntry, normal domain.DebitCredit) decimal.Decimal {
	if entry.DebitCredit == normal {
		return entry.Amount
	}
	return entry.Amount.Neg()
}

// ToSide converts a balance expressed on the `from` side to the `to` side.
func ToSide(amount decimal.Decimal, from, to domain.DebitCredit) decimal.Decimal {
	if from == to {
		return amount
	}
	return amount.Neg()
}

// Sum adds up the values of a map.
func Sum(values map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
