package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomTimePeriod is an accounting period of an organization covering [FromDate, ThruDate).
type CustomTimePeriod struct {
	PeriodID       string    `json:"periodID"`
	OrganizationID string    `json:"organizationID"`
	FromDate       time.Time `json:"fromDate"`
	ThruDate       time.Time `json:"thruDate"`
	IsClosed       bool      `json:"isClosed"`
}

// Overlaps reports whether the period intersects [from, thru).
func (p CustomTimePeriod) Overlaps(from, thru time.Time) bool {
	return p.FromDate.Before(thru) && from.Before(p.ThruDate)
}

// PostedBalance is one account's row of a period-close snapshot. EndingBalance is expressed in
// the account's normal-balance sign and covers all activity before the period's ThruDate.
type PostedBalance struct {
	OrganizationID string          `json:"organizationID"`
	PeriodID       string          `json:"periodID"`
	Account        LedgerAccount   `json:"account"`
	PostedDebits   decimal.Decimal `json:"postedDebits"`
	PostedCredits  decimal.Decimal `json:"postedCredits"`
	EndingBalance  decimal.Decimal `json:"endingBalance"`
}
