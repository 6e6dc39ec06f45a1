package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// FiscalType partitions the ledger into parallel books.
type FiscalType string

const (
	FiscalActual      FiscalType = "ACTUAL"
	FiscalBudget      FiscalType = "BUDGET"
	FiscalEncumbrance FiscalType = "ENCUMBRANCE"
	FiscalForecast    FiscalType = "FORECAST"
	FiscalPlan        FiscalType = "PLAN"
	FiscalScenario    FiscalType = "SCENARIO"
)

// FiscalTypes lists every recognized fiscal type.
var FiscalTypes = []FiscalType{FiscalActual, FiscalBudget, FiscalEncumbrance, FiscalForecast, FiscalPlan, FiscalScenario}

// Valid reports whether f is a recognized fiscal type.
func (f FiscalType) Valid() bool {
	return slices.Contains(FiscalTypes, f)
}

// TransactionType classifies the business event behind an accounting transaction.
type TransactionType string

// TxPeriodClosing marks the synthetic re-statements written when a period is closed.
const TxPeriodClosing TransactionType = "PERIOD_CLOSING"

// LedgerEntry is one debit or credit line of a posted accounting transaction, enriched with the
// transaction header and the owning account.
type LedgerEntry struct {
	TransactionID   string          `json:"transactionID"`
	EntrySeq        int             `json:"entrySeq"`
	OrganizationID  string          `json:"organizationID"`
	TransactionType TransactionType `json:"transactionType"`
	FiscalType      FiscalType      `json:"fiscalType"`
	TransactionDate time.Time       `json:"transactionDate"`
	Posted          bool            `json:"posted"`
	Account         LedgerAccount   `json:"account"`
	DebitCredit     DebitCredit     `json:"debitCredit"`
	Amount          decimal.Decimal `json:"amount"` // never negative
	Tags            Tags            `json:"tags"`
	ProductID       string          `json:"productID,omitempty"`
	PartyID         string          `json:"partyID,omitempty"`
}

// EntryQuery selects posted entries from the transaction store.
// Zero FromDate/ThruDate leave that end of the range open; the range is [FromDate, ThruDate).
type EntryQuery struct {
	OrganizationID          string
	FromDate                time.Time
	ThruDate                time.Time
	FiscalTypes             []FiscalType
	Classes                 []AccountClass // already expanded to descendants; empty means all
	Tags                    TagFilter
	IncludeTransactionTypes []TransactionType
	ExcludeTransactionTypes []TransactionType
}

// Matches applies the query to a single entry. Unposted entries never match.
func (q EntryQuery) Matches(e LedgerEntry) bool {
	if !e.Posted || e.OrganizationID != q.OrganizationID {
		return false
	}
	if !q.FromDate.IsZero() && e.TransactionDate.Before(q.FromDate) {
		return false
	}
	if !q.ThruDate.IsZero() && !e.TransactionDate.Before(q.ThruDate) {
		return false
	}
	if len(q.FiscalTypes) > 0 && !slices.Contains(q.FiscalTypes, e.FiscalType) {
		return false
	}
	if len(q.Classes) > 0 && !slices.Contains(q.Classes, e.Account.Class) {
		return false
	}
	if len(q.IncludeTransactionTypes) > 0 && !slices.Contains(q.IncludeTransactionTypes, e.TransactionType) {
		return false
	}
	if slices.Contains(q.ExcludeTransactionTypes, e.TransactionType) {
		return false
	}
	return q.Tags.Matches(e.Tags)
}
