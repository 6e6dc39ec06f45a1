package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerAccount is a row of ledger_accounts.
type LedgerAccount struct {
	AccountID     string `db:"account_id"`
	Name          string `db:"name"`
	AccountTypeID string `db:"account_type_id"`
	AccountClass  string `db:"account_class"`
}

// AccountType is a row of ledger_account_types. ParentTypeID is empty for roots.
type AccountType struct {
	AccountTypeID string `db:"account_type_id"`
	ParentTypeID  string `db:"parent_type_id"` // Nullable
	Description   string `db:"description"`
}

// Entry is one accounting_transaction_entries row joined with its transaction header and account.
type Entry struct {
	TransactionID   string          `db:"transaction_id"`
	EntrySeq        int             `db:"entry_seq"`
	OrganizationID  string          `db:"organization_id"`
	TransactionType string          `db:"transaction_type"`
	FiscalType      string          `db:"fiscal_type"`
	TransactionDate time.Time       `db:"transaction_date"`
	IsPosted        bool            `db:"is_posted"`
	Account         LedgerAccount   // joined
	DebitCredit     string          `db:"debit_credit"` // DEBIT or CREDIT
	Amount          decimal.Decimal `db:"amount"`       // CHECK (amount >= 0)
	Tags            [10]string      // tag1..tag10, '' when NULL
	ProductID       string          `db:"product_id"` // Nullable
	PartyID         string          `db:"party_id"`   // Nullable
}

// CustomTimePeriod is a row of custom_time_periods covering [from_date, thru_date).
type CustomTimePeriod struct {
	PeriodID       string    `db:"period_id"`
	OrganizationID string    `db:"organization_id"`
	FromDate       time.Time `db:"from_date"`
	ThruDate       time.Time `db:"thru_date"`
	IsClosed       bool      `db:"is_closed"`
}

// PostedBalance is a row of posted_account_balances, written when a period is closed.
type PostedBalance struct {
	OrganizationID string          `db:"organization_id"`
	PeriodID       string          `db:"period_id"`
	Account        LedgerAccount   // joined
	PostedDebits   decimal.Decimal `db:"posted_debits"`
	PostedCredits  decimal.Decimal `db:"posted_credits"`
	EndingBalance  decimal.Decimal `db:"ending_balance"`
}
