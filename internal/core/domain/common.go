package domain

// WarningCode identifies a non-fatal finding attached to a report.
type WarningCode string

const (
	WarningUnclassifiedAccount    WarningCode = "UNCLASSIFIED_ACCOUNT"
	WarningOtherSection           WarningCode = "OTHER_SECTION_ACCOUNT"
	WarningBalanceSheetUnbalanced WarningCode = "BALANCE_SHEET_UNBALANCED"
	WarningTrialBalanceNonZero    WarningCode = "TRIAL_BALANCE_NON_ZERO"
	WarningCashFlowMismatch       WarningCode = "CASH_FLOW_MISMATCH"
	WarningTagSlotUnconfigured    WarningCode = "TAG_SLOT_UNCONFIGURED"
)

// Warning is a reconciliation or classification finding. Reports carrying warnings are still
// successful results.
type Warning struct {
	Code      WarningCode `json:"code"`
	Message   string      `json:"message"`
	AccountID string      `json:"accountID,omitempty"`
}
