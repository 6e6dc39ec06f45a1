package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// IncomeBucket is the income-statement root an account rolls up to.
type IncomeBucket int

const (
	BucketUnclassified IncomeBucket = iota
	BucketRevenue
	BucketCOGS
	BucketOperatingExpense
	BucketOtherIncome
	BucketOtherExpense
	BucketTaxExpense
)

// IncomeBuckets lists the buckets in statement order, unclassified last.
var IncomeBuckets = []IncomeBucket{BucketRevenue, BucketCOGS, BucketOperatingExpense, BucketOtherIncome, BucketOtherExpense, BucketTaxExpense, BucketUnclassified}

var bucketNames = map[IncomeBucket]string{
	BucketUnclassified:     "UNCLASSIFIED",
	BucketRevenue:          "REVENUE",
	BucketCOGS:             "COGS",
	BucketOperatingExpense: "OPERATING_EXPENSE",
	BucketOtherIncome:      "OTHER_INCOME",
	BucketOtherExpense:     "OTHER_EXPENSE",
	BucketTaxExpense:       "TAX_EXPENSE",
}

func (b IncomeBucket) String() string {
	if name, ok := bucketNames[b]; ok {
		return name
	}
	return fmt.Sprintf("IncomeBucket(%d)", int(b))
}

// MarshalText lets buckets be used as JSON object keys.
func (b IncomeBucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// IncomeBucketForType returns the bucket whose root account type id is typeID.
func IncomeBucketForType(typeID string) (IncomeBucket, bool) {
	for bucket, name := range bucketNames {
		if bucket != BucketUnclassified && name == typeID {
			return bucket, true
		}
	}
	return BucketUnclassified, false
}

// AccountLine is an account with its signed amount in a report section.
type AccountLine struct {
	Account LedgerAccount   `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
}

// TagBalance is an account balance for one combination of tag values.
type TagBalance struct {
	Account LedgerAccount   `json:"account"`
	Tags    Tags            `json:"tags"`
	Amount  decimal.Decimal `json:"amount"`
}

// IncomeStatementRequest parameterizes an income statement over [FromDate, ThruDate).
type IncomeStatementRequest struct {
	OrganizationID string
	FromDate       time.Time
	ThruDate       time.Time
	FiscalType     FiscalType
	Tags           TagFilter
	GroupByTags    bool
}

// IncomeStatement is the result of an income statement run. All amounts use a
// "more positive is better" sign: revenue positive, expenses negative.
type IncomeStatement struct {
	OrganizationID          string                           `json:"organizationID"`
	FromDate                time.Time                        `json:"fromDate"`
	ThruDate                time.Time                        `json:"thruDate"`
	FiscalType              FiscalType                       `json:"fiscalType"`
	Accounts                map[string]LedgerAccount         `json:"accounts"`
	ByAccount               map[string]decimal.Decimal       `json:"byAccount"`
	ByBucket                map[IncomeBucket][]AccountLine   `json:"byBucket"`
	BucketTotals            map[IncomeBucket]decimal.Decimal `json:"bucketTotals"`
	TagBalances             []TagBalance                     `json:"tagBalances,omitempty"`
	GrossProfit             decimal.Decimal                  `json:"grossProfit"`
	OperatingIncome         decimal.Decimal                  `json:"operatingIncome"`
	PretaxIncome            decimal.Decimal                  `json:"pretaxIncome"`
	NetIncome               decimal.Decimal                  `json:"netIncome"`
	IsClosed                bool                             `json:"isClosed"`
	RetainedEarningsAccount LedgerAccount                    `json:"retainedEarningsAccount"`
	TagTypes                TagTypeMap                       `json:"tagTypes,omitempty"`
	Warnings                []Warning                        `json:"warnings"`
}

// Lines returns the per-account amounts, used for period-over-period comparison.
func (s *IncomeStatement) Lines() map[string]decimal.Decimal {
	return s.ByAccount
}

// BalanceSheetRequest parameterizes a balance sheet covering all activity before AsOfDate.
type BalanceSheetRequest struct {
	OrganizationID string
	AsOfDate       time.Time
	FiscalType     FiscalType
	Tags           TagFilter
}

// BalanceSheet reports assets debit-positive and liabilities/equity credit-positive so that
// TotalAssets == TotalLiabilities + TotalEquity for a consistent ledger.
type BalanceSheet struct {
	OrganizationID          string                     `json:"organizationID"`
	AsOfDate                time.Time                  `json:"asOfDate"`
	FiscalType              FiscalType                 `json:"fiscalType"`
	AnchorDate              time.Time                  `json:"anchorDate"`
	UsedSnapshot            bool                       `json:"usedSnapshot"`
	Accounts                map[string]LedgerAccount   `json:"accounts"`
	AssetBalances           map[string]decimal.Decimal `json:"assetBalances"`
	LiabilityBalances       map[string]decimal.Decimal `json:"liabilityBalances"`
	EquityBalances          map[string]decimal.Decimal `json:"equityBalances"`
	TotalAssets             decimal.Decimal            `json:"totalAssets"`
	TotalLiabilities        decimal.Decimal            `json:"totalLiabilities"`
	TotalEquity             decimal.Decimal            `json:"totalEquity"`
	InterimNetIncome        decimal.Decimal            `json:"interimNetIncome"`
	IsBalanced              bool                       `json:"isBalanced"`
	IsClosed                bool                       `json:"isClosed"`
	RetainedEarningsAccount LedgerAccount              `json:"retainedEarningsAccount"`
	TagTypes                TagTypeMap                 `json:"tagTypes,omitempty"`
	Warnings                []Warning                  `json:"warnings"`
}

// Lines merges the three sections into one account-keyed map.
func (b *BalanceSheet) Lines() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(b.AssetBalances)+len(b.LiabilityBalances)+len(b.EquityBalances))
	for _, section := range []map[string]decimal.Decimal{b.AssetBalances, b.LiabilityBalances, b.EquityBalances} {
		for id, amount := range section {
			out[id] = amount
		}
	}
	return out
}

// TrialBalanceRequest parameterizes a trial balance covering all activity before AsOfDate.
type TrialBalanceRequest struct {
	OrganizationID string
	AsOfDate       time.Time
	FiscalType     FiscalType
	Tags           TagFilter
}

// TrialBalanceSection holds one of the seven class buckets. Balances are in the section's
// normal-balance sign; Debits and Credits are gross.
type TrialBalanceSection struct {
	Section      AccountClass               `json:"section"`
	Balances     map[string]decimal.Decimal `json:"balances"`
	Debits       map[string]decimal.Decimal `json:"debits"`
	Credits      map[string]decimal.Decimal `json:"credits"`
	TotalDebits  decimal.Decimal            `json:"totalDebits"`
	TotalCredits decimal.Decimal            `json:"totalCredits"`
	TotalBalance decimal.Decimal            `json:"totalBalance"`
}

// TrialBalance is the seven-bucket debit/credit view of the ledger.
type TrialBalance struct {
	OrganizationID        string                                `json:"organizationID"`
	AsOfDate              time.Time                             `json:"asOfDate"`
	FiscalType            FiscalType                            `json:"fiscalType"`
	LastClosedDate        time.Time                             `json:"lastClosedDate"`
	Accounts              map[string]LedgerAccount              `json:"accounts"`
	Sections              map[AccountClass]*TrialBalanceSection `json:"sections"`
	NetIncomeSinceClosing decimal.Decimal                       `json:"netIncomeSinceClosing"`
	TotalDebits           decimal.Decimal                       `json:"totalDebits"`
	TotalCredits          decimal.Decimal                       `json:"totalCredits"`
	TotalBalance          decimal.Decimal                       `json:"totalBalance"`
	IsBalanced            bool                                  `json:"isBalanced"`
	Warnings              []Warning                             `json:"warnings"`
}

// CashFlowRequest parameterizes a cash-flow statement over [FromDate, ThruDate).
type CashFlowRequest struct {
	OrganizationID string
	FromDate       time.Time
	ThruDate       time.Time
	FiscalType     FiscalType
}

// CashFlowStatement is derived from two balance sheets and one income statement.
// NetCashFlow is operating+investing+financing; CashChange is EndingCash-BeginningCash.
type CashFlowStatement struct {
	OrganizationID    string                     `json:"organizationID"`
	FromDate          time.Time                  `json:"fromDate"`
	ThruDate          time.Time                  `json:"thruDate"`
	FiscalType        FiscalType                 `json:"fiscalType"`
	Accounts          map[string]LedgerAccount   `json:"accounts"`
	BeginningCash     decimal.Decimal            `json:"beginningCash"`
	EndingCash        decimal.Decimal            `json:"endingCash"`
	NetIncome         decimal.Decimal            `json:"netIncome"`
	OperatingCashFlow decimal.Decimal            `json:"operatingCashFlow"`
	InvestingCashFlow decimal.Decimal            `json:"investingCashFlow"`
	FinancingCashFlow decimal.Decimal            `json:"financingCashFlow"`
	NetCashFlow       decimal.Decimal            `json:"netCashFlow"`
	CashChange        decimal.Decimal            `json:"cashChange"`
	IsReconciled      bool                       `json:"isReconciled"`
	OperatingLines    map[string]decimal.Decimal `json:"operatingLines"`
	InvestingLines    map[string]decimal.Decimal `json:"investingLines"`
	FinancingLines    map[string]decimal.Decimal `json:"financingLines"`
	Warnings          []Warning                  `json:"warnings"`
}

// Cash-flow summary line keys returned by CashFlowStatement.Lines.
const (
	CashFlowBeginningCash = "beginningCash"
	CashFlowEndingCash    = "endingCash"
	CashFlowNetIncome     = "netIncome"
	CashFlowOperating     = "operatingCashFlow"
	CashFlowInvesting     = "investingCashFlow"
	CashFlowFinancing     = "financingCashFlow"
	CashFlowNet           = "netCashFlow"
)

// Lines returns the summary figures keyed by line name.
func (c *CashFlowStatement) Lines() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		CashFlowBeginningCash: c.BeginningCash,
		CashFlowEndingCash:    c.EndingCash,
		CashFlowNetIncome:     c.NetIncome,
		CashFlowOperating:     c.OperatingCashFlow,
		CashFlowInvesting:     c.InvestingCashFlow,
		CashFlowFinancing:     c.FinancingCashFlow,
		CashFlowNet:           c.NetCashFlow,
	}
}

// Comparison pairs two runs of the same report with their per-line delta (Compare - Base).
type Comparison[T any] struct {
	Base    *T                         `json:"base"`
	Compare *T                         `json:"compare"`
	Delta   map[string]decimal.Decimal `json:"delta"`
}

// EncumbranceRequest parameterizes an encumbrance total covering activity before AsOf.
type EncumbranceRequest struct {
	OrganizationID string
	AsOf           time.Time
	Tags           TagFilter
}

// EncumbranceByTagRequest breaks the encumbrance total down by the values of one tag slot.
type EncumbranceByTagRequest struct {
	OrganizationID string
	AsOf           time.Time
	Slot           int
	Tags           TagFilter
}

// NetIncomeByTagRequest groups income-statement contributions of several fiscal types by the
// values of one tag slot.
type NetIncomeByTagRequest struct {
	OrganizationID string
	FromDate       time.Time
	ThruDate       time.Time
	FiscalTypes    []FiscalType
	Slot           int
	Tags           TagFilter
}
