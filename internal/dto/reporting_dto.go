package dto

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/ledger_reports/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format accepted and returned by the report endpoints.
const DateLayout = "2006-01-02"

// --- Query parameters ---

// IncomeStatementQuery binds the income-statement query string. Dates are inclusive.
type IncomeStatementQuery struct {
	FromDate        string `form:"fromDate" binding:"required,datetime=2006-01-02"`
	ThruDate        string `form:"thruDate" binding:"required,datetime=2006-01-02"`
	FiscalType      string `form:"fiscalType" binding:"omitempty,oneof=ACTUAL BUDGET ENCUMBRANCE FORECAST PLAN SCENARIO"`
	GroupByTags     bool   `form:"groupByTags"`
	CompareFromDate string `form:"compareFromDate" binding:"omitempty,datetime=2006-01-02"`
	CompareThruDate string `form:"compareThruDate" binding:"omitempty,datetime=2006-01-02"`
}

// AsOfQuery binds balance-sheet and trial-balance query strings. AsOf is inclusive.
type AsOfQuery struct {
	AsOf        string `form:"asOf" binding:"required,datetime=2006-01-02"`
	FiscalType  string `form:"fiscalType" binding:"omitempty,oneof=ACTUAL BUDGET ENCUMBRANCE FORECAST PLAN SCENARIO"`
	CompareAsOf string `form:"compareAsOf" binding:"omitempty,datetime=2006-01-02"`
}

// CashFlowQuery binds the cash-flow query string. Dates are inclusive.
type CashFlowQuery struct {
	FromDate        string `form:"fromDate" binding:"required,datetime=2006-01-02"`
	ThruDate        string `form:"thruDate" binding:"required,datetime=2006-01-02"`
	FiscalType      string `form:"fiscalType" binding:"omitempty,oneof=ACTUAL BUDGET ENCUMBRANCE FORECAST PLAN SCENARIO"`
	CompareFromDate string `form:"compareFromDate" binding:"omitempty,datetime=2006-01-02"`
	CompareThruDate string `form:"compareThruDate" binding:"omitempty,datetime=2006-01-02"`
}

// EncumbranceQuery binds the encumbrance query strings. Slot is only used by the by-tag endpoint.
type EncumbranceQuery struct {
	AsOf string `form:"asOf" binding:"required,datetime=2006-01-02"`
	Slot int    `form:"slot"`
}

// NetIncomeByTagQuery binds the net-income-by-tag query string.
type NetIncomeByTagQuery struct {
	FromDate    string   `form:"fromDate" binding:"required,datetime=2006-01-02"`
	ThruDate    string   `form:"thruDate" binding:"required,datetime=2006-01-02"`
	FiscalTypes []string `form:"fiscalType" binding:"dive,oneof=ACTUAL BUDGET ENCUMBRANCE FORECAST PLAN SCENARIO"`
	Slot        int      `form:"slot" binding:"required"`
}

// StartOf parses an inclusive calendar date into the instant it starts.
func StartOf(date string) (time.Time, error) {
	if date == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", date, err)
	}
	return t, nil
}

// EndOf parses an inclusive calendar date into the exclusive boundary that follows it.
func EndOf(date string) (time.Time, error) {
	t, err := StartOf(date)
	if err != nil || t.IsZero() {
		return t, err
	}
	return t.AddDate(0, 0, 1), nil
}

// TagQuery reads the tag1..tag10 query parameters. Each may repeat or carry comma-separated values.
func TagQuery(values func(key string) []string) map[int][]string {
	out := make(map[int][]string)
	for slot := 1; slot <= domain.TagSlotCount; slot++ {
		for _, raw := range values("tag" + strconv.Itoa(slot)) {
			out[slot] = append(out[slot], strings.Split(raw, ",")...)
		}
	}
	return out
}

// FieldErrors flattens validator errors into "field: rule" messages.
func FieldErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		out = append(out, msg)
	}
	return out
}

// --- Responses ---

// ErrorResponse is the body of every failed report request.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Reason  string   `json:"reason,omitempty"`
	Details []string `json:"details,omitempty"`
}

// WarningResponse is a non-fatal finding attached to a report.
type WarningResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	AccountID string `json:"accountID,omitempty"`
}

// AccountAmountResponse represents an account with its amount in a financial report
type AccountAmountResponse struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	Class     string          `json:"class"`
	Amount    decimal.Decimal `json:"amount"`
}

// BucketResponse is one income-statement bucket.
type BucketResponse struct {
	Bucket   string                  `json:"bucket"`
	Total    decimal.Decimal         `json:"total"`
	Accounts []AccountAmountResponse `json:"accounts"`
}

// TagBalanceResponse is an account amount for one combination of tag values.
type TagBalanceResponse struct {
	AccountID string          `json:"accountID"`
	Tags      []string        `json:"tags"`
	Amount    decimal.Decimal `json:"amount"`
}

// IncomeStatementResponse represents the income statement response
type IncomeStatementResponse struct {
	OrganizationID            string               `json:"organizationID"`
	FromDate                  string               `json:"fromDate"`
	ThruDate                  string               `json:"thruDate"`
	FiscalType                string               `json:"fiscalType"`
	Buckets                   []BucketResponse     `json:"buckets"`
	TagBalances               []TagBalanceResponse `json:"tagBalances,omitempty"`
	GrossProfit               decimal.Decimal      `json:"grossProfit"`
	OperatingIncome           decimal.Decimal      `json:"operatingIncome"`
	PretaxIncome              decimal.Decimal      `json:"pretaxIncome"`
	NetIncome                 decimal.Decimal      `json:"netIncome"`
	IsClosed                  bool                 `json:"isClosed"`
	RetainedEarningsAccountID string               `json:"retainedEarningsAccountID"`
	TagTypes                  map[int]string       `json:"tagTypes,omitempty"`
	Warnings                  []WarningResponse    `json:"warnings"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	OrganizationID string                  `json:"organizationID"`
	AsOf           string                  `json:"asOf"`
	FiscalType     string                  `json:"fiscalType"`
	Assets         []AccountAmountResponse `json:"assets"`
	Liabilities    []AccountAmountResponse `json:"liabilities"`
	Equity         []AccountAmountResponse `json:"equity"`
	Summary        struct {
		TotalAssets      decimal.Decimal `json:"totalAssets"`
		TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
		TotalEquity      decimal.Decimal `json:"totalEquity"`
		InterimNetIncome decimal.Decimal `json:"interimNetIncome"`
	} `json:"summary"`
	IsBalanced                bool              `json:"isBalanced"`
	IsClosed                  bool              `json:"isClosed"`
	UsedSnapshot              bool              `json:"usedSnapshot"`
	RetainedEarningsAccountID string            `json:"retainedEarningsAccountID"`
	Warnings                  []WarningResponse `json:"warnings"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	AccountName string          `json:"accountName"`
	Class       string          `json:"class"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceSectionResponse is one of the seven trial-balance sections.
type TrialBalanceSectionResponse struct {
	Section      string                    `json:"section"`
	Rows         []TrialBalanceRowResponse `json:"rows"`
	TotalDebits  decimal.Decimal           `json:"totalDebits"`
	TotalCredits decimal.Decimal           `json:"totalCredits"`
	TotalBalance decimal.Decimal           `json:"totalBalance"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	OrganizationID        string                        `json:"organizationID"`
	AsOf                  string                        `json:"asOf"`
	FiscalType            string                        `json:"fiscalType"`
	LastClosedDate        *time.Time                    `json:"lastClosedDate,omitempty"`
	Sections              []TrialBalanceSectionResponse `json:"sections"`
	NetIncomeSinceClosing decimal.Decimal               `json:"netIncomeSinceClosing"`
	Totals                struct {
		Debit   decimal.Decimal `json:"debit"`
		Credit  decimal.Decimal `json:"credit"`
		Balance decimal.Decimal `json:"balance"`
	} `json:"totals"`
	IsBalanced bool              `json:"isBalanced"`
	Warnings   []WarningResponse `json:"warnings"`
}

// CashFlowLineResponse is one contribution to a cash-flow section.
type CashFlowLineResponse struct {
	Key    string          `json:"key"`
	Name   string          `json:"name,omitempty"`
	Amount decimal.Decimal `json:"amount"`
}

// CashFlowSectionResponse is the operating, investing or financing section.
type CashFlowSectionResponse struct {
	Total decimal.Decimal        `json:"total"`
	Lines []CashFlowLineResponse `json:"lines"`
}

// CashFlowResponse represents the cash flow statement response
type CashFlowResponse struct {
	OrganizationID string                  `json:"organizationID"`
	FromDate       string                  `json:"fromDate"`
	ThruDate       string                  `json:"thruDate"`
	FiscalType     string                  `json:"fiscalType"`
	BeginningCash  decimal.Decimal         `json:"beginningCash"`
	EndingCash     decimal.Decimal         `json:"endingCash"`
	NetIncome      decimal.Decimal         `json:"netIncome"`
	Operating      CashFlowSectionResponse `json:"operating"`
	Investing      CashFlowSectionResponse `json:"investing"`
	Financing      CashFlowSectionResponse `json:"financing"`
	NetCashFlow    decimal.Decimal         `json:"netCashFlow"`
	CashChange     decimal.Decimal         `json:"cashChange"`
	IsReconciled   bool                    `json:"isReconciled"`
	Warnings       []WarningResponse       `json:"warnings"`
}

// LineDeltaResponse is the change of one report line between two runs.
type LineDeltaResponse struct {
	Key    string          `json:"key"`
	Amount decimal.Decimal `json:"amount"`
}

// ComparisonResponse pairs two runs of a report with their per-line delta.
type ComparisonResponse[T any] struct {
	Base    T                   `json:"base"`
	Compare T                   `json:"compare"`
	Delta   []LineDeltaResponse `json:"delta"`
}

// EncumbranceResponse is the total encumbered amount.
type EncumbranceResponse struct {
	OrganizationID string          `json:"organizationID"`
	AsOf           string          `json:"asOf"`
	Total          decimal.Decimal `json:"total"`
}

// TagAmountResponse is the amount attributed to one tag value.
type TagAmountResponse struct {
	Tag    string          `json:"tag"`
	Amount decimal.Decimal `json:"amount"`
}

// TagAmountsResponse is a per-tag breakdown for one slot.
type TagAmountsResponse struct {
	OrganizationID string              `json:"organizationID"`
	Slot           int                 `json:"slot"`
	Amounts        []TagAmountResponse `json:"amounts"`
	Total          decimal.Decimal     `json:"total"`
}

// --- Conversions ---

func inclusive(exclusive time.Time) string {
	if exclusive.IsZero() {
		return ""
	}
	return exclusive.AddDate(0, 0, -1).Format(DateLayout)
}

func toWarnings(warnings []domain.Warning) []WarningResponse {
	out := make([]WarningResponse, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, WarningResponse{Code: string(w.Code), Message: w.Message, AccountID: w.AccountID})
	}
	return out
}

func toAccountAmounts(amounts map[string]decimal.Decimal, accounts map[string]domain.LedgerAccount) []AccountAmountResponse {
	out := make([]AccountAmountResponse, 0, len(amounts))
	for _, id := range slices.Sorted(maps.Keys(amounts)) {
		account := accounts[id]
		out = append(out, AccountAmountResponse{AccountID: id, Name: account.Name, Class: string(account.Class), Amount: amounts[id]})
	}
	return out
}

func toDeltas(delta map[string]decimal.Decimal) []LineDeltaResponse {
	out := make([]LineDeltaResponse, 0, len(delta))
	for _, key := range slices.Sorted(maps.Keys(delta)) {
		out = append(out, LineDeltaResponse{Key: key, Amount: delta[key]})
	}
	return out
}

// ToIncomeStatementResponse converts a domain income statement to a DTO response
func ToIncomeStatementResponse(stmt *domain.IncomeStatement) IncomeStatementResponse {
	response := IncomeStatementResponse{
		OrganizationID:            stmt.OrganizationID,
		FromDate:                  stmt.FromDate.Format(DateLayout),
		ThruDate:                  inclusive(stmt.ThruDate),
		FiscalType:                string(stmt.FiscalType),
		GrossProfit:               stmt.GrossProfit,
		OperatingIncome:           stmt.OperatingIncome,
		PretaxIncome:              stmt.PretaxIncome,
		NetIncome:                 stmt.NetIncome,
		IsClosed:                  stmt.IsClosed,
		RetainedEarningsAccountID: stmt.RetainedEarningsAccount.AccountID,
		TagTypes:                  stmt.TagTypes,
		Warnings:                  toWarnings(stmt.Warnings),
	}
	for _, bucket := range domain.IncomeBuckets {
		lines := stmt.ByBucket[bucket]
		if bucket == domain.BucketUnclassified && len(lines) == 0 {
			continue
		}
		b := BucketResponse{Bucket: bucket.String(), Total: stmt.BucketTotals[bucket], Accounts: make([]AccountAmountResponse, 0, len(lines))}
		for _, line := range lines {
			b.Accounts = append(b.Accounts, AccountAmountResponse{
				AccountID: line.Account.AccountID,
				Name:      line.Account.Name,
				Class:     string(line.Account.Class),
				Amount:    line.Amount,
			})
		}
		response.Buckets = append(response.Buckets, b)
	}
	for _, tb := range stmt.TagBalances {
		response.TagBalances = append(response.TagBalances, TagBalanceResponse{
			AccountID: tb.Account.AccountID,
			Tags:      tb.Tags[:],
			Amount:    tb.Amount,
		})
	}
	return response
}

// ToBalanceSheetResponse converts a domain balance sheet to a DTO response
func ToBalanceSheetResponse(sheet *domain.BalanceSheet) BalanceSheetResponse {
	response := BalanceSheetResponse{
		OrganizationID:            sheet.OrganizationID,
		AsOf:                      inclusive(sheet.AsOfDate),
		FiscalType:                string(sheet.FiscalType),
		Assets:                    toAccountAmounts(sheet.AssetBalances, sheet.Accounts),
		Liabilities:               toAccountAmounts(sheet.LiabilityBalances, sheet.Accounts),
		Equity:                    toAccountAmounts(sheet.EquityBalances, sheet.Accounts),
		IsBalanced:                sheet.IsBalanced,
		IsClosed:                  sheet.IsClosed,
		UsedSnapshot:              sheet.UsedSnapshot,
		RetainedEarningsAccountID: sheet.RetainedEarningsAccount.AccountID,
		Warnings:                  toWarnings(sheet.Warnings),
	}
	response.Summary.TotalAssets = sheet.TotalAssets
	response.Summary.TotalLiabilities = sheet.TotalLiabilities
	response.Summary.TotalEquity = sheet.TotalEquity
	response.Summary.InterimNetIncome = sheet.InterimNetIncome
	return response
}

// ToTrialBalanceResponse converts a domain trial balance to a DTO response
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	response := TrialBalanceResponse{
		OrganizationID:        tb.OrganizationID,
		AsOf:                  inclusive(tb.AsOfDate),
		FiscalType:            string(tb.FiscalType),
		NetIncomeSinceClosing: tb.NetIncomeSinceClosing,
		IsBalanced:            tb.IsBalanced,
		Warnings:              toWarnings(tb.Warnings),
	}
	if !tb.LastClosedDate.IsZero() {
		lastClosed := tb.LastClosedDate
		response.LastClosedDate = &lastClosed
	}
	for _, class := range domain.Sections {
		section := tb.Sections[class]
		if section == nil {
			continue
		}
		s := TrialBalanceSectionResponse{
			Section:      string(class),
			Rows:         make([]TrialBalanceRowResponse, 0, len(section.Balances)),
			TotalDebits:  section.TotalDebits,
			TotalCredits: section.TotalCredits,
			TotalBalance: section.TotalBalance,
		}
		for _, id := range slices.Sorted(maps.Keys(section.Balances)) {
			account := tb.Accounts[id]
			s.Rows = append(s.Rows, TrialBalanceRowResponse{
				AccountID:   id,
				AccountName: account.Name,
				Class:       string(account.Class),
				Debit:       section.Debits[id],
				Credit:      section.Credits[id],
				Balance:     section.Balances[id],
			})
		}
		response.Sections = append(response.Sections, s)
	}
	response.Totals.Debit = tb.TotalDebits
	response.Totals.Credit = tb.TotalCredits
	response.Totals.Balance = tb.TotalBalance
	return response
}

func toCashFlowSection(total decimal.Decimal, lines map[string]decimal.Decimal, accounts map[string]domain.LedgerAccount) CashFlowSectionResponse {
	section := CashFlowSectionResponse{Total: total, Lines: make([]CashFlowLineResponse, 0, len(lines))}
	for _, key := range slices.Sorted(maps.Keys(lines)) {
		section.Lines = append(section.Lines, CashFlowLineResponse{Key: key, Name: accounts[key].Name, Amount: lines[key]})
	}
	return section
}

// ToCashFlowResponse converts a domain cash-flow statement to a DTO response
func ToCashFlowResponse(cf *domain.CashFlowStatement) CashFlowResponse {
	return CashFlowResponse{
		OrganizationID: cf.OrganizationID,
		FromDate:       cf.FromDate.Format(DateLayout),
		ThruDate:       inclusive(cf.ThruDate),
		FiscalType:     string(cf.FiscalType),
		BeginningCash:  cf.BeginningCash,
		EndingCash:     cf.EndingCash,
		NetIncome:      cf.NetIncome,
		Operating:      toCashFlowSection(cf.OperatingCashFlow, cf.OperatingLines, cf.Accounts),
		Investing:      toCashFlowSection(cf.InvestingCashFlow, cf.InvestingLines, cf.Accounts),
		Financing:      toCashFlowSection(cf.FinancingCashFlow, cf.FinancingLines, cf.Accounts),
		NetCashFlow:    cf.NetCashFlow,
		CashChange:     cf.CashChange,
		IsReconciled:   cf.IsReconciled,
		Warnings:       toWarnings(cf.Warnings),
	}
}

// ToComparisonResponse converts a domain comparison using the report's own conversion.
func ToComparisonResponse[T, R any](cmp *domain.Comparison[T], convert func(*T) R) ComparisonResponse[R] {
	return ComparisonResponse[R]{
		Base:    convert(cmp.Base),
		Compare: convert(cmp.Compare),
		Delta:   toDeltas(cmp.Delta),
	}
}

// ToTagAmountsResponse orders a per-tag breakdown by tag value.
func ToTagAmountsResponse(organizationID string, slot int, amounts map[string]decimal.Decimal) TagAmountsResponse {
	response := TagAmountsResponse{OrganizationID: organizationID, Slot: slot, Amounts: make([]TagAmountResponse, 0, len(amounts))}
	for _, tag := range slices.Sorted(maps.Keys(amounts)) {
		response.Amounts = append(response.Amounts, TagAmountResponse{Tag: tag, Amount: amounts[tag]})
		response.Total = response.Total.Add(amounts[tag])
	}
	return response
}
