package services_test

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_reports/internal/core/domain"
	"github.com/SscSPs/ledger_reports/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const orgID = "Company"

var (
	cash       = domain.LedgerAccount{AccountID: "111100", Name: "Cash", Class: domain.ClassCashEquivalent}
	receivable = domain.LedgerAccount{AccountID: "120000", Name: "Accounts receivable", Class: domain.ClassReceivable}
	equipment  = domain.LedgerAccount{AccountID: "171000", Name: "Equipment", Class: domain.ClassLongtermAsset}
	accumDep   = domain.LedgerAccount{AccountID: "171900", Name: "Accumulated depreciation", Class: domain.ClassAccumDepreciation}
	payable    = domain.LedgerAccount{AccountID: "210000", Name: "Accounts payable", Class: domain.ClassCurrentLiability}
	reserve    = domain.LedgerAccount{AccountID: "215000", Name: "Encumbrance reserve", Class: domain.ClassCurrentLiability}
	loan       = domain.LedgerAccount{AccountID: "250000", Name: "Bank loan", Class: domain.ClassLongtermLiability}
	capital    = domain.LedgerAccount{AccountID: "310000", Name: "Owner capital", Class: domain.ClassOwnersEquity}
	retained   = domain.LedgerAccount{AccountID: "336000", Name: "Retained earnings", Class: domain.ClassRetainedEarnings}
	dividends  = domain.LedgerAccount{AccountID: "340000", Name: "Dividends", Class: domain.ClassDividend}
	profitLoss = domain.LedgerAccount{AccountID: "890000", Name: "Profit and loss", Class: domain.ClassEquity}

	sales           = domain.LedgerAccount{AccountID: "400000", Name: "Sales", AccountTypeID: "REVENUE", Class: domain.ClassRevenue}
	cogs            = domain.LedgerAccount{AccountID: "500000", Name: "Cost of goods sold", AccountTypeID: "COGS", Class: domain.ClassCashExpense}
	salaries        = domain.LedgerAccount{AccountID: "601000", Name: "Salaries", AccountTypeID: "SALARIES", Class: domain.ClassCashExpense}
	depreciation    = domain.LedgerAccount{AccountID: "602000", Name: "Depreciation", AccountTypeID: "OPERATING_EXPENSE", Class: domain.ClassDepreciation}
	supplies        = domain.LedgerAccount{AccountID: "650000", Name: "Supplies", AccountTypeID: "OPERATING_EXPENSE", Class: domain.ClassCashExpense}
	interestIncome  = domain.LedgerAccount{AccountID: "701000", Name: "Interest income", AccountTypeID: "OTHER_INCOME", Class: domain.ClassCashIncome}
	interestExpense = domain.LedgerAccount{AccountID: "702000", Name: "Interest expense", AccountTypeID: "OTHER_EXPENSE", Class: domain.ClassCashExpense}
	incomeTax       = domain.LedgerAccount{AccountID: "900000", Name: "Income tax", AccountTypeID: "TAX_EXPENSE", Class: domain.ClassCashExpense}
)

var chartOfAccounts = []domain.LedgerAccount{
	cash, receivable, equipment, accumDep, payable, reserve, loan, capital, retained, dividends, profitLoss,
	sales, cogs, salaries, depreciation, supplies, interestIncome, interestExpense, incomeTax,
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

type line struct {
	account domain.LedgerAccount
	side    domain.DebitCredit
	amount  string
	tag     string // slot 1
}

func dr(account domain.LedgerAccount, amount string, tag ...string) line {
	l := line{account: account, side: domain.Debit, amount: amount}
	if len(tag) > 0 {
		l.tag = tag[0]
	}
	return l
}

func cr(account domain.LedgerAccount, amount string, tag ...string) line {
	l := dr(account, amount, tag...)
	l.side = domain.Credit
	return l
}

type txHeader struct {
	date       string
	fiscalType domain.FiscalType
	txType     domain.TransactionType
	unposted   bool
}

// testLedger is an in-memory organization with a small chart of accounts and two fiscal years.
type testLedger struct {
	require *require.Assertions
	store   *memory.Store
	txCount int
}

func newTestLedger(r *require.Assertions) *testLedger {
	store := memory.NewStore()
	store.AddOrganization(orgID)
	for _, root := range []string{"REVENUE", "COGS", "OPERATING_EXPENSE", "OTHER_INCOME", "OTHER_EXPENSE", "TAX_EXPENSE"} {
		store.AddAccountType(root, "")
	}
	store.AddAccountType("SALARIES", "OPERATING_EXPENSE")
	for _, account := range chartOfAccounts {
		store.AddAccount(account)
	}
	store.SetDefaultAccount(orgID, domain.RoleRetainedEarnings, retained.AccountID)
	store.SetDefaultAccount(orgID, domain.RoleProfitLoss, profitLoss.AccountID)
	store.AddPeriod(domain.CustomTimePeriod{PeriodID: "FY2024", OrganizationID: orgID, FromDate: day("2024-01-01"), ThruDate: day("2025-01-01")})
	store.AddPeriod(domain.CustomTimePeriod{PeriodID: "FY2025", OrganizationID: orgID, FromDate: day("2025-01-01"), ThruDate: day("2026-01-01")})
	store.SetTagTypes(orgID, domain.TagUsageFinancialReports, domain.TagTypeMap{1: "DIVISION_TAG"})
	store.SetTagTypes(orgID, domain.TagUsageEncumbrance, domain.TagTypeMap{1: "DIVISION_TAG"})
	return &testLedger{require: r, store: store}
}

func (l *testLedger) postTx(h txHeader, lines ...line) {
	l.txCount++
	id := fmt.Sprintf("TX%04d", l.txCount)
	if h.fiscalType == "" {
		h.fiscalType = domain.FiscalActual
	}
	entries := make([]domain.LedgerEntry, 0, len(lines))
	for i, ln := range lines {
		var tags domain.Tags
		tags[0] = ln.tag
		entries = append(entries, domain.LedgerEntry{
			TransactionID:   id,
			EntrySeq:        i + 1,
			OrganizationID:  orgID,
			TransactionType: h.txType,
			FiscalType:      h.fiscalType,
			TransactionDate: day(h.date),
			Posted:          !h.unposted,
			Account:         domain.LedgerAccount{AccountID: ln.account.AccountID},
			DebitCredit:     ln.side,
			Amount:          decimal.RequireFromString(ln.amount),
			Tags:            tags,
		})
	}
	l.require.NoError(l.store.Post(entries...))
}

// post records a posted ACTUAL transaction.
func (l *testLedger) post(date string, lines ...line) {
	l.postTx(txHeader{date: date}, lines...)
}

// postOperatingYear records the 2024 activity: net income 26800, ending cash 102800.
func (l *testLedger) postOperatingYear() {
	l.post("2024-01-02", dr(cash, "100000"), cr(capital, "100000"))
	l.post("2024-01-05", dr(cash, "50000"), cr(loan, "50000"))
	l.post("2024-01-10", dr(equipment, "60000"), cr(cash, "60000"))
	l.post("2024-02-01", dr(receivable, "30000", "CONSUMER"), cr(sales, "30000", "CONSUMER"))
	l.post("2024-02-01", dr(cash, "20000", "ENTERPRISE"), cr(sales, "20000", "ENTERPRISE"))
	l.post("2024-02-15", dr(cogs, "12000"), cr(cash, "12000"))
	l.post("2024-03-01", dr(salaries, "8000"), cr(payable, "8000"))
	l.post("2024-03-31", dr(depreciation, "1000"), cr(accumDep, "1000"))
	l.post("2024-04-10", dr(cash, "500"), cr(interestIncome, "500"))
	l.post("2024-04-15", dr(interestExpense, "700"), cr(cash, "700"))
	l.post("2024-05-01", dr(incomeTax, "2000"), cr(cash, "2000"))
	l.post("2024-05-15", dr(cash, "10000"), cr(receivable, "10000"))
	l.post("2024-06-01", dr(dividends, "3000"), cr(cash, "3000"))
}

// closeFiscal2024 books the closing entries of 2024 and freezes its balances.
func (l *testLedger) closeFiscal2024() {
	l.postTx(txHeader{date: "2024-12-31", txType: domain.TxPeriodClosing},
		dr(sales, "50000"), dr(interestIncome, "500"),
		cr(cogs, "12000"), cr(salaries, "8000"), cr(depreciation, "1000"),
		cr(interestExpense, "700"), cr(incomeTax, "2000"), cr(retained, "26800"))

	snapshot := []domain.PostedBalance{
		postedBalance(cash, "102800"),
		postedBalance(receivable, "20000"),
		postedBalance(equipment, "60000"),
		postedBalance(accumDep, "1000"),
		postedBalance(payable, "8000"),
		postedBalance(loan, "50000"),
		postedBalance(capital, "100000"),
		postedBalance(retained, "26800"),
		postedBalance(dividends, "3000"),
	}
	l.require.NoError(l.store.ClosePeriod(orgID, "FY2024", snapshot))
}

// postFirstHalf2025 records 2025 activity: net income 3500.
func (l *testLedger) postFirstHalf2025() {
	l.post("2025-02-01", dr(cash, "5000"), cr(sales, "5000"))
	l.post("2025-03-01", dr(salaries, "1500"), cr(cash, "1500"))
}

func postedBalance(account domain.LedgerAccount, ending string) domain.PostedBalance {
	return domain.PostedBalance{
		OrganizationID: orgID,
		PeriodID:       "FY2024",
		Account:        account,
		EndingBalance:  decimal.RequireFromString(ending),
	}
}

// amounts renders the non-zero values of a report map for comparison.
func amounts(values map[string]decimal.Decimal) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if !v.IsZero() {
			out[k] = v.String()
		}
	}
	return out
}

func expectAmounts(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = decimal.RequireFromString(v).String()
	}
	return out
}
