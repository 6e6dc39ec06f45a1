package services

import (
	"github.com/SscSPs/ledger_reports/internal/core/domain"
	"github.com/SscSPs/ledger_reports/internal/utils/accounting"
)

// Reports are composed from exact sums; these apply the configured precision once, to each value
// a caller sees. Reconciliation flags are decided on the exact values before rounding.

func roundIncomeStatement(p accounting.Precision, stmt *domain.IncomeStatement) {
	p.RoundLines(stmt.ByAccount)
	for bucket, lines := range stmt.ByBucket {
		for i := range lines {
			lines[i].Amount = p.Round(lines[i].Amount)
		}
		stmt.ByBucket[bucket] = lines
	}
	for bucket, total := range stmt.BucketTotals {
		stmt.BucketTotals[bucket] = p.Round(total)
	}
	for i := range stmt.TagBalances {
		stmt.TagBalances[i].Amount = p.Round(stmt.TagBalances[i].Amount)
	}
	stmt.GrossProfit = p.Round(stmt.GrossProfit)
	stmt.OperatingIncome = p.Round(stmt.OperatingIncome)
	stmt.PretaxIncome = p.Round(stmt.PretaxIncome)
	stmt.NetIncome = p.Round(stmt.NetIncome)
}

func roundBalanceSheet(p accounting.Precision, sheet *domain.BalanceSheet) {
	p.RoundLines(sheet.AssetBalances)
	p.RoundLines(sheet.LiabilityBalances)
	p.RoundLines(sheet.EquityBalances)
	sheet.TotalAssets = p.Round(sheet.TotalAssets)
	sheet.TotalLiabilities = p.Round(sheet.TotalLiabilities)
	sheet.TotalEquity = p.Round(sheet.TotalEquity)
	sheet.InterimNetIncome = p.Round(sheet.InterimNetIncome)
}

func roundTrialBalance(p accounting.Precision, tb *domain.TrialBalance) {
	for _, section := range tb.Sections {
		p.RoundLines(section.Balances)
		p.RoundLines(section.Debits)
		p.RoundLines(section.Credits)
		section.TotalDebits = p.Round(section.TotalDebits)
		section.TotalCredits = p.Round(section.TotalCredits)
		section.TotalBalance = p.Round(section.TotalBalance)
	}
	tb.NetIncomeSinceClosing = p.Round(tb.NetIncomeSinceClosing)
	tb.TotalDebits = p.Round(tb.TotalDebits)
	tb.TotalCredits = p.Round(tb.TotalCredits)
	tb.TotalBalance = p.Round(tb.TotalBalance)
}

func roundCashFlow(p accounting.Precision, cf *domain.CashFlowStatement) {
	p.RoundLines(cf.OperatingLines)
	p.RoundLines(cf.InvestingLines)
	p.RoundLines(cf.FinancingLines)
	cf.BeginningCash = p.Round(cf.BeginningCash)
	cf.EndingCash = p.Round(cf.EndingCash)
	cf.NetIncome = p.Round(cf.NetIncome)
	cf.OperatingCashFlow = p.Round(cf.OperatingCashFlow)
	cf.InvestingCashFlow = p.Round(cf.InvestingCashFlow)
	cf.FinancingCashFlow = p.Round(cf.FinancingCashFlow)
	cf.NetCashFlow = p.Round(cf.NetCashFlow)
	cf.CashChange = p.Round(cf.CashChange)
}
