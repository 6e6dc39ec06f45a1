package services

import (
	"context"

	"github.com/SscSPs/ledger_reports/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingService defines the financial statement operations. Every operation reads through one
// consistent snapshot of the ledger and returns fresh values; warnings never abort a report.
type ReportingService interface {
	// IncomeStatement aggregates revenue, expense and income activity over [FromDate, ThruDate).
	IncomeStatement(ctx context.Context, req domain.IncomeStatementRequest) (*domain.IncomeStatement, error)

	// BalanceSheet reports asset, liability and equity balances for all activity before AsOfDate.
	BalanceSheet(ctx context.Context, req domain.BalanceSheetRequest) (*domain.BalanceSheet, error)

	// TrialBalance lists every account's debit and credit totals in seven sections.
	TrialBalance(ctx context.Context, req domain.TrialBalanceRequest) (*domain.TrialBalance, error)

	// CashFlow derives an indirect-method cash-flow statement over [FromDate, ThruDate).
	CashFlow(ctx context.Context, req domain.CashFlowRequest) (*domain.CashFlowStatement, error)

	// CompareIncomeStatements runs two income statements and returns their per-account delta.
	CompareIncomeStatements(ctx context.Context, base, compare domain.IncomeStatementRequest) (*domain.Comparison[domain.IncomeStatement], error)

	// CompareBalanceSheets runs two balance sheets and returns their per-account delta.
	CompareBalanceSheets(ctx context.Context, base, compare domain.BalanceSheetRequest) (*domain.Comparison[domain.BalanceSheet], error)

	// CompareCashFlows runs two cash-flow statements and returns the delta of the summary lines.
	CompareCashFlows(ctx context.Context, base, compare domain.CashFlowRequest) (*domain.Comparison[domain.CashFlowStatement], error)

	// TotalEncumbered sums posted ENCUMBRANCE activity before AsOf.
	TotalEncumbered(ctx context.Context, req domain.EncumbranceRequest) (decimal.Decimal, error)

	// EncumbranceByTag breaks TotalEncumbered down by the values of one tag slot.
	EncumbranceByTag(ctx context.Context, req domain.EncumbranceByTagRequest) (map[string]decimal.Decimal, error)

	// NetIncomeByTag groups income-statement contributions of several fiscal types by tag value.
	NetIncomeByTag(ctx context.Context, req domain.NetIncomeByTagRequest) (map[string]decimal.Decimal, error)
}
