package services

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/SscSPs/ledger_reports/internal/core/domain"
	"github.com/SscSPs/ledger_reports/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

var distributionClasses = domain.ExpandClasses(domain.ClassDistribution)

// CashFlow derives an indirect-method cash-flow statement over [FromDate, ThruDate)
func (s *reportingService) CashFlow(ctx context.Context, req domain.CashFlowRequest) (*domain.CashFlowStatement, error) {
	fiscalType, err := resolveFiscalType(req.FiscalType)
	if err != nil {
		return nil, err
	}
	req.FiscalType = fiscalType
	if err := requireDate("from date", req.FromDate); err != nil {
		return nil, err
	}
	if err := requireDate("thru date", req.ThruDate); err != nil {
		return nil, err
	}
	if err := validateRange(req.FromDate, req.ThruDate); err != nil {
		return nil, err
	}

	var cf *domain.CashFlowStatement
	err = s.run(ctx, req.OrganizationID, func(ctx context.Context, r *reportRun) error {
		var err error
		cf, err = r.cashFlow(ctx, req)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to generate cash flow statement",
			slog.String("organization_id", req.OrganizationID),
			slog.String("from", req.FromDate.Format(time.RFC3339)),
			slog.String("thru", req.ThruDate.Format(time.RFC3339)))
		return nil, err
	}

	roundCashFlow(s.precision, cf)
	s.logWarnings(ctx, "cash_flow", req.OrganizationID, cf.Warnings)
	s.LogInfo(ctx, "Cash flow statement generated successfully",
		slog.String("organization_id", req.OrganizationID),
		slog.String("net_cash_flow", cf.NetCashFlow.String()),
		slog.Bool("is_reconciled", cf.IsReconciled))
	return cf, nil
}

func (r *reportRun) cashFlow(ctx context.Context, req domain.CashFlowRequest) (*domain.CashFlowStatement, error) {
	begin, err := r.balanceSheet(ctx, domain.BalanceSheetRequest{
		OrganizationID: r.organizationID,
		AsOfDate:       req.FromDate,
		FiscalType:     req.FiscalType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute opening balance sheet: %w", err)
	}
	end, err := r.balanceSheet(ctx, domain.BalanceSheetRequest{
		OrganizationID: r.organizationID,
		AsOfDate:       req.ThruDate,
		FiscalType:     req.FiscalType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute closing balance sheet: %w", err)
	}
	income, err := r.incomeStatement(ctx, domain.IncomeStatementRequest{
		OrganizationID: r.organizationID,
		FromDate:       req.FromDate,
		ThruDate:       req.ThruDate,
		FiscalType:     req.FiscalType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute net income: %w", err)
	}

	cf := &domain.CashFlowStatement{
		OrganizationID: r.organizationID,
		FromDate:       req.FromDate,
		ThruDate:       req.ThruDate,
		FiscalType:     req.FiscalType,
		Accounts:       make(map[string]domain.LedgerAccount),
		NetIncome:      income.NetIncome,
		OperatingLines: map[string]decimal.Decimal{domain.CashFlowNetIncome: income.NetIncome},
		InvestingLines: make(map[string]decimal.Decimal),
		FinancingLines: make(map[string]decimal.Decimal),
	}
	cf.Warnings = mergeWarnings(mergeWarnings(slices.Clone(begin.Warnings), end.Warnings), income.Warnings)
	maps.Copy(cf.Accounts, begin.Accounts)
	maps.Copy(cf.Accounts, end.Accounts)

	beginLines, endLines := begin.Lines(), end.Lines()
	retainedEarningsID := end.RetainedEarningsAccount.AccountID

	for _, id := range slices.Sorted(maps.Keys(cf.Accounts)) {
		account := cf.Accounts[id]
		delta := endLines[id].Sub(beginLines[id])
		class := account.Class

		switch class.Section() {
		case domain.ClassAsset:
			switch {
			case class.IsA(domain.ClassCashEquivalent):
				cf.BeginningCash = cf.BeginningCash.Add(beginLines[id])
				cf.EndingCash = cf.EndingCash.Add(endLines[id])
			case class.IsA(domain.ClassContraAsset):
				// covered by the non-cash expense add-back
			case class.IsA(domain.ClassLongtermAsset):
				addLine(cf.InvestingLines, id, delta.Neg())
			default:
				addLine(cf.OperatingLines, id, delta.Neg())
			}
		case domain.ClassLiability:
			if class.IsA(domain.ClassLongtermLiability) {
				addLine(cf.FinancingLines, id, delta)
			} else {
				addLine(cf.OperatingLines, id, delta)
			}
		case domain.ClassEquity:
			if id == retainedEarningsID || class.IsAny(domain.ClassRetainedEarnings, domain.ClassDistribution) {
				continue
			}
			addLine(cf.FinancingLines, id, delta)
		}
	}

	for _, bucket := range domain.IncomeBuckets {
		for _, line := range income.ByBucket[bucket] {
			addNonCashExpense(cf, line)
		}
	}

	distributions, err := r.aggregate(ctx, domain.EntryQuery{
		FromDate:                req.FromDate,
		ThruDate:                req.ThruDate,
		FiscalTypes:             []domain.FiscalType{req.FiscalType},
		Classes:                 distributionClasses,
		ExcludeTransactionTypes: []domain.TransactionType{domain.TxPeriodClosing},
	}, accounting.AggregateOptions{Convention: accounting.SectionNormal})
	if err != nil {
		return nil, err
	}
	for _, b := range distributions {
		cf.Accounts[b.Account.AccountID] = b.Account
		addLine(cf.FinancingLines, b.Account.AccountID, b.Amount)
	}

	cf.OperatingCashFlow = accounting.Sum(cf.OperatingLines)
	cf.InvestingCashFlow = accounting.Sum(cf.InvestingLines)
	cf.FinancingCashFlow = accounting.Sum(cf.FinancingLines)
	cf.NetCashFlow = cf.OperatingCashFlow.Add(cf.InvestingCashFlow).Add(cf.FinancingCashFlow)
	cf.CashChange = cf.EndingCash.Sub(cf.BeginningCash)
	cf.IsReconciled = cf.NetCashFlow.Equal(cf.CashChange)
	if !cf.IsReconciled {
		cf.Warnings = append(cf.Warnings, domain.Warning{
			Code: domain.WarningCashFlowMismatch,
			Message: fmt.Sprintf("cash changed by %s but operating, investing and financing flows sum to %s",
				cf.CashChange, cf.NetCashFlow),
		})
	}
	return cf, nil
}

// addNonCashExpense adds back depreciation, amortization and similar expenses, except inventory
// adjustments.
func addNonCashExpense(cf *domain.CashFlowStatement, line domain.AccountLine) {
	class := line.Account.Class
	if !class.IsA(domain.ClassNonCashExpense) || class.IsA(domain.ClassInventoryAdjust) {
		return
	}
	cf.Accounts[line.Account.AccountID] = line.Account
	addLine(cf.OperatingLines, line.Account.AccountID, line.Amount.Neg())
}

func addLine(lines map[string]decimal.Decimal, key string, amount decimal.Decimal) {
	lines[key] = lines[key].Add(amount)
}
