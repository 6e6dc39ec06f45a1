package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/SscSPs/ledger_reports/internal/core/domain"
	"github.com/SscSPs/ledger_reports/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

var balanceSheetClasses = domain.ExpandClasses(domain.ClassAsset, domain.ClassLiability, domain.ClassEquity)

// BalanceSheet generates a balance sheet covering all activity before AsOfDate
func (s *reportingService) BalanceSheet(ctx context.Context, req domain.BalanceSheetRequest) (*domain.BalanceSheet, error) {
	fiscalType, err := resolveFiscalType(req.FiscalType)
	if err != nil {
		return nil, err
	}
	req.FiscalType = fiscalType
	if err := requireDate("as-of date", req.AsOfDate); err != nil {
		return nil, err
	}

	var sheet *domain.BalanceSheet
	err = s.run(ctx, req.OrganizationID, func(ctx context.Context, r *reportRun) error {
		var err error
		sheet, err = r.balanceSheet(ctx, req)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to generate balance sheet",
			slog.String("organization_id", req.OrganizationID),
			slog.String("asOf", req.AsOfDate.Format(time.RFC3339)))
		return nil, err
	}

	roundBalanceSheet(s.precision, sheet)
	s.logWarnings(ctx, "balance_sheet", req.OrganizationID, sheet.Warnings)
	s.LogInfo(ctx, "Balance sheet generated successfully",
		slog.String("organization_id", req.OrganizationID),
		slog.String("asOf", req.AsOfDate.Format(time.RFC3339)),
		slog.Bool("used_snapshot", sheet.UsedSnapshot),
		slog.Int("asset_accounts", len(sheet.AssetBalances)),
		slog.Int("liability_accounts", len(sheet.LiabilityBalances)),
		slog.Int("equity_accounts", len(sheet.EquityBalances)))
	return sheet, nil
}

func (r *reportRun) balanceSheet(ctx context.Context, req domain.BalanceSheetRequest) (*domain.BalanceSheet, error) {
	retainedEarnings, err := r.defaultAccount(ctx, domain.RoleRetainedEarnings)
	if err != nil {
		return nil, err
	}
	anc, err := r.resolveAnchor(ctx, req.AsOfDate, req.FiscalType, req.Tags)
	if err != nil {
		return nil, err
	}

	accounts := make(map[string]domain.LedgerAccount)
	balances := make(map[string]decimal.Decimal)

	// Snapshot rows are account-normal; the sheet is section-normal.
	if anc.Period != nil {
		rows, err := r.repos.Snapshots.PostedBalances(ctx, r.organizationID, anc.Period.PeriodID, balanceSheetClasses)
		if err != nil {
			return nil, fmt.Errorf("failed to load posted balances of period %s: %w", anc.Period.PeriodID, err)
		}
		for _, row := range rows {
			id := row.Account.AccountID
			accounts[id] = row.Account
			amount := accounting.ToSide(row.EndingBalance, row.Account.NormalBalance(), accounting.SectionNormal(row.Account))
			balances[id] = balances[id].Add(amount)
		}
	}

	activity, err := r.aggregate(ctx, domain.EntryQuery{
		FromDate:                anc.Date,
		ThruDate:                req.AsOfDate,
		FiscalTypes:             []domain.FiscalType{req.FiscalType},
		Classes:                 balanceSheetClasses,
		Tags:                    req.Tags,
		ExcludeTransactionTypes: []domain.TransactionType{domain.TxPeriodClosing},
	}, accounting.AggregateOptions{Convention: accounting.SectionNormal})
	if err != nil {
		return nil, err
	}
	for _, b := range activity {
		id := b.Account.AccountID
		accounts[id] = b.Account
		balances[id] = balances[id].Add(b.Amount)
	}

	interim, err := r.incomeStatement(ctx, domain.IncomeStatementRequest{
		OrganizationID: r.organizationID,
		FromDate:       anc.Date,
		ThruDate:       req.AsOfDate,
		FiscalType:     req.FiscalType,
		Tags:           req.Tags,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute interim net income: %w", err)
	}
	accounts[retainedEarnings.AccountID] = retainedEarnings
	balances[retainedEarnings.AccountID] = balances[retainedEarnings.AccountID].Add(interim.NetIncome)

	sheet := &domain.BalanceSheet{
		OrganizationID:          r.organizationID,
		AsOfDate:                req.AsOfDate,
		FiscalType:              req.FiscalType,
		AnchorDate:              anc.Date,
		UsedSnapshot:            anc.Period != nil,
		Accounts:                accounts,
		AssetBalances:           make(map[string]decimal.Decimal),
		LiabilityBalances:       make(map[string]decimal.Decimal),
		EquityBalances:          make(map[string]decimal.Decimal),
		InterimNetIncome:        interim.NetIncome,
		IsClosed:                interim.IsClosed,
		RetainedEarningsAccount: retainedEarnings,
		TagTypes:                interim.TagTypes,
		Warnings:                slices.Clone(interim.Warnings),
	}

	for id, amount := range balances {
		switch accounts[id].Class.Section() {
		case domain.ClassAsset:
			sheet.AssetBalances[id] = amount
			sheet.TotalAssets = sheet.TotalAssets.Add(amount)
		case domain.ClassLiability:
			sheet.LiabilityBalances[id] = amount
			sheet.TotalLiabilities = sheet.TotalLiabilities.Add(amount)
		default:
			sheet.EquityBalances[id] = amount
			sheet.TotalEquity = sheet.TotalEquity.Add(amount)
		}
	}

	sheet.IsBalanced = sheet.TotalAssets.Equal(sheet.TotalLiabilities.Add(sheet.TotalEquity))
	if !sheet.IsBalanced {
		sheet.Warnings = append(sheet.Warnings, domain.Warning{
			Code: domain.WarningBalanceSheetUnbalanced,
			Message: fmt.Sprintf("assets %s do not equal liabilities %s plus equity %s",
				sheet.TotalAssets, sheet.TotalLiabilities, sheet.TotalEquity),
		})
	}
	return sheet, nil
}
