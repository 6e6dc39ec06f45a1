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

var incomeStatementClasses = domain.ExpandClasses(domain.ClassRevenue, domain.ClassExpense, domain.ClassIncome)

// IncomeStatement generates an income statement over [FromDate, ThruDate)
func (s *reportingService) IncomeStatement(ctx context.Context, req domain.IncomeStatementRequest) (*domain.IncomeStatement, error) {
	fiscalType, err := resolveFiscalType(req.FiscalType)
	if err != nil {
		return nil, err
	}
	req.FiscalType = fiscalType
	if err := validateRange(req.FromDate, req.ThruDate); err != nil {
		return nil, err
	}

	var stmt *domain.IncomeStatement
	err = s.run(ctx, req.OrganizationID, func(ctx context.Context, r *reportRun) error {
		var err error
		stmt, err = r.incomeStatement(ctx, req)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to generate income statement",
			slog.String("organization_id", req.OrganizationID),
			slog.String("from", req.FromDate.Format(time.RFC3339)),
			slog.String("thru", req.ThruDate.Format(time.RFC3339)))
		return nil, err
	}

	roundIncomeStatement(s.precision, stmt)
	s.logWarnings(ctx, "income_statement", req.OrganizationID, stmt.Warnings)
	s.LogInfo(ctx, "Income statement generated successfully",
		slog.String("organization_id", req.OrganizationID),
		slog.String("fiscal_type", string(fiscalType)),
		slog.Int("account_count", len(stmt.ByAccount)),
		slog.String("net_income", stmt.NetIncome.String()))
	return stmt, nil
}

func (r *reportRun) incomeStatement(ctx context.Context, req domain.IncomeStatementRequest) (*domain.IncomeStatement, error) {
	retainedEarnings, err := r.defaultAccount(ctx, domain.RoleRetainedEarnings)
	if err != nil {
		return nil, err
	}
	tree, err := r.classificationTree(ctx)
	if err != nil {
		return nil, err
	}
	tagTypes, err := r.tagTypesFor(ctx, domain.TagUsageFinancialReports)
	if err != nil {
		return nil, err
	}

	balances, err := r.aggregate(ctx, domain.EntryQuery{
		FromDate:                req.FromDate,
		ThruDate:                req.ThruDate,
		FiscalTypes:             []domain.FiscalType{req.FiscalType},
		Classes:                 incomeStatementClasses,
		Tags:                    req.Tags,
		ExcludeTransactionTypes: []domain.TransactionType{domain.TxPeriodClosing},
	}, accounting.AggregateOptions{Convention: accounting.IncomeNormal, GroupByTags: req.GroupByTags})
	if err != nil {
		return nil, err
	}

	stmt := &domain.IncomeStatement{
		OrganizationID:          r.organizationID,
		FromDate:                req.FromDate,
		ThruDate:                req.ThruDate,
		FiscalType:              req.FiscalType,
		Accounts:                balances.Accounts(),
		ByAccount:               balances.ByAccount(),
		ByBucket:                make(map[domain.IncomeBucket][]domain.AccountLine),
		BucketTotals:            make(map[domain.IncomeBucket]decimal.Decimal, len(domain.IncomeBuckets)),
		RetainedEarningsAccount: retainedEarnings,
		TagTypes:                tagTypes,
		Warnings:                accounting.ResolveTagFilter(req.Tags, tagTypes),
	}
	for _, bucket := range domain.IncomeBuckets {
		stmt.BucketTotals[bucket] = decimal.Zero
	}

	for _, accountID := range slices.Sorted(maps.Keys(stmt.ByAccount)) {
		account := stmt.Accounts[accountID]
		amount := stmt.ByAccount[accountID]
		c := tree.Classify(account)
		if !c.Classified {
			stmt.Warnings = append(stmt.Warnings, domain.Warning{
				Code:      domain.WarningUnclassifiedAccount,
				Message:   c.Reason,
				AccountID: accountID,
			})
		}
		stmt.ByBucket[c.Bucket] = append(stmt.ByBucket[c.Bucket], domain.AccountLine{Account: account, Amount: amount})
		stmt.BucketTotals[c.Bucket] = stmt.BucketTotals[c.Bucket].Add(amount)
	}

	if req.GroupByTags {
		for _, b := range balances.Sorted() {
			stmt.TagBalances = append(stmt.TagBalances, domain.TagBalance{Account: b.Account, Tags: b.Tags, Amount: b.Amount})
		}
	}

	totals := stmt.BucketTotals
	stmt.GrossProfit = totals[domain.BucketRevenue].Add(totals[domain.BucketCOGS])
	stmt.OperatingIncome = stmt.GrossProfit.Add(totals[domain.BucketOperatingExpense])
	stmt.PretaxIncome = stmt.OperatingIncome.Add(totals[domain.BucketOtherIncome]).Add(totals[domain.BucketOtherExpense])
	stmt.NetIncome = stmt.PretaxIncome.Add(totals[domain.BucketTaxExpense]).Add(totals[domain.BucketUnclassified])

	stmt.IsClosed, err = r.rangeClosed(ctx, req.FromDate, req.ThruDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check period status: %w", err)
	}
	return stmt, nil
}
