package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/ledger_reports/internal/apperrors"
	"github.com/SscSPs/ledger_reports/internal/core/domain"
	"github.com/SscSPs/ledger_reports/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// lineReport is a report pointer that exposes its comparable lines.
type lineReport[T any] interface {
	*T
	Lines() map[string]decimal.Decimal
}

// compareReports runs the base and compare reports inside one read snapshot and diffs their lines.
func compareReports[T any, PT lineReport[T]](ctx context.Context, s *reportingService, organizationID string,
	base, compare func(ctx context.Context, r *reportRun) (PT, error), round func(accounting.Precision, PT)) (*domain.Comparison[T], error) {
	var out domain.Comparison[T]
	err := s.run(ctx, organizationID, func(ctx context.Context, r *reportRun) error {
		b, err := base(ctx, r)
		if err != nil {
			return err
		}
		c, err := compare(ctx, r)
		if err != nil {
			return err
		}
		out.Delta = accounting.Diff(b.Lines(), c.Lines())
		s.precision.RoundLines(out.Delta)
		round(s.precision, b)
		round(s.precision, c)
		out.Base, out.Compare = (*T)(b), (*T)(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// sameOrganization defaults the compare side to the base organization and rejects a mismatch.
func sameOrganization(base string, compare *string) error {
	if *compare == "" {
		*compare = base
	}
	if *compare != base {
		return apperrors.NewAppError(apperrors.ReasonUnknownOrganization,
			"comparative reports must use a single organization", apperrors.ErrValidation)
	}
	return nil
}

// CompareIncomeStatements runs two income statements and returns their per-account delta
func (s *reportingService) CompareIncomeStatements(ctx context.Context, base, compare domain.IncomeStatementRequest) (*domain.Comparison[domain.IncomeStatement], error) {
	if err := sameOrganization(base.OrganizationID, &compare.OrganizationID); err != nil {
		return nil, err
	}
	for _, req := range []*domain.IncomeStatementRequest{&base, &compare} {
		fiscalType, err := resolveFiscalType(req.FiscalType)
		if err != nil {
			return nil, err
		}
		req.FiscalType = fiscalType
		if err := validateRange(req.FromDate, req.ThruDate); err != nil {
			return nil, err
		}
	}

	out, err := compareReports(ctx, s, base.OrganizationID,
		func(ctx context.Context, r *reportRun) (*domain.IncomeStatement, error) { return r.incomeStatement(ctx, base) },
		func(ctx context.Context, r *reportRun) (*domain.IncomeStatement, error) { return r.incomeStatement(ctx, compare) },
		roundIncomeStatement)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate comparative income statement", slog.String("organization_id", base.OrganizationID))
		return nil, err
	}
	s.LogInfo(ctx, "Comparative income statement generated successfully",
		slog.String("organization_id", base.OrganizationID),
		slog.Int("line_count", len(out.Delta)))
	return out, nil
}

// CompareBalanceSheets runs two balance sheets and returns their per-account delta
func (s *reportingService) CompareBalanceSheets(ctx context.Context, base, compare domain.BalanceSheetRequest) (*domain.Comparison[domain.BalanceSheet], error) {
	if err := sameOrganization(base.OrganizationID, &compare.OrganizationID); err != nil {
		return nil, err
	}
	for _, req := range []*domain.BalanceSheetRequest{&base, &compare} {
		fiscalType, err := resolveFiscalType(req.FiscalType)
		if err != nil {
			return nil, err
		}
		req.FiscalType = fiscalType
		if err := requireDate("as-of date", req.AsOfDate); err != nil {
			return nil, err
		}
	}

	out, err := compareReports(ctx, s, base.OrganizationID,
		func(ctx context.Context, r *reportRun) (*domain.BalanceSheet, error) { return r.balanceSheet(ctx, base) },
		func(ctx context.Context, r *reportRun) (*domain.BalanceSheet, error) { return r.balanceSheet(ctx, compare) },
		roundBalanceSheet)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate comparative balance sheet", slog.String("organization_id", base.OrganizationID))
		return nil, err
	}
	s.LogInfo(ctx, "Comparative balance sheet generated successfully",
		slog.String("organization_id", base.OrganizationID),
		slog.Int("line_count", len(out.Delta)))
	return out, nil
}

// CompareCashFlows runs two cash-flow statements and returns the delta of their summary lines
func (s *reportingService) CompareCashFlows(ctx context.Context, base, compare domain.CashFlowRequest) (*domain.Comparison[domain.CashFlowStatement], error) {
	if err := sameOrganization(base.OrganizationID, &compare.OrganizationID); err != nil {
		return nil, err
	}
	for _, req := range []*domain.CashFlowRequest{&base, &compare} {
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
	}

	out, err := compareReports(ctx, s, base.OrganizationID,
		func(ctx context.Context, r *reportRun) (*domain.CashFlowStatement, error) { return r.cashFlow(ctx, base) },
		func(ctx context.Context, r *reportRun) (*domain.CashFlowStatement, error) { return r.cashFlow(ctx, compare) },
		roundCashFlow)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate comparative cash flow statement", slog.String("organization_id", base.OrganizationID))
		return nil, err
	}
	s.LogInfo(ctx, "Comparative cash flow statement generated successfully",
		slog.String("organization_id", base.OrganizationID),
		slog.Int("line_count", len(out.Delta)))
	return out, nil
}
