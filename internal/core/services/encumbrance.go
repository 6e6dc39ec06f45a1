package services

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/SscSPs/ledger_reports/internal/core/domain"
	"github.com/SscSPs/ledger_reports/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// TotalEncumbered sums posted ENCUMBRANCE activity before AsOf across all account classes
func (s *reportingService) TotalEncumbered(ctx context.Context, req domain.EncumbranceRequest) (decimal.Decimal, error) {
	if err := requireDate("as-of date", req.AsOf); err != nil {
		return decimal.Zero, err
	}

	var total decimal.Decimal
	err := s.run(ctx, req.OrganizationID, func(ctx context.Context, r *reportRun) error {
		balances, err := r.encumbrances(ctx, req.AsOf, req.Tags, false)
		if err != nil {
			return err
		}
		total = s.precision.Round(balances.Total())
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to compute total encumbered",
			slog.String("organization_id", req.OrganizationID),
			slog.String("asOf", req.AsOf.Format(time.RFC3339)))
		return decimal.Zero, err
	}

	s.LogInfo(ctx, "Total encumbered computed successfully",
		slog.String("organization_id", req.OrganizationID),
		slog.Any("tag_slots", req.Tags.Slots()),
		slog.String("total", total.String()))
	return total, nil
}

// EncumbranceByTag breaks TotalEncumbered down by the values of one tag slot; untagged activity
// is reported under domain.NullTag.
func (s *reportingService) EncumbranceByTag(ctx context.Context, req domain.EncumbranceByTagRequest) (map[string]decimal.Decimal, error) {
	if err := requireDate("as-of date", req.AsOf); err != nil {
		return nil, err
	}
	if err := accounting.ValidateTagSlot(req.Slot); err != nil {
		return nil, err
	}

	var byTag map[string]decimal.Decimal
	err := s.run(ctx, req.OrganizationID, func(ctx context.Context, r *reportRun) error {
		balances, err := r.encumbrances(ctx, req.AsOf, req.Tags, true)
		if err != nil {
			return err
		}
		byTag = balances.SumBySlot(req.Slot, func(b accounting.Balance) decimal.Decimal { return b.Amount })
		s.precision.RoundLines(byTag)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to compute encumbrance by tag",
			slog.String("organization_id", req.OrganizationID),
			slog.Int("slot", req.Slot))
		return nil, err
	}

	s.LogInfo(ctx, "Encumbrance by tag computed successfully",
		slog.String("organization_id", req.OrganizationID),
		slog.Int("slot", req.Slot),
		slog.Int("tag_count", len(byTag)))
	return byTag, nil
}

func (r *reportRun) encumbrances(ctx context.Context, asOf time.Time, tags domain.TagFilter, groupByTags bool) (accounting.Balances, error) {
	tagTypes, err := r.tagTypesFor(ctx, domain.TagUsageEncumbrance)
	if err != nil {
		return nil, err
	}
	r.logWarnings(ctx, "encumbrance", r.organizationID, accounting.ResolveTagFilter(tags, tagTypes))

	return r.aggregate(ctx, domain.EntryQuery{
		ThruDate:    asOf,
		FiscalTypes: []domain.FiscalType{domain.FiscalEncumbrance},
		Tags:        tags,
	}, accounting.AggregateOptions{Convention: accounting.AccountNormal, GroupByTags: groupByTags})
}

// NetIncomeByTag groups income-statement contributions of several fiscal types by the values of
// one tag slot. Revenue and income count positive, expenses negative.
func (s *reportingService) NetIncomeByTag(ctx context.Context, req domain.NetIncomeByTagRequest) (map[string]decimal.Decimal, error) {
	if err := accounting.ValidateTagSlot(req.Slot); err != nil {
		return nil, err
	}
	if err := validateRange(req.FromDate, req.ThruDate); err != nil {
		return nil, err
	}
	fiscalTypes := make([]domain.FiscalType, 0, len(req.FiscalTypes))
	for _, ft := range req.FiscalTypes {
		resolved, err := resolveFiscalType(ft)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(fiscalTypes, resolved) {
			fiscalTypes = append(fiscalTypes, resolved)
		}
	}
	if len(fiscalTypes) == 0 {
		fiscalTypes = append(fiscalTypes, domain.FiscalActual)
	}

	var byTag map[string]decimal.Decimal
	err := s.run(ctx, req.OrganizationID, func(ctx context.Context, r *reportRun) error {
		tagTypes, err := r.tagTypesFor(ctx, domain.TagUsageFinancialReports)
		if err != nil {
			return err
		}
		r.logWarnings(ctx, "net_income_by_tag", r.organizationID, accounting.ResolveTagFilter(req.Tags, tagTypes))

		balances, err := r.aggregate(ctx, domain.EntryQuery{
			FromDate:                req.FromDate,
			ThruDate:                req.ThruDate,
			FiscalTypes:             fiscalTypes,
			Classes:                 incomeStatementClasses,
			Tags:                    req.Tags,
			ExcludeTransactionTypes: []domain.TransactionType{domain.TxPeriodClosing},
		}, accounting.AggregateOptions{Convention: accounting.IncomeNormal, GroupByTags: true})
		if err != nil {
			return err
		}
		byTag = balances.SumBySlot(req.Slot, func(b accounting.Balance) decimal.Decimal { return b.Amount })
		s.precision.RoundLines(byTag)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to compute net income by tag",
			slog.String("organization_id", req.OrganizationID),
			slog.Int("slot", req.Slot))
		return nil, err
	}

	s.LogInfo(ctx, "Net income by tag computed successfully",
		slog.String("organization_id", req.OrganizationID),
		slog.Int("slot", req.Slot),
		slog.Int("tag_count", len(byTag)))
	return byTag, nil
}
