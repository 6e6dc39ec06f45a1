package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/ledger_reports/internal/apperrors"
	"github.com/SscSPs/ledger_reports/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_reports/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_reports/internal/core/ports/services"
	"github.com/SscSPs/ledger_reports/internal/utils/accounting"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	repos     portsrepo.RepositoryProvider
	precision accounting.Precision
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithPrecision sets the decimal scale and rounding mode applied to every report value.
func WithPrecision(precision accounting.Precision) ReportingServiceOption {
	return func(s *reportingService) {
		s.precision = precision
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repos portsrepo.RepositoryProvider, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		repos:     repos,
		precision: accounting.DefaultPrecision(),
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// reportRun is the state shared by one top-level report and every sub-report it composes.
// It lives inside a single read snapshot and is never shared across calls.
type reportRun struct {
	*reportingService
	organizationID string
	tree           *accounting.ClassificationTree
	defaults       map[domain.DefaultAccountRole]domain.LedgerAccount
	tagTypes       map[domain.TagUsage]domain.TagTypeMap
}

// run opens a read snapshot, checks the organization and hands a fresh reportRun to fn.
func (s *reportingService) run(ctx context.Context, organizationID string, fn func(ctx context.Context, r *reportRun) error) error {
	if strings.TrimSpace(organizationID) == "" {
		return apperrors.NewAppError(apperrors.ReasonUnknownOrganization, "organization id is required", apperrors.ErrValidation)
	}
	return s.repos.Reader.WithReadSnapshot(ctx, func(ctx context.Context) error {
		exists, err := s.repos.Accounts.OrganizationExists(ctx, organizationID)
		if err != nil {
			return fmt.Errorf("failed to look up organization %s: %w", organizationID, err)
		}
		if !exists {
			return apperrors.NewConfigurationError(apperrors.ReasonUnknownOrganization, "organization %s does not exist", organizationID)
		}
		return fn(ctx, &reportRun{
			reportingService: s,
			organizationID:   organizationID,
			defaults:         make(map[domain.DefaultAccountRole]domain.LedgerAccount),
			tagTypes:         make(map[domain.TagUsage]domain.TagTypeMap),
		})
	})
}

func (r *reportRun) classificationTree(ctx context.Context) (*accounting.ClassificationTree, error) {
	if r.tree != nil {
		return r.tree, nil
	}
	nodes, err := r.repos.Accounts.AccountTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load account types: %w", err)
	}
	r.tree = accounting.NewClassificationTree(nodes)
	return r.tree, nil
}

func (r *reportRun) defaultAccount(ctx context.Context, role domain.DefaultAccountRole) (domain.LedgerAccount, error) {
	if account, ok := r.defaults[role]; ok {
		return account, nil
	}
	account, err := r.repos.Accounts.DefaultAccount(ctx, r.organizationID, role)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.LedgerAccount{}, apperrors.NewConfigurationError(apperrors.ReasonDefaultAccountMissing,
			"organization %s has no %s account configured", r.organizationID, role)
	}
	if err != nil {
		return domain.LedgerAccount{}, fmt.Errorf("failed to load %s account: %w", role, err)
	}
	r.defaults[role] = *account
	return *account, nil
}

func (r *reportRun) tagTypesFor(ctx context.Context, usage domain.TagUsage) (domain.TagTypeMap, error) {
	if types, ok := r.tagTypes[usage]; ok {
		return types, nil
	}
	types, err := r.repos.TagTypes.TagTypes(ctx, r.organizationID, usage)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s tag types: %w", usage, err)
	}
	r.tagTypes[usage] = types
	return types, nil
}

// aggregate streams the entries selected by q into exact balances; reports round on output.
func (r *reportRun) aggregate(ctx context.Context, q domain.EntryQuery, opts accounting.AggregateOptions) (accounting.Balances, error) {
	q.OrganizationID = r.organizationID
	opts.Precision = nil
	balances, err := accounting.Aggregate(r.repos.Entries.Entries(ctx, q), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger entries: %w", err)
	}
	return balances, nil
}

// rangeClosed reports whether every period overlapping [from, thru) is closed.
func (r *reportRun) rangeClosed(ctx context.Context, from, thru time.Time) (bool, error) {
	periods, err := r.repos.Periods.PeriodsOverlapping(ctx, r.organizationID, from, thru)
	if err != nil {
		return false, fmt.Errorf("failed to load periods: %w", err)
	}
	for _, p := range periods {
		if !p.IsClosed {
			return false, nil
		}
	}
	return true, nil
}

// anchor is the point from which a balance is aggregated. Period is set only when its posted
// snapshot may seed the balances.
type anchor struct {
	Date   time.Time
	Period *domain.CustomTimePeriod
}

// resolveAnchor finds the latest closed period ending at or before asOf. Snapshots are untagged
// ACTUAL balances, so for any other fiscal type or an active tag filter (or when nothing is
// closed yet) the anchor falls back to the start of the organization's first period.
func (r *reportRun) resolveAnchor(ctx context.Context, asOf time.Time, fiscalType domain.FiscalType, tags domain.TagFilter) (anchor, error) {
	if fiscalType == domain.FiscalActual && !tags.Active() {
		closed, err := r.repos.Periods.LastClosedPeriod(ctx, r.organizationID, asOf)
		if err != nil {
			return anchor{}, fmt.Errorf("failed to load last closed period: %w", err)
		}
		if closed != nil {
			return anchor{Date: closed.ThruDate, Period: closed}, nil
		}
	}

	first, err := r.repos.Periods.EarliestPeriod(ctx, r.organizationID)
	if err != nil {
		return anchor{}, fmt.Errorf("failed to load earliest period: %w", err)
	}
	if first == nil {
		return anchor{}, nil
	}
	if first.FromDate.After(asOf) {
		return anchor{Date: asOf}, nil
	}
	return anchor{Date: first.FromDate}, nil
}

func (s *reportingService) logWarnings(ctx context.Context, report, organizationID string, warnings []domain.Warning) {
	for _, w := range warnings {
		s.LogWarn(ctx, "Report generated with warning",
			slog.String("report", report),
			slog.String("organization_id", organizationID),
			slog.String("code", string(w.Code)),
			slog.String("account_id", w.AccountID),
			slog.String("message", w.Message))
	}
}

// mergeWarnings appends the warnings of a sub-report, skipping ones already present.
func mergeWarnings(dst, src []domain.Warning) []domain.Warning {
	for _, w := range src {
		if !slices.Contains(dst, w) {
			dst = append(dst, w)
		}
	}
	return dst
}

func resolveFiscalType(fiscalType domain.FiscalType) (domain.FiscalType, error) {
	if fiscalType == "" {
		return domain.FiscalActual, nil
	}
	if !fiscalType.Valid() {
		return "", apperrors.NewConfigurationError(apperrors.ReasonUnknownFiscalType, "fiscal type %s does not exist", fiscalType)
	}
	return fiscalType, nil
}

func validateRange(from, thru time.Time) error {
	if !from.IsZero() && !thru.IsZero() && from.After(thru) {
		return apperrors.NewInvalidRangeError("from date %s is after thru date %s", from.Format(time.RFC3339), thru.Format(time.RFC3339))
	}
	return nil
}

func requireDate(name string, t time.Time) error {
	if t.IsZero() {
		return apperrors.NewAppError(apperrors.ReasonInvalidDateRange, name+" is required", apperrors.ErrValidation)
	}
	return nil
}
