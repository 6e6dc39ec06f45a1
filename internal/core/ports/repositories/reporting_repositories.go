package repositories

import (
	"context"
	"iter"
	"time"

	"github.com/SscSPs/ledger_reports/internal/core/domain"
)

// EntryRepository streams posted transaction entries.
type EntryRepository interface {
	// Entries returns a lazy sequence of the posted entries matching q. Ranging over the sequence
	// again re-runs the query. A read failure is yielded once as the final element.
	Entries(ctx context.Context, q domain.EntryQuery) iter.Seq2[domain.LedgerEntry, error]
}

// LedgerAccountDirectory exposes the chart of accounts and organization account configuration.
type LedgerAccountDirectory interface {
	// OrganizationExists reports whether the organization is known.
	OrganizationExists(ctx context.Context, organizationID string) (bool, error)

	// AccountTypes returns every node of the account-type tree.
	AccountTypes(ctx context.Context) ([]domain.AccountTypeNode, error)

	// DefaultAccount returns the account configured for role, or apperrors.ErrNotFound when the
	// organization has none.
	DefaultAccount(ctx context.Context, organizationID string, role domain.DefaultAccountRole) (*domain.LedgerAccount, error)
}

// PeriodDirectory exposes the organization's custom time periods.
type PeriodDirectory interface {
	// LastClosedPeriod returns the closed period with the latest ThruDate <= moment, or nil.
	LastClosedPeriod(ctx context.Context, organizationID string, moment time.Time) (*domain.CustomTimePeriod, error)

	// EarliestPeriod returns the period with the earliest FromDate, or nil.
	EarliestPeriod(ctx context.Context, organizationID string) (*domain.CustomTimePeriod, error)

	// PeriodsOverlapping returns the periods intersecting [from, thru).
	PeriodsOverlapping(ctx context.Context, organizationID string, from, thru time.Time) ([]domain.CustomTimePeriod, error)
}

// PostedSnapshotStore exposes balances frozen at period close.
type PostedSnapshotStore interface {
	// PostedBalances returns the snapshot rows of one period restricted to the given classes
	// (already expanded to descendants).
	PostedBalances(ctx context.Context, organizationID, periodID string, classes []domain.AccountClass) ([]domain.PostedBalance, error)
}

// TagTypeDirectory exposes the per-organization labelling of tag slots.
type TagTypeDirectory interface {
	TagTypes(ctx context.Context, organizationID string, usage domain.TagUsage) (domain.TagTypeMap, error)
}

// ReportingRepositoryFacade combines every read port a report needs.
type ReportingRepositoryFacade interface {
	EntryRepository
	LedgerAccountDirectory
	PeriodDirectory
	PostedSnapshotStore
	TagTypeDirectory
	ReadSnapshotRunner
}
