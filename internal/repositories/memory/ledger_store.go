// Package memory provides an in-memory implementation of the reporting repositories, used by
// tests and local demos. It is safe for concurrent use.
package memory

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/ledger_reports/internal/apperrors"
	"github.com/SscSPs/ledger_reports/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_reports/internal/core/ports/repositories"
)

type defaultKey struct {
	OrganizationID string
	Role           domain.DefaultAccountRole
}

type snapshotKey struct {
	OrganizationID string
	PeriodID       string
}

type tagKey struct {
	OrganizationID string
	Usage          domain.TagUsage
}

type state struct {
	organizations map[string]bool
	accountTypes  []domain.AccountTypeNode
	accounts      map[string]domain.LedgerAccount
	defaults      map[defaultKey]string
	periods       map[string][]domain.CustomTimePeriod
	snapshots     map[snapshotKey][]domain.PostedBalance
	tagTypes      map[tagKey]domain.TagTypeMap
	entries       []domain.LedgerEntry // ordered by transaction date
}

func (s *state) clone() *state {
	periods := make(map[string][]domain.CustomTimePeriod, len(s.periods))
	for org, ps := range s.periods {
		periods[org] = slices.Clone(ps)
	}
	snapshots := make(map[snapshotKey][]domain.PostedBalance, len(s.snapshots))
	for k, rows := range s.snapshots {
		snapshots[k] = slices.Clone(rows)
	}
	return &state{
		organizations: maps.Clone(s.organizations),
		accountTypes:  slices.Clone(s.accountTypes),
		accounts:      maps.Clone(s.accounts),
		defaults:      maps.Clone(s.defaults),
		periods:       periods,
		snapshots:     snapshots,
		tagTypes:      maps.Clone(s.tagTypes),
		entries:       slices.Clone(s.entries),
	}
}

// Store is the in-memory ledger read model.
type Store struct {
	mu sync.RWMutex
	st *state
}

// Ensure Store implements every reporting port.
var _ portsrepo.ReportingRepositoryFacade = (*Store)(nil)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{st: &state{
		organizations: make(map[string]bool),
		accounts:      make(map[string]domain.LedgerAccount),
		defaults:      make(map[defaultKey]string),
		periods:       make(map[string][]domain.CustomTimePeriod),
		snapshots:     make(map[snapshotKey][]domain.PostedBalance),
		tagTypes:      make(map[tagKey]domain.TagTypeMap),
	}}
}

// =============================================================================
// SETUP - reference data and posting, used to build fixtures
// =============================================================================

// AddOrganization registers an organization id.
func (s *Store) AddOrganization(organizationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.organizations[organizationID] = true
}

// AddAccountType adds a node to the account-type tree.
func (s *Store) AddAccountType(typeID, parentTypeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.accountTypes = append(s.st.accountTypes, domain.AccountTypeNode{AccountTypeID: typeID, ParentTypeID: parentTypeID})
}

// AddAccount adds a ledger account to the chart of accounts.
func (s *Store) AddAccount(account domain.LedgerAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.accounts[account.AccountID] = account
}

// SetDefaultAccount designates an account for a role.
func (s *Store) SetDefaultAccount(organizationID string, role domain.DefaultAccountRole, accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.defaults[defaultKey{organizationID, role}] = accountID
}

// AddPeriod registers a custom time period.
func (s *Store) AddPeriod(period domain.CustomTimePeriod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps := append(s.st.periods[period.OrganizationID], period)
	sort.Slice(ps, func(i, j int) bool { return ps[i].FromDate.Before(ps[j].FromDate) })
	s.st.periods[period.OrganizationID] = ps
}

// ClosePeriod marks a period closed and stores its posted balance snapshot.
func (s *Store) ClosePeriod(organizationID, periodID string, balances []domain.PostedBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps := s.st.periods[organizationID]
	for i := range ps {
		if ps[i].PeriodID == periodID {
			ps[i].IsClosed = true
			s.st.snapshots[snapshotKey{organizationID, periodID}] = slices.Clone(balances)
			return nil
		}
	}
	return fmt.Errorf("%w: period %s of organization %s", apperrors.ErrNotFound, periodID, organizationID)
}

// SetTagTypes configures the tag type map for a usage context.
func (s *Store) SetTagTypes(organizationID string, usage domain.TagUsage, types domain.TagTypeMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.tagTypes[tagKey{organizationID, usage}] = maps.Clone(types)
}

// Post appends entries. Each entry's Account is resolved from its AccountID. Append-only.
func (s *Store) Post(entries ...domain.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	resolved := make([]domain.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if e.Amount.IsNegative() {
			return fmt.Errorf("%w: entry %s/%d has a negative amount", apperrors.ErrValidation, e.TransactionID, e.EntrySeq)
		}
		account, ok := s.st.accounts[e.Account.AccountID]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, e.Account.AccountID)
		}
		e.Account = account
		resolved = append(resolved, e)
	}
	for _, e := range resolved {
		i := sort.Search(len(s.st.entries), func(i int) bool {
			return s.st.entries[i].TransactionDate.After(e.TransactionDate)
		})
		s.st.entries = slices.Insert(s.st.entries, i, e)
	}
	return nil
}

// =============================================================================
// READ SNAPSHOT
// =============================================================================

type snapshotCtxKey struct{}

// WithReadSnapshot runs fn against a frozen copy of the store.
func (s *Store) WithReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(snapshotCtxKey{}).(*state); ok {
		return fn(ctx)
	}
	s.mu.RLock()
	frozen := s.st.clone()
	s.mu.RUnlock()
	return fn(context.WithValue(ctx, snapshotCtxKey{}, frozen))
}

func (s *Store) view(ctx context.Context) *state {
	if st, ok := ctx.Value(snapshotCtxKey{}).(*state); ok {
		return st
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.clone()
}

// =============================================================================
// READ PORTS
// =============================================================================

// Entries yields matching posted entries in transaction-date order.
func (s *Store) Entries(ctx context.Context, q domain.EntryQuery) iter.Seq2[domain.LedgerEntry, error] {
	return func(yield func(domain.LedgerEntry, error) bool) {
		st := s.view(ctx)
		for _, e := range st.entries {
			if err := ctx.Err(); err != nil {
				yield(domain.LedgerEntry{}, err)
				return
			}
			if !q.Matches(e) {
				continue
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

func (s *Store) OrganizationExists(ctx context.Context, organizationID string) (bool, error) {
	return s.view(ctx).organizations[organizationID], nil
}

func (s *Store) AccountTypes(ctx context.Context) ([]domain.AccountTypeNode, error) {
	return s.view(ctx).accountTypes, nil
}

func (s *Store) DefaultAccount(ctx context.Context, organizationID string, role domain.DefaultAccountRole) (*domain.LedgerAccount, error) {
	st := s.view(ctx)
	accountID, ok := st.defaults[defaultKey{organizationID, role}]
	if !ok {
		return nil, fmt.Errorf("%w: no %s account for organization %s", apperrors.ErrNotFound, role, organizationID)
	}
	account, ok := st.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &account, nil
}

func (s *Store) LastClosedPeriod(ctx context.Context, organizationID string, moment time.Time) (*domain.CustomTimePeriod, error) {
	var last *domain.CustomTimePeriod
	for _, p := range s.view(ctx).periods[organizationID] {
		if !p.IsClosed || p.ThruDate.After(moment) {
			continue
		}
		if last == nil || p.ThruDate.After(last.ThruDate) {
			p := p
			last = &p
		}
	}
	return last, nil
}

func (s *Store) EarliestPeriod(ctx context.Context, organizationID string) (*domain.CustomTimePeriod, error) {
	ps := s.view(ctx).periods[organizationID]
	if len(ps) == 0 {
		return nil, nil
	}
	first := ps[0]
	return &first, nil
}

func (s *Store) PeriodsOverlapping(ctx context.Context, organizationID string, from, thru time.Time) ([]domain.CustomTimePeriod, error) {
	var out []domain.CustomTimePeriod
	for _, p := range s.view(ctx).periods[organizationID] {
		if p.Overlaps(from, thru) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) PostedBalances(ctx context.Context, organizationID, periodID string, classes []domain.AccountClass) ([]domain.PostedBalance, error) {
	var out []domain.PostedBalance
	for _, row := range s.view(ctx).snapshots[snapshotKey{organizationID, periodID}] {
		if len(classes) == 0 || slices.Contains(classes, row.Account.Class) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *Store) TagTypes(ctx context.Context, organizationID string, usage domain.TagUsage) (domain.TagTypeMap, error) {
	return maps.Clone(s.view(ctx).tagTypes[tagKey{organizationID, usage}]), nil
}
