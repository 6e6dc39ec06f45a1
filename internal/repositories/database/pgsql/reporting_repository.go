package pgsql

import (
	"context"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/SscSPs/ledger_reports/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_reports/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_reports/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxEntryRepository streams posted transaction entries out of PostgreSQL.
type PgxEntryRepository struct {
	BaseRepository
}

// newPgxEntryRepository creates a new repository for transaction entries.
func newPgxEntryRepository(pool *pgxpool.Pool) *PgxEntryRepository {
	return &PgxEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EntryRepository = (*PgxEntryRepository)(nil)

var entryColumns = func() string {
	cols := []string{
		"t.transaction_id", "e.entry_seq", "t.organization_id", "t.transaction_type", "t.fiscal_type",
		"t.transaction_date", "t.is_posted",
		"a.account_id", "a.name", "COALESCE(a.account_type_id, '')", "a.account_class",
		"e.debit_credit", "e.amount",
	}
	for slot := 1; slot <= domain.TagSlotCount; slot++ {
		cols = append(cols, "COALESCE(e.tag"+strconv.Itoa(slot)+", '')")
	}
	cols = append(cols, "COALESCE(e.product_id, '')", "COALESCE(e.party_id, '')")
	return strings.Join(cols, ", ")
}()

// buildEntryQuery translates an EntryQuery into SQL. Every filter, tags included, is pushed
// down to the database.
func buildEntryQuery(q domain.EntryQuery) (string, []any) {
	var args queryArgs
	var sb strings.Builder

	sb.WriteString("SELECT ")
	sb.WriteString(entryColumns)
	sb.WriteString(`
		FROM accounting_transaction_entries e
		JOIN accounting_transactions t ON t.transaction_id = e.transaction_id
		JOIN ledger_accounts a ON a.account_id = e.account_id
		WHERE t.is_posted AND t.organization_id = `)
	sb.WriteString(args.add(q.OrganizationID))

	if !q.FromDate.IsZero() {
		sb.WriteString(" AND t.transaction_date >= " + args.add(q.FromDate))
	}
	if !q.ThruDate.IsZero() {
		sb.WriteString(" AND t.transaction_date < " + args.add(q.ThruDate))
	}
	if len(q.FiscalTypes) > 0 {
		sb.WriteString(" AND t.fiscal_type = ANY(" + args.add(toStrings(q.FiscalTypes)) + ")")
	}
	if len(q.Classes) > 0 {
		sb.WriteString(" AND a.account_class = ANY(" + args.add(toStrings(q.Classes)) + ")")
	}
	if len(q.IncludeTransactionTypes) > 0 {
		sb.WriteString(" AND t.transaction_type = ANY(" + args.add(toStrings(q.IncludeTransactionTypes)) + ")")
	}
	if len(q.ExcludeTransactionTypes) > 0 {
		sb.WriteString(" AND t.transaction_type <> ALL(" + args.add(toStrings(q.ExcludeTransactionTypes)) + ")")
	}
	for _, slot := range q.Tags.Slots() {
		fmt.Fprintf(&sb, " AND COALESCE(NULLIF(e.tag%d, ''), '%s') = ANY(%s)", slot, domain.NullTag, args.add(q.Tags[slot-1]))
	}
	sb.WriteString(" ORDER BY t.transaction_date, t.transaction_id, e.entry_seq")
	return sb.String(), args
}

func scanEntry(rows pgx.Rows) (models.Entry, error) {
	var m models.Entry
	dest := []any{
		&m.TransactionID, &m.EntrySeq, &m.OrganizationID, &m.TransactionType, &m.FiscalType,
		&m.TransactionDate, &m.IsPosted,
		&m.Account.AccountID, &m.Account.Name, &m.Account.AccountTypeID, &m.Account.AccountClass,
		&m.DebitCredit, &m.Amount,
	}
	for i := range m.Tags {
		dest = append(dest, &m.Tags[i])
	}
	dest = append(dest, &m.ProductID, &m.PartyID)
	err := rows.Scan(dest...)
	return m, err
}

// Entries streams matching posted entries in transaction-date order.
func (r *PgxEntryRepository) Entries(ctx context.Context, q domain.EntryQuery) iter.Seq2[domain.LedgerEntry, error] {
	return func(yield func(domain.LedgerEntry, error) bool) {
		query, args := buildEntryQuery(q)
		rows, err := r.db(ctx).Query(ctx, query, args...)
		if err != nil {
			yield(domain.LedgerEntry{}, fmt.Errorf("error querying transaction entries: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			m, err := scanEntry(rows)
			if err != nil {
				yield(domain.LedgerEntry{}, fmt.Errorf("error scanning transaction entry: %w", err))
				return
			}
			if !yield(toDomainEntry(m), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(domain.LedgerEntry{}, fmt.Errorf("error iterating transaction entries: %w", err))
		}
	}
}

func toDomainAccount(m models.LedgerAccount) domain.LedgerAccount {
	return domain.LedgerAccount{
		AccountID:     m.AccountID,
		Name:          m.Name,
		AccountTypeID: m.AccountTypeID,
		Class:         domain.AccountClass(m.AccountClass),
	}
}

func toDomainEntry(m models.Entry) domain.LedgerEntry {
	return domain.LedgerEntry{
		TransactionID:   m.TransactionID,
		EntrySeq:        m.EntrySeq,
		OrganizationID:  m.OrganizationID,
		TransactionType: domain.TransactionType(m.TransactionType),
		FiscalType:      domain.FiscalType(m.FiscalType),
		TransactionDate: m.TransactionDate,
		Posted:          m.IsPosted,
		Account:         toDomainAccount(m.Account),
		DebitCredit:     domain.DebitCredit(m.DebitCredit),
		Amount:          m.Amount,
		Tags:            domain.Tags(m.Tags),
		ProductID:       m.ProductID,
		PartyID:         m.PartyID,
	}
}
