package pgsql

import (
	portsrepo "github.com/SscSPs/ledger_reports/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds the PostgreSQL-backed reporting repositories. They share one pool,
// so a read snapshot opened through Reader is seen by all of them.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	periodRepo := newPgxPeriodRepository(dbPool)

	return portsrepo.RepositoryProvider{
		Entries:   newPgxEntryRepository(dbPool),
		Accounts:  newPgxAccountRepository(dbPool),
		Periods:   periodRepo,
		Snapshots: periodRepo,
		TagTypes:  newPgxTagTypeRepository(dbPool),
		Reader:    &BaseRepository{Pool: dbPool},
	}
}
