package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_reports/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_reports/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_reports/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPeriodRepository reads custom time periods and the balances frozen when they closed.
type PgxPeriodRepository struct {
	BaseRepository
}

func newPgxPeriodRepository(pool *pgxpool.Pool) *PgxPeriodRepository {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.PeriodDirectory     = (*PgxPeriodRepository)(nil)
	_ portsrepo.PostedSnapshotStore = (*PgxPeriodRepository)(nil)
)

const periodColumns = `period_id, organization_id, from_date, thru_date, is_closed`

func scanPeriod(row pgx.Row) (*domain.CustomTimePeriod, error) {
	var m models.CustomTimePeriod
	if err := row.Scan(&m.PeriodID, &m.OrganizationID, &m.FromDate, &m.ThruDate, &m.IsClosed); err != nil {
		return nil, err
	}
	return &domain.CustomTimePeriod{
		PeriodID:       m.PeriodID,
		OrganizationID: m.OrganizationID,
		FromDate:       m.FromDate,
		ThruDate:       m.ThruDate,
		IsClosed:       m.IsClosed,
	}, nil
}

// scanOptionalPeriod maps "no rows" to a nil period.
func scanOptionalPeriod(row pgx.Row) (*domain.CustomTimePeriod, error) {
	period, err := scanPeriod(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return period, err
}

// LastClosedPeriod returns the closed period with the latest thru date not after moment.
func (r *PgxPeriodRepository) LastClosedPeriod(ctx context.Context, organizationID string, moment time.Time) (*domain.CustomTimePeriod, error) {
	query := `SELECT ` + periodColumns + `
		FROM custom_time_periods
		WHERE organization_id = $1 AND is_closed AND thru_date <= $2
		ORDER BY thru_date DESC
		LIMIT 1;`
	period, err := scanOptionalPeriod(r.db(ctx).QueryRow(ctx, query, organizationID, moment))
	if err != nil {
		return nil, fmt.Errorf("failed to find last closed period for organization %s: %w", organizationID, err)
	}
	return period, nil
}

// EarliestPeriod returns the period with the earliest from date.
func (r *PgxPeriodRepository) EarliestPeriod(ctx context.Context, organizationID string) (*domain.CustomTimePeriod, error) {
	query := `SELECT ` + periodColumns + `
		FROM custom_time_periods
		WHERE organization_id = $1
		ORDER BY from_date
		LIMIT 1;`
	period, err := scanOptionalPeriod(r.db(ctx).QueryRow(ctx, query, organizationID))
	if err != nil {
		return nil, fmt.Errorf("failed to find earliest period for organization %s: %w", organizationID, err)
	}
	return period, nil
}

// PeriodsOverlapping returns the periods intersecting [from, thru), ordered by from date.
func (r *PgxPeriodRepository) PeriodsOverlapping(ctx context.Context, organizationID string, from, thru time.Time) ([]domain.CustomTimePeriod, error) {
	query := `SELECT ` + periodColumns + `
		FROM custom_time_periods
		WHERE organization_id = $1 AND from_date < $3 AND $2 < thru_date
		ORDER BY from_date;`
	rows, err := r.db(ctx).Query(ctx, query, organizationID, from, thru)
	if err != nil {
		return nil, fmt.Errorf("error querying periods: %w", err)
	}
	defer rows.Close()

	var result []domain.CustomTimePeriod
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning period row: %w", err)
		}
		result = append(result, *period)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period rows: %w", err)
	}
	return result, nil
}

// PostedBalances returns the snapshot rows of one period, restricted to classes when given.
func (r *PgxPeriodRepository) PostedBalances(ctx context.Context, organizationID, periodID string, classes []domain.AccountClass) ([]domain.PostedBalance, error) {
	var args queryArgs
	query := `
		SELECT b.organization_id, b.period_id,
			a.account_id, a.name, COALESCE(a.account_type_id, ''), a.account_class,
			b.posted_debits, b.posted_credits, b.ending_balance
		FROM posted_account_balances b
		JOIN ledger_accounts a ON a.account_id = b.account_id
		WHERE b.organization_id = ` + args.add(organizationID) + ` AND b.period_id = ` + args.add(periodID)
	if len(classes) > 0 {
		query += ` AND a.account_class = ANY(` + args.add(toStrings(classes)) + `)`
	}
	query += ` ORDER BY a.account_id`

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying posted balances: %w", err)
	}
	defer rows.Close()

	var result []domain.PostedBalance
	for rows.Next() {
		var m models.PostedBalance
		if err := rows.Scan(
			&m.OrganizationID, &m.PeriodID,
			&m.Account.AccountID, &m.Account.Name, &m.Account.AccountTypeID, &m.Account.AccountClass,
			&m.PostedDebits, &m.PostedCredits, &m.EndingBalance,
		); err != nil {
			return nil, fmt.Errorf("error scanning posted balance row: %w", err)
		}
		result = append(result, domain.PostedBalance{
			OrganizationID: m.OrganizationID,
			PeriodID:       m.PeriodID,
			Account:        toDomainAccount(m.Account),
			PostedDebits:   m.PostedDebits,
			PostedCredits:  m.PostedCredits,
			EndingBalance:  m.EndingBalance,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posted balance rows: %w", err)
	}
	return result, nil
}
