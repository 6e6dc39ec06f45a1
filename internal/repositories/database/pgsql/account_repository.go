package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_reports/internal/apperrors"
	"github.com/SscSPs/ledger_reports/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_reports/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_reports/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxAccountRepository reads the chart of accounts and organization account configuration.
type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.LedgerAccountDirectory
var _ portsrepo.LedgerAccountDirectory = (*PgxAccountRepository)(nil)

// OrganizationExists reports whether the organization row exists.
func (r *PgxAccountRepository) OrganizationExists(ctx context.Context, organizationID string) (bool, error) {
	var exists bool
	err := r.db(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM organizations WHERE organization_id = $1)`, organizationID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check organization %s: %w", organizationID, err)
	}
	return exists, nil
}

// AccountTypes returns every node of the account-type tree.
func (r *PgxAccountRepository) AccountTypes(ctx context.Context) ([]domain.AccountTypeNode, error) {
	query := `
		SELECT account_type_id, COALESCE(parent_type_id, ''), description
		FROM ledger_account_types
		ORDER BY account_type_id;
	`
	rows, err := r.db(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying account types: %w", err)
	}
	defer rows.Close()

	var result []domain.AccountTypeNode
	for rows.Next() {
		var m models.AccountType
		if err := rows.Scan(&m.AccountTypeID, &m.ParentTypeID, &m.Description); err != nil {
			return nil, fmt.Errorf("error scanning account type row: %w", err)
		}
		result = append(result, domain.AccountTypeNode{
			AccountTypeID: m.AccountTypeID,
			ParentTypeID:  m.ParentTypeID,
			Description:   m.Description,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account type rows: %w", err)
	}
	return result, nil
}

// DefaultAccount returns the account configured for role.
func (r *PgxAccountRepository) DefaultAccount(ctx context.Context, organizationID string, role domain.DefaultAccountRole) (*domain.LedgerAccount, error) {
	query := `
		SELECT a.account_id, a.name, COALESCE(a.account_type_id, ''), a.account_class
		FROM organization_default_accounts d
		JOIN ledger_accounts a ON a.account_id = d.account_id
		WHERE d.organization_id = $1 AND d.role = $2;
	`
	var m models.LedgerAccount
	err := r.db(ctx).QueryRow(ctx, query, organizationID, string(role)).Scan(&m.AccountID, &m.Name, &m.AccountTypeID, &m.AccountClass)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no %s account for organization %s", apperrors.ErrNotFound, role, organizationID)
		}
		return nil, fmt.Errorf("failed to find %s account for organization %s: %w", role, organizationID, err)
	}
	account := toDomainAccount(m)
	return &account, nil
}
