package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_reports/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_reports/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTagTypeRepository reads accounting_tag_usage.
type PgxTagTypeRepository struct {
	BaseRepository
}

func newPgxTagTypeRepository(pool *pgxpool.Pool) *PgxTagTypeRepository {
	return &PgxTagTypeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TagTypeDirectory = (*PgxTagTypeRepository)(nil)

// TagTypes returns the slot labels configured for usage. Unconfigured slots are absent.
func (r *PgxTagTypeRepository) TagTypes(ctx context.Context, organizationID string, usage domain.TagUsage) (domain.TagTypeMap, error) {
	query := `
		SELECT slot, tag_type
		FROM accounting_tag_usage
		WHERE organization_id = $1 AND usage = $2
		ORDER BY slot;
	`
	rows, err := r.db(ctx).Query(ctx, query, organizationID, string(usage))
	if err != nil {
		return nil, fmt.Errorf("error querying tag types: %w", err)
	}
	defer rows.Close()

	types := make(domain.TagTypeMap)
	for rows.Next() {
		var slot int
		var tagType string
		if err := rows.Scan(&slot, &tagType); err != nil {
			return nil, fmt.Errorf("error scanning tag type row: %w", err)
		}
		types[slot] = tagType
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag type rows: %w", err)
	}
	return types, nil
}
