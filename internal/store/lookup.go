package store

import (
	"charityportal/internal/utils"
	"charityportal/pkg/types"
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	locationTypeTableName = "charityportal.location_types"
	regionTableName       = "charityportal.regions"
)

var lookupColumns = utils.StructTagValues(types.LookupEntry{})

// LookupRepository serves one of the lookup tables that populate the first
// workflow step.
type LookupRepository struct {
	pool  *pgxpool.Pool
	table string
}

func NewLocationTypeRepository(pool *pgxpool.Pool) *LookupRepository {
	return &LookupRepository{pool: pool, table: locationTypeTableName}
}

func NewRegionRepository(pool *pgxpool.Pool) *LookupRepository {
	return &LookupRepository{pool: pool, table: regionTableName}
}

func (r *LookupRepository) ActiveEntries(ctx context.Context) ([]*types.LookupEntry, error) {
	query, args, err := psql().
		Select(lookupColumns...).
		From(r.table).
		Where(sq.Eq{"is_active": true}).
		OrderBy("display_order ASC", "label ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s query: %w", r.table, err)
	}

	var entries []*types.LookupEntry
	err = pgxscan.Select(ctx, r.pool, &entries, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", r.table, err)
	}

	return entries, nil
}

func (r *LookupRepository) AllEntries(ctx context.Context) ([]*types.LookupEntry, error) {
	query, args, err := psql().
		Select(lookupColumns...).
		From(r.table).
		OrderBy("display_order ASC", "label ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s query: %w", r.table, err)
	}

	var entries []*types.LookupEntry
	err = pgxscan.Select(ctx, r.pool, &entries, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", r.table, err)
	}

	return entries, nil
}

func (r *LookupRepository) UpsertEntry(ctx context.Context, entry *types.LookupEntry) error {
	entryMap := utils.StructToMap(entry)

	query, args, err := psql().
		Insert(r.table).
		SetMap(entryMap).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + buildUpdateClause(withoutColumns(entryMap, "id", "created_at"))).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, fmt.Sprintf("failed to upsert %s entry %d", r.table, entry.ID))
}

func (r *LookupRepository) DeleteEntry(ctx context.Context, id int64) error {
	query, args, err := psql().
		Delete(r.table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, fmt.Sprintf("failed to delete %s entry %d", r.table, id))
}
