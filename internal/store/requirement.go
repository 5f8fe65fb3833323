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

const requirementTableName = "charityportal.attachment_requirements"

var requirementColumns = utils.StructTagValues(types.AttachmentRequirement{})

type RequirementRepository struct {
	pool *pgxpool.Pool
}

func NewRequirementRepository(pool *pgxpool.Pool) *RequirementRepository {
	return &RequirementRepository{pool: pool}
}

// ActiveRequirements returns the requirement catalog of both scopes.
func (r *RequirementRepository) ActiveRequirements(ctx context.Context) ([]*types.AttachmentRequirement, error) {
	query, args, err := psql().
		Select(requirementColumns...).
		From(requirementTableName).
		Where(sq.Eq{"is_active": true}).
		OrderBy("scope ASC", "display_order ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate requirements query: %w", err)
	}

	var requirements []*types.AttachmentRequirement
	err = pgxscan.Select(ctx, r.pool, &requirements, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requirements: %w", err)
	}

	return requirements, nil
}

func (r *RequirementRepository) AllRequirements(ctx context.Context) ([]*types.AttachmentRequirement, error) {
	query, args, err := psql().
		Select(requirementColumns...).
		From(requirementTableName).
		OrderBy("scope ASC", "display_order ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate requirements query: %w", err)
	}

	var requirements []*types.AttachmentRequirement
	err = pgxscan.Select(ctx, r.pool, &requirements, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requirements: %w", err)
	}

	return requirements, nil
}

func (r *RequirementRepository) UpsertRequirement(ctx context.Context, requirement *types.AttachmentRequirement) error {
	requirementMap := utils.StructToMap(requirement)

	query, args, err := psql().
		Insert(requirementTableName).
		SetMap(requirementMap).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + buildUpdateClause(withoutColumns(requirementMap, "id", "created_at"))).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, fmt.Sprintf("failed to upsert requirement %d", requirement.ID))
}

func (r *RequirementRepository) DeleteRequirement(ctx context.Context, id int64) error {
	query, args, err := psql().
		Delete(requirementTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, fmt.Sprintf("failed to delete requirement %d", id))
}
