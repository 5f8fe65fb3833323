package store

import (
	"charityportal/internal/utils"
	"charityportal/pkg/types"
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	permitTableName  = "charityportal.permits"
	partnerTableName = "charityportal.permit_partners"
)

var (
	permitColumns  = utils.StructTagValues(types.Permit{})
	partnerColumns = utils.StructTagValues(types.Partner{})
)

type PermitRepository struct {
	pool *pgxpool.Pool
}

func NewPermitRepository(pool *pgxpool.Pool) *PermitRepository {
	return &PermitRepository{pool: pool}
}

func (r *PermitRepository) Permit(ctx context.Context, permitID int64) (*types.Permit, error) {

	query, args, err := psql().Select(permitColumns...).From(permitTableName).
		Where(sq.Eq{"id": permitID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate permit query: %w", err)
	}

	var permit = new(types.Permit)
	err = pgxscan.Get(ctx, r.pool, permit, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrPermitNotFound
	}

	return permit, nil

}

func (r *PermitRepository) PermitsByUser(ctx context.Context, userID string) ([]*types.Permit, error) {

	query, args, err := psql().Select(permitColumns...).From(permitTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("submitted_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate permits by user query: %w", err)
	}

	var permits = make([]*types.Permit, 0)
	err = pgxscan.Select(ctx, r.pool, &permits, query, args...)

	return permits, utils.ErrorWrapOrNil(err, "failed to fetch permits by user")
}

// PartnersByPermit returns the partners of a permit in the order they were
// captured.
func (r *PermitRepository) PartnersByPermit(ctx context.Context, permitID int64) ([]*types.Partner, error) {

	query, args, err := psql().Select(partnerColumns...).From(partnerTableName).
		Where(sq.Eq{"permit_id": permitID}).
		OrderBy("id asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate partners query: %w", err)
	}

	var partners = make([]*types.Partner, 0)
	err = pgxscan.Select(ctx, r.pool, &partners, query, args...)

	return partners, utils.ErrorWrapOrNil(err, "failed to fetch partners")
}

// OverlappingExists reports whether a live permit already covers the same
// site for any day of [start, end].
func (r *PermitRepository) OverlappingExists(ctx context.Context, regionID int64, street string, start, end time.Time) (bool, error) {
	return countOverlapping(ctx, r.pool, regionID, street, start, end)
}

func countOverlapping(ctx context.Context, db pgxscan.Querier, regionID int64, street string, start, end time.Time) (bool, error) {

	query, args, err := psql().Select("count(*)").From(permitTableName).
		Where(sq.Eq{"region_id": regionID}).
		Where(sq.Expr("lower(street) = ?", siteStreet(street))).
		Where(sq.NotEq{"status": types.PermitStatusRejected}).
		Where(sq.LtOrEq{"start_date": end}).
		Where(sq.GtOrEq{"end_date": start}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate overlapping permit query: %w", err)
	}

	var count int
	err = pgxscan.Get(ctx, db, &count, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to count overlapping permits: %w", err)
	}

	return count > 0, nil
}

func siteStreet(street string) string {
	return strings.ToLower(strings.TrimSpace(street))
}

// lockSite serializes submissions for one region and street until tx ends.
func lockSite(ctx context.Context, tx pgx.Tx, regionID int64, street string) error {
	key := fmt.Sprintf("permit-site:%d:%s", regionID, siteStreet(street))
	_, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key)
	return utils.ErrorWrapOrNil(err, "failed to lock permit site")
}

// CreateSubmission persists a permit with its partners and attachment rows
// in one transaction. Generated ids are written back into submission. The
// overlap check is repeated under a site lock inside the transaction, and a
// conflict returns types.ErrOverlappingPermit.
func (r *PermitRepository) CreateSubmission(ctx context.Context, submission *types.PermitSubmission) error {

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin submission transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	permit := submission.Permit

	if err := lockSite(ctx, tx, permit.RegionID, permit.Street); err != nil {
		return err
	}

	overlapping, err := countOverlapping(ctx, tx, permit.RegionID, permit.Street, permit.StartDate, permit.EndDate)
	if err != nil {
		return err
	}
	if overlapping {
		return types.ErrOverlappingPermit
	}

	now := time.Now()
	permit.Status = types.PermitStatusSubmitted
	permit.SubmittedAt = now
	permit.CreatedAt = now
	permit.UpdatedAt = now

	permit.ID, err = insertReturningID(ctx, tx, permitTableName, utils.StructToMap(permit))
	if err != nil {
		return fmt.Errorf("failed to create permit: %w", err)
	}

	for _, attachment := range submission.Attachments {
		attachment.PermitID = permit.ID
		if err := insertAttachment(ctx, tx, attachment, now); err != nil {
			return err
		}
	}

	for _, ps := range submission.Partners {
		partner := ps.Partner
		partner.PermitID = permit.ID
		partner.CreatedAt = now

		partner.ID, err = insertReturningID(ctx, tx, partnerTableName, utils.StructToMap(partner))
		if err != nil {
			return fmt.Errorf("failed to create partner %q: %w", partner.Name, err)
		}

		for _, attachment := range ps.Attachments {
			attachment.PermitID = permit.ID
			attachment.PartnerID = &partner.ID
			if err := insertAttachment(ctx, tx, attachment, now); err != nil {
				return err
			}
		}
	}

	return utils.ErrorWrapOrNil(tx.Commit(ctx), "failed to commit submission")
}

func insertReturningID(ctx context.Context, tx pgx.Tx, table string, row map[string]any) (int64, error) {

	query, args, err := psql().Insert(table).
		SetMap(withoutColumns(row, "id")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate insert query for %s: %w", table, err)
	}

	var id int64
	err = tx.QueryRow(ctx, query, args...).Scan(&id)

	return id, err
}
