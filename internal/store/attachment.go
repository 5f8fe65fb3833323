package store

import (
	"charityportal/internal/utils"
	"charityportal/pkg/types"
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const attachmentTableName = "charityportal.permit_attachments"

var attachmentColumns = utils.StructTagValues(types.PermitAttachment{})

type AttachmentRepository struct {
	pool *pgxpool.Pool
}

func NewAttachmentRepository(pool *pgxpool.Pool) *AttachmentRepository {
	return &AttachmentRepository{pool: pool}
}

// AttachmentsByPermit returns every attachment of a permit, its partners'
// included.
func (r *AttachmentRepository) AttachmentsByPermit(ctx context.Context, permitID int64) ([]*types.PermitAttachment, error) {
	query, args, err := psql().
		Select(attachmentColumns...).
		From(attachmentTableName).
		Where(sq.Eq{"permit_id": permitID}).
		OrderBy("uploaded_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate attachments query: %w", err)
	}

	var attachments []*types.PermitAttachment
	err = pgxscan.Select(ctx, r.pool, &attachments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attachments: %w", err)
	}

	return attachments, nil
}

// CountByPermits returns the number of attachments per permit id.
func (r *AttachmentRepository) CountByPermits(ctx context.Context, permitIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(permitIDs))
	if len(permitIDs) == 0 {
		return counts, nil
	}

	query, args, err := psql().
		Select("permit_id", "count(*) AS attachment_count").
		From(attachmentTableName).
		Where(sq.Eq{"permit_id": permitIDs}).
		GroupBy("permit_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate attachment count query: %w", err)
	}

	var rows []struct {
		PermitID        int64 `db:"permit_id"`
		AttachmentCount int   `db:"attachment_count"`
	}
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count attachments: %w", err)
	}

	for _, row := range rows {
		counts[row.PermitID] = row.AttachmentCount
	}

	return counts, nil
}

func insertAttachment(ctx context.Context, tx pgx.Tx, attachment *types.PermitAttachment, uploadedAt time.Time) error {
	attachment.UploadedAt = uploadedAt

	var err error
	attachment.ID, err = insertReturningID(ctx, tx, attachmentTableName, utils.StructToMap(attachment))

	return utils.ErrorWrapOrNil(err, fmt.Sprintf("failed to create attachment %q", attachment.FileName))
}
