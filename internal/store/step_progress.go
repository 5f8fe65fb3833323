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

const stepVisitEventsTableName = "charityportal.permit_step_events"

var stepVisitEventsColumns = utils.StructTagValues(types.StepVisitEvent{})

type StepProgressRepository struct {
	pool *pgxpool.Pool
}

func NewStepProgressRepository(pool *pgxpool.Pool) *StepProgressRepository {
	return &StepProgressRepository{pool: pool}
}

// RecordStepVisit logs that a session moved forward onto a step (allows duplicates)
func (r *StepProgressRepository) RecordStepVisit(ctx context.Context, sessionID, userID string, step int, stepName string) error {
	query, args, err := psql().
		Insert(stepVisitEventsTableName).
		Columns("id", "session_id", "user_id", "step", "step_name").
		Values(utils.NanoID(), sessionID, userID, step, stepName).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert step event query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to record step event")
}

// EventsBySession returns all step events of a session, ordered chronologically
func (r *StepProgressRepository) EventsBySession(ctx context.Context, sessionID string) ([]*types.StepVisitEvent, error) {
	query, args, err := psql().
		Select(stepVisitEventsColumns...).
		From(stepVisitEventsTableName).
		Where(sq.Eq{"session_id": sessionID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate step events query: %w", err)
	}

	var events []*types.StepVisitEvent
	err = pgxscan.Select(ctx, r.pool, &events, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to get step events")
	}

	return events, nil
}
