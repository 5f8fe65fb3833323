package types

import "time"

// StepVisitEvent records a successful forward navigation within a workflow
// session. Duplicates are kept so repeated passes stay visible.
type StepVisitEvent struct {
	ID        string    `db:"id"`
	SessionID string    `db:"session_id"`
	UserID    string    `db:"user_id"`
	Step      int       `db:"step"`
	StepName  string    `db:"step_name"`
	CreatedAt time.Time `db:"created_at"`
}
