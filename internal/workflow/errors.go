package workflow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownStep        = errors.New("unknown step")
	ErrFirstStep          = errors.New("already at the first step")
	ErrLastStep           = errors.New("already at the last step")
	ErrNotOnFinalStep     = errors.New("submission is only available from the final step")
	ErrInvalidCoordinate  = errors.New("invalid coordinate")
	ErrUnknownPartnerType = errors.New("unknown partner type")
	ErrNoPartnerDraft     = errors.New("no partner type staged")
	ErrPartnerNotFound    = errors.New("partner not found")

	ErrFileTooLarge       = errors.New("file too large")
	ErrInvalidFileType    = errors.New("invalid file type")
	ErrUnknownRequirement = errors.New("unknown attachment requirement")
	ErrSuperseded         = errors.New("attachment selection superseded")

	ErrSessionClosed      = errors.New("workflow session closed")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
)

// ValidationError lists every unmet condition found by one check. It never
// leaves the process; callers render one message per violation.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// Steps returns the distinct steps the violations belong to, in order.
func (e *ValidationError) Steps() []Step {
	seen := make(map[Step]bool)
	out := make([]Step, 0)
	for _, v := range e.Violations {
		if !seen[v.Step] {
			seen[v.Step] = true
			out = append(out, v.Step)
		}
	}
	return out
}

type AttachmentError struct {
	RequirementID int64
	Name          string
	Err           error
}

func (e *AttachmentError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("attachment %d: %v", e.RequirementID, e.Err)
	}
	return fmt.Sprintf("attachment %q: %v", e.Name, e.Err)
}

func (e *AttachmentError) Unwrap() error {
	return e.Err
}

type FailureKind int

const (
	// FailureRejected is a business rejection carrying a reason for the user.
	FailureRejected FailureKind = iota + 1
	// FailureUnavailable covers transport and unknown collaborator failures.
	FailureUnavailable
)

// SubmitError is returned when the submission collaborator refused or failed
// the payload. The workflow state is left intact in both cases.
type SubmitError struct {
	Kind   FailureKind
	Reason string
	Err    error
}

func (e *SubmitError) Error() string {
	if e.Kind == FailureRejected {
		return fmt.Sprintf("submission rejected: %s", e.Reason)
	}
	return fmt.Sprintf("submission failed: %v", e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}
