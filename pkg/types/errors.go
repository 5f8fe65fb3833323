package types

import "errors"

var (
	ErrPermitNotFound    = errors.New("permit not found")
	ErrSessionNotFound   = errors.New("workflow session not found")
	ErrOverlappingPermit = errors.New("a live permit already covers this site and dates")
)

// RejectionError is returned by a submission collaborator when the request
// was understood but refused by a business rule. Reason is shown to the
// requester verbatim.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return e.Reason
}
