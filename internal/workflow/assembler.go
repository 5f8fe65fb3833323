package workflow

import (
	"context"
	"errors"
	"strings"

	"charityportal/pkg/types"
)

// Submitter accepts an assembled permit payload. A *types.RejectionError
// carrying a reason is a business rejection; any other error is treated as
// a transport failure.
type Submitter interface {
	Submit(ctx context.Context, payload *types.PermitPayload) (*types.SubmissionReceipt, error)
}

// Assemble re-validates every step and composes the outbound payload. It
// is only available from the last step.
func (w *Workflow) Assemble() (*types.PermitPayload, error) {
	if w.nav.current != StepAttachments {
		return nil, ErrNotOnFinalStep
	}

	if violations := w.ValidateAll(); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	r := w.request
	return &types.PermitPayload{
		OwnerID:            r.OwnerID,
		LocationTypeID:     r.LocationTypeID,
		RegionID:           r.RegionID,
		Street:             r.Street,
		Ground:             r.Ground,
		Address:            r.Address,
		Coordinates:        EncodeCoordinate(*r.Coordinate),
		StartDate:          *r.StartDate,
		EndDate:            *r.EndDate,
		Notes:              r.Notes,
		SupervisorName:     r.SupervisorName,
		SupervisorJobTitle: r.SupervisorJobTitle,
		SupervisorMobile:   FormatMobile(r.SupervisorMobile, w.opts.CountryCode),
		Attachments:        w.attachments.Payloads(0),
		Partners:           w.partners.List(),
	}, nil
}

// Settle applies the outcome of a submission. On success every local
// payload is released; on failure the state is kept for a retry and the
// error is classified.
func (w *Workflow) Settle(err error) error {
	if err == nil {
		w.reset()
		return nil
	}

	var rejection *types.RejectionError
	if errors.As(err, &rejection) && strings.TrimSpace(rejection.Reason) != "" {
		return &SubmitError{Kind: FailureRejected, Reason: rejection.Reason, Err: err}
	}

	return &SubmitError{Kind: FailureUnavailable, Err: err}
}

// Submit assembles and submits synchronously.
func (w *Workflow) Submit(ctx context.Context, submitter Submitter) (*types.SubmissionReceipt, error) {
	payload, err := w.Assemble()
	if err != nil {
		return nil, err
	}

	receipt, err := submitter.Submit(ctx, payload)
	if err := w.Settle(err); err != nil {
		return nil, err
	}

	return receipt, nil
}
