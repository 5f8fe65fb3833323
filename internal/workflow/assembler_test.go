package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"charityportal/pkg/types"
)

type stubSubmitter struct {
	calls   int
	payload *types.PermitPayload
	err     error
}

func (s *stubSubmitter) Submit(_ context.Context, payload *types.PermitPayload) (*types.SubmissionReceipt, error) {
	s.calls++
	s.payload = payload
	if s.err != nil {
		return nil, s.err
	}
	return &types.SubmissionReceipt{PermitID: 42, SubmittedAt: fixedNow}, nil
}

// =============================================================================
// Submission Assembler Test Suite
// =============================================================================

type AssemblerSuite struct {
	suite.Suite
	ctx context.Context
	wf  *Workflow
}

func TestAssemblerSuite(t *testing.T) {
	suite.Run(t, new(AssemblerSuite))
}

func (s *AssemblerSuite) SetupTest() {
	s.ctx = context.Background()
	s.wf = readyWorkflow(s.T())
}

func (s *AssemblerSuite) addPerson(name string) {
	s.Require().NoError(s.wf.Partners().StageType(types.PartnerTypePerson))
	slots, err := s.wf.Partners().DraftSlots()
	s.Require().NoError(err)
	s.Require().NoError(slots.Select(s.ctx, reqIdentity, pngUpload("id.png")))
	_, err = s.wf.Partners().Add(types.PartnerInput{Name: name, Type: "person"})
	s.Require().NoError(err)
}

// =============================================================================
// Assemble
// =============================================================================

func (s *AssemblerSuite) TestAssemble() {
	s.addPerson("Omar Khalid")

	payload, err := s.wf.Assemble()
	s.Require().NoError(err)

	s.Equal("user-1", payload.OwnerID)
	s.Equal(int64(3), payload.LocationTypeID)
	s.Equal(int64(7), payload.RegionID)
	s.Equal("25.2048/55.2708", payload.Coordinates)
	s.Equal("+971501234567", payload.SupervisorMobile)
	s.Equal(time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC), payload.StartDate)

	// Only slots that hold a file are sent.
	s.Require().Len(payload.Attachments, 2)
	for _, a := range payload.Attachments {
		s.NotEmpty(a.EncodedContent)
		s.Equal(int64(0), a.OwnerID)
	}

	s.Require().Len(payload.Partners, 1)
	s.Equal("Omar Khalid", payload.Partners[0].Name)
	s.Len(payload.Partners[0].Attachments, 1)
}

func (s *AssemblerSuite) TestAssembleOnlyFromLastStep() {
	s.Require().NoError(s.wf.GoTo(StepPartners))

	_, err := s.wf.Assemble()
	s.ErrorIs(err, ErrNotOnFinalStep)
}

func (s *AssemblerSuite) TestMissingAttachmentBlocksSubmission() {
	sub := &stubSubmitter{}

	s.Run("reached by jumping over the attachments", func() {
		w := New("user-1", testOptions(s.T()))
		fillRequest(s.T(), w)
		s.Require().NoError(w.GoTo(StepAttachments))

		_, err := w.Submit(s.ctx, sub)

		var verr *ValidationError
		s.Require().ErrorAs(err, &verr)
		s.Equal([]Step{StepAttachments}, verr.Steps())
	})

	s.Run("removed after the step was passed", func() {
		s.Require().NoError(s.wf.Attachments().Remove(reqEventPermit))

		_, err := s.wf.Submit(s.ctx, sub)

		var verr *ValidationError
		s.Require().ErrorAs(err, &verr)
		s.Equal([]string{"attachment:11:attachment_required"}, codes(verr.Violations))
	})

	s.Equal(0, sub.calls)
}

func (s *AssemblerSuite) TestEarlierStepRevalidated() {
	s.Require().NoError(s.wf.ApplyFields(types.PermitFieldsInput{Street: ptr("")}))

	_, err := s.wf.Assemble()

	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal([]Step{StepMainInfo}, verr.Steps())
	s.Equal([]string{"street:required"}, codes(verr.Violations))
}

// =============================================================================
// Submit outcomes
// =============================================================================

func (s *AssemblerSuite) TestSubmitSuccessClearsState() {
	s.addPerson("Omar Khalid")
	sub := &stubSubmitter{}

	receipt, err := s.wf.Submit(s.ctx, sub)
	s.Require().NoError(err)
	s.Equal(int64(42), receipt.PermitID)
	s.Equal(1, sub.calls)

	s.Equal(StepMainInfo, s.wf.Current())
	s.Equal(types.PermitRequest{OwnerID: "user-1"}, s.wf.Request())
	s.Empty(s.wf.Attachments().Payloads(0))
	s.Equal(0, s.wf.Partners().Len())
	s.False(s.wf.Visited(StepAttachments))
}

func (s *AssemblerSuite) TestSubmitBusinessRejection() {
	s.addPerson("Omar Khalid")
	before := s.wf.Request()
	sub := &stubSubmitter{err: fmt.Errorf("submit permit: %w", &types.RejectionError{Reason: "Duplicate location"})}

	_, err := s.wf.Submit(s.ctx, sub)

	var serr *SubmitError
	s.Require().ErrorAs(err, &serr)
	s.Equal(FailureRejected, serr.Kind)
	s.Equal("Duplicate location", serr.Reason)

	s.Equal(before, s.wf.Request())
	s.Equal(StepAttachments, s.wf.Current())
	s.Len(s.wf.Attachments().Payloads(0), 2)
	s.Equal(1, s.wf.Partners().Len())

	// Retry without re-entering anything.
	sub.err = nil
	_, err = s.wf.Submit(s.ctx, sub)
	s.Require().NoError(err)
	s.Equal(2, sub.calls)
}

func (s *AssemblerSuite) TestSubmitTransportFailure() {
	tests := []struct {
		name string
		err  error
	}{
		{name: "network error", err: errors.New("dial tcp: connection refused")},
		{name: "rejection without reason", err: &types.RejectionError{Reason: "  "}},
		{name: "deadline", err: context.DeadlineExceeded},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.wf.Submit(s.ctx, &stubSubmitter{err: tt.err})

			var serr *SubmitError
			s.Require().ErrorAs(err, &serr)
			s.Equal(FailureUnavailable, serr.Kind)
			s.Empty(serr.Reason)
			s.ErrorIs(err, tt.err)
			s.Len(s.wf.Attachments().Payloads(0), 2)
		})
	}
}
