package workflow

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"charityportal/pkg/types"
)

// =============================================================================
// Step Navigation Test Suite
// =============================================================================

type StepsSuite struct {
	suite.Suite
	wf *Workflow
}

func TestStepsSuite(t *testing.T) {
	suite.Run(t, new(StepsSuite))
}

func (s *StepsSuite) SetupTest() {
	s.wf = New("user-1", testOptions(s.T()))
}

func (s *StepsSuite) TestInitialState() {
	s.Equal(StepMainInfo, s.wf.Current())
	s.True(s.wf.Visited(StepMainInfo))
	for _, step := range Steps()[1:] {
		s.False(s.wf.Visited(step), step.String())
	}
}

// =============================================================================
// Next
// =============================================================================

func (s *StepsSuite) TestNext() {
	s.Run("invalid step refuses with one violation per condition", func() {
		step, err := s.wf.Next()

		var verr *ValidationError
		s.Require().ErrorAs(err, &verr)
		s.Equal(StepMainInfo, step)
		s.Equal(StepMainInfo, s.wf.Current())
		s.ElementsMatch([]string{
			"location_type_id:required",
			"region_id:required",
			"street:required",
			"coordinates:required",
		}, codes(verr.Violations))
		s.Equal([]Step{StepMainInfo}, verr.Steps())
	})

	s.Run("valid step advances and marks the next visited", func() {
		fillRequest(s.T(), s.wf)

		step, err := s.wf.Next()
		s.Require().NoError(err)
		s.Equal(StepSchedule, step)
		s.True(s.wf.Visited(StepSchedule))
	})

	s.Run("last step has no next", func() {
		s.Require().NoError(s.wf.GoTo(StepAttachments))

		_, err := s.wf.Next()
		s.ErrorIs(err, ErrLastStep)
	})
}

func (s *StepsSuite) TestNextSucceedsIffValid() {
	fillRequest(s.T(), s.wf)

	for _, step := range Steps()[:StepCount-1] {
		s.Require().NoError(s.wf.GoTo(step))
		valid := s.wf.IsValid(step)

		_, err := s.wf.Next()
		s.Equal(valid, err == nil, step.String())
	}

	s.Run("a field cleared elsewhere makes next fail", func() {
		s.Require().NoError(s.wf.ApplyFields(types.PermitFieldsInput{EndDate: ptr("2025-01-10")}))
		s.Require().NoError(s.wf.GoTo(StepSchedule))

		s.False(s.wf.IsValid(StepSchedule))
		_, err := s.wf.Next()
		s.Error(err)
		s.Equal(StepSchedule, s.wf.Current())
	})
}

// =============================================================================
// Previous and GoTo
// =============================================================================

func (s *StepsSuite) TestPrevious() {
	s.Run("first step has no previous", func() {
		_, err := s.wf.Previous()
		s.ErrorIs(err, ErrFirstStep)
		s.Equal(StepMainInfo, s.wf.Current())
	})

	s.Run("retreats without checking validity", func() {
		s.Require().NoError(s.wf.GoTo(StepSupervisor))

		step, err := s.wf.Previous()
		s.Require().NoError(err)
		s.Equal(StepSchedule, step)
	})
}

func (s *StepsSuite) TestGoTo() {
	s.Run("jumps unconditionally and marks visited", func() {
		s.Require().NoError(s.wf.GoTo(StepPartners))
		s.Equal(StepPartners, s.wf.Current())
		s.True(s.wf.Visited(StepPartners))
		s.False(s.wf.Visited(StepSupervisor))
	})

	s.Run("rejects unknown steps", func() {
		s.ErrorIs(s.wf.GoTo(Step(0)), ErrUnknownStep)
		s.ErrorIs(s.wf.GoTo(Step(StepCount+1)), ErrUnknownStep)
	})
}

func (s *StepsSuite) TestComplete() {
	s.False(s.wf.Complete(StepMainInfo))

	fillRequest(s.T(), s.wf)
	s.True(s.wf.Complete(StepMainInfo))

	_, err := s.wf.Next()
	s.Require().NoError(err)

	// Passed earlier, now invalid: still shown complete.
	s.wf.ClearCoordinate()
	s.False(s.wf.IsValid(StepMainInfo))
	s.True(s.wf.Complete(StepMainInfo))

	// Visited by a jump but never passed.
	s.Require().NoError(s.wf.ApplyFields(types.PermitFieldsInput{SupervisorName: ptr("")}))
	s.Require().NoError(s.wf.GoTo(StepSupervisor))
	s.False(s.wf.Complete(StepSupervisor))
}

func TestParseStep(t *testing.T) {
	tests := []struct {
		raw     string
		want    Step
		wantErr bool
	}{
		{raw: "1", want: StepMainInfo},
		{raw: "5", want: StepAttachments},
		{raw: "partners", want: StepPartners},
		{raw: "schedule", want: StepSchedule},
		{raw: "0", wantErr: true},
		{raw: "6", wantErr: true},
		{raw: "review", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseStep(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseStep(%q) expected error", tt.raw)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("ParseStep(%q) = %v, %v; want %v", tt.raw, got, err, tt.want)
			}
		})
	}
}
