package workflow

import (
	"fmt"
	"strconv"
)

type Step int

const (
	StepMainInfo Step = iota + 1
	StepSchedule
	StepSupervisor
	StepPartners
	StepAttachments
)

// StepCount is the number of steps; the last one is the only place a
// submission may start from.
const StepCount = int(StepAttachments)

var stepNames = map[Step]string{
	StepMainInfo:    "main_info",
	StepSchedule:    "schedule",
	StepSupervisor:  "supervisor",
	StepPartners:    "partners",
	StepAttachments: "attachments",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "step(" + strconv.Itoa(int(s)) + ")"
}

func (s Step) Valid() bool {
	return s >= StepMainInfo && s <= StepAttachments
}

// Steps returns every step in order.
func Steps() []Step {
	out := make([]Step, 0, StepCount)
	for s := StepMainInfo; s <= StepAttachments; s++ {
		out = append(out, s)
	}
	return out
}

// ParseStep accepts either the ordinal or the step name.
func ParseStep(raw string) (Step, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		if s := Step(n); s.Valid() {
			return s, nil
		}
		return 0, fmt.Errorf("%w: %s", ErrUnknownStep, raw)
	}

	for s, name := range stepNames {
		if name == raw {
			return s, nil
		}
	}

	return 0, fmt.Errorf("%w: %s", ErrUnknownStep, raw)
}

type navigator struct {
	current Step
	visited [StepCount + 1]bool
	passed  [StepCount + 1]bool
}

func newNavigator() navigator {
	n := navigator{current: StepMainInfo}
	n.visited[StepMainInfo] = true
	return n
}

func (w *Workflow) Current() Step {
	return w.nav.current
}

func (w *Workflow) Visited(s Step) bool {
	return s.Valid() && w.nav.visited[s]
}

// GoTo jumps to s without any validity check and marks it visited.
func (w *Workflow) GoTo(s Step) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownStep, int(s))
	}

	w.nav.current = s
	w.nav.visited[s] = true
	return nil
}

// Next advances one step when the current step is valid. On failure the
// returned *ValidationError carries one violation per unmet condition and
// the current step is unchanged.
func (w *Workflow) Next() (Step, error) {
	current := w.nav.current
	if int(current) >= StepCount {
		return current, ErrLastStep
	}

	if violations := w.Validate(current); len(violations) > 0 {
		return current, &ValidationError{Violations: violations}
	}

	w.nav.passed[current] = true
	w.nav.current = current + 1
	w.nav.visited[w.nav.current] = true

	return w.nav.current, nil
}

// Previous retreats one step unconditionally.
func (w *Workflow) Previous() (Step, error) {
	if w.nav.current <= StepMainInfo {
		return w.nav.current, ErrFirstStep
	}

	w.nav.current--
	return w.nav.current, nil
}

// Complete reports whether s is displayed as complete: valid now, or
// visited and found valid when it was left forward.
func (w *Workflow) Complete(s Step) bool {
	if !s.Valid() {
		return false
	}
	if w.IsValid(s) {
		return true
	}
	return w.nav.visited[s] && w.nav.passed[s]
}
