package workflow

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"charityportal/pkg/types"
)

const dateLayout = "2006-01-02"

const supervisorNameMinLength = 2

// Violation codes. Each one maps to one localized message.
const (
	CodeRequired           = "required"
	CodeTooShort           = "too_short"
	CodeInvalidFormat      = "invalid_format"
	CodeDateOrder          = "date_order"
	CodeAttachmentRequired = "attachment_required"
	CodeExpired            = "expired"
	CodeInvalid            = "invalid"
)

const (
	FieldLocationType     = "location_type_id"
	FieldRegion           = "region_id"
	FieldStreet           = "street"
	FieldCoordinate       = "coordinates"
	FieldStartDate        = "start_date"
	FieldEndDate          = "end_date"
	FieldSupervisorName   = "supervisor_name"
	FieldSupervisorMobile = "supervisor_mobile"

	FieldPartnerName   = "partner.name"
	FieldPartnerType   = "partner.type"
	FieldLicenseIssuer = "partner.license_issuer"
	FieldLicenseNumber = "partner.license_number"
	FieldLicenseExpiry = "partner.license_expiry"
	FieldPartnerPhone  = "partner.phone"
	FieldPartnerEmail  = "partner.email"
)

// Violation is one unmet condition. Field names the input or the
// attachment it is attributed to; Label carries the requirement name for
// attachment violations.
type Violation struct {
	Step  Step   `json:"step"`
	Field string `json:"field"`
	Code  string `json:"code"`
	Label string `json:"label,omitempty"`
}

func (v Violation) String() string {
	if v.Label != "" {
		return fmt.Sprintf("%s: %s %s (%s)", v.Step, v.Field, v.Code, v.Label)
	}
	return fmt.Sprintf("%s: %s %s", v.Step, v.Field, v.Code)
}

func violation(step Step, field, code string) Violation {
	return Violation{Step: step, Field: field, Code: code}
}

func attachmentViolation(step Step, field string, req types.AttachmentRequirement) Violation {
	return Violation{Step: step, Field: field, Code: CodeAttachmentRequired, Label: req.Name}
}

func attachmentField(requirementID int64) string {
	return fmt.Sprintf("attachment:%d", requirementID)
}

func partnerAttachmentField(requirementID int64) string {
	return "partner." + attachmentField(requirementID)
}

// parseDate reads a calendar day. An empty string yields nil.
func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", raw, err)
	}

	return &t, nil
}

func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Validate evaluates the predicate of step s against the current state and
// returns every violation found. It never mutates the workflow.
func (w *Workflow) Validate(s Step) []Violation {
	switch s {
	case StepMainInfo:
		return w.validateMainInfo()
	case StepSchedule:
		return w.validateSchedule()
	case StepSupervisor:
		return w.validateSupervisor()
	case StepPartners:
		return w.validatePartners()
	case StepAttachments:
		return w.validateAttachments()
	}
	return []Violation{violation(s, "step", CodeInvalid)}
}

func (w *Workflow) IsValid(s Step) bool {
	return len(w.Validate(s)) == 0
}

// ValidateAll evaluates every step in order.
func (w *Workflow) ValidateAll() []Violation {
	var out []Violation
	for _, s := range Steps() {
		out = append(out, w.Validate(s)...)
	}
	return out
}

func (w *Workflow) validateMainInfo() []Violation {
	var out []Violation
	r := w.request

	if r.LocationTypeID <= 0 {
		out = append(out, violation(StepMainInfo, FieldLocationType, CodeRequired))
	}
	if r.RegionID <= 0 {
		out = append(out, violation(StepMainInfo, FieldRegion, CodeRequired))
	}
	if strings.TrimSpace(r.Street) == "" {
		out = append(out, violation(StepMainInfo, FieldStreet, CodeRequired))
	}
	if r.Coordinate == nil {
		out = append(out, violation(StepMainInfo, FieldCoordinate, CodeRequired))
	}

	return out
}

func (w *Workflow) validateSchedule() []Violation {
	var out []Violation
	r := w.request

	if r.StartDate == nil {
		out = append(out, violation(StepSchedule, FieldStartDate, CodeRequired))
	}
	if r.EndDate == nil {
		out = append(out, violation(StepSchedule, FieldEndDate, CodeRequired))
	}
	if r.StartDate != nil && r.EndDate != nil && !day(*r.EndDate).After(day(*r.StartDate)) {
		out = append(out, violation(StepSchedule, FieldEndDate, CodeDateOrder))
	}

	return out
}

func (w *Workflow) validateSupervisor() []Violation {
	var out []Violation
	r := w.request

	name := strings.TrimSpace(r.SupervisorName)
	switch {
	case name == "":
		out = append(out, violation(StepSupervisor, FieldSupervisorName, CodeRequired))
	case utf8.RuneCountInString(name) < supervisorNameMinLength:
		out = append(out, violation(StepSupervisor, FieldSupervisorName, CodeTooShort))
	}

	mobile := strings.TrimSpace(r.SupervisorMobile)
	switch {
	case mobile == "":
		out = append(out, violation(StepSupervisor, FieldSupervisorMobile, CodeRequired))
	case !w.opts.MobilePattern.MatchString(mobile):
		out = append(out, violation(StepSupervisor, FieldSupervisorMobile, CodeInvalidFormat))
	}

	return out
}

// validatePartners is satisfied until the user engages with the step.
// Afterwards a shown attachment panel must be complete and every captured
// partner must still carry its mandatory attachments.
func (w *Workflow) validatePartners() []Violation {
	if !w.Visited(StepPartners) && w.partners.Len() == 0 {
		return nil
	}

	var out []Violation
	if w.partners.PanelShown() {
		for _, req := range w.partners.draft.slots.Missing() {
			out = append(out, attachmentViolation(StepPartners, partnerAttachmentField(req.ID), req))
		}
	}

	return append(out, w.partners.incomplete()...)
}

func (w *Workflow) validateAttachments() []Violation {
	var out []Violation
	for _, req := range w.attachments.Missing() {
		out = append(out, attachmentViolation(StepAttachments, attachmentField(req.ID), req))
	}
	return out
}
