package workflow

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"charityportal/pkg/types"
)

// Options is the configuration shared by every workflow of the process.
type Options struct {
	// Requirements are the top-level attachment requirements.
	Requirements  []types.AttachmentRequirement
	Policy        *PartnerPolicy
	RequestRules  FileRules
	PartnerRules  FileRules
	MobilePattern *regexp.Regexp
	CountryCode   string
	Now           func() time.Time
}

// NewOptions builds workflow options from configuration and the active
// requirement catalog. Configuration errors fail here, before any session
// is opened.
func NewOptions(cfg *types.Config, catalog []types.AttachmentRequirement) (*Options, error) {
	mobile, err := regexp.Compile(cfg.MobilePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid mobile pattern %q: %w", cfg.MobilePattern, err)
	}

	policy, err := NewPartnerPolicy(cfg.PartnerRequirements, cfg.PartnerLicenseTypes, catalog)
	if err != nil {
		return nil, err
	}

	requirements := make([]types.AttachmentRequirement, 0, len(catalog))
	for _, req := range catalog {
		if req.Scope == types.RequirementScopeRequest {
			requirements = append(requirements, req)
		}
	}

	return &Options{
		Requirements:  requirements,
		Policy:        policy,
		RequestRules:  RequestFileRules(cfg.RequestAttachmentMaxBytes),
		PartnerRules:  PartnerFileRules(cfg.PartnerAttachmentMaxBytes),
		MobilePattern: mobile,
		CountryCode:   cfg.MobileCountryCode,
		Now:           time.Now,
	}, nil
}

// Workflow is the state tree of one permit request being composed. It is
// not safe for concurrent use; a Session serializes access to it.
type Workflow struct {
	opts        *Options
	request     types.PermitRequest
	attachments *Slots
	partners    *Partners
	nav         navigator
}

func New(ownerID string, opts *Options) *Workflow {
	w := &Workflow{opts: opts}
	w.init(ownerID)
	return w
}

func (w *Workflow) init(ownerID string) {
	w.request = types.PermitRequest{OwnerID: ownerID}
	w.attachments = NewSlots(w.opts.Requirements, w.opts.RequestRules)
	w.partners = NewPartners(w.opts.Policy, w.opts.PartnerRules, w.opts.MobilePattern, w.opts.Now)
	w.nav = newNavigator()
}

// Request returns a copy of the primary record.
func (w *Workflow) Request() types.PermitRequest {
	r := w.request
	if r.Coordinate != nil {
		c := *r.Coordinate
		r.Coordinate = &c
	}
	return r
}

// ApplyFields applies a partial update of the primary record. Dates are
// parsed before anything is written, so a malformed date leaves the record
// untouched.
func (w *Workflow) ApplyFields(in types.PermitFieldsInput) error {
	var violations []Violation

	var start, end *time.Time
	if in.StartDate != nil {
		t, err := parseDate(*in.StartDate)
		if err != nil {
			violations = append(violations, violation(StepSchedule, FieldStartDate, CodeInvalidFormat))
		}
		start = t
	}
	if in.EndDate != nil {
		t, err := parseDate(*in.EndDate)
		if err != nil {
			violations = append(violations, violation(StepSchedule, FieldEndDate, CodeInvalidFormat))
		}
		end = t
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}

	r := &w.request
	if in.LocationTypeID != nil {
		r.LocationTypeID = *in.LocationTypeID
	}
	if in.RegionID != nil {
		r.RegionID = *in.RegionID
	}
	setString(&r.Street, in.Street)
	setString(&r.Ground, in.Ground)
	setString(&r.Address, in.Address)
	setString(&r.Notes, in.Notes)
	setString(&r.SupervisorName, in.SupervisorName)
	setString(&r.SupervisorJobTitle, in.SupervisorJobTitle)
	setString(&r.SupervisorMobile, in.SupervisorMobile)
	if in.StartDate != nil {
		r.StartDate = start
	}
	if in.EndDate != nil {
		r.EndDate = end
	}

	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// SelectCoordinate stores the position reported by the map.
func (w *Workflow) SelectCoordinate(c types.Coordinate) error {
	if !validCoordinate(c) {
		return fmt.Errorf("%w: %v/%v", ErrInvalidCoordinate, c.Lat, c.Lng)
	}
	w.request.Coordinate = &c
	return nil
}

// SelectEncodedCoordinate stores a position in its persisted "<lat>/<lng>" form.
func (w *Workflow) SelectEncodedCoordinate(s string) error {
	c, err := DecodeCoordinate(s)
	if err != nil {
		return err
	}
	return w.SelectCoordinate(c)
}

func (w *Workflow) ClearCoordinate() {
	w.request.Coordinate = nil
}

// PrefillCoordinate sets c only when no coordinate has been selected yet.
// It reports whether c was applied.
func (w *Workflow) PrefillCoordinate(c types.Coordinate) bool {
	if w.request.Coordinate != nil || !validCoordinate(c) {
		return false
	}
	w.request.Coordinate = &c
	return true
}

// Attachments returns the top-level attachment slots.
func (w *Workflow) Attachments() *Slots {
	return w.attachments
}

func (w *Workflow) Partners() *Partners {
	return w.partners
}

// reset frees every payload and returns the workflow to step one.
func (w *Workflow) reset() {
	w.attachments.reset()
	w.partners.reset()
	w.init(w.request.OwnerID)
}
