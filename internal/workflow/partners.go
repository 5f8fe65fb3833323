package workflow

import (
	"fmt"
	"net/mail"
	"regexp"
	"slices"
	"strings"
	"time"

	"charityportal/pkg/types"
)

type partnerDraft struct {
	partnerType types.PartnerType
	slots       *Slots
}

// Partners is the append-only list of partners of one request plus the
// draft currently being composed.
type Partners struct {
	policy *PartnerPolicy
	rules  FileRules
	mobile *regexp.Regexp
	now    func() time.Time

	list  []types.Partner
	draft *partnerDraft
}

func NewPartners(policy *PartnerPolicy, rules FileRules, mobile *regexp.Regexp, now func() time.Time) *Partners {
	if now == nil {
		now = time.Now
	}
	return &Partners{
		policy: policy,
		rules:  rules,
		mobile: mobile,
		now:    now,
		list:   make([]types.Partner, 0),
	}
}

// StageType sets the type of the partner being composed and opens the
// attachment slots that type requires. Restaging the same type keeps the
// files already selected.
func (p *Partners) StageType(partnerType types.PartnerType) error {
	if !partnerType.Valid() {
		return fmt.Errorf("%w %q", ErrUnknownPartnerType, partnerType)
	}

	if p.draft != nil && p.draft.partnerType == partnerType {
		return nil
	}

	p.ClearDraft()
	p.draft = &partnerDraft{
		partnerType: partnerType,
		slots:       NewSlots(p.policy.Requirements(partnerType), p.rules),
	}

	return nil
}

func (p *Partners) ClearDraft() {
	if p.draft != nil {
		p.draft.slots.reset()
	}
	p.draft = nil
}

func (p *Partners) Staged() (types.PartnerType, bool) {
	if p.draft == nil {
		return "", false
	}
	return p.draft.partnerType, true
}

func (p *Partners) DraftSlots() (*Slots, error) {
	if p.draft == nil {
		return nil, ErrNoPartnerDraft
	}
	return p.draft.slots, nil
}

// PanelShown reports whether the staged type has an attachment panel.
func (p *Partners) PanelShown() bool {
	return p.draft != nil && p.draft.slots.Len() > 0
}

// Add validates in against the staged draft and appends an immutable
// snapshot. Nothing changes when any condition is unmet.
func (p *Partners) Add(in types.PartnerInput) (types.Partner, error) {
	var violations []Violation

	name := strings.TrimSpace(in.Name)
	if name == "" {
		violations = append(violations, violation(StepPartners, FieldPartnerName, CodeRequired))
	}

	partnerType := types.PartnerType(strings.ToLower(strings.TrimSpace(in.Type)))
	switch {
	case partnerType == "":
		violations = append(violations, violation(StepPartners, FieldPartnerType, CodeRequired))
	case !partnerType.Valid():
		violations = append(violations, violation(StepPartners, FieldPartnerType, CodeInvalid))
	}

	licenseRequired := partnerType.Valid() && p.policy.LicenseRequired(partnerType)
	issuer := strings.TrimSpace(in.LicenseIssuer)
	number := strings.TrimSpace(in.LicenseNumber)
	if licenseRequired && issuer == "" {
		violations = append(violations, violation(StepPartners, FieldLicenseIssuer, CodeRequired))
	}
	if licenseRequired && number == "" {
		violations = append(violations, violation(StepPartners, FieldLicenseNumber, CodeRequired))
	}

	expiry, err := parseDate(in.LicenseExpiry)
	switch {
	case err != nil:
		violations = append(violations, violation(StepPartners, FieldLicenseExpiry, CodeInvalidFormat))
	case expiry == nil && licenseRequired:
		violations = append(violations, violation(StepPartners, FieldLicenseExpiry, CodeRequired))
	case expiry != nil && licenseRequired && expiry.Before(today(p.now())):
		violations = append(violations, violation(StepPartners, FieldLicenseExpiry, CodeExpired))
	}

	phone := strings.TrimSpace(in.Phone)
	if phone != "" && p.mobile != nil && !p.mobile.MatchString(phone) {
		violations = append(violations, violation(StepPartners, FieldPartnerPhone, CodeInvalidFormat))
	}

	email := strings.TrimSpace(in.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			violations = append(violations, violation(StepPartners, FieldPartnerEmail, CodeInvalidFormat))
		}
	}

	var attachments []types.AttachmentPayload
	if partnerType.Valid() {
		missing, payloads := p.draftAttachments(partnerType)
		for _, req := range missing {
			violations = append(violations, attachmentViolation(StepPartners, partnerAttachmentField(req.ID), req))
		}
		attachments = payloads
	}

	if len(violations) > 0 {
		return types.Partner{}, &ValidationError{Violations: violations}
	}

	partner := types.Partner{
		Name:          name,
		Type:          partnerType,
		LicenseIssuer: issuer,
		LicenseNumber: number,
		LicenseExpiry: expiry,
		Phone:         phone,
		Email:         email,
		Attachments:   attachments,
	}

	p.list = append(p.list, partner.Clone())
	p.ClearDraft()

	return partner, nil
}

// draftAttachments returns the unmet mandatory requirements for
// partnerType and the payloads of the staged draft. A type whose panel was
// never opened has all of its mandatory requirements missing.
func (p *Partners) draftAttachments(partnerType types.PartnerType) ([]types.AttachmentRequirement, []types.AttachmentPayload) {
	reqs := p.policy.Requirements(partnerType)
	if len(reqs) == 0 {
		return nil, nil
	}

	if p.draft == nil || p.draft.partnerType != partnerType {
		missing := make([]types.AttachmentRequirement, 0, len(reqs))
		for _, req := range reqs {
			if req.Mandatory {
				missing = append(missing, req)
			}
		}
		return missing, nil
	}

	return p.draft.slots.Missing(), p.draft.slots.Payloads(0)
}

func (p *Partners) Remove(index int) error {
	if index < 0 || index >= len(p.list) {
		return fmt.Errorf("%w: index %d", ErrPartnerNotFound, index)
	}

	p.list = slices.Delete(p.list, index, index+1)
	return nil
}

// List returns copies of the captured partners.
func (p *Partners) List() []types.Partner {
	out := make([]types.Partner, 0, len(p.list))
	for _, partner := range p.list {
		out = append(out, partner.Clone())
	}
	return out
}

func (p *Partners) Len() int {
	return len(p.list)
}

// incomplete reports mandatory requirements a captured partner lacks. The
// snapshot is checked against the current policy at submission time.
func (p *Partners) incomplete() []Violation {
	var out []Violation
	for i, partner := range p.list {
		have := make(map[int64]bool, len(partner.Attachments))
		for _, a := range partner.Attachments {
			if a.EncodedContent != "" {
				have[a.RequirementID] = true
			}
		}
		for _, req := range p.policy.Requirements(partner.Type) {
			if req.Mandatory && !have[req.ID] {
				field := fmt.Sprintf("partners[%d].%s", i, attachmentField(req.ID))
				out = append(out, attachmentViolation(StepPartners, field, req))
			}
		}
	}
	return out
}

func (p *Partners) reset() {
	p.ClearDraft()
	p.list = make([]types.Partner, 0)
}
