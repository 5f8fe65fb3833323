package workflow

import (
	"fmt"
	"strconv"
	"strings"

	"charityportal/pkg/types"
)

// PartnerPolicy holds the business configuration for partners: which
// attachment requirements each partner type carries, and which types must
// provide license details.
type PartnerPolicy struct {
	requirements map[types.PartnerType][]types.AttachmentRequirement
	license      map[types.PartnerType]bool
}

// NewPartnerPolicy builds the policy from the configured mapping
// (partner type -> "id|id|...") and the requirement catalog. Every partner
// type must be mapped, possibly to an empty list, and every referenced id
// must be a partner-scoped requirement of the catalog.
func NewPartnerPolicy(table map[string]string, licenseTypes []string, catalog []types.AttachmentRequirement) (*PartnerPolicy, error) {
	byID := make(map[int64]types.AttachmentRequirement, len(catalog))
	for _, req := range catalog {
		byID[req.ID] = req
	}

	policy := &PartnerPolicy{
		requirements: make(map[types.PartnerType][]types.AttachmentRequirement, len(types.PartnerTypes)),
		license:      make(map[types.PartnerType]bool, len(licenseTypes)),
	}

	for key, value := range table {
		partnerType := types.PartnerType(strings.ToLower(strings.TrimSpace(key)))
		if !partnerType.Valid() {
			return nil, fmt.Errorf("partner requirements: %w %q", ErrUnknownPartnerType, key)
		}

		if _, exists := policy.requirements[partnerType]; exists {
			return nil, fmt.Errorf("partner requirements: partner type %q mapped twice", partnerType)
		}

		reqs := make([]types.AttachmentRequirement, 0)
		for _, raw := range strings.Split(value, "|") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}

			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("partner requirements: %s: invalid requirement id %q", partnerType, raw)
			}

			req, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("partner requirements: %s: requirement %d is not configured", partnerType, id)
			}

			if req.Scope != types.RequirementScopePartner {
				return nil, fmt.Errorf("partner requirements: %s: requirement %d is not a partner requirement", partnerType, id)
			}

			reqs = append(reqs, req)
		}

		policy.requirements[partnerType] = reqs
	}

	for _, partnerType := range types.PartnerTypes {
		if _, ok := policy.requirements[partnerType]; !ok {
			return nil, fmt.Errorf("partner requirements: partner type %q is not mapped", partnerType)
		}
	}

	for _, raw := range licenseTypes {
		partnerType := types.PartnerType(strings.ToLower(strings.TrimSpace(raw)))
		if partnerType == "" {
			continue
		}
		if !partnerType.Valid() {
			return nil, fmt.Errorf("partner license types: %w %q", ErrUnknownPartnerType, raw)
		}
		policy.license[partnerType] = true
	}

	return policy, nil
}

func (p *PartnerPolicy) Requirements(partnerType types.PartnerType) []types.AttachmentRequirement {
	return append([]types.AttachmentRequirement(nil), p.requirements[partnerType]...)
}

func (p *PartnerPolicy) LicenseRequired(partnerType types.PartnerType) bool {
	return p.license[partnerType]
}
