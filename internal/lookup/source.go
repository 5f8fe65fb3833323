package lookup

import (
	"context"
	"fmt"

	"charityportal/pkg/types"
)

// Source provides the dropdown data of the first workflow step and the
// attachment requirement catalog.
type Source interface {
	LocationTypes(ctx context.Context) ([]types.Option, error)
	Regions(ctx context.Context) ([]types.Option, error)
	Requirements(ctx context.Context) ([]types.AttachmentRequirement, error)
}

type entryLister interface {
	ActiveEntries(ctx context.Context) ([]*types.LookupEntry, error)
}

type requirementLister interface {
	ActiveRequirements(ctx context.Context) ([]*types.AttachmentRequirement, error)
}

// StoreSource reads lookups from Postgres.
type StoreSource struct {
	locationTypes entryLister
	regions       entryLister
	requirements  requirementLister
}

func NewStoreSource(locationTypes, regions entryLister, requirements requirementLister) *StoreSource {
	return &StoreSource{
		locationTypes: locationTypes,
		regions:       regions,
		requirements:  requirements,
	}
}

func (s *StoreSource) LocationTypes(ctx context.Context) ([]types.Option, error) {
	entries, err := s.locationTypes.ActiveEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load location types: %w", err)
	}
	return options(entries), nil
}

func (s *StoreSource) Regions(ctx context.Context) ([]types.Option, error) {
	entries, err := s.regions.ActiveEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load regions: %w", err)
	}
	return options(entries), nil
}

func (s *StoreSource) Requirements(ctx context.Context) ([]types.AttachmentRequirement, error) {
	requirements, err := s.requirements.ActiveRequirements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load attachment requirements: %w", err)
	}

	out := make([]types.AttachmentRequirement, 0, len(requirements))
	for _, req := range requirements {
		out = append(out, *req)
	}
	return out, nil
}

func options(entries []*types.LookupEntry) []types.Option {
	out := make([]types.Option, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Option())
	}
	return out
}
