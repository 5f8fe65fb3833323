package lookup

import (
	"context"
	"fmt"
	"sync"

	"charityportal/internal/workflow"
	"charityportal/pkg/types"
)

// Catalog loads the attachment requirement table once per process and
// builds the workflow options from it. Location types and regions are read
// through on every call since they are edited independently.
type Catalog struct {
	source Source
	config *types.Config

	mu           sync.Mutex
	opts         *workflow.Options
	requirements []types.AttachmentRequirement
}

func NewCatalog(source Source, config *types.Config) *Catalog {
	return &Catalog{source: source, config: config}
}

// Options returns the validated workflow options, loading them on first use.
// A failed load is retried on the next call.
func (c *Catalog) Options(ctx context.Context) (*workflow.Options, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.opts != nil {
		return c.opts, nil
	}

	requirements, err := c.source.Requirements(ctx)
	if err != nil {
		return nil, err
	}

	opts, err := workflow.NewOptions(c.config, requirements)
	if err != nil {
		return nil, fmt.Errorf("invalid requirement catalog: %w", err)
	}

	c.opts = opts
	c.requirements = requirements

	return opts, nil
}

// Requirements returns the loaded requirement table.
func (c *Catalog) Requirements(ctx context.Context) ([]types.AttachmentRequirement, error) {
	if _, err := c.Options(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]types.AttachmentRequirement(nil), c.requirements...), nil
}

func (c *Catalog) Lookups(ctx context.Context) (*types.LookupsView, error) {
	locationTypes, err := c.source.LocationTypes(ctx)
	if err != nil {
		return nil, err
	}

	regions, err := c.source.Regions(ctx)
	if err != nil {
		return nil, err
	}

	return &types.LookupsView{
		LocationTypes: locationTypes,
		Regions:       regions,
		PartnerTypes:  types.PartnerTypes,
	}, nil
}
