package seed

import (
	"context"
	"fmt"

	"charityportal/pkg/types"
)

type RequirementStore interface {
	AllRequirements(ctx context.Context) ([]*types.AttachmentRequirement, error)
	UpsertRequirement(ctx context.Context, requirement *types.AttachmentRequirement) error
	DeleteRequirement(ctx context.Context, id int64) error
}

// Requirements is the attachment requirement table. Partner requirement ids
// are referenced by PARTNER_REQUIREMENTS; changing them means changing that
// mapping too.
var Requirements = []types.AttachmentRequirement{
	{ID: 1, Name: "Identity document", Mandatory: true, Scope: types.RequirementScopePartner, DisplayOrder: 1, IsActive: true},
	{ID: 2, Name: "Trade license", Mandatory: true, Scope: types.RequirementScopePartner, DisplayOrder: 2, IsActive: true},
	{ID: 3, Name: "Authorization letter", Mandatory: false, Scope: types.RequirementScopePartner, DisplayOrder: 3, IsActive: true},
	{ID: 10, Name: "Site plan", Mandatory: true, Scope: types.RequirementScopeRequest, DisplayOrder: 10, IsActive: true},
	{ID: 11, Name: "Site owner approval", Mandatory: true, Scope: types.RequirementScopeRequest, DisplayOrder: 11, IsActive: true},
	{ID: 12, Name: "Other supporting document", Mandatory: false, Scope: types.RequirementScopeRequest, DisplayOrder: 12, IsActive: true},
}

func SeedRequirements(ctx context.Context, repo RequirementStore) error {
	fmt.Println("Starting attachment requirement sync...")

	seedIDs := make(map[int64]bool, len(Requirements))
	for _, req := range Requirements {
		seedIDs[req.ID] = true
	}

	existing, err := repo.AllRequirements(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch existing requirements: %w", err)
	}

	deletedCount := 0
	for _, req := range existing {
		if seedIDs[req.ID] {
			continue
		}
		fmt.Printf("  Deleting requirement: %s (id: %d)\n", req.Name, req.ID)
		if err := repo.DeleteRequirement(ctx, req.ID); err != nil {
			return fmt.Errorf("failed to delete requirement %d: %w", req.ID, err)
		}
		deletedCount++
	}

	for _, req := range Requirements {
		fmt.Printf("  Upserting requirement: %s (scope: %s)\n", req.Name, req.Scope)
		if err := repo.UpsertRequirement(ctx, &req); err != nil {
			return fmt.Errorf("failed to upsert requirement %d: %w", req.ID, err)
		}
	}

	fmt.Printf("  Sync complete: %d upserted, %d deleted\n", len(Requirements), deletedCount)
	return nil
}
