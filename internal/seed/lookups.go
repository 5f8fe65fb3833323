package seed

import (
	"context"
	"fmt"

	"charityportal/internal/utils"
	"charityportal/pkg/types"
)

type LookupStore interface {
	AllEntries(ctx context.Context) ([]*types.LookupEntry, error)
	UpsertEntry(ctx context.Context, entry *types.LookupEntry) error
	DeleteEntry(ctx context.Context, id int64) error
}

// LocationTypes is the source of truth for the location type dropdown.
// Ids are stable; removing an entry deletes it on the next sync.
var LocationTypes = []types.LookupEntry{
	{ID: 1, Label: "Mosque", DisplayOrder: 1, IsActive: true},
	{ID: 2, Label: "Shopping mall", SecondaryLabel: utils.StringPtr("Indoor and outdoor areas"), DisplayOrder: 2, IsActive: true},
	{ID: 3, Label: "Residential area", DisplayOrder: 3, IsActive: true},
	{ID: 4, Label: "Labour accommodation", DisplayOrder: 4, IsActive: true},
	{ID: 5, Label: "Public park", DisplayOrder: 5, IsActive: true},
	{ID: 6, Label: "Other", DisplayOrder: 6, IsActive: true},
}

var Regions = []types.LookupEntry{
	{ID: 1, Label: "Deira", DisplayOrder: 1, IsActive: true},
	{ID: 2, Label: "Bur Dubai", DisplayOrder: 2, IsActive: true},
	{ID: 3, Label: "Jumeirah", DisplayOrder: 3, IsActive: true},
	{ID: 4, Label: "Al Barsha", DisplayOrder: 4, IsActive: true},
	{ID: 5, Label: "Al Qusais", DisplayOrder: 5, IsActive: true},
	{ID: 6, Label: "Hatta", SecondaryLabel: utils.StringPtr("Outside the urban area"), DisplayOrder: 6, IsActive: true},
}

func SeedLocationTypes(ctx context.Context, repo LookupStore) error {
	return syncEntries(ctx, "location type", repo, LocationTypes)
}

func SeedRegions(ctx context.Context, repo LookupStore) error {
	return syncEntries(ctx, "region", repo, Regions)
}

// syncEntries upserts every seed entry and deletes stored entries that are
// no longer listed.
func syncEntries(ctx context.Context, kind string, repo LookupStore, entries []types.LookupEntry) error {
	fmt.Printf("Starting %s sync...\n", kind)
	fmt.Printf("  Seed contains %d entries\n", len(entries))

	seedIDs := make(map[int64]bool, len(entries))
	for _, entry := range entries {
		seedIDs[entry.ID] = true
	}

	existing, err := repo.AllEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch existing %s entries: %w", kind, err)
	}
	fmt.Printf("  Database contains %d entries\n", len(existing))

	deletedCount := 0
	for _, entry := range existing {
		if seedIDs[entry.ID] {
			continue
		}
		fmt.Printf("  Deleting %s: %s (id: %d)\n", kind, entry.Label, entry.ID)
		if err := repo.DeleteEntry(ctx, entry.ID); err != nil {
			return fmt.Errorf("failed to delete %s %d: %w", kind, entry.ID, err)
		}
		deletedCount++
	}

	for _, entry := range entries {
		if err := repo.UpsertEntry(ctx, &entry); err != nil {
			return fmt.Errorf("failed to upsert %s %d: %w", kind, entry.ID, err)
		}
	}

	fmt.Printf("  Sync complete: %d upserted, %d deleted\n", len(entries), deletedCount)
	return nil
}
