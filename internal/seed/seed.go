package seed

import (
	"context"
	"fmt"

	"github.com/blemapper/blemapper-core/internal/attribute"
)

// Apply inserts the demonstration catalog, skipping records whose UUID
// already exists. The whole operation runs in one transaction; services are
// ordered before characteristics so parent lookups succeed.
//
// Returns the number of records created and skipped.
func Apply(ctx context.Context, repo attribute.Repository) (created, skipped int, err error) {
	created, skipped, err = repo.CreateBatchSkipExisting(ctx, Catalog())
	if err != nil {
		return 0, 0, fmt.Errorf("seeding sample data: %w", err)
	}
	return created, skipped, nil
}

// Clear removes every attribute whose vendor is in the seed allow-list.
// User records under other vendors survive; any that sit under a seed
// service are detached rather than deleted. Returns the number of rows
// removed.
func Clear(ctx context.Context, repo attribute.Repository) (int, error) {
	removed, err := repo.DeleteByVendors(ctx, Vendors())
	if err != nil {
		return 0, fmt.Errorf("clearing sample data: %w", err)
	}
	return removed, nil
}
