package port

import (
	"context"
	"errors"
	"time"

	"github.com/dmaia/balanco/internal/core/domain"
)

// ErrAggregateUnsupported is returned by gateways that cannot compute
// the divergence aggregate in a single pass; the reconciler then falls
// back to fetching the raw rows and aggregating in memory.
var ErrAggregateUnsupported = errors.New("aggregate query not supported")

type SectorRepository interface {
	// GetSector returns nil when the sector does not exist.
	GetSector(ctx context.Context, id int64) (*domain.Sector, error)

	ListSectors(ctx context.Context, inventoryID int64) ([]domain.Sector, error)

	// SectorHeldBy returns the sector currently held by the operator in
	// the inventory, nil when none.
	SectorHeldBy(ctx context.Context, inventoryID int64, operatorID string) (*domain.Sector, error)

	// ClaimSector executes the atomic conditional claim: counting+holder
	// is written only when the sector is not closed and either free or
	// already held by the same operator. Returns false when the
	// condition did not hold.
	ClaimSector(ctx context.Context, sectorID int64, operatorID string) (bool, error)

	// ReleaseSector puts the sector back to pending when held by the
	// operator. Returns false when the operator was not the holder.
	ReleaseSector(ctx context.Context, sectorID int64, operatorID string) (bool, error)

	// FinalizeSector transitions pending|counting to closed. Returns
	// false when the sector was already closed.
	FinalizeSector(ctx context.Context, sectorID int64) (bool, error)
}

type CountRepository interface {
	CreateCount(ctx context.Context, count domain.Count) error

	ListCountsBySectors(ctx context.Context, sectorIDs []int64) ([]domain.Count, error)

	// MarkReconciled flags a count so its product's divergence is
	// treated as resolved.
	MarkReconciled(ctx context.Context, countID string) error

	// AggregatePendingDivergences computes the pending-divergence count
	// server-side in one pass. May return ErrAggregateUnsupported.
	AggregatePendingDivergences(ctx context.Context, inventoryID int64) (int, error)

	SectorStats(ctx context.Context, inventoryID int64) ([]domain.SectorStats, error)

	Timeline(ctx context.Context, inventoryID int64, since time.Time) ([]domain.TimelineBucket, error)

	// ActivityStats reports distinct operators and sectors with counts
	// recorded since the given instant.
	ActivityStats(ctx context.Context, inventoryID int64, since time.Time) (operators, sectors int, err error)
}

type ProductRepository interface {
	ListProducts(ctx context.Context, inventoryID int64) ([]domain.Product, error)

	// RefreshDivergentFlags recomputes every product's divergent flag
	// from the count ledger.
	RefreshDivergentFlags(ctx context.Context, inventoryID int64) error
}

type InventoryRepository interface {
	// GetInventory returns nil when the inventory does not exist.
	GetInventory(ctx context.Context, id int64) (*domain.Inventory, error)

	// CloseInventory atomically flips active to false and writes the
	// closing fields. Returns false when the inventory was not active.
	CloseInventory(ctx context.Context, id int64, closedBy, justification string, at time.Time) (bool, error)
}
