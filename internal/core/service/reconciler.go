package service

import (
	"context"
	"errors"

	"github.com/dmaia/balanco/internal/core/domain"
	"github.com/dmaia/balanco/internal/port"
)

// Reconciler computes which products still disagree with their expected
// balance. A product is a pending divergence when its summed counted
// quantity differs from the expected balance and no count for it has
// been accepted as reconciled by a supervisor.
type Reconciler struct {
	sectors  port.SectorRepository
	counts   port.CountRepository
	products port.ProductRepository
}

func NewReconciler(sectors port.SectorRepository, counts port.CountRepository, products port.ProductRepository) *Reconciler {
	return &Reconciler{sectors: sectors, counts: counts, products: products}
}

// PendingDivergences prefers the gateway's single-pass aggregate and
// falls back to fetching the raw rows when the gateway cannot compute
// it. Both paths produce identical results.
func (r *Reconciler) PendingDivergences(ctx context.Context, inventoryID int64) (int, error) {
	n, err := r.counts.AggregatePendingDivergences(ctx, inventoryID)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, port.ErrAggregateUnsupported) {
		return 0, err
	}
	return r.pendingDivergencesFallback(ctx, inventoryID)
}

func (r *Reconciler) pendingDivergencesFallback(ctx context.Context, inventoryID int64) (int, error) {
	sectors, err := r.sectors.ListSectors(ctx, inventoryID)
	if err != nil {
		return 0, err
	}
	sectorIDs := make([]int64, len(sectors))
	for i, s := range sectors {
		sectorIDs[i] = s.ID
	}

	counts, err := r.counts.ListCountsBySectors(ctx, sectorIDs)
	if err != nil {
		return 0, err
	}
	products, err := r.products.ListProducts(ctx, inventoryID)
	if err != nil {
		return 0, err
	}

	sums := make(map[int64]int64)
	reconciled := make(map[int64]bool)
	for _, c := range counts {
		sums[c.ProductID] += c.Quantity
		reconciled[c.ProductID] = reconciled[c.ProductID] || c.Reconciled
	}

	pending := 0
	for _, p := range products {
		if sums[p.ID] != p.ExpectedBalance && !reconciled[p.ID] {
			pending++
		}
	}
	return pending, nil
}

// Refresh recomputes every product's divergent flag from the ledger.
func (r *Reconciler) Refresh(ctx context.Context, inventoryID int64) error {
	return r.products.RefreshDivergentFlags(ctx, inventoryID)
}

// Reconcile accepts a mismatch as resolved by flagging one of the
// product's counts.
func (r *Reconciler) Reconcile(ctx context.Context, countID string) error {
	if countID == "" {
		return domain.Fatal("MISSING_COUNT", "reconcile requires a count id")
	}
	return r.counts.MarkReconciled(ctx, countID)
}
