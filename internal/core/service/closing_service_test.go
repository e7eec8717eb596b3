package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dmaia/balanco/internal/core/domain"
)

func closingFixture(sectorStatus domain.SectorStatus, balanced bool) (*mockStore, *ClosingService) {
	store := newMockStore()
	store.addInventory(domain.Inventory{ID: 1, Active: true})
	store.addSector(domain.Sector{ID: 7, InventoryID: 1, Status: sectorStatus})
	store.addProduct(domain.Product{ID: 10, InventoryID: 1, ExpectedBalance: 5})
	if balanced {
		store.addCount(domain.Count{ID: "c1", SectorID: 7, ProductID: 10, Quantity: 5})
	}
	rec := NewReconciler(store, store, store)
	return store, NewClosingService(store, store, rec, store, store)
}

func TestClose_NonSupervisorBlocked(t *testing.T) {
	_, svc := closingFixture(domain.SectorPending, false)

	_, err := svc.Close(context.Background(), 1, "op-a", false, "")
	if !errors.Is(err, domain.ErrClosingBlocked) {
		t.Fatalf("expected ErrClosingBlocked, got: %v", err)
	}

	var blocked *domain.BlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected BlockedError, got: %T", err)
	}
	b := blocked.Blockers
	if len(b.SectorsNotOpened) != 1 || b.SectorsNotOpened[0] != 7 {
		t.Errorf("expected sector 7 in sectorsNotOpened, got %v", b.SectorsNotOpened)
	}
	if len(b.SectorsNotClosed) != 1 || b.SectorsNotClosed[0] != 7 {
		t.Errorf("expected sector 7 in sectorsNotClosed, got %v", b.SectorsNotClosed)
	}
	if b.PendingDivergences != 1 {
		t.Errorf("expected 1 pending divergence, got %d", b.PendingDivergences)
	}
}

func TestClose_NoBlockersSucceeds(t *testing.T) {
	store, svc := closingFixture(domain.SectorClosed, true)

	result, err := svc.Close(context.Background(), 1, "op-a", false, "")
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if result.Bypass {
		t.Error("close without blockers must not be a bypass")
	}

	inv, _ := store.GetInventory(context.Background(), 1)
	if inv.Active {
		t.Error("inventory still active after close")
	}
	if inv.ClosedBy != "op-a" || inv.ClosedAt == nil {
		t.Errorf("closing fields not written: %+v", inv)
	}

	if len(store.audits) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(store.audits))
	}
	if bypass, _ := store.audits[0].Metadata["bypass"].(bool); bypass {
		t.Error("audit must record bypass=false")
	}
}

func TestClose_SupervisorShortJustification(t *testing.T) {
	_, svc := closingFixture(domain.SectorPending, false)

	_, err := svc.Close(context.Background(), 1, "sup-1", true, "too short")
	if !errors.Is(err, domain.ErrJustificationRequired) {
		t.Errorf("expected ErrJustificationRequired, got: %v", err)
	}

	// Whitespace does not count toward the minimum length.
	_, err = svc.Close(context.Background(), 1, "sup-1", true, "   short    ")
	if !errors.Is(err, domain.ErrJustificationRequired) {
		t.Errorf("expected ErrJustificationRequired for padded justification, got: %v", err)
	}
}

func TestClose_SupervisorBypass(t *testing.T) {
	store, svc := closingFixture(domain.SectorPending, false)

	result, err := svc.Close(context.Background(), 1, "sup-1", true, "store flooding, counting aborted")
	if err != nil {
		t.Fatalf("supervisor bypass failed: %v", err)
	}
	if !result.Bypass {
		t.Error("expected bypass close")
	}

	inv, _ := store.GetInventory(context.Background(), 1)
	if inv.Active {
		t.Error("inventory still active after bypass close")
	}
	if inv.ClosingJustification == "" {
		t.Error("justification not persisted")
	}
	if len(store.audits) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(store.audits))
	}
	if bypass, _ := store.audits[0].Metadata["bypass"].(bool); !bypass {
		t.Error("audit must record bypass=true")
	}
}

func TestClose_AlreadyClosed(t *testing.T) {
	_, svc := closingFixture(domain.SectorClosed, true)

	if _, err := svc.Close(context.Background(), 1, "op-a", false, ""); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	_, err := svc.Close(context.Background(), 1, "op-a", false, "")
	if !errors.Is(err, domain.ErrAlreadyClosed) {
		t.Errorf("expected ErrAlreadyClosed, got: %v", err)
	}
}

func TestClose_NotFound(t *testing.T) {
	_, svc := closingFixture(domain.SectorClosed, true)

	_, err := svc.Close(context.Background(), 42, "op-a", false, "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestClose_GuardRejectsConcurrentClose(t *testing.T) {
	store, svc := closingFixture(domain.SectorClosed, true)
	store.closeLocks[1] = true

	_, err := svc.Close(context.Background(), 1, "op-a", false, "")
	if domain.KindOf(err) != domain.KindTransient {
		t.Errorf("expected transient error while another close runs, got: %v", err)
	}
}

func TestStatus_MatchesCloseComputation(t *testing.T) {
	_, svc := closingFixture(domain.SectorCounting, false)

	status, err := svc.Status(context.Background(), 1)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.CanClose {
		t.Error("expected canClose=false")
	}
	if len(status.Blockers.SectorsNotOpened) != 0 {
		t.Errorf("counting sector listed as never opened: %v", status.Blockers.SectorsNotOpened)
	}
	if len(status.Blockers.SectorsNotClosed) != 1 {
		t.Errorf("expected 1 sector not closed, got %v", status.Blockers.SectorsNotClosed)
	}
	if status.Blockers.PendingDivergences != 1 {
		t.Errorf("expected 1 pending divergence, got %d", status.Blockers.PendingDivergences)
	}
}
