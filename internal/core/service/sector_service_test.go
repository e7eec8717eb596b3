package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dmaia/balanco/internal/core/domain"
)

func newSectorFixture() (*mockStore, *SectorService) {
	store := newMockStore()
	store.addOperator(domain.Operator{ID: "op-a", Name: "Alice"})
	store.addOperator(domain.Operator{ID: "op-b", Name: "Bruno"})
	store.addSector(domain.Sector{ID: 7, InventoryID: 1, RangeStart: 1, RangeEnd: 50, Status: domain.SectorPending})
	store.addSector(domain.Sector{ID: 8, InventoryID: 1, RangeStart: 51, RangeEnd: 100, Status: domain.SectorPending})
	return store, NewSectorService(store, store)
}

func TestClaim_Success(t *testing.T) {
	_, svc := newSectorFixture()

	result, err := svc.Claim(context.Background(), 7, "op-a")
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if result.Sector.Status != domain.SectorCounting {
		t.Errorf("expected counting, got %s", result.Sector.Status)
	}
	if result.Sector.HeldBy != "op-a" {
		t.Errorf("expected heldBy op-a, got %q", result.Sector.HeldBy)
	}
	if result.Warning != "" {
		t.Errorf("claiming the next pending sector should not warn, got %q", result.Warning)
	}
}

func TestClaim_Idempotent(t *testing.T) {
	store, svc := newSectorFixture()

	if _, err := svc.Claim(context.Background(), 7, "op-a"); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	result, err := svc.Claim(context.Background(), 7, "op-a")
	if err != nil {
		t.Fatalf("re-claim by the holder must succeed, got: %v", err)
	}
	if result.Sector.HeldBy != "op-a" {
		t.Errorf("expected heldBy op-a, got %q", result.Sector.HeldBy)
	}

	sec, _ := store.GetSector(context.Background(), 7)
	if sec.Status != domain.SectorCounting || sec.HeldBy != "op-a" {
		t.Errorf("re-claim changed state: %+v", sec)
	}
}

func TestClaim_SectorClosed(t *testing.T) {
	store, svc := newSectorFixture()
	store.addSector(domain.Sector{ID: 9, InventoryID: 1, Status: domain.SectorClosed})

	_, err := svc.Claim(context.Background(), 9, "op-a")
	if !errors.Is(err, domain.ErrSectorClosed) {
		t.Errorf("expected ErrSectorClosed, got: %v", err)
	}
}

func TestClaim_HeldByOther(t *testing.T) {
	_, svc := newSectorFixture()

	if _, err := svc.Claim(context.Background(), 7, "op-a"); err != nil {
		t.Fatalf("setup claim failed: %v", err)
	}

	_, err := svc.Claim(context.Background(), 7, "op-b")
	if !errors.Is(err, domain.ErrSectorHeld) {
		t.Fatalf("expected ErrSectorHeld, got: %v", err)
	}
	var held *domain.HeldError
	if !errors.As(err, &held) {
		t.Fatalf("expected HeldError, got: %T", err)
	}
	if held.HolderName != "Alice" {
		t.Errorf("expected holder name Alice, got %q", held.HolderName)
	}
}

func TestClaim_HeldByOtherWinsOverAlreadyHolding(t *testing.T) {
	_, svc := newSectorFixture()

	if _, err := svc.Claim(context.Background(), 7, "op-a"); err != nil {
		t.Fatalf("setup claim failed: %v", err)
	}
	if _, err := svc.Claim(context.Background(), 8, "op-b"); err != nil {
		t.Fatalf("setup claim failed: %v", err)
	}

	// op-b both targets a taken sector and already holds one; the taken
	// sector is the answer, with its holder named.
	_, err := svc.Claim(context.Background(), 7, "op-b")
	if !errors.Is(err, domain.ErrSectorHeld) {
		t.Fatalf("expected ErrSectorHeld, got: %v", err)
	}
	var held *domain.HeldError
	if !errors.As(err, &held) || held.HolderName != "Alice" {
		t.Errorf("expected conflict naming Alice, got: %v", err)
	}
}

func TestClaim_AlreadyHoldingAnotherSector(t *testing.T) {
	_, svc := newSectorFixture()

	if _, err := svc.Claim(context.Background(), 7, "op-a"); err != nil {
		t.Fatalf("setup claim failed: %v", err)
	}

	_, err := svc.Claim(context.Background(), 8, "op-a")
	if !errors.Is(err, domain.ErrAlreadyHolding) {
		t.Errorf("expected ErrAlreadyHolding, got: %v", err)
	}
}

func TestClaim_OutOfSequenceWarning(t *testing.T) {
	_, svc := newSectorFixture()

	// Sector 8 starts after sector 7, so claiming it first deviates
	// from the ordering. The claim still succeeds.
	result, err := svc.Claim(context.Background(), 8, "op-b")
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if result.Warning == "" {
		t.Error("expected a sequence deviation warning")
	}
}

func TestClaim_Concurrent_SingleWinner(t *testing.T) {
	store := newMockStore()
	store.addSector(domain.Sector{ID: 7, InventoryID: 1, RangeStart: 1, RangeEnd: 50, Status: domain.SectorPending})
	svc := NewSectorService(store, store)

	const claimers = 20
	var success atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			operator := "op-" + string(rune('a'+n))
			if _, err := svc.Claim(context.Background(), 7, operator); err == nil {
				success.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if success.Load() != 1 {
		t.Errorf("expected exactly 1 successful claim, got %d", success.Load())
	}
	sec, _ := store.GetSector(context.Background(), 7)
	if sec.Status != domain.SectorCounting || sec.HeldBy == "" {
		t.Errorf("sector not held after concurrent claims: %+v", sec)
	}
}

func TestRelease(t *testing.T) {
	store, svc := newSectorFixture()

	if _, err := svc.Claim(context.Background(), 7, "op-a"); err != nil {
		t.Fatalf("setup claim failed: %v", err)
	}

	// Release by a non-holder is a no-op.
	if err := svc.Release(context.Background(), 7, "op-b"); err != nil {
		t.Fatalf("release by non-holder must not error: %v", err)
	}
	sec, _ := store.GetSector(context.Background(), 7)
	if sec.HeldBy != "op-a" {
		t.Errorf("release by non-holder changed the holder: %+v", sec)
	}

	if err := svc.Release(context.Background(), 7, "op-a"); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	sec, _ = store.GetSector(context.Background(), 7)
	if sec.Status != domain.SectorPending || sec.HeldBy != "" {
		t.Errorf("expected pending and free, got %+v", sec)
	}
}

func TestFinalize(t *testing.T) {
	store, svc := newSectorFixture()

	if err := svc.Finalize(context.Background(), 7); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	sec, _ := store.GetSector(context.Background(), 7)
	if sec.Status != domain.SectorClosed || sec.HeldBy != "" {
		t.Errorf("expected closed and free, got %+v", sec)
	}

	err := svc.Finalize(context.Background(), 7)
	if !errors.Is(err, domain.ErrSectorClosed) {
		t.Errorf("expected ErrSectorClosed on double finalize, got: %v", err)
	}
}

func TestFinalize_NotFound(t *testing.T) {
	_, svc := newSectorFixture()

	err := svc.Finalize(context.Background(), 999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}
