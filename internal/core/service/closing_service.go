package service

import (
	"context"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmaia/balanco/internal/core/domain"
	"github.com/dmaia/balanco/internal/port"
)

const minJustificationLen = 10

// ClosingService decides whether an inventory may be closed and
// performs the terminal active→closed transition. Supervisors may
// bypass open blockers with a written justification.
type ClosingService struct {
	inventories port.InventoryRepository
	sectors     port.SectorRepository
	reconciler  *Reconciler
	guard       port.CloseGuard
	audit       port.AuditRecorder
	now         func() time.Time
}

func NewClosingService(inventories port.InventoryRepository, sectors port.SectorRepository,
	reconciler *Reconciler, guard port.CloseGuard, audit port.AuditRecorder) *ClosingService {
	return &ClosingService{
		inventories: inventories,
		sectors:     sectors,
		reconciler:  reconciler,
		guard:       guard,
		audit:       audit,
		now:         time.Now,
	}
}

type ClosingStatus struct {
	CanClose bool            `json:"canClose"`
	Blockers domain.Blockers `json:"blockers"`
}

type ClosedResult struct {
	ID       int64     `json:"id"`
	ClosedAt time.Time `json:"closedAt"`
	ClosedBy string    `json:"closedBy"`
	Bypass   bool      `json:"bypass"`
}

// Status is the read-only preview of the exact computation Close uses.
func (s *ClosingService) Status(ctx context.Context, inventoryID int64) (*ClosingStatus, error) {
	inv, err := s.inventories.GetInventory(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFound("inventory %d not found", inventoryID)
	}
	if !inv.Active {
		return nil, domain.Conflict(domain.ErrAlreadyClosed, "ALREADY_CLOSED", "inventory %d already closed", inventoryID)
	}
	blockers, err := s.computeBlockers(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	return &ClosingStatus{CanClose: blockers.Empty(), Blockers: blockers}, nil
}

func (s *ClosingService) computeBlockers(ctx context.Context, inventoryID int64) (domain.Blockers, error) {
	var blockers domain.Blockers

	sectors, err := s.sectors.ListSectors(ctx, inventoryID)
	if err != nil {
		return blockers, err
	}
	for _, sec := range sectors {
		if sec.Status == domain.SectorPending {
			blockers.SectorsNotOpened = append(blockers.SectorsNotOpened, sec.ID)
		}
		if sec.Status != domain.SectorClosed {
			blockers.SectorsNotClosed = append(blockers.SectorsNotClosed, sec.ID)
		}
	}

	pending, err := s.reconciler.PendingDivergences(ctx, inventoryID)
	if err != nil {
		return blockers, err
	}
	blockers.PendingDivergences = pending
	return blockers, nil
}

// Close runs the go/no-go decision and, when allowed, flips the
// inventory closed with a single conditional update. Concurrent counts
// between the blocker computation and the write are tolerated; the
// write itself is atomic and a lost write surfaces as AlreadyClosed.
func (s *ClosingService) Close(ctx context.Context, inventoryID int64, operatorID string, supervisor bool, justification string) (*ClosedResult, error) {
	if operatorID == "" {
		return nil, domain.Fatal("MISSING_OPERATOR", "close requires an operator id")
	}

	inv, err := s.inventories.GetInventory(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFound("inventory %d not found", inventoryID)
	}
	if !inv.Active {
		return nil, domain.Conflict(domain.ErrAlreadyClosed, "ALREADY_CLOSED", "inventory %d already closed", inventoryID)
	}

	ok, err := s.guard.AcquireCloseLock(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.Transient("CLOSE_IN_PROGRESS", "another close of inventory %d is in progress", inventoryID)
	}
	defer func() {
		if err := s.guard.ReleaseCloseLock(ctx, inventoryID); err != nil {
			log.Printf("failed to release close lock for inventory %d: %v", inventoryID, err)
		}
	}()

	blockers, err := s.computeBlockers(ctx, inventoryID)
	if err != nil {
		return nil, err
	}

	bypass := !blockers.Empty()
	if bypass {
		if !supervisor {
			return nil, &domain.BlockedError{Blockers: blockers}
		}
		if utf8.RuneCountInString(strings.TrimSpace(justification)) < minJustificationLen {
			return nil, &domain.Error{
				Kind:    domain.KindValidation,
				Code:    "JUSTIFICATION_REQUIRED",
				Message: "closing with open blockers requires a justification of at least 10 characters",
				Target:  domain.ErrJustificationRequired,
			}
		}
	}

	closedAt := s.now()
	closed, err := s.inventories.CloseInventory(ctx, inventoryID, operatorID, strings.TrimSpace(justification), closedAt)
	if err != nil {
		return nil, err
	}
	if !closed {
		return nil, domain.Conflict(domain.ErrAlreadyClosed, "ALREADY_CLOSED", "inventory %d already closed", inventoryID)
	}

	if err := s.audit.Record(ctx, port.AuditEntry{
		Action:      "inventory.close",
		ActorID:     operatorID,
		InventoryID: inventoryID,
		At:          closedAt,
		Metadata: map[string]any{
			"bypass":             bypass,
			"sectorsNotOpened":   len(blockers.SectorsNotOpened),
			"sectorsNotClosed":   len(blockers.SectorsNotClosed),
			"pendingDivergences": blockers.PendingDivergences,
		},
	}); err != nil {
		log.Printf("failed to record close audit for inventory %d: %v", inventoryID, err)
	}

	return &ClosedResult{ID: inventoryID, ClosedAt: closedAt, ClosedBy: operatorID, Bypass: bypass}, nil
}
