package service

import (
	"context"
	"fmt"

	"github.com/dmaia/balanco/internal/core/domain"
	"github.com/dmaia/balanco/internal/port"
)

// SectorService owns the per-sector claim state machine. The claim
// itself is a single conditional update at the gateway so two operators
// racing for the same pending sector can never both win.
type SectorService struct {
	sectors  port.SectorRepository
	identity port.IdentityProvider
}

func NewSectorService(sectors port.SectorRepository, identity port.IdentityProvider) *SectorService {
	return &SectorService{sectors: sectors, identity: identity}
}

type ClaimResult struct {
	Sector  domain.Sector
	Warning string
}

func (s *SectorService) Claim(ctx context.Context, sectorID int64, operatorID string) (*ClaimResult, error) {
	if operatorID == "" {
		return nil, domain.Fatal("MISSING_OPERATOR", "claim requires an operator id")
	}

	sector, err := s.sectors.GetSector(ctx, sectorID)
	if err != nil {
		return nil, err
	}
	if sector == nil {
		return nil, domain.NotFound("sector %d not found", sectorID)
	}
	if sector.Status == domain.SectorClosed {
		return nil, domain.Conflict(domain.ErrSectorClosed, "SECTOR_CLOSED", "sector %d is closed", sectorID)
	}

	// Re-claiming a sector already held by the same operator is a no-op.
	if sector.HeldBy == operatorID {
		return &ClaimResult{Sector: *sector}, nil
	}

	// A sector visibly held by someone else is reported as such even when
	// the caller would also fail the one-sector rule below.
	if sector.Held() {
		return nil, s.heldConflict(ctx, sectorID, sector.HeldBy)
	}

	held, err := s.sectors.SectorHeldBy(ctx, sector.InventoryID, operatorID)
	if err != nil {
		return nil, err
	}
	if held != nil && held.ID != sectorID {
		return nil, domain.Conflict(domain.ErrAlreadyHolding, "SECTOR_ALREADY_OPEN_ELSEWHERE",
			"operator already counting sector %d", held.ID)
	}

	// Sequence deviation is advisory only: compute against the pending
	// ordering as it stood before this claim.
	warning, err := s.sequenceWarning(ctx, sector)
	if err != nil {
		return nil, err
	}

	ok, err := s.sectors.ClaimSector(ctx, sectorID, operatorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.claimConflict(ctx, sectorID)
	}

	claimed := *sector
	claimed.Status = domain.SectorCounting
	claimed.HeldBy = operatorID
	return &ClaimResult{Sector: claimed, Warning: warning}, nil
}

// claimConflict explains a lost conditional claim by re-reading the row.
func (s *SectorService) claimConflict(ctx context.Context, sectorID int64) error {
	current, err := s.sectors.GetSector(ctx, sectorID)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.NotFound("sector %d not found", sectorID)
	}
	if current.Status == domain.SectorClosed {
		return domain.Conflict(domain.ErrSectorClosed, "SECTOR_CLOSED", "sector %d is closed", sectorID)
	}
	if current.Held() {
		return s.heldConflict(ctx, sectorID, current.HeldBy)
	}
	return domain.Transient("CLAIM_CONFLICT", "claim on sector %d lost a race, retry", sectorID)
}

func (s *SectorService) heldConflict(ctx context.Context, sectorID int64, holderID string) error {
	holderName := ""
	if op, err := s.identity.Lookup(ctx, holderID); err == nil && op != nil {
		holderName = op.Name
	}
	return &domain.HeldError{SectorID: sectorID, HolderID: holderID, HolderName: holderName}
}

func (s *SectorService) sequenceWarning(ctx context.Context, sector *domain.Sector) (string, error) {
	all, err := s.sectors.ListSectors(ctx, sector.InventoryID)
	if err != nil {
		return "", err
	}
	next := domain.NextPending(all)
	if next == nil || next.ID == sector.ID {
		return "", nil
	}
	return fmt.Sprintf("sector %d claimed out of sequence; next pending is sector %d (%s %d-%d)",
		sector.ID, next.ID, next.Prefix, next.RangeStart, next.RangeEnd), nil
}

// Release puts the sector back to pending. A release by an operator
// that does not hold the sector is a no-op, not an error.
func (s *SectorService) Release(ctx context.Context, sectorID int64, operatorID string) error {
	_, err := s.sectors.ReleaseSector(ctx, sectorID, operatorID)
	return err
}

// Finalize closes the sector for good: no further counts may target it.
func (s *SectorService) Finalize(ctx context.Context, sectorID int64) error {
	ok, err := s.sectors.FinalizeSector(ctx, sectorID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	current, err := s.sectors.GetSector(ctx, sectorID)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.NotFound("sector %d not found", sectorID)
	}
	return domain.Conflict(domain.ErrSectorClosed, "SECTOR_CLOSED", "sector %d already closed", sectorID)
}
