package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/dmaia/balanco/internal/core/domain"
	"github.com/dmaia/balanco/internal/port"
)

// CountService appends observations to the count ledger and publishes
// each persisted count to the event bus. The ledger write is the source
// of truth; a failed publish is logged, never returned.
type CountService struct {
	sectors port.SectorRepository
	counts  port.CountRepository
	bus     port.EventBus
	now     func() time.Time
}

func NewCountService(sectors port.SectorRepository, counts port.CountRepository, bus port.EventBus) *CountService {
	return &CountService{sectors: sectors, counts: counts, bus: bus, now: time.Now}
}

func (s *CountService) Submit(ctx context.Context, draft domain.CountDraft) (*domain.Count, error) {
	if draft.SectorID == 0 || draft.ProductID == 0 {
		return nil, domain.Fatal("MISSING_IDENTIFIERS", "count requires sector and product ids")
	}
	if draft.OperatorID == "" {
		return nil, domain.Fatal("MISSING_OPERATOR", "count requires an operator id")
	}
	if draft.Quantity < 0 {
		return nil, domain.Validation("INVALID_QUANTITY", "quantity must not be negative")
	}

	sector, err := s.sectors.GetSector(ctx, draft.SectorID)
	if err != nil {
		return nil, err
	}
	if sector == nil {
		return nil, domain.NotFound("sector %d not found", draft.SectorID)
	}
	if sector.Status == domain.SectorClosed {
		return nil, domain.Conflict(domain.ErrSectorClosed, "SECTOR_CLOSED",
			"sector %d is closed, no further counts accepted", draft.SectorID)
	}

	count := domain.Count{
		ID:         uuid.NewString(),
		SectorID:   draft.SectorID,
		ProductID:  draft.ProductID,
		Quantity:   draft.Quantity,
		Batch:      draft.Batch,
		Expiry:     draft.Expiry,
		OperatorID: draft.OperatorID,
		CreatedAt:  s.now(),
	}
	if err := s.counts.CreateCount(ctx, count); err != nil {
		return nil, err
	}

	event := domain.CountEvent{
		CountID:     count.ID,
		InventoryID: sector.InventoryID,
		SectorID:    count.SectorID,
		ProductID:   count.ProductID,
		Quantity:    count.Quantity,
		OperatorID:  count.OperatorID,
		At:          count.CreatedAt,
	}
	if err := s.bus.PublishCount(ctx, event); err != nil {
		log.Printf("failed to publish count %s: %v", count.ID, err)
	}

	return &count, nil
}
