package service

import (
	"context"
	"time"

	"github.com/dmaia/balanco/internal/core/domain"
	"github.com/dmaia/balanco/internal/port"
)

const (
	MessageSnapshot  = "snapshot"
	MessageCount     = "count"
	MessageHeartbeat = "heartbeat"
)

// Broadcaster streams counting progress to observers: a full snapshot
// on subscribe, then one message per persisted count in the inventory,
// with periodic heartbeats to expose half-open connections.
type Broadcaster struct {
	sectors port.SectorRepository
	counts  port.CountRepository
	bus     port.EventBus

	heartbeat      time.Duration
	activityWindow time.Duration
	now            func() time.Time
}

func NewBroadcaster(sectors port.SectorRepository, counts port.CountRepository, bus port.EventBus,
	heartbeat, activityWindow time.Duration) *Broadcaster {
	return &Broadcaster{
		sectors:        sectors,
		counts:         counts,
		bus:            bus,
		heartbeat:      heartbeat,
		activityWindow: activityWindow,
		now:            time.Now,
	}
}

type Snapshot struct {
	InventoryID     int64                   `json:"inventoryId"`
	Sectors         []domain.SectorStats    `json:"sectors"`
	Timeline        []domain.TimelineBucket `json:"timeline"`
	ActiveOperators int                     `json:"activeOperators"`
	ActiveSectors   int                     `json:"activeSectors"`
}

type Message struct {
	Kind     string             `json:"kind"`
	At       time.Time          `json:"at"`
	Snapshot *Snapshot          `json:"snapshot,omitempty"`
	Count    *domain.CountEvent `json:"count,omitempty"`
}

// Subscribe opens a stream for one inventory. The snapshot is placed on
// the returned channel before Subscribe returns. Cancelling ctx tears
// down the bus subscription and the heartbeat ticker and closes the
// channel; nothing keeps running for a disconnected observer.
func (b *Broadcaster) Subscribe(ctx context.Context, inventoryID int64) (<-chan Message, error) {
	sectors, err := b.sectors.ListSectors(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	// Membership is fixed at subscribe time: events are filtered against
	// this set, not trusted to arrive pre-filtered.
	sectorSet := make(map[int64]struct{}, len(sectors))
	for _, s := range sectors {
		sectorSet[s.ID] = struct{}{}
	}

	snapshot, err := b.buildSnapshot(ctx, inventoryID)
	if err != nil {
		return nil, err
	}

	events, err := b.bus.SubscribeCounts(ctx, inventoryID)
	if err != nil {
		return nil, err
	}

	out := make(chan Message, 16)
	out <- Message{Kind: MessageSnapshot, At: b.now(), Snapshot: snapshot}

	go func() {
		defer close(out)
		ticker := time.NewTicker(b.heartbeat)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				if _, member := sectorSet[event.SectorID]; !member {
					continue
				}
				ev := event
				select {
				case out <- Message{Kind: MessageCount, At: b.now(), Count: &ev}:
				case <-ctx.Done():
					return
				}
			case <-ticker.C:
				select {
				case out <- Message{Kind: MessageHeartbeat, At: b.now()}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (b *Broadcaster) buildSnapshot(ctx context.Context, inventoryID int64) (*Snapshot, error) {
	stats, err := b.counts.SectorStats(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	since := b.now().Add(-b.activityWindow)
	timeline, err := b.counts.Timeline(ctx, inventoryID, since)
	if err != nil {
		return nil, err
	}
	operators, activeSectors, err := b.counts.ActivityStats(ctx, inventoryID, since)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		InventoryID:     inventoryID,
		Sectors:         stats,
		Timeline:        timeline,
		ActiveOperators: operators,
		ActiveSectors:   activeSectors,
	}, nil
}
