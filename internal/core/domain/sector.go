package domain

import (
	"sort"
	"time"
)

type SectorStatus string

const (
	SectorPending  SectorStatus = "pending"
	SectorCounting SectorStatus = "counting"
	SectorClosed   SectorStatus = "closed"
)

// Sector is a numeric sub-range of the catalog counted by one operator
// at a time. HeldBy is empty unless Status is counting.
type Sector struct {
	ID          int64
	InventoryID int64
	Prefix      string
	RangeStart  int64
	RangeEnd    int64
	Description string
	Status      SectorStatus
	HeldBy      string
	UpdatedAt   time.Time
}

func (s Sector) Held() bool { return s.HeldBy != "" }

// NextPending returns the sector that should be claimed next: the first
// pending sector ordered by prefix, then range start. Nil when nothing
// is pending.
func NextPending(sectors []Sector) *Sector {
	var pending []Sector
	for _, s := range sectors {
		if s.Status == SectorPending {
			pending = append(pending, s)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].Prefix != pending[j].Prefix {
			return pending[i].Prefix < pending[j].Prefix
		}
		return pending[i].RangeStart < pending[j].RangeStart
	})
	return &pending[0]
}
