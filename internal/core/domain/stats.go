package domain

import "time"

// SectorStats is the per-sector aggregate shown on the supervisor
// dashboard snapshot.
type SectorStats struct {
	SectorID      int64        `json:"sectorId"`
	Prefix        string       `json:"prefix,omitempty"`
	RangeStart    int64        `json:"rangeStart"`
	RangeEnd      int64        `json:"rangeEnd"`
	Status        SectorStatus `json:"status"`
	HeldBy        string       `json:"heldBy,omitempty"`
	Counts        int          `json:"counts"`
	TotalQuantity int64        `json:"totalQuantity"`
	LastCountAt   *time.Time   `json:"lastCountAt,omitempty"`
}

// TimelineBucket aggregates counting activity per minute.
type TimelineBucket struct {
	Minute    time.Time `json:"minute"`
	Counts    int       `json:"counts"`
	Quantity  int64     `json:"quantity"`
	Operators int       `json:"operators"`
}
