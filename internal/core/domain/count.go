package domain

import "time"

// Count is one quantity observation for a product within a sector.
// Counts are append-only: multiple counts for the same (sector,
// product) are summed, never overwritten. Only the Reconciled flag
// mutates after persistence.
type Count struct {
	ID         string     `json:"id"`
	SectorID   int64      `json:"sectorId"`
	ProductID  int64      `json:"productId"`
	Quantity   int64      `json:"quantity"`
	Batch      string     `json:"batch,omitempty"`
	Expiry     *time.Time `json:"expiry,omitempty"`
	OperatorID string     `json:"operatorId"`
	Divergent  bool       `json:"divergent"`
	Reconciled bool       `json:"reconciled"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// CountDraft is what a scanner captures before the server assigns an id.
type CountDraft struct {
	SectorID   int64      `json:"sectorId"`
	ProductID  int64      `json:"productId"`
	Quantity   int64      `json:"quantity"`
	Batch      string     `json:"batch,omitempty"`
	Expiry     *time.Time `json:"expiry,omitempty"`
	OperatorID string     `json:"operatorId"`
}

// CountEvent is published after a count is persisted and fans out to
// progress streams.
type CountEvent struct {
	CountID     string    `json:"countId"`
	InventoryID int64     `json:"inventoryId"`
	SectorID    int64     `json:"sectorId"`
	ProductID   int64     `json:"productId"`
	Quantity    int64     `json:"quantity"`
	OperatorID  string    `json:"operatorId"`
	At          time.Time `json:"at"`
}
