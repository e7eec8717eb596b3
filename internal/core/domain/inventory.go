package domain

import "time"

// Inventory is the aggregate root for one physical count. The closing
// fields are written exactly once, atomically with Active going false.
type Inventory struct {
	ID                   int64
	StoreID              int64
	Description          string
	Active               bool
	ClosedAt             *time.Time
	ClosedBy             string
	ClosingJustification string
	CreatedAt            time.Time
}
