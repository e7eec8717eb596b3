package domain

import "time"

// Product belongs to one inventory. Divergent is maintained by the
// reconciler, never set by operators directly.
type Product struct {
	ID              int64      `json:"id"`
	InventoryID     int64      `json:"inventoryId"`
	Code            string     `json:"code"`
	Barcode         string     `json:"barcode"`
	Description     string     `json:"description"`
	ExpectedBalance int64      `json:"expectedBalance"`
	Batch           string     `json:"batch,omitempty"`
	Expiry          *time.Time `json:"expiry,omitempty"`
	Divergent       bool       `json:"divergent"`
}

// Operator is the identity the core needs: who, display name, and
// whether closing bypasses are allowed.
type Operator struct {
	ID         string
	Name       string
	Supervisor bool
}
