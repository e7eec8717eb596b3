package port

import (
	"context"
	"time"

	"github.com/dmaia/balanco/internal/core/domain"
)

type AuditEntry struct {
	Action      string
	ActorID     string
	InventoryID int64
	Metadata    map[string]any
	At          time.Time
}

// AuditRecorder persists audit events. Recording failures must not
// roll back the operation they describe.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// IdentityProvider resolves operator ids to identities. The identity
// source itself (auth) lives outside this core.
type IdentityProvider interface {
	Lookup(ctx context.Context, operatorID string) (*domain.Operator, error)
}
