package port

import (
	"context"

	"github.com/dmaia/balanco/internal/core/domain"
)

// EventBus fans persisted counts out to progress streams. Delivery is
// at-least-once; subscribers filter by sector set regardless.
type EventBus interface {
	PublishCount(ctx context.Context, event domain.CountEvent) error

	// SubscribeCounts returns a channel of count events for the
	// inventory. The channel is closed when ctx is cancelled.
	SubscribeCounts(ctx context.Context, inventoryID int64) (<-chan domain.CountEvent, error)
}

// CloseGuard serializes concurrent close attempts on one inventory.
type CloseGuard interface {
	// AcquireCloseLock returns false when another close is in progress.
	AcquireCloseLock(ctx context.Context, inventoryID int64) (bool, error)
	ReleaseCloseLock(ctx context.Context, inventoryID int64) error
}
