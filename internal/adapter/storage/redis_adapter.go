package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmaia/balanco/internal/core/domain"
)

const (
	countChannelPrefix = "counts:"
	closeLockPrefix    = "closing:"
	closeLockTTL       = 30 * time.Second
)

// RedisAdapter carries the count-event fan-out (pub/sub) and the close
// guard that serializes concurrent close attempts on one inventory.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func countChannel(inventoryID int64) string {
	return fmt.Sprintf("%s%d", countChannelPrefix, inventoryID)
}

func (r *RedisAdapter) PublishCount(ctx context.Context, event domain.CountEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal count event: %w", err)
	}
	if err := r.client.Publish(ctx, countChannel(event.InventoryID), payload).Err(); err != nil {
		return fmt.Errorf("publish count event: %w", err)
	}
	return nil
}

func (r *RedisAdapter) SubscribeCounts(ctx context.Context, inventoryID int64) (<-chan domain.CountEvent, error) {
	sub := r.client.Subscribe(ctx, countChannel(inventoryID))
	// Force the subscription onto the wire before events can be missed.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe counts: %w", err)
	}

	out := make(chan domain.CountEvent)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event domain.CountEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("dropping malformed count event: %v", err)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (r *RedisAdapter) AcquireCloseLock(ctx context.Context, inventoryID int64) (bool, error) {
	key := fmt.Sprintf("%s%d", closeLockPrefix, inventoryID)
	ok, err := r.client.SetNX(ctx, key, 1, closeLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("acquire close lock: %w", err)
	}
	return ok, nil
}

func (r *RedisAdapter) ReleaseCloseLock(ctx context.Context, inventoryID int64) error {
	key := fmt.Sprintf("%s%d", closeLockPrefix, inventoryID)
	return r.client.Del(ctx, key).Err()
}
