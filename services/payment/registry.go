package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const pendingIntentPrefix = "pending-intent:"

// IntentRegistry remembers the latest payment intent opened per appointment so a
// retried request can hand back the same charge. A nil registry remembers nothing.
type IntentRegistry struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIntentRegistry(rdb *redis.Client, ttl time.Duration) *IntentRegistry {
	return &IntentRegistry{rdb: rdb, ttl: ttl}
}

func pendingKey(appointmentID string) string {
	return pendingIntentPrefix + appointmentID
}

func (r *IntentRegistry) Remember(ctx context.Context, appointmentID, intentID string) error {
	if r == nil {
		return nil
	}
	if err := r.rdb.Set(ctx, pendingKey(appointmentID), intentID, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to remember intent for %s: %w", appointmentID, err)
	}
	return nil
}

// Lookup returns the remembered intent id, or "" when there is none.
func (r *IntentRegistry) Lookup(ctx context.Context, appointmentID string) (string, error) {
	if r == nil {
		return "", nil
	}
	id, err := r.rdb.Get(ctx, pendingKey(appointmentID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up intent for %s: %w", appointmentID, err)
	}
	return id, nil
}

func (r *IntentRegistry) Forget(ctx context.Context, appointmentID string) error {
	if r == nil {
		return nil
	}
	if err := r.rdb.Del(ctx, pendingKey(appointmentID)).Err(); err != nil {
		return fmt.Errorf("failed to forget intent for %s: %w", appointmentID, err)
	}
	return nil
}
