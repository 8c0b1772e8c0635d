package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// DedupChecker provides callback idempotency checks backed by Redis.
// Key format: callback:<processor_payment_id>:<status>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this exact callback has already been processed.
func (d *DedupChecker) IsDuplicate(ctx context.Context, processorPaymentID, status string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(processorPaymentID, status)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this callback has been processed (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, processorPaymentID, status string) error {
	return d.client.Set(ctx, d.key(processorPaymentID, status), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(processorPaymentID, status string) string {
	return fmt.Sprintf("callback:%s:%s", processorPaymentID, status)
}
