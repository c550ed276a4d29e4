package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/searchly/bff/internal/models"
)

// SnapshotCache holds the per-user catalog snapshot: the deduplicated,
// favourite-merged product list from the last successful load. Snapshots are
// written only after a successful backend fetch and invalidated only by a
// forced refresh, never by age.
type SnapshotCache struct {
	kv KV
}

// NewSnapshotCache creates a new SnapshotCache.
func NewSnapshotCache(kv KV) *SnapshotCache {
	return &SnapshotCache{kv: kv}
}

func (c *SnapshotCache) key(email string) string {
	return fmt.Sprintf("catalog:snapshot:%s", email)
}

// Get returns the cached snapshot for a user, or (nil, false) when none
// exists.
func (c *SnapshotCache) Get(ctx context.Context, email string) ([]models.Product, bool, error) {
	raw, err := c.kv.Get(ctx, c.key(email))
	if errors.Is(err, ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal catalog snapshot: %w", err)
	}
	return products, true, nil
}

// Set stores the snapshot for a user with no expiry.
func (c *SnapshotCache) Set(ctx context.Context, email string, products []models.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog snapshot: %w", err)
	}
	return c.kv.Set(ctx, c.key(email), string(raw), 0)
}

// Invalidate drops the snapshot for a user.
func (c *SnapshotCache) Invalidate(ctx context.Context, email string) error {
	return c.kv.Delete(ctx, c.key(email))
}
