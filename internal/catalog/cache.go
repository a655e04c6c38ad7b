package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/angelmondragon/lensfinderz-backend/pkg/redis"
)

const (
	rulesKind      = "rules"
	categoriesKind = "category_discounts"
)

// snapshotStore is the slice of pkg/redis the cache needs.
type snapshotStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CatalogVersion(ctx context.Context, orgID string) (int64, error)
	CatalogKey(orgID string, version int64, kind string, parts ...string) string
}

var _ snapshotStore = (*redis.Client)(nil)

// snapshotCache stores catalog rows as JSON under a versioned per-organization key.
// Bumping the organization's catalog version orphans every entry written before it.
type snapshotCache struct {
	store snapshotStore
	ttl   time.Duration
}

// cacheKey resolves the versioned key for kind.
func (c *snapshotCache) cacheKey(ctx context.Context, orgID, kind string) (string, error) {
	version, err := c.store.CatalogVersion(ctx, orgID)
	if err != nil {
		return "", err
	}
	return c.store.CatalogKey(orgID, version, kind), nil
}

// load decodes the entry at key into target. hit is false on a miss.
func (c *snapshotCache) load(ctx context.Context, key string, target any) (bool, error) {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if redis.IsMiss(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return false, err
	}
	return true, nil
}

func (c *snapshotCache) save(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key, string(payload), c.ttl)
}
