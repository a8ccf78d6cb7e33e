package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/parpalak/admin-yard-sub000/internal/schema"
	"github.com/parpalak/admin-yard-sub000/internal/store"
	"github.com/parpalak/admin-yard-sub000/internal/transform"
)

// LabelsFromTable computes primary-key-value to label for option lists
// (select, radio, autocomplete). When the key is composite only the first
// primary-key column is used; that is a documented limitation carried over
// from the original behavior. Rows whose title expression evaluates to
// NULL are omitted, which is how per-row visibility is modeled.
func (p *Provider) LabelsFromTable(ctx context.Context, table string, pkColumns []string, titleSQL string) (map[string]string, error) {
	if len(pkColumns) == 0 {
		return nil, fmt.Errorf("labels from %s: no primary key", table)
	}
	pk := pkColumns[0]

	sqlStr := fmt.Sprintf("SELECT %s.%s AS value, (%s) AS label FROM %s AS %s",
		entityAlias, pk, titleSQL, table, entityAlias)
	rows, err := store.QueryRows(ctx, p.store.DB, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("labels from %s: %w", table, err)
	}

	labels := make(map[string]string, len(rows))
	for _, row := range rows {
		if row["label"] == nil || row["value"] == nil {
			continue
		}
		value, err := transform.NormalizedFromDB(row["value"], schema.TypeString)
		if err != nil {
			return nil, err
		}
		labels[value.(string)] = fmt.Sprintf("%v", row["label"])
	}
	return labels, nil
}

// CachedLabels is LabelsFromTable behind a short-TTL cache, for the option
// lists rebuilt on every form render and autocomplete keystroke.
func (p *Provider) CachedLabels(ctx context.Context, table string, pkColumns []string, titleSQL string) (map[string]string, error) {
	key := p.labels.key(table, titleSQL)
	if cached, ok := p.labels.get(key); ok {
		return cached, nil
	}
	labels, err := p.LabelsFromTable(ctx, table, pkColumns, titleSQL)
	if err != nil {
		return nil, err
	}
	p.labels.set(key, labels)
	return labels, nil
}

// labelCache wraps ristretto with per-table versioning: writes to a table
// bump its version, orphaning cached entries instead of scanning for them.
type labelCache struct {
	cache *ristretto.Cache[string, map[string]string]
	ttl   time.Duration

	mu       sync.Mutex
	versions map[string]int
}

func newLabelCache(ttlSeconds int) (*labelCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, map[string]string]{
		NumCounters: 1 << 12,
		MaxCost:     1 << 22,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	if ttlSeconds <= 0 {
		ttlSeconds = 30
	}
	return &labelCache{
		cache:    cache,
		ttl:      time.Duration(ttlSeconds) * time.Second,
		versions: map[string]int{},
	}, nil
}

func (c *labelCache) key(table, titleSQL string) string {
	c.mu.Lock()
	v := c.versions[table]
	c.mu.Unlock()
	return fmt.Sprintf("%s|%d|%s", table, v, titleSQL)
}

func (c *labelCache) get(key string) (map[string]string, bool) {
	return c.cache.Get(key)
}

func (c *labelCache) set(key string, labels map[string]string) {
	cost := int64(1)
	for k, v := range labels {
		cost += int64(len(k) + len(v))
	}
	c.cache.SetWithTTL(key, labels, cost, c.ttl)
}

func (c *labelCache) invalidate(table string) {
	c.mu.Lock()
	c.versions[table]++
	c.mu.Unlock()
}
