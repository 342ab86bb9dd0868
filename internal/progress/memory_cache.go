package progress

import (
	"context"
	"time"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/cache"
)

type rollupKey struct {
	userID string
	date   string
}

// MemoryCache keeps rollups in process memory for a bounded time.
type MemoryCache struct {
	items cache.Cache[rollupKey, DailyRollup]
}

// NewMemoryCache builds a MemoryCache whose entries live for ttl (0 keeps them until invalidated).
func NewMemoryCache(ttl time.Duration, clock func() time.Time) *MemoryCache {
	return &MemoryCache{
		items: cache.New[rollupKey, DailyRollup](cache.Options{DefaultTTL: ttl, Clock: clock}),
	}
}

func (m *MemoryCache) GetMany(_ context.Context, userID string, dates []string) (map[string]DailyRollup, error) {
	out := make(map[string]DailyRollup, len(dates))
	for _, d := range dates {
		if r, ok := m.items.Get(rollupKey{userID: userID, date: d}); ok {
			out[d] = r
		}
	}
	return out, nil
}

func (m *MemoryCache) Put(_ context.Context, userID string, rollups []DailyRollup) error {
	for _, r := range rollups {
		m.items.Set(rollupKey{userID: userID, date: r.Date}, r)
	}
	return nil
}

func (m *MemoryCache) Invalidate(_ context.Context, userID string, dates []string) error {
	keys := make([]rollupKey, len(dates))
	for i, d := range dates {
		keys[i] = rollupKey{userID: userID, date: d}
	}
	m.items.Delete(keys...)
	return nil
}

// PurgeExpired removes expired entries and reports how many went.
func (m *MemoryCache) PurgeExpired() int {
	return m.items.PurgeExpired()
}

// Len returns the number of live cached days.
func (m *MemoryCache) Len() int {
	return m.items.Len()
}

var _ RollupCache = (*MemoryCache)(nil)
