package cache

import (
	"context"

	"vessel-match-service/internal/domain"
)

// DefaultMaxEntries bounds the in-memory ranking cache.
const DefaultMaxEntries = 100

// MemoryRankingCache keeps rankings in a process-local FIFO.
type MemoryRankingCache struct {
	fifo *FIFO[string, []domain.RankedOffer]
}

func NewMemoryRankingCache(maxEntries int) *MemoryRankingCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryRankingCache{fifo: NewFIFO[string, []domain.RankedOffer](maxEntries)}
}

func (c *MemoryRankingCache) Get(_ context.Context, key string) ([]domain.RankedOffer, bool, error) {
	ranked, ok := c.fifo.Get(key)
	if !ok {
		return nil, false, nil
	}
	return cloneRanked(ranked), true, nil
}

func (c *MemoryRankingCache) Set(_ context.Context, key string, ranked []domain.RankedOffer) error {
	c.fifo.Set(key, cloneRanked(ranked))
	return nil
}

func (c *MemoryRankingCache) Purge(context.Context) error {
	c.fifo.Purge()
	return nil
}

func (c *MemoryRankingCache) Len() int { return c.fifo.Len() }

// cloneRanked copies rankings so callers never share offers with the cache.
func cloneRanked(in []domain.RankedOffer) []domain.RankedOffer {
	out := make([]domain.RankedOffer, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
