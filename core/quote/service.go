// Package quote is the customer-facing read path: a cache-aside layer in
// front of the price aggregator.
package quote

import (
	"context"

	"shadeworks/cache"
	"shadeworks/core/pricing"
)

// Service memoizes resolved quotes in the quotes namespace. It never
// serves a stale price: invalidation on the write path is synchronous, so
// a hit is always consistent with the current pricing rows.
type Service struct {
	aggregator *pricing.Aggregator
	store      *cache.Store
	enabled    bool
}

// NewService creates the quote service. With caching disabled every quote
// recomputes from the row store.
func NewService(aggregator *pricing.Aggregator, store *cache.Store, enabled bool) *Service {
	return &Service{aggregator: aggregator, store: store, enabled: enabled}
}

// Quote returns the price for productID at width x height with an optional
// material, from cache when possible. Two concurrent misses on the same
// key may both resolve; that is duplicate work, not incorrect work.
func (s *Service) Quote(ctx context.Context, productID int64, width, height float64, materialID int64) (pricing.Quote, error) {
	if !s.enabled || s.store == nil {
		return s.aggregator.Quote(ctx, productID, width, height, materialID)
	}

	key := cache.QuoteKey(productID, width, height, materialID)
	return cache.GetOrCompute(ctx, s.store, cache.NamespaceQuotes, key,
		func(ctx context.Context) (pricing.Quote, error) {
			return s.aggregator.Quote(ctx, productID, width, height, materialID)
		})
}
