// Package cache provides the namespaced in-memory cache the storefront
// memoizes read-heavy aggregates in: resolved quotes, product lists, and
// homepage composites. It is single-process and not persisted; a restart
// is a full cold cache.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"
)

// Cache namespaces. Each namespace carries its own TTL policy.
const (
	NamespaceQuotes      = "quotes"
	NamespaceProducts    = "products"
	NamespaceCategories  = "categories"
	NamespaceHeroBanners = "heroBanners"
	NamespaceRooms       = "rooms"
	NamespaceHomepage    = "homepage"
)

// Stats reports per-namespace cache counters
type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Size   int    `json:"size"`
}

// Store is a namespaced, TTL-bounded key/value cache. TTL is advisory:
// explicit invalidation always wins over expiry. Values are stored as-is,
// so callers must not mutate what they put in.
type Store struct {
	mu         sync.RWMutex
	namespaces map[string]*ttlcache.Cache[string, any]
	defaultTTL time.Duration
	ttls       map[string]time.Duration
	log        *zap.Logger
}

// NewStore creates a cache store. namespaceTTLs overrides the default TTL
// per namespace; namespaces are created lazily on first use.
func NewStore(defaultTTL time.Duration, namespaceTTLs map[string]time.Duration, log *zap.Logger) *Store {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		namespaces: make(map[string]*ttlcache.Cache[string, any]),
		defaultTTL: defaultTTL,
		ttls:       namespaceTTLs,
		log:        log,
	}
}

// namespace returns the backing cache for ns, creating it on first use
func (s *Store) namespace(ns string) *ttlcache.Cache[string, any] {
	s.mu.RLock()
	c, ok := s.namespaces[ns]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok = s.namespaces[ns]; ok {
		return c
	}

	ttl := s.defaultTTL
	if override, ok := s.ttls[ns]; ok && override > 0 {
		ttl = override
	}

	c = ttlcache.New(
		ttlcache.WithTTL[string, any](ttl),
		ttlcache.WithDisableTouchOnHit[string, any](),
	)
	go c.Start()

	s.namespaces[ns] = c
	return c
}

// Get returns the cached value for (ns, key), or false on a miss.
// Expired entries count as misses.
func (s *Store) Get(ns, key string) (any, bool) {
	item := s.namespace(ns).Get(key)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

// Set stores value under (ns, key) with the namespace TTL
func (s *Store) Set(ns, key string, value any) {
	s.namespace(ns).Set(key, value, ttlcache.DefaultTTL)
}

// SetWithTTL stores value under (ns, key) with an explicit TTL
func (s *Store) SetWithTTL(ns, key string, value any, ttl time.Duration) {
	s.namespace(ns).Set(key, value, ttl)
}

// Invalidate drops every key in ns matching pattern and returns the count.
// Patterns are exact, a "prefix*" glob, or "*" for the whole namespace.
func (s *Store) Invalidate(ns, pattern string) int {
	c := s.namespace(ns)

	if pattern == "*" {
		n := c.Len()
		c.DeleteAll()
		return n
	}

	count := 0
	for _, key := range c.Keys() {
		if matchPattern(key, pattern) {
			c.Delete(key)
			count++
		}
	}
	return count
}

// ClearAll drops every entry in every namespace. Reserved for the explicit
// admin "refresh all caches" action.
func (s *Store) ClearAll() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ns, c := range s.namespaces {
		n := c.Len()
		c.DeleteAll()
		s.log.Info("cache namespace cleared", zap.String("namespace", ns), zap.Int("evicted", n))
	}
}

// Stats returns counters for a namespace; ok is false if it was never used
func (s *Store) Stats(ns string) (Stats, bool) {
	s.mu.RLock()
	c, ok := s.namespaces[ns]
	s.mu.RUnlock()
	if !ok {
		return Stats{}, false
	}
	m := c.Metrics()
	return Stats{Hits: m.Hits, Misses: m.Misses, Size: c.Len()}, true
}

// AllStats returns counters for every namespace seen so far
func (s *Store) AllStats() map[string]Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Stats, len(s.namespaces))
	for ns, c := range s.namespaces {
		m := c.Metrics()
		out[ns] = Stats{Hits: m.Hits, Misses: m.Misses, Size: c.Len()}
	}
	return out
}

// Close stops the expiry loops. The store must not be used afterwards.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.namespaces {
		c.Stop()
	}
	s.namespaces = make(map[string]*ttlcache.Cache[string, any])
}

func matchPattern(key, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(key, strings.TrimSuffix(pattern, "*"))
	}
	return key == pattern
}
