package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnMutationEvictsOnlyAffectedProduct(t *testing.T) {
	s := newTestStore(t)
	r := NewInvalidationRouter(s, nil)

	keyA := QuoteKey(1, 36, 48, 0)
	keyB := QuoteKey(2, 36, 48, 0)
	s.Set(NamespaceQuotes, keyA, "quoteA")
	s.Set(NamespaceQuotes, keyB, "quoteB")

	r.OnMutation(EntityPricingMatrix, 1)

	_, ok := s.Get(NamespaceQuotes, keyA)
	assert.False(t, ok, "mutated product's quotes must be evicted")
	_, ok = s.Get(NamespaceQuotes, keyB)
	assert.True(t, ok, "other products' quotes must survive")
}

func TestOnMutationFabricPricingEvictsQuotes(t *testing.T) {
	s := newTestStore(t)
	r := NewInvalidationRouter(s, nil)

	key := QuoteKey(5, 24, 24, 3)
	s.Set(NamespaceQuotes, key, "quote")

	r.OnMutation(EntityFabricPricing, 5)

	_, ok := s.Get(NamespaceQuotes, key)
	assert.False(t, ok)
}

func TestOnMutationProductEvictsListsAndHomepage(t *testing.T) {
	s := newTestStore(t)
	r := NewInvalidationRouter(s, nil)

	s.Set(NamespaceQuotes, QuoteKey(1, 36, 48, 0), "quote")
	s.Set(NamespaceProducts, ListKey("products", nil), "list")
	s.Set(NamespaceHomepage, "home", "composite")
	s.Set(NamespaceCategories, "categories", "untouched")

	r.OnMutation(EntityProduct, 1)

	_, ok := s.Get(NamespaceQuotes, QuoteKey(1, 36, 48, 0))
	assert.False(t, ok)
	_, ok = s.Get(NamespaceProducts, ListKey("products", nil))
	assert.False(t, ok)
	_, ok = s.Get(NamespaceHomepage, "home")
	assert.False(t, ok)
	_, ok = s.Get(NamespaceCategories, "categories")
	assert.True(t, ok, "unrelated namespaces must survive")
}

func TestOnMutationHeroBannerEvictsHomepage(t *testing.T) {
	s := newTestStore(t)
	r := NewInvalidationRouter(s, nil)

	s.Set(NamespaceHeroBanners, "heroBanners", "list")
	s.Set(NamespaceHomepage, "home", "composite")
	s.Set(NamespaceQuotes, QuoteKey(1, 36, 48, 0), "quote")

	r.OnMutation(EntityHeroBanner, 9)

	_, ok := s.Get(NamespaceHeroBanners, "heroBanners")
	assert.False(t, ok)
	_, ok = s.Get(NamespaceHomepage, "home")
	assert.False(t, ok)
	_, ok = s.Get(NamespaceQuotes, QuoteKey(1, 36, 48, 0))
	assert.True(t, ok, "banner edits never touch quotes")
}

func TestOnMutationUnknownEntityIsNoOp(t *testing.T) {
	s := newTestStore(t)
	r := NewInvalidationRouter(s, nil)

	s.Set(NamespaceQuotes, "k", "v")
	r.OnMutation(EntityType("unknown"), 1)

	_, ok := s.Get(NamespaceQuotes, "k")
	assert.True(t, ok)
}

func TestRefreshAll(t *testing.T) {
	s := newTestStore(t)
	r := NewInvalidationRouter(s, nil)

	s.Set(NamespaceQuotes, "k1", 1)
	s.Set(NamespaceRooms, "k2", 2)

	r.RefreshAll()

	for _, ns := range []string{NamespaceQuotes, NamespaceRooms} {
		stats, ok := s.Stats(ns)
		require.True(t, ok)
		assert.Equal(t, 0, stats.Size, "namespace %s", ns)
	}
}

func TestCustomRule(t *testing.T) {
	s := NewStore(time.Minute, nil, nil)
	t.Cleanup(s.Close)
	r := NewInvalidationRouter(s, nil)

	r.Register(EntityType("promotion"), NamespaceHomepage, func(int64) string { return "*" })

	s.Set(NamespaceHomepage, "home", "composite")
	r.OnMutation(EntityType("promotion"), 0)

	_, ok := s.Get(NamespaceHomepage, "home")
	assert.False(t, ok)
}
