package cache

import (
	"go.uber.org/zap"
)

// EntityType identifies the subject of a mutation for invalidation routing
type EntityType string

const (
	EntityProduct       EntityType = "product"
	EntityPricingMatrix EntityType = "pricing_matrix"
	EntityFabricPricing EntityType = "fabric_pricing"
	EntityFabricOption  EntityType = "fabric_option"
	EntityCategory      EntityType = "category"
	EntityHeroBanner    EntityType = "hero_banner"
	EntityRoom          EntityType = "room"
)

// rule maps a mutation subject to one namespace eviction
type rule struct {
	namespace string
	pattern   func(scopeID int64) string
}

// InvalidationRouter maps mutation events to the cache namespaces and key
// patterns that must be dropped. Rules are declared once at construction;
// eviction runs synchronously inside OnMutation so a cached price can
// never outlive the rows that produced it.
type InvalidationRouter struct {
	store *Store
	rules map[EntityType][]rule
	log   *zap.Logger
}

// NewInvalidationRouter creates a router with the storefront's rule table
func NewInvalidationRouter(store *Store, log *zap.Logger) *InvalidationRouter {
	if log == nil {
		log = zap.NewNop()
	}
	r := &InvalidationRouter{
		store: store,
		rules: make(map[EntityType][]rule),
		log:   log,
	}
	r.registerDefaults()
	return r
}

// Register adds an eviction rule for an entity type. pattern receives the
// mutation scope id (product id for pricing rows, entity id otherwise).
func (r *InvalidationRouter) Register(entity EntityType, namespace string, pattern func(scopeID int64) string) {
	r.rules[entity] = append(r.rules[entity], rule{namespace: namespace, pattern: pattern})
}

func (r *InvalidationRouter) registerDefaults() {
	productQuotes := func(productID int64) string {
		return ProductScope(productID) + KeySeparator + "*"
	}
	all := func(int64) string { return "*" }

	// Pricing edits evict only the affected product's quotes, never the
	// whole quote namespace.
	r.Register(EntityPricingMatrix, NamespaceQuotes, productQuotes)
	r.Register(EntityFabricPricing, NamespaceQuotes, productQuotes)
	r.Register(EntityFabricOption, NamespaceQuotes, productQuotes)

	r.Register(EntityProduct, NamespaceQuotes, productQuotes)
	r.Register(EntityProduct, NamespaceProducts, all)
	r.Register(EntityProduct, NamespaceHomepage, all)

	r.Register(EntityCategory, NamespaceCategories, all)
	r.Register(EntityCategory, NamespaceHomepage, all)

	r.Register(EntityHeroBanner, NamespaceHeroBanners, all)
	r.Register(EntityHeroBanner, NamespaceHomepage, all)

	r.Register(EntityRoom, NamespaceRooms, all)
	r.Register(EntityRoom, NamespaceHomepage, all)
}

// OnMutation evicts every cache entry that could have memoized a stale
// computation for the mutated entity. It must be called on the write path
// after the row mutation commits and before the write is acknowledged.
func (r *InvalidationRouter) OnMutation(entity EntityType, scopeID int64) {
	rules, ok := r.rules[entity]
	if !ok {
		r.log.Warn("no invalidation rules for entity", zap.String("entity", string(entity)))
		return
	}

	for _, rule := range rules {
		pattern := rule.pattern(scopeID)
		evicted := r.store.Invalidate(rule.namespace, pattern)
		r.log.Debug("cache invalidated",
			zap.String("entity", string(entity)),
			zap.Int64("scope_id", scopeID),
			zap.String("namespace", rule.namespace),
			zap.String("pattern", pattern),
			zap.Int("evicted", evicted))
	}
}

// RefreshAll clears every namespace. This is the explicit admin-triggered
// "refresh all caches" action, not part of any mutation path.
func (r *InvalidationRouter) RefreshAll() {
	r.store.ClearAll()
	r.log.Info("all cache namespaces cleared")
}
