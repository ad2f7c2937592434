// Package admin is the back-office write path. Every mutation runs the
// row-store write first and cache invalidation second, before the call
// returns, so no subsequent read can observe new rows with a still-cached
// old price.
package admin

import (
	"context"

	"go.uber.org/zap"

	"shadeworks/cache"
	"shadeworks/core/catalog"
)

// Service applies admin/vendor mutations and keeps the cache coherent
type Service struct {
	store       catalog.Store
	invalidator *cache.InvalidationRouter
	log         *zap.Logger
}

// NewService creates the admin mutation service
func NewService(store catalog.Store, invalidator *cache.InvalidationRouter, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, invalidator: invalidator, log: log}
}

// UpsertProduct writes a product and evicts its quotes and list caches
func (s *Service) UpsertProduct(ctx context.Context, p catalog.Product) (int64, error) {
	id, err := s.store.UpsertProduct(ctx, p)
	if err != nil {
		return 0, err
	}
	s.invalidator.OnMutation(cache.EntityProduct, id)
	return id, nil
}

// UpsertMatrixRow writes a pricing matrix row and evicts the owning
// product's cached quotes
func (s *Service) UpsertMatrixRow(ctx context.Context, row catalog.PricingMatrixRow) (int64, error) {
	id, err := s.store.UpsertMatrixRow(ctx, row)
	if err != nil {
		return 0, err
	}
	s.invalidator.OnMutation(cache.EntityPricingMatrix, row.ProductID)
	s.log.Info("pricing matrix row upserted",
		zap.Int64("row_id", id), zap.Int64("product_id", row.ProductID))
	return id, nil
}

// DeleteMatrixRow removes a pricing matrix row. productID scopes the
// eviction; rows are leaves so deletion orphans nothing.
func (s *Service) DeleteMatrixRow(ctx context.Context, id, productID int64) error {
	if err := s.store.DeleteMatrixRow(ctx, id); err != nil {
		return err
	}
	s.invalidator.OnMutation(cache.EntityPricingMatrix, productID)
	return nil
}

// UpsertFabricRow writes a fabric pricing row and evicts the owning
// product's cached quotes
func (s *Service) UpsertFabricRow(ctx context.Context, row catalog.FabricPricingRow) (int64, error) {
	id, err := s.store.UpsertFabricRow(ctx, row)
	if err != nil {
		return 0, err
	}
	s.invalidator.OnMutation(cache.EntityFabricPricing, row.ProductID)
	s.log.Info("fabric pricing row upserted",
		zap.Int64("row_id", id), zap.Int64("product_id", row.ProductID))
	return id, nil
}

// DeleteFabricRow removes a fabric pricing row
func (s *Service) DeleteFabricRow(ctx context.Context, id, productID int64) error {
	if err := s.store.DeleteFabricRow(ctx, id); err != nil {
		return err
	}
	s.invalidator.OnMutation(cache.EntityFabricPricing, productID)
	return nil
}

// UpsertCategory writes a category and evicts category/homepage caches
func (s *Service) UpsertCategory(ctx context.Context, c catalog.Category) (int64, error) {
	id, err := s.store.UpsertCategory(ctx, c)
	if err != nil {
		return 0, err
	}
	s.invalidator.OnMutation(cache.EntityCategory, id)
	return id, nil
}

// UpsertHeroBanner writes a hero banner and evicts banner/homepage caches
func (s *Service) UpsertHeroBanner(ctx context.Context, b catalog.HeroBanner) (int64, error) {
	id, err := s.store.UpsertHeroBanner(ctx, b)
	if err != nil {
		return 0, err
	}
	s.invalidator.OnMutation(cache.EntityHeroBanner, id)
	return id, nil
}

// UpsertRoom writes a room and evicts room/homepage caches
func (s *Service) UpsertRoom(ctx context.Context, r catalog.Room) (int64, error) {
	id, err := s.store.UpsertRoom(ctx, r)
	if err != nil {
		return 0, err
	}
	s.invalidator.OnMutation(cache.EntityRoom, id)
	return id, nil
}

// RefreshAllCaches clears every cache namespace. Explicit admin action.
func (s *Service) RefreshAllCaches() {
	s.invalidator.RefreshAll()
}
