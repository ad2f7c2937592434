// Package memory is an in-memory row store. It backs tests and local
// development; production runs the postgres store behind the same
// interface.
package memory

import (
	"context"
	"sort"
	"sync"

	"shadeworks/core/catalog"
	"shadeworks/internal/errors"
)

// Store holds all catalog rows in maps guarded by one RWMutex
type Store struct {
	mu sync.RWMutex

	products    map[int64]catalog.Product
	matrixRows  map[int64]catalog.PricingMatrixRow
	fabricRows  map[int64]catalog.FabricPricingRow
	categories  map[int64]catalog.Category
	heroBanners map[int64]catalog.HeroBanner
	rooms       map[int64]catalog.Room

	nextID int64
}

// New creates an empty store
func New() *Store {
	return &Store{
		products:    make(map[int64]catalog.Product),
		matrixRows:  make(map[int64]catalog.PricingMatrixRow),
		fabricRows:  make(map[int64]catalog.FabricPricingRow),
		categories:  make(map[int64]catalog.Category),
		heroBanners: make(map[int64]catalog.HeroBanner),
		rooms:       make(map[int64]catalog.Room),
	}
}

func (s *Store) allocID() int64 {
	s.nextID++
	return s.nextID
}

// GetProduct returns a product by id
func (s *Store) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, errors.NotFound("product", id)
	}
	return &p, nil
}

// ActiveMatrixRows returns the active pricing matrix rows for a product
func (s *Store) ActiveMatrixRows(ctx context.Context, productID int64) ([]catalog.PricingMatrixRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []catalog.PricingMatrixRow
	for _, row := range s.matrixRows {
		if row.ProductID == productID && row.Active {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

// FabricRows returns fabric pricing rows for a (product, material) pair
func (s *Store) FabricRows(ctx context.Context, productID, materialID int64) ([]catalog.FabricPricingRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []catalog.FabricPricingRow
	for _, row := range s.fabricRows {
		if row.ProductID == productID && row.MaterialID == materialID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

// ListProducts returns active products ordered by id
func (s *Store) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []catalog.Product
	for _, p := range s.products {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListCategories returns all categories ordered by id
func (s *Store) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListHeroBanners returns active banners ordered by position
func (s *Store) ListHeroBanners(ctx context.Context) ([]catalog.HeroBanner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []catalog.HeroBanner
	for _, b := range s.heroBanners {
		if b.Active {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// ListRooms returns all rooms ordered by id
func (s *Store) ListRooms(ctx context.Context) ([]catalog.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpsertProduct inserts or replaces a product
func (s *Store) UpsertProduct(ctx context.Context, p catalog.Product) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.allocID()
	} else if p.ID > s.nextID {
		s.nextID = p.ID
	}
	s.products[p.ID] = p
	return p.ID, nil
}

// UpsertMatrixRow inserts or replaces a pricing matrix row
func (s *Store) UpsertMatrixRow(ctx context.Context, row catalog.PricingMatrixRow) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row.ID == 0 {
		row.ID = s.allocID()
	} else if row.ID > s.nextID {
		s.nextID = row.ID
	}
	s.matrixRows[row.ID] = row
	return row.ID, nil
}

// DeleteMatrixRow removes a pricing matrix row
func (s *Store) DeleteMatrixRow(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matrixRows[id]; !ok {
		return errors.NotFound("pricing matrix row", id)
	}
	delete(s.matrixRows, id)
	return nil
}

// UpsertFabricRow inserts or replaces a fabric pricing row
func (s *Store) UpsertFabricRow(ctx context.Context, row catalog.FabricPricingRow) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row.ID == 0 {
		row.ID = s.allocID()
	} else if row.ID > s.nextID {
		s.nextID = row.ID
	}
	s.fabricRows[row.ID] = row
	return row.ID, nil
}

// DeleteFabricRow removes a fabric pricing row
func (s *Store) DeleteFabricRow(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fabricRows[id]; !ok {
		return errors.NotFound("fabric pricing row", id)
	}
	delete(s.fabricRows, id)
	return nil
}

// UpsertCategory inserts or replaces a category
func (s *Store) UpsertCategory(ctx context.Context, c catalog.Category) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.allocID()
	} else if c.ID > s.nextID {
		s.nextID = c.ID
	}
	s.categories[c.ID] = c
	return c.ID, nil
}

// UpsertHeroBanner inserts or replaces a hero banner
func (s *Store) UpsertHeroBanner(ctx context.Context, b catalog.HeroBanner) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		b.ID = s.allocID()
	} else if b.ID > s.nextID {
		s.nextID = b.ID
	}
	s.heroBanners[b.ID] = b
	return b.ID, nil
}

// UpsertRoom inserts or replaces a room
func (s *Store) UpsertRoom(ctx context.Context, r catalog.Room) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		r.ID = s.allocID()
	} else if r.ID > s.nextID {
		s.nextID = r.ID
	}
	s.rooms[r.ID] = r
	return r.ID, nil
}
