package catalog

import "context"

// RowStore is the read side of the underlying row store. Both pricing
// resolvers query it the same way; the storefront list endpoints use the
// aggregate reads. Implementations report failures as STORE_UNAVAILABLE
// errors and perform no retries.
type RowStore interface {
	// GetProduct returns a product by id
	GetProduct(ctx context.Context, id int64) (*Product, error)

	// ActiveMatrixRows returns the active pricing matrix rows for a product
	ActiveMatrixRows(ctx context.Context, productID int64) ([]PricingMatrixRow, error)

	// FabricRows returns fabric pricing rows for a (product, material) pair
	FabricRows(ctx context.Context, productID, materialID int64) ([]FabricPricingRow, error)

	// ListProducts returns active products
	ListProducts(ctx context.Context) ([]Product, error)

	// ListCategories returns all categories
	ListCategories(ctx context.Context) ([]Category, error)

	// ListHeroBanners returns active hero banners ordered by position
	ListHeroBanners(ctx context.Context) ([]HeroBanner, error)

	// ListRooms returns all rooms
	ListRooms(ctx context.Context) ([]Room, error)
}

// MutationStore is the write side used by the admin/vendor back-office.
// Every mutation must be followed by cache invalidation before the write
// is acknowledged; that ordering lives in core/admin, not here.
type MutationStore interface {
	// UpsertProduct inserts or replaces a product
	UpsertProduct(ctx context.Context, p Product) (int64, error)

	// UpsertMatrixRow inserts or replaces a pricing matrix row
	UpsertMatrixRow(ctx context.Context, row PricingMatrixRow) (int64, error)

	// DeleteMatrixRow removes a pricing matrix row
	DeleteMatrixRow(ctx context.Context, id int64) error

	// UpsertFabricRow inserts or replaces a fabric pricing row
	UpsertFabricRow(ctx context.Context, row FabricPricingRow) (int64, error)

	// DeleteFabricRow removes a fabric pricing row
	DeleteFabricRow(ctx context.Context, id int64) error

	// UpsertCategory inserts or replaces a category
	UpsertCategory(ctx context.Context, c Category) (int64, error)

	// UpsertHeroBanner inserts or replaces a hero banner
	UpsertHeroBanner(ctx context.Context, b HeroBanner) (int64, error)

	// UpsertRoom inserts or replaces a room
	UpsertRoom(ctx context.Context, r Room) (int64, error)
}

// Store combines the read and write sides
type Store interface {
	RowStore
	MutationStore
}
