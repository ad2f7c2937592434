// Package postgres is the production row store, backed by a pgx pool.
// Prices travel as text so decimal values survive the round trip exactly.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"shadeworks/core/catalog"
	"shadeworks/internal/errors"
)

// Store implements catalog.Store over PostgreSQL
type Store struct {
	pool *pgxpool.Pool
}

// New connects a pool and verifies the connection
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.StoreUnavailable("connect to postgres", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.StoreUnavailable("ping postgres", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool
func (s *Store) Close() {
	s.pool.Close()
}

// GetProduct returns a product by id
func (s *Store) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	const q = `
		SELECT id, name, slug, base_price::text,
		       min_width, max_width, min_height, max_height, active
		FROM products WHERE id = $1`

	var p catalog.Product
	var basePrice string
	err := s.pool.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.Name, &p.Slug, &basePrice,
		&p.MinWidth, &p.MaxWidth, &p.MinHeight, &p.MaxHeight, &p.Active)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("product", id)
	}
	if err != nil {
		return nil, errors.StoreUnavailable("query product", err)
	}

	if p.BasePrice, err = decimal.NewFromString(basePrice); err != nil {
		return nil, errors.DataIntegrity("product %d has unparseable base price %q", id, basePrice)
	}
	return &p, nil
}

// ActiveMatrixRows returns the active pricing matrix rows for a product
func (s *Store) ActiveMatrixRows(ctx context.Context, productID int64) ([]catalog.PricingMatrixRow, error) {
	const q = `
		SELECT id, product_id, min_width, max_width, min_height, max_height,
		       base_price::text, active
		FROM pricing_matrix
		WHERE product_id = $1 AND active
		ORDER BY min_width, min_height`

	rows, err := s.pool.Query(ctx, q, productID)
	if err != nil {
		return nil, errors.StoreUnavailable("query pricing matrix", err)
	}
	defer rows.Close()

	var out []catalog.PricingMatrixRow
	for rows.Next() {
		var row catalog.PricingMatrixRow
		var basePrice string
		if err := rows.Scan(&row.ID, &row.ProductID,
			&row.Width.Min, &row.Width.Max, &row.Height.Min, &row.Height.Max,
			&basePrice, &row.Active); err != nil {
			return nil, errors.StoreUnavailable("scan pricing matrix row", err)
		}
		if row.BasePrice, err = decimal.NewFromString(basePrice); err != nil {
			return nil, errors.DataIntegrity("matrix row %d has unparseable price %q", row.ID, basePrice)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StoreUnavailable("iterate pricing matrix", err)
	}
	return out, nil
}

// FabricRows returns fabric pricing rows for a (product, material) pair
func (s *Store) FabricRows(ctx context.Context, productID, materialID int64) ([]catalog.FabricPricingRow, error) {
	const q = `
		SELECT id, product_id, material_id, min_width, max_width, price_per_sqft::text
		FROM fabric_pricing
		WHERE product_id = $1 AND material_id = $2
		ORDER BY min_width`

	rows, err := s.pool.Query(ctx, q, productID, materialID)
	if err != nil {
		return nil, errors.StoreUnavailable("query fabric pricing", err)
	}
	defer rows.Close()

	var out []catalog.FabricPricingRow
	for rows.Next() {
		var row catalog.FabricPricingRow
		var rate string
		if err := rows.Scan(&row.ID, &row.ProductID, &row.MaterialID,
			&row.Width.Min, &row.Width.Max, &rate); err != nil {
			return nil, errors.StoreUnavailable("scan fabric pricing row", err)
		}
		if row.PricePerSqft, err = decimal.NewFromString(rate); err != nil {
			return nil, errors.DataIntegrity("fabric row %d has unparseable rate %q", row.ID, rate)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StoreUnavailable("iterate fabric pricing", err)
	}
	return out, nil
}

// ListProducts returns active products
func (s *Store) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	const q = `
		SELECT id, name, slug, base_price::text,
		       min_width, max_width, min_height, max_height, active
		FROM products WHERE active ORDER BY id`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, errors.StoreUnavailable("query products", err)
	}
	defer rows.Close()

	var out []catalog.Product
	for rows.Next() {
		var p catalog.Product
		var basePrice string
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &basePrice,
			&p.MinWidth, &p.MaxWidth, &p.MinHeight, &p.MaxHeight, &p.Active); err != nil {
			return nil, errors.StoreUnavailable("scan product", err)
		}
		if p.BasePrice, err = decimal.NewFromString(basePrice); err != nil {
			return nil, errors.DataIntegrity("product %d has unparseable base price %q", p.ID, basePrice)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StoreUnavailable("iterate products", err)
	}
	return out, nil
}

// ListCategories returns all categories
func (s *Store) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, slug FROM categories ORDER BY id`)
	if err != nil {
		return nil, errors.StoreUnavailable("query categories", err)
	}
	defer rows.Close()

	var out []catalog.Category
	for rows.Next() {
		var c catalog.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, errors.StoreUnavailable("scan category", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StoreUnavailable("iterate categories", err)
	}
	return out, nil
}

// ListHeroBanners returns active hero banners ordered by position
func (s *Store) ListHeroBanners(ctx context.Context) ([]catalog.HeroBanner, error) {
	const q = `SELECT id, title, image_url, position, active
		FROM hero_banners WHERE active ORDER BY position`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, errors.StoreUnavailable("query hero banners", err)
	}
	defer rows.Close()

	var out []catalog.HeroBanner
	for rows.Next() {
		var b catalog.HeroBanner
		if err := rows.Scan(&b.ID, &b.Title, &b.ImageURL, &b.Position, &b.Active); err != nil {
			return nil, errors.StoreUnavailable("scan hero banner", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StoreUnavailable("iterate hero banners", err)
	}
	return out, nil
}

// ListRooms returns all rooms
func (s *Store) ListRooms(ctx context.Context) ([]catalog.Room, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, slug FROM rooms ORDER BY id`)
	if err != nil {
		return nil, errors.StoreUnavailable("query rooms", err)
	}
	defer rows.Close()

	var out []catalog.Room
	for rows.Next() {
		var r catalog.Room
		if err := rows.Scan(&r.ID, &r.Name, &r.Slug); err != nil {
			return nil, errors.StoreUnavailable("scan room", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StoreUnavailable("iterate rooms", err)
	}
	return out, nil
}

// UpsertProduct inserts or replaces a product
func (s *Store) UpsertProduct(ctx context.Context, p catalog.Product) (int64, error) {
	const q = `
		INSERT INTO products (id, name, slug, base_price, min_width, max_width, min_height, max_height, active)
		VALUES (COALESCE(NULLIF($1, 0), nextval('products_id_seq')), $2, $3, $4::numeric, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, slug = EXCLUDED.slug, base_price = EXCLUDED.base_price,
			min_width = EXCLUDED.min_width, max_width = EXCLUDED.max_width,
			min_height = EXCLUDED.min_height, max_height = EXCLUDED.max_height,
			active = EXCLUDED.active
		RETURNING id`

	var id int64
	err := s.pool.QueryRow(ctx, q, p.ID, p.Name, p.Slug, p.BasePrice.String(),
		p.MinWidth, p.MaxWidth, p.MinHeight, p.MaxHeight, p.Active).Scan(&id)
	if err != nil {
		return 0, errors.StoreUnavailable("upsert product", err)
	}
	return id, nil
}

// UpsertMatrixRow inserts or replaces a pricing matrix row
func (s *Store) UpsertMatrixRow(ctx context.Context, row catalog.PricingMatrixRow) (int64, error) {
	const q = `
		INSERT INTO pricing_matrix (id, product_id, min_width, max_width, min_height, max_height, base_price, active)
		VALUES (COALESCE(NULLIF($1, 0), nextval('pricing_matrix_id_seq')), $2, $3, $4, $5, $6, $7::numeric, $8)
		ON CONFLICT (id) DO UPDATE SET
			product_id = EXCLUDED.product_id,
			min_width = EXCLUDED.min_width, max_width = EXCLUDED.max_width,
			min_height = EXCLUDED.min_height, max_height = EXCLUDED.max_height,
			base_price = EXCLUDED.base_price, active = EXCLUDED.active
		RETURNING id`

	var id int64
	err := s.pool.QueryRow(ctx, q, row.ID, row.ProductID,
		row.Width.Min, row.Width.Max, row.Height.Min, row.Height.Max,
		row.BasePrice.String(), row.Active).Scan(&id)
	if err != nil {
		return 0, errors.StoreUnavailable("upsert pricing matrix row", err)
	}
	return id, nil
}

// DeleteMatrixRow removes a pricing matrix row
func (s *Store) DeleteMatrixRow(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM pricing_matrix WHERE id = $1`, id)
	if err != nil {
		return errors.StoreUnavailable("delete pricing matrix row", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("pricing matrix row", id)
	}
	return nil
}

// UpsertFabricRow inserts or replaces a fabric pricing row
func (s *Store) UpsertFabricRow(ctx context.Context, row catalog.FabricPricingRow) (int64, error) {
	const q = `
		INSERT INTO fabric_pricing (id, product_id, material_id, min_width, max_width, price_per_sqft)
		VALUES (COALESCE(NULLIF($1, 0), nextval('fabric_pricing_id_seq')), $2, $3, $4, $5, $6::numeric)
		ON CONFLICT (id) DO UPDATE SET
			product_id = EXCLUDED.product_id, material_id = EXCLUDED.material_id,
			min_width = EXCLUDED.min_width, max_width = EXCLUDED.max_width,
			price_per_sqft = EXCLUDED.price_per_sqft
		RETURNING id`

	var id int64
	err := s.pool.QueryRow(ctx, q, row.ID, row.ProductID, row.MaterialID,
		row.Width.Min, row.Width.Max, row.PricePerSqft.String()).Scan(&id)
	if err != nil {
		return 0, errors.StoreUnavailable("upsert fabric pricing row", err)
	}
	return id, nil
}

// DeleteFabricRow removes a fabric pricing row
func (s *Store) DeleteFabricRow(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM fabric_pricing WHERE id = $1`, id)
	if err != nil {
		return errors.StoreUnavailable("delete fabric pricing row", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("fabric pricing row", id)
	}
	return nil
}

// UpsertCategory inserts or replaces a category
func (s *Store) UpsertCategory(ctx context.Context, c catalog.Category) (int64, error) {
	const q = `
		INSERT INTO categories (id, name, slug)
		VALUES (COALESCE(NULLIF($1, 0), nextval('categories_id_seq')), $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, slug = EXCLUDED.slug
		RETURNING id`

	var id int64
	if err := s.pool.QueryRow(ctx, q, c.ID, c.Name, c.Slug).Scan(&id); err != nil {
		return 0, errors.StoreUnavailable("upsert category", err)
	}
	return id, nil
}

// UpsertHeroBanner inserts or replaces a hero banner
func (s *Store) UpsertHeroBanner(ctx context.Context, b catalog.HeroBanner) (int64, error) {
	const q = `
		INSERT INTO hero_banners (id, title, image_url, position, active)
		VALUES (COALESCE(NULLIF($1, 0), nextval('hero_banners_id_seq')), $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, image_url = EXCLUDED.image_url,
			position = EXCLUDED.position, active = EXCLUDED.active
		RETURNING id`

	var id int64
	if err := s.pool.QueryRow(ctx, q, b.ID, b.Title, b.ImageURL, b.Position, b.Active).Scan(&id); err != nil {
		return 0, errors.StoreUnavailable("upsert hero banner", err)
	}
	return id, nil
}

// UpsertRoom inserts or replaces a room
func (s *Store) UpsertRoom(ctx context.Context, r catalog.Room) (int64, error) {
	const q = `
		INSERT INTO rooms (id, name, slug)
		VALUES (COALESCE(NULLIF($1, 0), nextval('rooms_id_seq')), $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, slug = EXCLUDED.slug
		RETURNING id`

	var id int64
	if err := s.pool.QueryRow(ctx, q, r.ID, r.Name, r.Slug).Scan(&id); err != nil {
		return 0, errors.StoreUnavailable("upsert room", err)
	}
	return id, nil
}
