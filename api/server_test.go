package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shadeworks/cache"
	"shadeworks/core/admin"
	"shadeworks/core/catalog"
	"shadeworks/core/pricing"
	"shadeworks/core/quote"
	"shadeworks/store/memory"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()

	store := memory.New()
	cacheStore := cache.NewStore(time.Minute, nil, nil)
	t.Cleanup(cacheStore.Close)

	resolver := pricing.NewMatrixResolver(store, nil)
	fabric := pricing.NewFabricCalculator(store)
	aggregator := pricing.NewAggregator(resolver, fabric)
	invalidator := cache.NewInvalidationRouter(cacheStore, nil)

	quotes := quote.NewService(aggregator, cacheStore, true)
	adminSvc := admin.NewService(store, invalidator, nil)

	return NewServer(quotes, store, adminSvc, cacheStore, nil, "test"), store
}

func seedCatalog(t *testing.T, store *memory.Store) int64 {
	t.Helper()
	ctx := context.Background()

	productID, err := store.UpsertProduct(ctx, catalog.Product{
		Name:      "Cellular Shade",
		Slug:      "cellular-shade",
		BasePrice: decimal.RequireFromString("100"),
		MinWidth:  12,
		MaxWidth:  96,
		MinHeight: 12,
		MaxHeight: 96,
		Active:    true,
	})
	require.NoError(t, err)

	_, err = store.UpsertMatrixRow(ctx, catalog.PricingMatrixRow{
		ProductID: productID,
		Width:     catalog.DimensionRange{Min: 24, Max: 48},
		Height:    catalog.DimensionRange{Min: 24, Max: 48},
		BasePrice: decimal.RequireFromString("150"),
		Active:    true,
	})
	require.NoError(t, err)

	_, err = store.UpsertFabricRow(ctx, catalog.FabricPricingRow{
		ProductID:    productID,
		MaterialID:   2,
		Width:        catalog.DimensionRange{Min: 24, Max: 48},
		PricePerSqft: decimal.RequireFromString("3.00"),
	})
	require.NoError(t, err)

	return productID
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestQuoteEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	seedCatalog(t, store)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/quote?product=1&width=36&height=36&material=2", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp QuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "150.00", resp.BasePrice)
	assert.Equal(t, "27.00", resp.FabricPrice)
	assert.Equal(t, "177.00", resp.TotalPrice)
	assert.Equal(t, "pricing_matrix", resp.Breakdown.PriceSource)
	assert.Equal(t, "3.00", resp.Breakdown.PricePerSqft)
	assert.Equal(t, 9.0, resp.Breakdown.AreaSqft)
}

func TestQuoteEndpointInvalidDimension(t *testing.T) {
	srv, store := newTestServer(t)
	seedCatalog(t, store)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/quote?product=1&width=-5&height=36", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_DIMENSION", resp.Error.Type)
}

func TestQuoteEndpointUnknownProduct(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/quote?product=999&width=36&height=36", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuoteEndpointMissingProduct(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/quote?width=36&height=36", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminMutationInvalidatesQuote(t *testing.T) {
	srv, store := newTestServer(t)
	productID := seedCatalog(t, store)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/quote?product=1&width=36&height=36", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var before QuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &before))
	assert.Equal(t, "150.00", before.TotalPrice)

	rec = doJSON(t, srv, http.MethodPut, "/api/v1/admin/pricing-matrix", UpsertMatrixRowRequest{
		ProductID: productID,
		MinWidth:  20, MaxWidth: 40,
		MinHeight: 20, MaxHeight: 40,
		BasePrice: "130",
		Active:    true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/quote?product=1&width=36&height=36", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var after QuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	assert.Equal(t, "130.00", after.TotalPrice, "write must be visible on the very next read")
}

func TestAdminUpsertValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	// product_id is required
	rec := doJSON(t, srv, http.MethodPut, "/api/v1/admin/pricing-matrix", UpsertMatrixRowRequest{
		BasePrice: "130",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// max_width below min_width
	rec = doJSON(t, srv, http.MethodPut, "/api/v1/admin/pricing-matrix", UpsertMatrixRowRequest{
		ProductID: 1,
		MinWidth:  40, MaxWidth: 20,
		MinHeight: 20, MaxHeight: 40,
		BasePrice: "130",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteMatrixRowRequiresProductScope(t *testing.T) {
	srv, store := newTestServer(t)
	seedCatalog(t, store)

	// The matrix row seeded after the product gets id 2.
	rec := doJSON(t, srv, http.MethodDelete, "/api/v1/admin/pricing-matrix/2", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/v1/admin/pricing-matrix/2?product=1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Row gone, quote falls back to the base price.
	rec = doJSON(t, srv, http.MethodGet, "/api/v1/quote?product=1&width=36&height=36", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp QuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "base_price", resp.Breakdown.PriceSource)
	assert.Equal(t, "100.00", resp.TotalPrice)
}

func TestListEndpointsAndHomepage(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/v1/admin/categories", UpsertCategoryRequest{Name: "Shades", Slug: "shades"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodPut, "/api/v1/admin/hero-banners", UpsertHeroBannerRequest{
		Title:    "Summer Sale",
		ImageURL: "https://cdn.example.com/banners/summer.jpg",
		Position: 1,
		Active:   true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodPut, "/api/v1/admin/rooms", UpsertRoomRequest{Name: "Living Room", Slug: "living-room"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/home", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var home HomepageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &home))
	assert.Len(t, home.Banners, 1)
	assert.Len(t, home.Categories, 1)
	assert.Len(t, home.Rooms, 1)

	// A banner edit must show on the next homepage read.
	rec = doJSON(t, srv, http.MethodPut, "/api/v1/admin/hero-banners", UpsertHeroBannerRequest{
		Title:    "Fall Sale",
		ImageURL: "https://cdn.example.com/banners/fall.jpg",
		Position: 2,
		Active:   true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/home", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &home))
	assert.Len(t, home.Banners, 2)
}

func TestCacheStatsEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	seedCatalog(t, store)

	doJSON(t, srv, http.MethodGet, "/api/v1/quote?product=1&width=36&height=36", nil)
	doJSON(t, srv, http.MethodGet, "/api/v1/quote?product=1&width=36&height=36", nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/admin/cache/stats?namespace=quotes", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats cache.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, 1, stats.Size)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/admin/cache/stats?namespace=nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCacheRefreshEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	seedCatalog(t, store)

	doJSON(t, srv, http.MethodGet, "/api/v1/quote?product=1&width=36&height=36", nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/admin/cache/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/admin/cache/stats?namespace=quotes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats cache.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.Size)
}

func TestHealthAndVersion(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = doJSON(t, srv, http.MethodGet, "/version", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
