package pricing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"shadeworks/core/catalog"
	"shadeworks/internal/errors"
	"shadeworks/store/memory"
)

func seedProduct(t *testing.T, store *memory.Store, basePrice string) int64 {
	t.Helper()
	id, err := store.UpsertProduct(context.Background(), catalog.Product{
		Name:      "Roman Shade",
		Slug:      "roman-shade",
		BasePrice: decimal.RequireFromString(basePrice),
		MinWidth:  12,
		MaxWidth:  96,
		MinHeight: 12,
		MaxHeight: 96,
		Active:    true,
	})
	require.NoError(t, err)
	return id
}

func seedMatrixRow(t *testing.T, store *memory.Store, productID int64, wMin, wMax, hMin, hMax float64, price string) int64 {
	t.Helper()
	id, err := store.UpsertMatrixRow(context.Background(), catalog.PricingMatrixRow{
		ProductID: productID,
		Width:     catalog.DimensionRange{Min: wMin, Max: wMax},
		Height:    catalog.DimensionRange{Min: hMin, Max: hMax},
		BasePrice: decimal.RequireFromString(price),
		Active:    true,
	})
	require.NoError(t, err)
	return id
}

func TestResolveMatchingRow(t *testing.T) {
	store := memory.New()
	productID := seedProduct(t, store, "100")
	seedMatrixRow(t, store, productID, 24, 48, 24, 48, "150")

	resolver := NewMatrixResolver(store, nil)
	res, err := resolver.Resolve(context.Background(), productID, 36, 36)
	require.NoError(t, err)
	require.Equal(t, SourcePricingMatrix, res.Source)
	require.True(t, res.Price.Equal(decimal.RequireFromString("150")), "got %s", res.Price)
}

func TestResolveFallsBackToBasePrice(t *testing.T) {
	store := memory.New()
	productID := seedProduct(t, store, "100")
	seedMatrixRow(t, store, productID, 24, 48, 24, 48, "150")

	resolver := NewMatrixResolver(store, nil)
	res, err := resolver.Resolve(context.Background(), productID, 80, 80)
	require.NoError(t, err)
	require.Equal(t, SourceBasePrice, res.Source)
	require.True(t, res.Price.Equal(decimal.RequireFromString("100")))
}

func TestResolveDeterministic(t *testing.T) {
	store := memory.New()
	productID := seedProduct(t, store, "100")
	seedMatrixRow(t, store, productID, 24, 48, 24, 48, "150")

	resolver := NewMatrixResolver(store, nil)
	first, err := resolver.Resolve(context.Background(), productID, 36, 36)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		res, err := resolver.Resolve(context.Background(), productID, 36, 36)
		require.NoError(t, err)
		require.Equal(t, first.Source, res.Source)
		require.True(t, first.Price.Equal(res.Price))
	}
}

func TestResolveOverlappingRowsSmallestMinWidthWins(t *testing.T) {
	store := memory.New()
	productID := seedProduct(t, store, "100")
	// Deliberately overlapping bands; both cover 36x36.
	seedMatrixRow(t, store, productID, 30, 60, 20, 60, "200")
	seedMatrixRow(t, store, productID, 20, 50, 20, 50, "175")

	resolver := NewMatrixResolver(store, nil)
	res, err := resolver.Resolve(context.Background(), productID, 36, 36)
	require.NoError(t, err)
	require.Equal(t, SourcePricingMatrix, res.Source)
	require.True(t, res.Price.Equal(decimal.RequireFromString("175")), "smallest minWidth must win, got %s", res.Price)
}

func TestResolveTieBreakSmallestMinHeight(t *testing.T) {
	store := memory.New()
	productID := seedProduct(t, store, "100")
	seedMatrixRow(t, store, productID, 20, 50, 30, 60, "225")
	seedMatrixRow(t, store, productID, 20, 50, 25, 55, "190")

	resolver := NewMatrixResolver(store, nil)
	res, err := resolver.Resolve(context.Background(), productID, 36, 36)
	require.NoError(t, err)
	require.True(t, res.Price.Equal(decimal.RequireFromString("190")), "smallest minHeight must break ties, got %s", res.Price)
}

func TestResolveIgnoresInactiveRows(t *testing.T) {
	store := memory.New()
	productID := seedProduct(t, store, "100")
	_, err := store.UpsertMatrixRow(context.Background(), catalog.PricingMatrixRow{
		ProductID: productID,
		Width:     catalog.DimensionRange{Min: 24, Max: 48},
		Height:    catalog.DimensionRange{Min: 24, Max: 48},
		BasePrice: decimal.RequireFromString("150"),
		Active:    false,
	})
	require.NoError(t, err)

	resolver := NewMatrixResolver(store, nil)
	res, err := resolver.Resolve(context.Background(), productID, 36, 36)
	require.NoError(t, err)
	require.Equal(t, SourceBasePrice, res.Source)
}

func TestResolveInvalidDimensions(t *testing.T) {
	store := memory.New()
	productID := seedProduct(t, store, "100")
	resolver := NewMatrixResolver(store, nil)

	cases := []struct {
		name          string
		width, height float64
	}{
		{"zero width", 0, 36},
		{"negative width", -10, 36},
		{"zero height", 36, 0},
		{"negative height", 36, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolver.Resolve(context.Background(), productID, tc.width, tc.height)
			require.Error(t, err)
			require.True(t, errors.IsType(err, errors.TypeInvalidDimension), "got %v", err)
		})
	}
}

func TestResolveOutsideAdvertisedBounds(t *testing.T) {
	store := memory.New()
	productID := seedProduct(t, store, "100")
	resolver := NewMatrixResolver(store, nil)

	_, err := resolver.Resolve(context.Background(), productID, 200, 36)
	require.True(t, errors.IsType(err, errors.TypeInvalidDimension), "got %v", err)

	_, err = resolver.Resolve(context.Background(), productID, 36, 5)
	require.True(t, errors.IsType(err, errors.TypeInvalidDimension), "got %v", err)
}

func TestResolveUnknownProduct(t *testing.T) {
	resolver := NewMatrixResolver(memory.New(), nil)
	_, err := resolver.Resolve(context.Background(), 999, 36, 36)
	require.True(t, errors.IsType(err, errors.TypeNotFound), "got %v", err)
}

func TestResolveZeroBasePriceResolvesToZero(t *testing.T) {
	store := memory.New()
	productID := seedProduct(t, store, "0")

	resolver := NewMatrixResolver(store, nil)
	res, err := resolver.Resolve(context.Background(), productID, 36, 36)
	require.NoError(t, err, "a missing base price is a data-integrity warning, not a failure")
	require.Equal(t, SourceBasePrice, res.Source)
	require.True(t, res.Price.IsZero())
}
