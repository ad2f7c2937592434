package pricing

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"shadeworks/core/catalog"
)

// squareInchesPerSqft converts width*height in inches to square feet
const squareInchesPerSqft = 144.0

// FabricQuote is the fabric surcharge for a quoted dimension
type FabricQuote struct {
	// PricePerSqft is the matched band's rate; zero when the product has
	// no fabric dimension or the material has no rows
	PricePerSqft decimal.Decimal `json:"price_per_sqft"`

	// Area is the quoted area in square feet
	Area float64 `json:"area"`

	// Total is PricePerSqft times Area, unrounded
	Total decimal.Decimal `json:"total"`
}

// FabricCalculator computes the per-square-foot fabric surcharge for a
// (product, material) pair by width band.
type FabricCalculator struct {
	rows catalog.RowStore
}

// NewFabricCalculator creates a calculator backed by the given row store
func NewFabricCalculator(rows catalog.RowStore) *FabricCalculator {
	return &FabricCalculator{rows: rows}
}

// PriceFabric returns the fabric surcharge for productID with materialID
// at the requested dimensions.
//
// A zero materialID, or a material with no pricing rows for this product,
// resolves to an explicit zero surcharge rather than an error: many
// products have no fabric dimension at all. Band selection mirrors the
// matrix rule but is one-dimensional; the smallest minimum width wins.
// Rounding happens at the presentation boundary, never here.
func (c *FabricCalculator) PriceFabric(ctx context.Context, productID, materialID int64, width, height float64) (FabricQuote, error) {
	if err := ValidateDimensions(width, height); err != nil {
		return FabricQuote{}, err
	}

	area := width * height / squareInchesPerSqft

	if materialID == 0 {
		return FabricQuote{PricePerSqft: decimal.Zero, Area: area, Total: decimal.Zero}, nil
	}

	rows, err := c.rows.FabricRows(ctx, productID, materialID)
	if err != nil {
		return FabricQuote{}, err
	}

	matches := rows[:0:0]
	for _, row := range rows {
		if row.Width.Contains(width) {
			matches = append(matches, row)
		}
	}

	if len(matches) == 0 {
		return FabricQuote{PricePerSqft: decimal.Zero, Area: area, Total: decimal.Zero}, nil
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Width.Min < matches[j].Width.Min
	})

	rate := matches[0].PricePerSqft
	total := rate.Mul(decimal.NewFromFloat(area))

	return FabricQuote{PricePerSqft: rate, Area: area, Total: total}, nil
}
