// Package pricing resolves dimension-driven prices. Products are custom
// manufactured to a customer-supplied width/height, so price is not a
// stored scalar: it is resolved at request time from the product's pricing
// matrix, its fabric pricing rows, and the base-price fallback.
package pricing

import (
	"context"
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shadeworks/core/catalog"
	"shadeworks/internal/errors"
)

// Source identifies where a resolved price came from
type Source string

const (
	// SourcePricingMatrix means a matrix row covered the dimensions
	SourcePricingMatrix Source = "pricing_matrix"

	// SourceBasePrice means no row matched and the product base price applied
	SourceBasePrice Source = "base_price"
)

// Resolution is the outcome of a matrix lookup
type Resolution struct {
	// Price is the resolved price, unrounded
	Price decimal.Decimal `json:"price"`

	// Source is where the price came from
	Source Source `json:"source"`
}

// MatrixResolver finds the pricing matrix row covering a requested
// width/height and falls back to the product base price when none does.
type MatrixResolver struct {
	rows catalog.RowStore
	log  *zap.Logger
}

// NewMatrixResolver creates a resolver backed by the given row store
func NewMatrixResolver(rows catalog.RowStore, log *zap.Logger) *MatrixResolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &MatrixResolver{rows: rows, log: log}
}

// Resolve returns the price for productID at the requested dimensions.
//
// Among matching active rows the one with the smallest minimum width wins,
// tie-broken by smallest minimum height. Overlapping rows are tolerated;
// the winner is the first-defined band, not the cheapest. Resolution is a
// pure read: store failures propagate undecorated and nothing is retried.
func (r *MatrixResolver) Resolve(ctx context.Context, productID int64, width, height float64) (Resolution, error) {
	if err := ValidateDimensions(width, height); err != nil {
		return Resolution{}, err
	}

	product, err := r.rows.GetProduct(ctx, productID)
	if err != nil {
		return Resolution{}, err
	}

	if err := checkAdvertisedBounds(product, width, height); err != nil {
		return Resolution{}, err
	}

	rows, err := r.rows.ActiveMatrixRows(ctx, productID)
	if err != nil {
		return Resolution{}, err
	}

	matches := rows[:0:0]
	for _, row := range rows {
		if row.Covers(width, height) {
			matches = append(matches, row)
		}
	}

	if len(matches) > 0 {
		sort.Slice(matches, func(i, j int) bool {
			if matches[i].Width.Min != matches[j].Width.Min {
				return matches[i].Width.Min < matches[j].Width.Min
			}
			return matches[i].Height.Min < matches[j].Height.Min
		})
		return Resolution{Price: matches[0].BasePrice, Source: SourcePricingMatrix}, nil
	}

	// No row covers the dimensions. A product without a usable base price
	// resolves to zero: support staff can catch a visibly-wrong price, but
	// blocking the quote entirely would be worse.
	if product.BasePrice.LessThanOrEqual(decimal.Zero) {
		r.log.Warn("no matrix row and no usable base price",
			zap.Int64("product_id", productID),
			zap.Float64("width", width),
			zap.Float64("height", height))
		return Resolution{Price: decimal.Zero, Source: SourceBasePrice}, nil
	}

	return Resolution{Price: product.BasePrice, Source: SourceBasePrice}, nil
}

// ValidateDimensions rejects non-finite or non-positive dimensions.
// Values like these are a caller error, never silently coerced.
func ValidateDimensions(width, height float64) error {
	if math.IsNaN(width) || math.IsInf(width, 0) || math.IsNaN(height) || math.IsInf(height, 0) {
		return errors.InvalidDimension("width and height must be finite numbers")
	}
	if width <= 0 {
		return errors.InvalidDimension("width must be positive, got %v", width)
	}
	if height <= 0 {
		return errors.InvalidDimension("height must be positive, got %v", height)
	}
	return nil
}

// checkAdvertisedBounds rejects dimensions outside the product's advertised
// min/max. Bounds of zero mean the product does not advertise a limit.
func checkAdvertisedBounds(p *catalog.Product, width, height float64) error {
	if p.MaxWidth > 0 && (width < p.MinWidth || width > p.MaxWidth) {
		return errors.InvalidDimension("width %v outside advertised range %v-%v", width, p.MinWidth, p.MaxWidth).
			WithContext("product_id", p.ID)
	}
	if p.MaxHeight > 0 && (height < p.MinHeight || height > p.MaxHeight) {
		return errors.InvalidDimension("height %v outside advertised range %v-%v", height, p.MinHeight, p.MaxHeight).
			WithContext("product_id", p.ID)
	}
	return nil
}
