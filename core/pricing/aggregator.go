package pricing

import (
	"context"

	"github.com/shopspring/decimal"

	"shadeworks/internal/errors"
)

// Quote is a fully resolved price for one product at one set of dimensions
type Quote struct {
	// ProductID is the quoted product
	ProductID int64 `json:"product_id"`

	// Width and Height are the requested dimensions in inches
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// MaterialID is the chosen fabric option, zero if none
	MaterialID int64 `json:"material_id,omitempty"`

	// BasePrice is the matrix-tier (or fallback) price
	BasePrice decimal.Decimal `json:"base_price"`

	// FabricPrice is the fabric surcharge
	FabricPrice decimal.Decimal `json:"fabric_price"`

	// TotalPrice is BasePrice plus FabricPrice, unrounded
	TotalPrice decimal.Decimal `json:"total_price"`

	// Breakdown explains how the quote was assembled
	Breakdown Breakdown `json:"breakdown"`
}

// Breakdown records the inputs behind a quote
type Breakdown struct {
	// PriceSource is where the base price came from
	PriceSource Source `json:"price_source"`

	// PricePerSqft is the matched fabric band rate
	PricePerSqft decimal.Decimal `json:"price_per_sqft"`

	// Area is the quoted area in square feet
	Area float64 `json:"area"`
}

// Aggregator composes the matrix resolver and fabric calculator into a
// single quoted price. It has no side effects and does no caching; the
// read path wraps it in the cache, the recompute path calls it directly.
type Aggregator struct {
	resolver *MatrixResolver
	fabric   *FabricCalculator
}

// NewAggregator creates an aggregator over the two sub-computations
func NewAggregator(resolver *MatrixResolver, fabric *FabricCalculator) *Aggregator {
	return &Aggregator{resolver: resolver, fabric: fabric}
}

// Quote resolves the full price for productID at width x height with an
// optional material. Sub-computation errors bubble up with only the stage
// attached; nothing is re-typed or swallowed.
func (a *Aggregator) Quote(ctx context.Context, productID int64, width, height float64, materialID int64) (Quote, error) {
	resolution, err := a.resolver.Resolve(ctx, productID, width, height)
	if err != nil {
		return Quote{}, annotateStage(err, "matrix_resolution")
	}

	fabric, err := a.fabric.PriceFabric(ctx, productID, materialID, width, height)
	if err != nil {
		return Quote{}, annotateStage(err, "fabric_pricing")
	}

	return Quote{
		ProductID:   productID,
		Width:       width,
		Height:      height,
		MaterialID:  materialID,
		BasePrice:   resolution.Price,
		FabricPrice: fabric.Total,
		TotalPrice:  resolution.Price.Add(fabric.Total),
		Breakdown: Breakdown{
			PriceSource:  resolution.Source,
			PricePerSqft: fabric.PricePerSqft,
			Area:         fabric.Area,
		},
	}, nil
}

// annotateStage records which sub-computation failed without changing the
// error's type, so callers still map it correctly.
func annotateStage(err error, stage string) error {
	if e, ok := err.(*errors.Error); ok {
		return e.WithContext("stage", stage)
	}
	return errors.Internal("price aggregation failed at "+stage, err)
}
