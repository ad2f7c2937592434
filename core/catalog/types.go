// Package catalog defines the storefront catalog model: products, their
// dimension-priced matrix rows, fabric options, and the read-heavy
// aggregates the homepage is composed from.
package catalog

import (
	"github.com/shopspring/decimal"
)

// DimensionRange is an inclusive range of inches
type DimensionRange struct {
	// Min is the inclusive lower bound
	Min float64 `json:"min"`

	// Max is the inclusive upper bound
	Max float64 `json:"max"`
}

// Contains reports whether v falls inside the range, bounds included
func (r DimensionRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Product is a custom-manufactured window treatment
type Product struct {
	// ID uniquely identifies the product
	ID int64 `json:"id"`

	// Name is the display name
	Name string `json:"name"`

	// Slug is the URL-safe identifier
	Slug string `json:"slug"`

	// BasePrice is the fallback price when no matrix row matches
	BasePrice decimal.Decimal `json:"base_price"`

	// MinWidth/MaxWidth are the advertised width bounds in inches
	MinWidth float64 `json:"min_width"`
	MaxWidth float64 `json:"max_width"`

	// MinHeight/MaxHeight are the advertised height bounds in inches
	MinHeight float64 `json:"min_height"`
	MaxHeight float64 `json:"max_height"`

	// Active controls storefront visibility
	Active bool `json:"active"`
}

// PricingMatrixRow prices a product for a width/height band.
// Rows belong to exactly one product and are soft-disabled via Active.
type PricingMatrixRow struct {
	// ID uniquely identifies the row
	ID int64 `json:"id"`

	// ProductID is the owning product
	ProductID int64 `json:"product_id"`

	// Width is the covered width band
	Width DimensionRange `json:"width"`

	// Height is the covered height band
	Height DimensionRange `json:"height"`

	// BasePrice is the price for dimensions inside both bands
	BasePrice decimal.Decimal `json:"base_price"`

	// Active soft-disables the row without deleting it
	Active bool `json:"active"`
}

// Covers reports whether the row's bands contain the requested dimensions
func (row PricingMatrixRow) Covers(width, height float64) bool {
	return row.Width.Contains(width) && row.Height.Contains(height)
}

// FabricOption is a material choice scoped to a product
type FabricOption struct {
	// ID uniquely identifies the option
	ID int64 `json:"id"`

	// ProductID is the owning product
	ProductID int64 `json:"product_id"`

	// Name is the display name
	Name string `json:"name"`
}

// FabricPricingRow prices a (product, fabric option) pair per square foot
// for a width band. Many rows per option, one active price per band.
type FabricPricingRow struct {
	// ID uniquely identifies the row
	ID int64 `json:"id"`

	// ProductID is the owning product
	ProductID int64 `json:"product_id"`

	// MaterialID is the fabric option this row prices
	MaterialID int64 `json:"material_id"`

	// Width is the covered width band
	Width DimensionRange `json:"width"`

	// PricePerSqft is the surcharge per square foot
	PricePerSqft decimal.Decimal `json:"price_per_sqft"`
}

// Category groups products for navigation
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// HeroBanner is a homepage hero slot
type HeroBanner struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	Position int    `json:"position"`
	Active   bool   `json:"active"`
}

// Room is a shop-by-room grouping
type Room struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
