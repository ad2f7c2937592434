// Package api is the thin HTTP layer. It parses and validates input,
// calls the core services, and shapes JSON responses. Currency rounding
// to two decimal places happens here and nowhere else.
package api

import (
	"shadeworks/core/catalog"
	"shadeworks/core/pricing"
)

// QuoteResponse is the customer-facing quote
type QuoteResponse struct {
	ProductID  int64   `json:"product_id"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	MaterialID int64   `json:"material_id,omitempty"`

	// Prices are rounded to 2 decimal places for display
	BasePrice   string `json:"base_price"`
	FabricPrice string `json:"fabric_price"`
	TotalPrice  string `json:"total_price"`

	Breakdown QuoteBreakdown `json:"breakdown"`
}

// QuoteBreakdown explains a quote
type QuoteBreakdown struct {
	PriceSource  string  `json:"price_source"`
	PricePerSqft string  `json:"price_per_sqft"`
	AreaSqft     float64 `json:"area_sqft"`
}

// newQuoteResponse rounds a core quote for presentation
func newQuoteResponse(q pricing.Quote) QuoteResponse {
	return QuoteResponse{
		ProductID:   q.ProductID,
		Width:       q.Width,
		Height:      q.Height,
		MaterialID:  q.MaterialID,
		BasePrice:   q.BasePrice.StringFixed(2),
		FabricPrice: q.FabricPrice.StringFixed(2),
		TotalPrice:  q.TotalPrice.StringFixed(2),
		Breakdown: QuoteBreakdown{
			PriceSource:  string(q.Breakdown.PriceSource),
			PricePerSqft: q.Breakdown.PricePerSqft.StringFixed(2),
			AreaSqft:     q.Breakdown.Area,
		},
	}
}

// UpsertProductRequest creates or replaces a product
type UpsertProductRequest struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name" validate:"required"`
	Slug      string  `json:"slug" validate:"required"`
	BasePrice string  `json:"base_price" validate:"required"`
	MinWidth  float64 `json:"min_width" validate:"gte=0"`
	MaxWidth  float64 `json:"max_width" validate:"gtefield=MinWidth"`
	MinHeight float64 `json:"min_height" validate:"gte=0"`
	MaxHeight float64 `json:"max_height" validate:"gtefield=MinHeight"`
	Active    bool    `json:"active"`
}

// UpsertMatrixRowRequest creates or replaces a pricing matrix row
type UpsertMatrixRowRequest struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	MinWidth  float64 `json:"min_width" validate:"gte=0"`
	MaxWidth  float64 `json:"max_width" validate:"gtefield=MinWidth"`
	MinHeight float64 `json:"min_height" validate:"gte=0"`
	MaxHeight float64 `json:"max_height" validate:"gtefield=MinHeight"`
	BasePrice string  `json:"base_price" validate:"required"`
	Active    bool    `json:"active"`
}

// UpsertFabricRowRequest creates or replaces a fabric pricing row
type UpsertFabricRowRequest struct {
	ID           int64   `json:"id"`
	ProductID    int64   `json:"product_id" validate:"required,gt=0"`
	MaterialID   int64   `json:"material_id" validate:"required,gt=0"`
	MinWidth     float64 `json:"min_width" validate:"gte=0"`
	MaxWidth     float64 `json:"max_width" validate:"gtefield=MinWidth"`
	PricePerSqft string  `json:"price_per_sqft" validate:"required"`
}

// UpsertHeroBannerRequest creates or replaces a hero banner
type UpsertHeroBannerRequest struct {
	ID       int64  `json:"id"`
	Title    string `json:"title" validate:"required"`
	ImageURL string `json:"image_url" validate:"required,url"`
	Position int    `json:"position" validate:"gte=0"`
	Active   bool   `json:"active"`
}

// UpsertCategoryRequest creates or replaces a category
type UpsertCategoryRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug" validate:"required"`
}

// UpsertRoomRequest creates or replaces a room
type UpsertRoomRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug" validate:"required"`
}

// IDResponse acknowledges a mutation
type IDResponse struct {
	ID int64 `json:"id"`
}

// HomepageResponse is the cached homepage composite
type HomepageResponse struct {
	Banners    []catalog.HeroBanner `json:"banners"`
	Categories []catalog.Category   `json:"categories"`
	Rooms      []catalog.Room       `json:"rooms"`
}

// ErrorResponse is the uniform error envelope
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the error type and message
type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
