package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shadeworks/core/catalog"
	"shadeworks/core/pricing"
	"shadeworks/internal/config"
	"shadeworks/internal/logging"
	"shadeworks/store/memory"
	"shadeworks/store/postgres"
)

var (
	quoteProduct  int64
	quoteWidth    float64
	quoteHeight   float64
	quoteMaterial int64
	quoteFixture  string
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Resolve a price for a product at the given dimensions",
	Long: `Resolve a one-off price directly against the row store.

The quote runs the same resolution pipeline as the server but skips the
cache, so it always reflects the current pricing rows.`,
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().Int64Var(&quoteProduct, "product", 0, "product id (required)")
	quoteCmd.Flags().Float64Var(&quoteWidth, "width", 0, "width in inches (required)")
	quoteCmd.Flags().Float64Var(&quoteHeight, "height", 0, "height in inches (required)")
	quoteCmd.Flags().Int64Var(&quoteMaterial, "material", 0, "fabric option id")
	quoteCmd.Flags().StringVar(&quoteFixture, "fixture", "", "JSON catalog fixture for the memory store")
	_ = quoteCmd.MarkFlagRequired("product")
	_ = quoteCmd.MarkFlagRequired("width")
	_ = quoteCmd.MarkFlagRequired("height")
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Get()

	var rows catalog.Store
	switch cfg.Store.Backend {
	case "postgres":
		pg, err := postgres.New(ctx, cfg.Store.DSN)
		if err != nil {
			return err
		}
		defer pg.Close()
		rows = pg
	default:
		mem := memory.New()
		if quoteFixture != "" {
			if err := loadFixture(cmd, mem, quoteFixture); err != nil {
				return err
			}
		}
		rows = mem
	}

	resolver := pricing.NewMatrixResolver(rows, logging.Logger)
	fabric := pricing.NewFabricCalculator(rows)
	aggregator := pricing.NewAggregator(resolver, fabric)

	q, err := aggregator.Quote(ctx, quoteProduct, quoteWidth, quoteHeight, quoteMaterial)
	if err != nil {
		return err
	}

	fmt.Printf("Product %d at %.2f\" x %.2f\"\n", q.ProductID, q.Width, q.Height)
	fmt.Printf("  Base price:   $%s (%s)\n", q.BasePrice.StringFixed(2), q.Breakdown.PriceSource)
	if quoteMaterial != 0 {
		fmt.Printf("  Fabric price: $%s ($%s/sqft x %.2f sqft)\n",
			q.FabricPrice.StringFixed(2), q.Breakdown.PricePerSqft.StringFixed(2), q.Breakdown.Area)
	}
	fmt.Printf("  Total:        $%s\n", q.TotalPrice.StringFixed(2))
	return nil
}

// fixture is a JSON catalog snapshot for local quoting
type fixture struct {
	Products   []catalog.Product          `json:"products"`
	MatrixRows []catalog.PricingMatrixRow `json:"matrix_rows"`
	FabricRows []catalog.FabricPricingRow `json:"fabric_rows"`
}

func loadFixture(cmd *cobra.Command, store catalog.MutationStore, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var f fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse fixture: %w", err)
	}

	ctx := cmd.Context()
	for _, p := range f.Products {
		if _, err := store.UpsertProduct(ctx, p); err != nil {
			return err
		}
	}
	for _, row := range f.MatrixRows {
		if _, err := store.UpsertMatrixRow(ctx, row); err != nil {
			return err
		}
	}
	for _, row := range f.FabricRows {
		if _, err := store.UpsertFabricRow(ctx, row); err != nil {
			return err
		}
	}
	return nil
}
