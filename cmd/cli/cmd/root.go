// Package cmd provides the CLI commands for shadeworks.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shadeworks/internal/config"
	"shadeworks/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shadeworks",
	Short: "Dimension-driven pricing for custom window treatments",
	Long: `shadeworks resolves prices for custom-manufactured window treatments.

Price is not a stored scalar: it is resolved at request time from tiered
pricing matrices, fabric surcharge tables, and base-price fallbacks.

Examples:
  shadeworks quote --product 1 --width 36 --height 36
  shadeworks quote --product 1 --width 36 --height 36 --material 2
  shadeworks cache stats --server http://localhost:8080`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	_ = logging.Initialize(cfg.Logging)
}
