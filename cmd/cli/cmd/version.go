package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the CLI version
const Version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("shadeworks %s\n", Version)
	},
}
