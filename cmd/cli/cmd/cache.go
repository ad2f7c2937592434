package cmd

import (
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

var cacheServer string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear a running server's caches",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print per-namespace cache counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cacheGet(cacheServer + "/api/v1/admin/cache/stats")
	},
}

var cacheRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Clear every cache namespace",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := http.Post(cacheServer+"/api/v1/admin/cache/refresh", "application/json", nil)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		return printResponse(resp)
	},
}

func init() {
	cacheCmd.PersistentFlags().StringVar(&cacheServer, "server", "http://localhost:8080", "server base URL")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheRefreshCmd)
}

func cacheGet(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s: %s", resp.Status, body)
	}
	fmt.Println(string(body))
	return nil
}
