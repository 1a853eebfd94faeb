// Package main provides the maintenance CLI for the places cache.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ggorockee/localdirectory/internal/app"
	"github.com/ggorockee/localdirectory/internal/config"
	"github.com/ggorockee/localdirectory/internal/logger"
)

var (
	outputJSON bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "directoryctl",
	Short: "Maintenance commands for the local directory places cache",
	Long: `directoryctl runs cache maintenance outside the API server.

Use it to:
- Remove expired cache entries (for cron jobs)
- Inspect cache size and indexes
- Pre-fetch every keyword/location page into the cache
- List the static page paths`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "warning: .env not loaded: %v\n", err)
		}
		cfg = config.Load()
		logger.Init(cfg.ServerEnv)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")

	rootCmd.AddCommand(newCleanupCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newWarmCmd())
	rootCmd.AddCommand(newPathsCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openApp 명령 실행에 필요한 DB/서비스 구성
func openApp() (*app.App, error) {
	a, err := app.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return a, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
