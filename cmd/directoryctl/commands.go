package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ggorockee/localdirectory/internal/dataset"
	"github.com/ggorockee/localdirectory/internal/logger"
)

func newCleanupCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Maintenance.Ping(ctx); err != nil {
				return fmt.Errorf("database connection failed: %w", err)
			}

			res, err := a.Maintenance.CleanupExpiredCache(ctx)
			if err != nil {
				return err
			}

			if outputJSON {
				return printJSON(res)
			}
			fmt.Printf("Deleted:        %d\n", res.DeletedEntries)
			fmt.Printf("Remaining:      %d\n", res.TotalEntries)
			fmt.Printf("Oldest entry:   %d days\n", res.OldestEntryAge)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall timeout")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry count, size and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.Maintenance.GetCacheStats(ctx)
			if err != nil {
				return err
			}

			if outputJSON {
				return printJSON(stats)
			}
			fmt.Printf("Entries:  %d\n", stats.TotalEntries)
			fmt.Printf("Size:     %d bytes\n", stats.TotalSize)
			fmt.Printf("Indexes:  %s\n", strings.Join(stats.Indexes, ", "))
			return nil
		},
	}
}

// WarmResult is one pre-fetched keyword/location pair.
type WarmResult struct {
	Keyword  string `json:"keyword"`
	Location string `json:"location"`
	Results  int    `json:"results"`
	Error    string `json:"error,omitempty"`
}

func newWarmCmd() *cobra.Command {
	var (
		keyword string
		limit   int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Pre-fetch keyword/location result sets into the cache",
		Long: `Warm resolves every keyword x location pair through the cache, fetching
from upstream only where no fresh entry exists. Pairs are processed one at a
time to stay within the upstream rate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			log := logger.GetLogger("warm")
			var (
				results []WarmResult
				failed  int
			)

			for _, p := range a.Data.StaticPaths() {
				if keyword != "" && p.Keyword != dataset.Slug(keyword) {
					continue
				}
				if limit > 0 && len(results) >= limit {
					break
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}

				kw, _ := a.Data.FindKeyword(p.Keyword)
				loc, _ := a.Data.FindLocation(p.Location)

				r := WarmResult{Keyword: kw.Keyword, Location: loc.City + ", " + loc.State}
				n, err := a.Places.Prefetch(ctx, kw.Keyword, loc.City, loc.State)
				if err != nil {
					failed++
					r.Error = err.Error()
					log.Warnf("warm %s in %s failed: %v", r.Keyword, r.Location, err)
				} else {
					r.Results = n
					log.Infof("warm %s in %s: %d results", r.Keyword, r.Location, n)
				}
				results = append(results, r)
			}

			if outputJSON {
				if err := printJSON(results); err != nil {
					return err
				}
			} else {
				fmt.Printf("Warmed %d pairs, %d failed\n", len(results)-failed, failed)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d pairs failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&keyword, "keyword", "", "only warm pages for this keyword")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of pairs to warm (0 = all)")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Hour, "overall timeout")
	return cmd
}

func newPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "List static keyword/location page paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := dataset.Load(cfg.Data.KeywordsPath, cfg.Data.LocationsPath)
			if err != nil {
				return err
			}

			paths := data.StaticPaths()
			if outputJSON {
				return printJSON(paths)
			}
			for _, p := range paths {
				fmt.Fprintf(os.Stdout, "/%s/%s\n", p.Keyword, p.Location)
			}
			return nil
		},
	}
}
