// deskfeed-snap fetches every feed once, prints the stat summaries, and
// archives the day's snapshots. Suitable for cron.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"deskfeed/internal/aggregate"
	"deskfeed/internal/archive"
	"deskfeed/internal/config"
	"deskfeed/internal/feed"
	"deskfeed/internal/pages"
	"deskfeed/internal/schema"
	"deskfeed/internal/stats"
	"deskfeed/internal/util"
)

func main() {
	cfgPath := flag.String("config", "", "path to config file")
	noArchive := flag.Bool("no-archive", false, "skip writing snapshot files")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *cfgPath != "" {
		cfg, err = config.Load(*cfgPath)
	} else {
		cfg = config.Default()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.API.BaseURL == "" {
		fmt.Fprintln(os.Stderr, "api.base_url not configured (set DESKFEED_API_URL or pass -config)")
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Logging.Level)
	client := feed.NewClient(cfg.API, logger)
	arc := archive.New(cfg.Storage.DataDir)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now()
	failed := 0
	for _, p := range pages.All(cfg.Dashboard.WindowDays, cfg.Dashboard.TopK) {
		res, err := client.Fetch(ctx, p.Feed, p.RowsKey, nil)
		if err != nil {
			fmt.Printf("%s: error: %v\n\n", p.Name, err)
			logger.Error("fetch failed", "feed", p.Feed, "error", err)
			failed++
			continue
		}

		rows := make([]schema.Row, 0, len(res.Rows))
		for _, raw := range res.Rows {
			rows = append(rows, schema.Normalize(raw, p.Schema))
		}
		sum := aggregate.Aggregate(rows, p.Agg, now)

		fmt.Printf("%s (%d rows)\n", p.Name, sum.Total)
		for _, line := range stats.Project(sum, p.Stats) {
			fmt.Printf("  %-18s %s\n", line.Label, line.Value)
		}
		if p.Chart != nil {
			if chart := stats.BarChart(p.Chart(sum), 60); chart != stats.NoData {
				fmt.Println()
				fmt.Println(indent(chart, "  "))
			}
		}
		fmt.Println()

		if !*noArchive && len(rows) > 0 {
			if err := arc.Save(p.Feed, now, rows); err != nil {
				logger.Error("archiving snapshot", "feed", p.Feed, "error", err)
				failed++
			} else {
				logger.Info("snapshot archived", "feed", p.Feed, "rows", len(rows),
					"date", now.Format("2006-01-02"))
			}
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}
