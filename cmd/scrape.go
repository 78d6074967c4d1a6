package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bharatverse/content-pipeline/internal/model"
	"github.com/bharatverse/content-pipeline/internal/scraper"
)

var (
	scrapeSources       []string
	scrapeMaxPages      int
	scrapeFailFast      bool
	scrapeRespectRobots bool
	scrapeSave          bool
	scrapeOut           string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <topic>",
	Short: "Search and scrape content for a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		topic := args[0]

		env, err := initScraper(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		maxPages := scrapeMaxPages
		if maxPages == 0 {
			maxPages = cfg.Scraper.MaxPagesPerSource
		}

		opts := scraper.ScrapeOptions{
			MaxPages:      maxPages,
			RespectRobots: scrapeRespectRobots || cfg.Scraper.RespectRobots,
			FailFast:      scrapeFailFast,
			Sources:       scrapeSources,
		}

		var contents []model.ScrapedContent
		if scrapeFailFast {
			contents, err = env.Scraper.ScrapeAll(ctx, topic, opts)
			if err != nil {
				return eris.Wrap(err, "scrape all")
			}
		} else {
			contents = env.Scraper.SearchAndScrape(ctx, topic, opts)
		}

		zap.L().Info("scrape finished",
			zap.String("topic", topic),
			zap.Int("pages", len(contents)),
		)

		if scrapeSave {
			records, err := env.Store.SaveContents(ctx, topic, contents)
			if err != nil {
				return eris.Wrap(err, "save contents")
			}
			zap.L().Info("contents saved",
				zap.String("topic", topic),
				zap.Int("records", len(records)),
			)
		}

		out := os.Stdout
		if scrapeOut != "" {
			f, err := os.Create(scrapeOut)
			if err != nil {
				return eris.Wrapf(err, "create output file %s", scrapeOut)
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(contents)
	},
}

func init() {
	scrapeCmd.Flags().StringSliceVar(&scrapeSources, "sources", nil, "source names to scrape (default all registered)")
	scrapeCmd.Flags().IntVar(&scrapeMaxPages, "max-pages", 0, "max pages per source (default from config)")
	scrapeCmd.Flags().BoolVar(&scrapeFailFast, "fail-fast", false, "abort on the first source failure")
	scrapeCmd.Flags().BoolVar(&scrapeRespectRobots, "respect-robots", false, "drop pages disallowed by robots.txt")
	scrapeCmd.Flags().BoolVar(&scrapeSave, "save", false, "persist results to the content store")
	scrapeCmd.Flags().StringVar(&scrapeOut, "out", "", "write result JSON to a file instead of stdout")
	rootCmd.AddCommand(scrapeCmd)
}
