package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List registered content sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initScraper(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		for _, name := range env.Scraper.ListSources() {
			fmt.Println(name)
		}
		return nil
	},
}

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List topics with stored content",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initScraper(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		topics, err := env.Store.ListTopics(ctx)
		if err != nil {
			return err
		}
		for _, t := range topics {
			fmt.Println(t)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(topicsCmd)
}
