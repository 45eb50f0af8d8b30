package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mmcdole/pixgrid/internal/domain"
	"github.com/mmcdole/pixgrid/internal/store"
	"github.com/mmcdole/pixgrid/internal/tui/styles"
	"github.com/spf13/cobra"
)

var (
	searchPage int
	searchJSON bool
)

// searchCmd prints one page of results without the TUI
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Print one page of search results",
	Long: `Search Unsplash and print a single page of results.

Use --json for machine-readable output.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 1, "Page number (1-based)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print results as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.cfg.IsConfigured() {
		return fmt.Errorf("no access key configured: run 'pixgrid setup' or set PIXGRID_UNSPLASH_ACCESS_KEY")
	}

	client, pages, err := a.searchClient()
	if err != nil {
		return err
	}
	defer pages.Close()

	query := strings.Join(args, " ")
	images, err := client.FetchPage(commandContext(cmd), query, searchPage)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	a.logger.Info("search command", "query", query, "page", searchPage, "results", len(images))

	if searchJSON {
		return writeJSON(cmd.OutOrStdout(), images)
	}
	return writeTable(cmd.OutOrStdout(), images)
}

func writeJSON(w io.Writer, images []domain.Image) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(images)
}

func writeTable(w io.Writer, images []domain.Image) error {
	if len(images) == 0 {
		_, err := fmt.Fprintln(w, "No images found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tSIZE\tURL")
	for _, img := range images {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			img.ID, styles.Truncate(img.Title(), 40), img.Author, img.Dimensions(), img.FullURL())
	}
	return tw.Flush()
}

// cacheCmd groups cache maintenance commands
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the search page cache",
}

// cacheClearCmd removes cached pages, all of them or one query's
var cacheClearCmd = &cobra.Command{
	Use:   "clear [query]",
	Short: "Delete cached search pages",
	Long: `Delete cached search pages. With a query only that query's pages
are dropped; without one the whole cache is cleared.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		dir := a.cfg.CacheDir()
		if dir == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Cache is disabled")
			return nil
		}

		pages, err := store.NewPageStore(dir, a.cfg.Cache.TTL)
		if err != nil {
			return fmt.Errorf("failed to open page cache: %w", err)
		}
		defer pages.Close()

		query := strings.Join(args, " ")
		if err := clearPages(pages, query); err != nil {
			return err
		}
		a.logger.Info("cache cleared", "dir", dir, "query", query)
		if query != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared cached pages for %q\n", query)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
		return nil
	},
}

// pageInvalidator is the part of the page store cache clear needs
type pageInvalidator interface {
	InvalidateQuery(query string) error
	InvalidateAll() error
}

func clearPages(pages pageInvalidator, query string) error {
	if strings.TrimSpace(query) != "" {
		return pages.InvalidateQuery(query)
	}
	return pages.InvalidateAll()
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}
