package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/pixgrid/internal/adapter"
	"github.com/mmcdole/pixgrid/internal/adapter/source"
	"github.com/mmcdole/pixgrid/internal/domain"
	"github.com/mmcdole/pixgrid/internal/preview"
	"github.com/mmcdole/pixgrid/internal/service"
	"github.com/mmcdole/pixgrid/internal/store"
	"github.com/mmcdole/pixgrid/internal/tui"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

// rootCmd opens the interactive search screen
var rootCmd = &cobra.Command{
	Use:   "pixgrid [query]",
	Short: "Search and browse Unsplash photos in the terminal",
	Long: `pixgrid searches Unsplash and shows the results as a scrollable grid.

Open any image for a preview, then share it, download it or open it in
an image viewer. Passing a query starts that search right away.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pixgrid %s\n", Version)
	},
}

func init() {
	rootCmd.Version = Version
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(setupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles what every command needs
type app struct {
	cfg    *adapter.Config
	logger *slog.Logger
	closer io.Closer
}

// loadApp reads the config and sets up logging
func loadApp() (*app, error) {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
		closer = nil
	}
	slog.SetDefault(logger)

	return &app{cfg: cfg, logger: logger, closer: closer}, nil
}

func (a *app) Close() {
	if a.closer != nil {
		a.closer.Close()
	}
}

// searchClient assembles the decorated search client. The returned store
// must be closed by the caller.
func (a *app) searchClient() (domain.SearchClient, *store.PageStore, error) {
	client, err := source.NewClientFromConfig(a.cfg, a.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create search client: %w", err)
	}

	pages, err := store.NewPageStore(a.cfg.CacheDir(), a.cfg.Cache.TTL)
	if err != nil {
		// The cache only saves round trips; run without persistence
		a.logger.Warn("page cache unavailable, using memory only", "error", err)
		pages, _ = store.NewPageStore("", a.cfg.Cache.TTL)
	}
	if removed, err := pages.Purge(); err != nil {
		a.logger.Warn("failed to purge page cache", "error", err)
	} else if removed > 0 {
		a.logger.Debug("purged expired pages", "removed", removed)
	}

	var sc domain.SearchClient = service.NewCachingClient(client, pages, client.PerPage(), a.logger)
	if !a.cfg.UI.ShowFetchErrors {
		sc = service.FailSoft(sc, a.logger)
	}
	return sc, pages, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info("starting pixgrid", "version", Version)

	// Check if configured
	if !a.cfg.IsConfigured() {
		if err := runSetupFlow(commandContext(cmd), a.cfg, a.logger); err != nil {
			return err
		}
	}

	client, pages, err := a.searchClient()
	if err != nil {
		return err
	}
	defer pages.Close()

	// Create adapters
	launcher := adapter.NewLauncher(a.cfg.UI.OpenCommand, a.logger)
	downloadDir := adapter.DefaultDownloadDir(a.cfg.Downloads.Dir)
	actions := service.NewActionService(
		adapter.NewSharer(launcher, a.logger),
		adapter.NewStoragePermission(downloadDir, a.logger),
		adapter.NewHTTPTransfer(a.logger),
		downloadDir,
		a.logger,
	)

	// Create services
	history := service.NewHistory()
	ctrl := service.NewSearchController(client, history, a.logger)

	deps := tui.Deps{
		Controller:       ctrl,
		Actions:          actions,
		Opener:           launcher,
		History:          history,
		GridColumns:      a.cfg.UI.GridColumns,
		ConfirmDownloads: a.cfg.Downloads.Confirm,
		ShowFetchErrors:  a.cfg.UI.ShowFetchErrors,
		InitialQuery:     strings.Join(args, " "),
		Logger:           a.logger,
	}
	if a.cfg.UI.ImagePreview {
		deps.Renderer = preview.NewRenderer(a.logger)
	}

	// Run the TUI
	p := tea.NewProgram(
		tui.NewModel(deps),
		tea.WithAltScreen(),
		tea.WithContext(commandContext(cmd)),
	)

	a.logger.Info("starting TUI", "downloads", downloadDir, "cache", a.cfg.CacheDir())

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	ctrl.Close()
	a.logger.Info("shutting down")
	return nil
}

// commandContext returns the command's context, or Background outside Execute
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
