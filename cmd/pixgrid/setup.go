package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/pixgrid/internal/adapter"
	"github.com/mmcdole/pixgrid/internal/adapter/source"
	"github.com/spf13/cobra"
)

// setupCmd re-runs the access key setup
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the Unsplash access key",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return runSetupFlow(commandContext(cmd), a.cfg, a.logger)
	},
}

// runSetupFlow handles the initial setup when not configured
func runSetupFlow(ctx context.Context, cfg *adapter.Config, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Println()
	fmt.Println("Welcome to pixgrid!")

	result, err := source.NewAuthFlow(logger).Run(ctx, cfg.Unsplash.BaseURL)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	cfg.Unsplash.AccessKey = result.AccessKey
	if err := adapter.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	return nil
}
