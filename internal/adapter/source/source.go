package source

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/pixgrid/internal/adapter"
	"github.com/mmcdole/pixgrid/internal/adapter/source/unsplash"
)

// NewClientFromConfig creates the search client from the application config.
// This factory keeps cmd/ free of backend-specific options.
func NewClientFromConfig(cfg *adapter.Config, logger *slog.Logger) (*unsplash.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if !cfg.IsConfigured() {
		return nil, fmt.Errorf("unsplash access key is required")
	}

	return unsplash.NewClient(
		cfg.Unsplash.BaseURL,
		cfg.Unsplash.AccessKey,
		logger,
		unsplash.WithPerPage(cfg.Unsplash.PerPage),
		unsplash.WithRateLimit(cfg.Unsplash.RequestsPerSecond),
	), nil
}
