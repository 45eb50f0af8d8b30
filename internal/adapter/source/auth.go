package source

import (
	"log/slog"

	"github.com/mmcdole/pixgrid/internal/adapter/source/unsplash"
	"github.com/mmcdole/pixgrid/internal/domain"
)

// NewAuthFlow creates the interactive access key setup flow
func NewAuthFlow(logger *slog.Logger) domain.AuthFlow {
	return unsplash.NewAuthFlow(logger)
}
