package unsplash

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mmcdole/pixgrid/internal/domain"
	"golang.org/x/term"
)

// probeQuery is searched once to verify a freshly entered access key
const probeQuery = "nature"

// AuthFlow implements domain.AuthFlow by prompting for an access key
type AuthFlow struct {
	logger *slog.Logger
	out    io.Writer

	// readSecret reads hidden input; replaced in tests
	readSecret func() ([]byte, error)
}

// NewAuthFlow creates a new access key setup flow reading from the terminal
func NewAuthFlow(logger *slog.Logger) *AuthFlow {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthFlow{
		logger: logger,
		out:    os.Stdout,
		readSecret: func() ([]byte, error) {
			return term.ReadPassword(int(os.Stdin.Fd()))
		},
	}
}

// Run prompts for the access key (hidden input) and verifies it with one search
func (f *AuthFlow) Run(ctx context.Context, baseURL string) (*domain.AuthResult, error) {
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, "Unsplash Setup")
	fmt.Fprintln(f.out, "━━━━━━━━━━━━━━")
	fmt.Fprintln(f.out, "Create an application at https://unsplash.com/oauth/applications")
	fmt.Fprintln(f.out, "and paste its Access Key below.")
	fmt.Fprintln(f.out)

	fmt.Fprint(f.out, "Access Key: ")
	keyBytes, err := f.readSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to read access key: %w", err)
	}
	fmt.Fprintln(f.out) // Add newline after hidden input

	key := strings.TrimSpace(string(keyBytes))
	if key == "" {
		return nil, fmt.Errorf("access key cannot be empty")
	}

	fmt.Fprintln(f.out, "Verifying...")

	client := NewClient(baseURL, key, f.logger)
	if _, err := client.FetchPage(ctx, probeQuery, 1); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, fmt.Errorf("access key was rejected: %w", err)
		}
		return nil, fmt.Errorf("verification failed: %w", err)
	}

	fmt.Fprintln(f.out, "✓ Access key verified")
	f.logger.Info("access key verified")

	return &domain.AuthResult{AccessKey: key}, nil
}
