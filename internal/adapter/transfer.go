package adapter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mmcdole/pixgrid/internal/domain"
)

const defaultTransferTimeout = 5 * time.Minute

// HTTPTransfer streams a remote resource to a local file
type HTTPTransfer struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPTransfer creates a transfer with the default timeout
func NewHTTPTransfer(logger *slog.Logger) *HTTPTransfer {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPTransfer{
		httpClient: &http.Client{Timeout: defaultTransferTimeout},
		logger:     logger,
	}
}

// Transfer implements domain.Transferer. Non-200 responses are reported via
// StatusCode with a nil error and nothing written to destPath.
func (t *HTTPTransfer) Transfer(ctx context.Context, sourceURL, destPath string) (domain.TransferResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return domain.TransferResult{}, fmt.Errorf("failed to create request: %w", err)
	}

	t.logger.Debug("transfer request", "url", sourceURL, "dest", destPath)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return domain.TransferResult{}, fmt.Errorf("transfer failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return domain.TransferResult{StatusCode: resp.StatusCode}, nil
	}

	// Write to a temp file in the same directory so a partial transfer
	// never leaves a truncated image at destPath
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".pixgrid-*.part")
	if err != nil {
		return domain.TransferResult{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return domain.TransferResult{}, fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(tmpName, destPath); err != nil {
		os.Remove(tmpName)
		return domain.TransferResult{}, fmt.Errorf("failed to move file into place: %w", err)
	}

	return domain.TransferResult{StatusCode: resp.StatusCode, Bytes: n}, nil
}
