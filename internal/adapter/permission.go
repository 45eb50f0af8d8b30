package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mmcdole/pixgrid/internal/domain"
)

// StoragePermission grants write access when the downloads directory exists
// (or can be created) and accepts a probe file. Unknown permissions are denied.
type StoragePermission struct {
	dir    string
	logger *slog.Logger
}

// NewStoragePermission creates a permission checker for dir
func NewStoragePermission(dir string, logger *slog.Logger) *StoragePermission {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoragePermission{dir: dir, logger: logger}
}

// Request implements domain.PermissionRequester
func (p *StoragePermission) Request(ctx context.Context, perm domain.Permission, rationale domain.Rationale) (domain.PermissionStatus, error) {
	if err := ctx.Err(); err != nil {
		return domain.PermissionDenied, err
	}
	if perm != domain.PermissionWriteStorage {
		p.logger.Warn("unsupported permission requested", "permission", perm)
		return domain.PermissionDenied, nil
	}

	p.logger.Debug("checking storage permission", "dir", p.dir, "rationale", rationale.Title)

	if err := os.MkdirAll(p.dir, 0755); err != nil {
		p.logger.Warn("downloads directory not creatable", "dir", p.dir, "error", err)
		return domain.PermissionDenied, nil
	}

	probe, err := os.CreateTemp(p.dir, ".pixgrid-probe-*")
	if err != nil {
		p.logger.Warn("downloads directory not writable", "dir", p.dir, "error", err)
		return domain.PermissionDenied, nil
	}
	name := probe.Name()
	probe.Close()
	if err := os.Remove(name); err != nil {
		return domain.PermissionGranted, fmt.Errorf("failed to remove probe file: %w", err)
	}

	return domain.PermissionGranted, nil
}

// Dir returns the directory the permission covers
func (p *StoragePermission) Dir() string {
	return p.dir
}

// DefaultDownloadDir resolves the downloads directory: configured dir, then
// ~/Downloads, then ~/Documents, then the home directory.
func DefaultDownloadDir(configured string) string {
	if configured != "" {
		return expandHome(configured)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	for _, name := range []string{"Downloads", "Documents"} {
		dir := filepath.Join(home, name)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return home
}
