package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mmcdole/pixgrid/internal/domain"
)

// storageRationale is shown when asking for the storage permission
var storageRationale = domain.Rationale{
	Title:   "Storage Permission",
	Message: "This app needs access to your storage to download images",
}

// StorageRationale returns the rationale shown before a download
func StorageRationale() domain.Rationale {
	return storageRationale
}

// ShareMessage builds the message handed to the share facility
func ShareMessage(imageURL string) string {
	return "Check out this awesome image: " + imageURL
}

// ActionService performs the preview actions: share and download.
// Neither action touches search state.
type ActionService struct {
	sharer   domain.Sharer
	perms    domain.PermissionRequester
	transfer domain.Transferer
	dir      string
	logger   *slog.Logger
}

// NewActionService creates an action service saving downloads into dir
func NewActionService(
	sharer domain.Sharer,
	perms domain.PermissionRequester,
	transfer domain.Transferer,
	dir string,
	logger *slog.Logger,
) *ActionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActionService{
		sharer:   sharer,
		perms:    perms,
		transfer: transfer,
		dir:      dir,
		logger:   logger,
	}
}

// Share hands imageURL to the share facility and logs the outcome.
// Errors are returned for logging only; they are never shown to the user.
func (s *ActionService) Share(ctx context.Context, imageURL string, target domain.ShareTarget) (domain.ShareOutcome, error) {
	outcome, err := s.sharer.Share(ctx, target, domain.ShareRequest{
		Message: ShareMessage(imageURL),
		URL:     imageURL,
	})
	if err != nil {
		s.logger.Error("error sharing", "url", imageURL, "target", target, "error", err)
		return outcome, err
	}

	switch {
	case outcome.Action == domain.ShareActionDismissed:
		s.logger.Info("share dismissed", "url", imageURL)
	case outcome.Activity != "":
		s.logger.Info("shared with activity type", "activity", outcome.Activity, "url", imageURL)
	default:
		s.logger.Info("shared successfully", "target", target, "url", imageURL)
	}
	return outcome, nil
}

// Download asks for the storage permission and streams imageURL into the
// downloads directory. Every path ends in a user-visible notice; nothing is
// retried.
func (s *ActionService) Download(ctx context.Context, imageURL string) domain.Notice {
	dest := s.DownloadPath(imageURL)

	status, err := s.perms.Request(ctx, domain.PermissionWriteStorage, storageRationale)
	if err != nil {
		s.logger.Error("error downloading image", "stage", "permission", "url", imageURL, "error", err)
		return errorNotice()
	}
	if status != domain.PermissionGranted {
		s.logger.Info("download permission denied", "url", imageURL)
		return PermissionDeniedNotice()
	}

	result, err := s.transfer.Transfer(ctx, imageURL, dest)
	if err != nil {
		s.logger.Error("error downloading image", "stage", "transfer", "url", imageURL, "dest", dest, "error", err)
		return errorNotice()
	}

	if result.StatusCode != http.StatusOK {
		s.logger.Warn("download failed", "url", imageURL, "status", result.StatusCode)
		return domain.Notice{
			Kind:    domain.NoticeFailed,
			Title:   "Download Failed",
			Message: "Failed to download the image.",
		}
	}

	s.logger.Info("image downloaded", "url", imageURL, "dest", dest, "bytes", result.Bytes)
	return domain.Notice{
		Kind:    domain.NoticeSuccess,
		Title:   "Download Success",
		Message: fmt.Sprintf("Image downloaded successfully to: %s (%s)", dest, humanize.Bytes(uint64(result.Bytes))),
		Path:    dest,
	}
}

// PermissionDeniedNotice is raised when the user or platform refuses storage access
func PermissionDeniedNotice() domain.Notice {
	return domain.Notice{
		Kind:    domain.NoticePermissionDenied,
		Title:   "Permission Denied",
		Message: "Cannot download without permission.",
	}
}

func errorNotice() domain.Notice {
	return domain.Notice{
		Kind:    domain.NoticeError,
		Title:   "Download Error",
		Message: "An error occurred while downloading the image.",
	}
}

// DownloadPath returns where imageURL would be saved
func (s *ActionService) DownloadPath(imageURL string) string {
	return filepath.Join(s.dir, FileNameFromURL(imageURL))
}

// Dir returns the downloads directory
func (s *ActionService) Dir() string {
	return s.dir
}

// knownFormats maps the "fm" query parameter to a file extension
var knownFormats = map[string]string{
	"jpg":  ".jpg",
	"jpeg": ".jpg",
	"png":  ".png",
	"webp": ".webp",
	"avif": ".avif",
	"gif":  ".gif",
}

// FileNameFromURL derives a file name from the trailing path segment of
// rawURL. The query is dropped; an extension is added from the "fm"
// parameter (or ".jpg") when the segment has none.
func FileNameFromURL(rawURL string) string {
	name := ""
	format := ""

	if u, err := url.Parse(rawURL); err == nil {
		name = path.Base(u.Path)
		format = strings.ToLower(u.Query().Get("fm"))
	} else {
		trimmed, _, _ := strings.Cut(rawURL, "?")
		name = trimmed[strings.LastIndex(trimmed, "/")+1:]
	}

	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == "_" {
		name = "image"
	}

	if filepath.Ext(name) == "" {
		ext, ok := knownFormats[format]
		if !ok {
			ext = ".jpg"
		}
		name += ext
	}
	return name
}
