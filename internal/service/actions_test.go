package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mmcdole/pixgrid/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSharer struct {
	outcome domain.ShareOutcome
	err     error
	got     []domain.ShareRequest
}

func (f *fakeSharer) Share(ctx context.Context, target domain.ShareTarget, req domain.ShareRequest) (domain.ShareOutcome, error) {
	f.got = append(f.got, req)
	return f.outcome, f.err
}

type fakePerms struct {
	status    domain.PermissionStatus
	err       error
	rationale domain.Rationale
	asked     int
}

func (f *fakePerms) Request(ctx context.Context, perm domain.Permission, rationale domain.Rationale) (domain.PermissionStatus, error) {
	f.asked++
	f.rationale = rationale
	return f.status, f.err
}

type fakeTransfer struct {
	result domain.TransferResult
	err    error
	calls  [][2]string
}

func (f *fakeTransfer) Transfer(ctx context.Context, src, dest string) (domain.TransferResult, error) {
	f.calls = append(f.calls, [2]string{src, dest})
	return f.result, f.err
}

const photoURL = "https://images.unsplash.com/photo-1501785888041-af3ef285b470?ixid=abc&fm=jpg&w=1080"

func newActions(perms *fakePerms, transfer *fakeTransfer) *ActionService {
	return NewActionService(&fakeSharer{}, perms, transfer, "/tmp/downloads", nil)
}

func TestShareBuildsMessage(t *testing.T) {
	sharer := &fakeSharer{outcome: domain.ShareOutcome{Action: domain.ShareActionShared, Activity: "clipboard"}}
	svc := NewActionService(sharer, &fakePerms{}, &fakeTransfer{}, "", nil)

	outcome, err := svc.Share(context.Background(), photoURL, domain.ShareTargetClipboard)
	require.NoError(t, err)
	assert.Equal(t, "shared-with-activity", outcome.String())
	require.Len(t, sharer.got, 1)
	assert.Equal(t, "Check out this awesome image: "+photoURL, sharer.got[0].Message)
	assert.Equal(t, photoURL, sharer.got[0].URL)
}

func TestShareOutcomeTags(t *testing.T) {
	tests := []struct {
		outcome domain.ShareOutcome
		want    string
	}{
		{domain.ShareOutcome{Action: domain.ShareActionDismissed}, "dismissed"},
		{domain.ShareOutcome{Action: domain.ShareActionShared, Activity: "osc52"}, "shared-with-activity"},
		{domain.ShareOutcome{Action: domain.ShareActionShared}, "shared-plain"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			svc := NewActionService(&fakeSharer{outcome: tt.outcome}, &fakePerms{}, &fakeTransfer{}, "", nil)
			got, err := svc.Share(context.Background(), photoURL, domain.ShareTargetBrowser)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestShareErrorIsReturned(t *testing.T) {
	sharer := &fakeSharer{err: errors.New("no clipboard")}
	svc := NewActionService(sharer, &fakePerms{}, &fakeTransfer{}, "", nil)

	_, err := svc.Share(context.Background(), photoURL, domain.ShareTargetClipboard)
	assert.Error(t, err)
}

func TestDownloadSuccess(t *testing.T) {
	perms := &fakePerms{status: domain.PermissionGranted}
	transfer := &fakeTransfer{result: domain.TransferResult{StatusCode: 200, Bytes: 2048}}
	svc := newActions(perms, transfer)

	notice := svc.Download(context.Background(), photoURL)

	want := filepath.Join("/tmp/downloads", "photo-1501785888041-af3ef285b470.jpg")
	assert.Equal(t, domain.NoticeSuccess, notice.Kind)
	assert.Equal(t, "Download Success", notice.Title)
	assert.Contains(t, notice.Message, "Image downloaded successfully to: "+want)
	assert.Contains(t, notice.Message, "2.0 kB")
	assert.Equal(t, want, notice.Path)
	assert.False(t, notice.IsError())

	assert.Equal(t, StorageRationale(), perms.rationale)
	require.Len(t, transfer.calls, 1)
	assert.Equal(t, [2]string{photoURL, want}, transfer.calls[0])
}

func TestDownloadPermissionDeniedSkipsTransfer(t *testing.T) {
	perms := &fakePerms{status: domain.PermissionDenied}
	transfer := &fakeTransfer{}
	svc := newActions(perms, transfer)

	notice := svc.Download(context.Background(), photoURL)

	assert.Equal(t, domain.NoticePermissionDenied, notice.Kind)
	assert.Equal(t, "Permission Denied", notice.Title)
	assert.Equal(t, "Cannot download without permission.", notice.Message)
	assert.Empty(t, transfer.calls)
}

func TestDownloadFailures(t *testing.T) {
	tests := []struct {
		name      string
		perms     *fakePerms
		transfer  *fakeTransfer
		wantKind  domain.NoticeKind
		wantTitle string
	}{
		{
			name:      "non-200 status",
			perms:     &fakePerms{status: domain.PermissionGranted},
			transfer:  &fakeTransfer{result: domain.TransferResult{StatusCode: 404}},
			wantKind:  domain.NoticeFailed,
			wantTitle: "Download Failed",
		},
		{
			name:      "transfer error",
			perms:     &fakePerms{status: domain.PermissionGranted},
			transfer:  &fakeTransfer{err: errors.New("connection reset")},
			wantKind:  domain.NoticeError,
			wantTitle: "Download Error",
		},
		{
			name:      "permission error",
			perms:     &fakePerms{err: domain.ErrPermissionDenied},
			transfer:  &fakeTransfer{},
			wantKind:  domain.NoticeError,
			wantTitle: "Download Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newActions(tt.perms, tt.transfer)
			notice := svc.Download(context.Background(), photoURL)
			assert.Equal(t, tt.wantKind, notice.Kind)
			assert.Equal(t, tt.wantTitle, notice.Title)
			assert.True(t, notice.IsError())
			assert.Empty(t, notice.Path)
		})
	}
}

func TestFileNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{photoURL, "photo-1501785888041-af3ef285b470.jpg"},
		{"https://images.unsplash.com/photo-123?fm=png", "photo-123.png"},
		{"https://images.unsplash.com/photo-123?fm=webp&q=80", "photo-123.webp"},
		{"https://example.com/a/b/sunset.png?w=100", "sunset.png"},
		{"https://example.com/", "image.jpg"},
		{"https://example.com", "image.jpg"},
		{"https://example.com/photo-9?fm=tiff", "photo-9.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FileNameFromURL(tt.url))
		})
	}
}
