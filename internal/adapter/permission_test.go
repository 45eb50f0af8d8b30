package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmcdole/pixgrid/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRationale = domain.Rationale{Title: "Storage Permission", Message: "needed"}

func TestStoragePermissionGrantsWritableDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "downloads")
	p := NewStoragePermission(dir, NullLogger())

	status, err := p.Request(context.Background(), domain.PermissionWriteStorage, testRationale)
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionGranted, status)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file must be removed")
}

func TestStoragePermissionDeniesUncreatableDir(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	p := NewStoragePermission(filepath.Join(blocker, "downloads"), NullLogger())
	status, err := p.Request(context.Background(), domain.PermissionWriteStorage, testRationale)
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionDenied, status)
}

func TestStoragePermissionDeniesUnknownPermission(t *testing.T) {
	p := NewStoragePermission(t.TempDir(), NullLogger())
	status, err := p.Request(context.Background(), domain.Permission("camera"), testRationale)
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionDenied, status)
}

func TestDefaultDownloadDirPrefersConfigured(t *testing.T) {
	assert.Equal(t, "/data/pics", DefaultDownloadDir("/data/pics"))
	assert.NotEmpty(t, DefaultDownloadDir(""))
}
