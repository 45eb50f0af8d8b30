package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/mmcdole/pixgrid/internal/domain"
	"github.com/mmcdole/pixgrid/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	images := []domain.Image{{
		ID:          "abc",
		Description: "Foggy pier",
		Author:      "Ansel",
		Width:       3000,
		Height:      2000,
		URLs:        domain.ImageURLs{Regular: "https://images.example.com/abc"},
	}}

	require.NoError(t, writeTable(&buf, images))
	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Foggy pier")
	assert.Contains(t, out, "3000×2000")
	assert.Contains(t, out, "https://images.example.com/abc")
}

func TestWriteTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTable(&buf, nil))
	assert.Equal(t, "No images found\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	images := []domain.Image{{ID: "abc", Author: "Ansel"}}
	require.NoError(t, writeJSON(&buf, images))

	var decoded []domain.Image
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, images, decoded)
}

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"version", "search", "cache", "setup"} {
		assert.True(t, names[want], want)
	}

	clearCmd, _, err := rootCmd.Find([]string{"cache", "clear"})
	require.NoError(t, err)
	assert.Equal(t, "clear", clearCmd.Name())
	assert.Error(t, clearCmd.Args(clearCmd, []string{"a", "b"}))

	flag := searchCmd.Flags().Lookup("page")
	require.NotNil(t, flag)
	assert.Equal(t, "1", flag.DefValue)
}

func TestClearPages(t *testing.T) {
	pages, err := store.NewPageStore(t.TempDir(), time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { pages.Close() })

	cats := []domain.Image{{ID: "cat"}}
	dogs := []domain.Image{{ID: "dog"}}
	require.NoError(t, pages.Put("cats", 1, 20, cats))
	require.NoError(t, pages.Put("dogs", 1, 20, dogs))

	require.NoError(t, clearPages(pages, "Cats"))
	_, ok := pages.Get("cats", 1, 20)
	assert.False(t, ok)
	_, ok = pages.Get("dogs", 1, 20)
	assert.True(t, ok)

	require.NoError(t, clearPages(pages, "  "))
	_, ok = pages.Get("dogs", 1, 20)
	assert.False(t, ok)
}

func TestClearPagesReportsStoreErrors(t *testing.T) {
	pages, err := store.NewPageStore(t.TempDir(), time.Hour)
	require.NoError(t, err)
	require.NoError(t, pages.Close())

	assert.Error(t, clearPages(pages, ""))
}
