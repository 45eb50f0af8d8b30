package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mmcdole/pixgrid/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailSoftConvertsErrorsToEmptyPage(t *testing.T) {
	client := newFakeClient()
	client.errs[1] = errors.New("connection refused")

	images, err := FailSoft(client, nil).FetchPage(context.Background(), "cats", 1)
	require.NoError(t, err)
	assert.NotNil(t, images)
	assert.Empty(t, images)
}

func TestFailSoftPassesResultsThrough(t *testing.T) {
	client := newFakeClient()
	client.set("cats", 1, makeImages("cat", 3))

	images, err := FailSoft(client, nil).FetchPage(context.Background(), "cats", 1)
	require.NoError(t, err)
	assert.Len(t, images, 3)
}

// memCache is an in-memory pageCache
type memCache struct {
	data map[string][]domain.Image
	puts int
}

func (m *memCache) key(q string, page, perPage int) string {
	return fmt.Sprintf("%s|%d|%d", q, page, perPage)
}

func (m *memCache) Get(q string, page, perPage int) ([]domain.Image, bool) {
	v, ok := m.data[m.key(q, page, perPage)]
	return v, ok
}

func (m *memCache) Put(q string, page, perPage int, images []domain.Image) error {
	m.puts++
	m.data[m.key(q, page, perPage)] = images
	return nil
}

func TestCachingClientServesRepeatFromCache(t *testing.T) {
	client := newFakeClient()
	client.set("cats", 1, makeImages("cat", 4))
	cache := &memCache{data: map[string][]domain.Image{}}
	cc := NewCachingClient(client, cache, 5, nil)

	first, err := cc.FetchPage(context.Background(), "cats", 1)
	require.NoError(t, err)
	second, err := cc.FetchPage(context.Background(), "cats", 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.callCount())
	assert.Equal(t, 1, cache.puts)
}

func TestCachingClientSkipsEmptyAndFailedPages(t *testing.T) {
	client := newFakeClient()
	client.errs[2] = domain.ErrUpstream
	cache := &memCache{data: map[string][]domain.Image{}}
	cc := NewCachingClient(client, cache, 5, nil)

	_, err := cc.FetchPage(context.Background(), "cats", 1)
	require.NoError(t, err)
	_, err = cc.FetchPage(context.Background(), "cats", 2)
	assert.ErrorIs(t, err, domain.ErrUpstream)

	assert.Equal(t, 0, cache.puts)
	_, err = cc.FetchPage(context.Background(), "cats", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, client.callCount())
}
