package service

import (
	"testing"

	"github.com/mmcdole/pixgrid/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterEmptyQueryKeepsOrder(t *testing.T) {
	images := makeImages("x", 3)
	results := Filter(images, "  ")
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, images[i].ID, r.Image.ID)
	}
}

func TestFilterMatchesCaptionAndAuthor(t *testing.T) {
	images := []domain.Image{
		{ID: "1", Description: "Orange cat on a sofa", Author: "Ana"},
		{ID: "2", AltDescription: "mountain lake at dawn", Author: "Ben"},
		{ID: "3", Description: "City lights", Author: "Catherine Moss"},
	}

	results := Filter(images, "lake")
	require.Len(t, results, 1)
	assert.Equal(t, "2", results[0].Image.ID)
	assert.Equal(t, 1, results[0].Index)
	assert.NotEmpty(t, results[0].MatchedIndexes)

	results = Filter(images, "CATHERINE")
	require.Len(t, results, 1)
	assert.Equal(t, "3", results[0].Image.ID)

	assert.Empty(t, Filter(images, "zzzz"))
}
