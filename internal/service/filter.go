package service

import (
	"strings"

	"github.com/mmcdole/pixgrid/internal/domain"
	"github.com/sahilm/fuzzy"
)

// FilterResult is one image matching the local filter
type FilterResult struct {
	Index          int   // position in the accumulated results
	Image          domain.Image
	MatchedIndexes []int // byte positions in Image.FilterValue() that matched
}

// imageSource implements fuzzy.Source over pre-lowered filter values
type imageSource []string

func (s imageSource) String(i int) string { return s[i] }
func (s imageSource) Len() int            { return len(s) }

// Filter ranks images against query by fuzzy match on caption and author.
// An empty query returns every image in its original order.
func Filter(images []domain.Image, query string) []FilterResult {
	query = strings.TrimSpace(query)
	if query == "" {
		results := make([]FilterResult, len(images))
		for i, img := range images {
			results[i] = FilterResult{Index: i, Image: img}
		}
		return results
	}

	src := make(imageSource, len(images))
	for i, img := range images {
		src[i] = strings.ToLower(img.FilterValue())
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), src)
	results := make([]FilterResult, len(matches))
	for i, m := range matches {
		results[i] = FilterResult{
			Index:          m.Index,
			Image:          images[m.Index],
			MatchedIndexes: m.MatchedIndexes,
		}
	}
	return results
}
