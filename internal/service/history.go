package service

import (
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxHistory is how many distinct queries History keeps
const maxHistory = 20

// History remembers recently submitted queries for the current process
type History struct {
	mu      sync.RWMutex
	queries []string // newest first
}

// NewHistory creates an empty history
func NewHistory() *History {
	return &History{}
}

// Add records query as the most recent. Blank queries are ignored and
// repeats (case-insensitive) move to the front.
func (h *History) Add(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	kept := make([]string, 0, len(h.queries)+1)
	kept = append(kept, query)
	for _, q := range h.queries {
		if !strings.EqualFold(q, query) {
			kept = append(kept, q)
		}
	}
	if len(kept) > maxHistory {
		kept = kept[:maxHistory]
	}
	h.queries = kept
}

// Recent returns the queries newest first
func (h *History) Recent() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.queries))
	copy(out, h.queries)
	return out
}

// Suggest returns past queries fuzzily containing input, closest first.
// Ties keep recency order. Blank input returns Recent().
func (h *History) Suggest(input string) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return h.Recent()
	}

	h.mu.RLock()
	ranks := fuzzy.RankFindFold(input, h.queries)
	h.mu.RUnlock()

	sort.Stable(ranks)

	out := make([]string, 0, len(ranks))
	for _, r := range ranks {
		if strings.EqualFold(r.Target, input) {
			continue
		}
		out = append(out, r.Target)
	}
	return out
}
