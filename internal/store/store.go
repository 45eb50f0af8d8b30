package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/pixgrid/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// DefaultTTL is how long a cached page stays fresh
const DefaultTTL = time.Hour

// Bucket names
var (
	bucketPages = []byte("pages")
)

// cachedPage is the JSON value stored per page
type cachedPage struct {
	FetchedAt int64          `json:"fetched_at"` // unix seconds
	Images    []domain.Image `json:"images"`
}

// PageStore caches search result pages in BoltDB with an in-memory front.
type PageStore struct {
	db  *bolt.DB
	ttl time.Duration
	now func() time.Time

	mu    sync.RWMutex // Protects memory cache
	cache map[string][]byte
}

// NewPageStore opens (or creates) the page cache under dir.
// An empty dir selects memory-only mode.
func NewPageStore(dir string, ttl time.Duration) (*PageStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &PageStore{
		ttl:   ttl,
		now:   time.Now,
		cache: make(map[string][]byte),
	}
	if dir == "" {
		// Memory-only mode (no persistence)
		return s, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "pixgrid.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPages)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

// Close releases the database
func (s *PageStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// pageKey encodes query, page and page size. Queries are case-folded
// because the upstream search is case-insensitive.
func pageKey(query string, page, perPage int) string {
	q := strings.ToLower(strings.TrimSpace(query))
	return fmt.Sprintf("q:%s:p:%d:n:%d", q, page, perPage)
}

// Get returns a fresh cached page
func (s *PageStore) Get(query string, page, perPage int) ([]domain.Image, bool) {
	var cp cachedPage
	if !s.get(bucketPages, pageKey(query, page, perPage), &cp) {
		return nil, false
	}
	if s.expired(cp.FetchedAt) {
		return nil, false
	}
	return cp.Images, true
}

// Put stores a page stamped with the current time
func (s *PageStore) Put(query string, page, perPage int, images []domain.Image) error {
	return s.set(bucketPages, pageKey(query, page, perPage), cachedPage{
		FetchedAt: s.now().Unix(),
		Images:    images,
	})
}

func (s *PageStore) expired(fetchedAt int64) bool {
	return s.now().Sub(time.Unix(fetchedAt, 0)) >= s.ttl
}

// Purge deletes expired pages and returns how many were removed
func (s *PageStore) Purge() (int, error) {
	removed := 0

	s.mu.Lock()
	prefix := string(bucketPages) + ":"
	for k, data := range s.cache {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		var cp cachedPage
		if json.Unmarshal(data, &cp) != nil || s.expired(cp.FetchedAt) {
			delete(s.cache, k)
			if s.db == nil {
				removed++
			}
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return removed, nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPages)
		if b == nil {
			return nil
		}
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var cp cachedPage
			if json.Unmarshal(v, &cp) != nil || s.expired(cp.FetchedAt) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

// InvalidateQuery drops every cached page of query
func (s *PageStore) InvalidateQuery(query string) error {
	q := strings.ToLower(strings.TrimSpace(query))
	if err := s.deletePrefix(bucketPages, "q:"+q+":p:"); err != nil {
		return fmt.Errorf("failed to invalidate %q: %w", q, err)
	}
	return nil
}

// InvalidateAll wipes the cache
func (s *PageStore) InvalidateAll() error {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketPages); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucket(bucketPages)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear page cache: %w", err)
	}
	return nil
}

// === Generic helpers ===

func (s *PageStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	// Read from BoltDB
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *PageStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *PageStore) deletePrefix(bucket []byte, prefix string) error {
	s.mu.Lock()
	cachePrefix := string(bucket) + ":" + prefix
	for k := range s.cache {
		if strings.HasPrefix(k, cachePrefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	// Delete from BoltDB using prefix scan
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		// Collect first: deleting while the cursor advances skips keys
		var keys [][]byte
		c := b.Cursor()
		prefixBytes := []byte(prefix)
		for k, _ := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}
