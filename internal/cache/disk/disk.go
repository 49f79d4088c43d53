package disk

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kvolkow/go-image-cache/config"
	"github.com/kvolkow/go-image-cache/model"
)

// Store is the persistent tier: one payload file per key plus a single
// metadata catalog mirrored in memory. Every mutation flushes the catalog
// inside the same writer critical section, so concurrent writers can never
// clobber each other's flush.
type Store struct {
	mu      sync.RWMutex
	dir     string
	catalog map[string]*model.Entry
	mem     int64 // sum of catalog entry sizes
	limit   int64
	ttl     time.Duration
}

func New(cfg config.DiskCfg, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", cfg.Dir, err)
	}
	s := &Store{
		dir:     cfg.Dir,
		catalog: make(map[string]*model.Entry),
		limit:   cfg.SizeBytes,
		ttl:     ttl,
	}
	s.loadCatalog()
	return s, nil
}

// Get returns the payload for key, renewing its access fields in the catalog.
// An expired entry or a catalog record whose backing file is gone is removed
// and reported as a miss, never as an error.
func (s *Store) Get(key string) (*model.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.catalog[key]
	if !ok {
		return nil, nil
	}
	if e.Expired(s.ttl) {
		log.Debug().Str("key", key).Msg("disk entry expired")
		return nil, s.removeLocked(key)
	}

	payload, err := os.ReadFile(s.payloadPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("key", key).Msg("payload file missing, dropping stale catalog record")
		return nil, s.removeLocked(key)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload %s: %w", key, err)
	}

	e.Touch()
	if err := s.flushCatalogLocked(); err != nil {
		// Degraded but recoverable: the in-memory catalog stays authoritative.
		log.Warn().Err(err).Msg("catalog flush failed after access update")
	}

	return model.NewValue(payload, e.Format, e.Width, e.Height, e.Source), nil
}

// Put writes the payload file and catalog record, evicting entries by oldest
// last access until the byte budget holds. A payload larger than the whole
// budget is skipped quietly.
func (s *Store) Put(v *model.Value, e *model.Entry) error {
	size := v.SizeBytes()

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.catalog[e.Key]; ok {
		delete(s.catalog, e.Key)
		s.mem -= old.SizeBytes
	}

	if s.mem+size > s.limit {
		s.evictLocked(s.mem + size - s.limit)
	}
	if s.mem+size > s.limit {
		// Catalog is drained and the payload alone exceeds the budget.
		log.Debug().Str("key", e.Key).Int64("size", size).Int64("limit", s.limit).
			Msg("payload not admitted to disk tier")
		return s.flushCatalogLocked()
	}

	if err := writeFileAtomic(s.payloadPath(e.Key), v.Payload); err != nil {
		if ferr := s.flushCatalogLocked(); ferr != nil {
			log.Warn().Err(ferr).Msg("catalog flush failed after write error")
		}
		return fmt.Errorf("write payload %s: %w", e.Key, err)
	}

	s.catalog[e.Key] = e
	s.mem += size
	return s.flushCatalogLocked()
}

// Remove deletes the payload file and catalog record. Removing an absent key
// is a no-op.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalog[key]; !ok {
		return nil
	}
	return s.removeLocked(key)
}

// Clear wipes every payload file and resets the catalog.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read cache dir %s: %w", s.dir, err)
	}
	for _, de := range entries {
		if de.IsDir() || de.Name() == catalogFile {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, de.Name())); err != nil {
			return fmt.Errorf("remove payload %s: %w", de.Name(), err)
		}
	}

	s.catalog = make(map[string]*model.Entry)
	s.mem = 0
	return s.flushCatalogLocked()
}

// Contains reports presence without touching access accounting.
func (s *Store) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.catalog[key]
	return ok && !e.Expired(s.ttl)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.catalog)
}

func (s *Store) Mem() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mem
}

// removeLocked deletes the file and record under the held write lock and
// flushes the catalog.
func (s *Store) removeLocked(key string) error {
	if err := os.Remove(s.payloadPath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove payload %s: %w", key, err)
	}
	if e, ok := s.catalog[key]; ok {
		delete(s.catalog, key)
		s.mem -= e.SizeBytes
	}
	return s.flushCatalogLocked()
}

// evictLocked frees at least need bytes, removing entries by ascending last
// access (oldest first). Callers hold the write lock and flush afterwards.
func (s *Store) evictLocked(need int64) {
	victims := make([]*model.Entry, 0, len(s.catalog))
	for _, e := range s.catalog {
		victims = append(victims, e)
	}
	sort.Slice(victims, func(i, j int) bool {
		return victims[i].LastAccessedAt.Before(victims[j].LastAccessedAt)
	})

	var freed int64
	var evicted int
	for _, e := range victims {
		if freed >= need {
			break
		}
		if err := os.Remove(s.payloadPath(e.Key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("key", e.Key).Msg("evict: payload remove failed")
		}
		delete(s.catalog, e.Key)
		s.mem -= e.SizeBytes
		freed += e.SizeBytes
		evicted++
	}

	log.Info().Int64("freed_bytes", freed).Int("evicted", evicted).Msg("disk eviction finished")
}

func (s *Store) payloadPath(key string) string { return filepath.Join(s.dir, key) }
