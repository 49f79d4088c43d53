package memory

import (
	"container/list"
	"log/slog"
	"sync"
	"time"

	"github.com/kvolkow/go-image-cache/config"
	"github.com/kvolkow/go-image-cache/model"
)

// Store is the bounded in-process tier: a recency list plus an index map
// under a single per-tier reader-writer lock. The item ceiling is enforced by
// the container itself, the byte budget by the admission path.
type Store struct {
	mu     sync.RWMutex
	items  map[string]*list.Element
	lru    *list.List // front = most recently used
	mem    int64      // payload bytes currently held
	limit  int64
	ceil   int // hard item-count ceiling
	ttl    time.Duration
	logger *slog.Logger
}

type slot struct {
	key   string
	value *model.Value
	entry *model.Entry
}

func New(cfg config.MemoryCfg, ttl time.Duration, logger *slog.Logger) *Store {
	return &Store{
		items:  make(map[string]*list.Element),
		lru:    list.New(),
		limit:  cfg.SizeBytes,
		ceil:   cfg.MaxItems,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the payload for key and refreshes its recency and access
// fields. An entry past its TTL is dropped and reported as a miss.
func (s *Store) Get(key string) (*model.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		return nil, false
	}
	sl := el.Value.(*slot)
	if sl.entry.Expired(s.ttl) {
		s.removeElement(el)
		return nil, false
	}
	sl.entry.Touch()
	s.lru.MoveToFront(el)
	return sl.value, true
}

// Put admits a payload, evicting least-recently-used entries until both the
// byte budget and the item ceiling hold. A payload larger than the whole
// budget is skipped quietly so a single oversized item can neither fail the
// call nor corrupt the accounting.
func (s *Store) Put(key string, v *model.Value, e *model.Entry) {
	size := v.SizeBytes()

	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[key]; ok {
		s.removeElement(el)
	}

	for s.mem+size > s.limit && s.lru.Len() > 0 {
		s.evictTail()
	}
	if s.ceil <= 0 || s.mem+size > s.limit {
		// Nothing left to evict: the payload alone exceeds the budget.
		s.logger.Debug("payload not admitted to memory tier",
			"key", key, "size", size, "limit", s.limit)
		return
	}
	for s.lru.Len() >= s.ceil {
		s.evictTail()
	}

	s.items[key] = s.lru.PushFront(&slot{key: key, value: v, entry: e})
	s.mem += size
}

// Pop removes key and returns its metadata.
func (s *Store) Pop(key string) (*model.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*slot).entry
	s.removeElement(el)
	return e, true
}

// Contains reports presence without touching recency or access accounting.
func (s *Store) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	el, ok := s.items[key]
	return ok && !el.Value.(*slot).entry.Expired(s.ttl)
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.items = make(map[string]*list.Element)
	s.lru.Init()
	s.mem = 0
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lru.Len()
}

func (s *Store) Mem() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mem
}

// evictTail drops the least-recently-used entry. Callers hold the write lock.
func (s *Store) evictTail() {
	el := s.lru.Back()
	if el == nil {
		return
	}
	sl := el.Value.(*slot)
	s.removeElement(el)
	s.logger.Debug("evicted from memory tier", "key", sl.key, "size", sl.entry.SizeBytes)
}

func (s *Store) removeElement(el *list.Element) {
	sl := el.Value.(*slot)
	s.lru.Remove(el)
	delete(s.items, sl.key)
	s.mem -= sl.entry.SizeBytes
}
