package history

import (
	"sync"

	"dexsentry/internal/domain"
)

const defaultCap = 1000

/*
	In-process per-token state: the "last seen" snapshot used as the
	comparison baseline plus a bounded price-history ring. Both are
	process-local and lost on restart. Access is guarded per key so concurrent
	invocations for the same token never interleave their
	read-modify-write, while different tokens proceed in parallel.
*/

type Store struct {
	mu      sync.Mutex
	cap     int
	entries map[string]*Entry
}

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = defaultCap
	}
	return &Store{
		cap:     capacity,
		entries: make(map[string]*Entry, 64),
	}
}

// Lock returns the entry for key with its mutex held.
// The caller must Unlock when the invocation is done.
func (s *Store) Lock(key domain.TokenKey) *Entry {
	s.mu.Lock()
	e, ok := s.entries[key.String()]
	if !ok {
		e = &Entry{capacity: s.cap}
		s.entries[key.String()] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	return e
}

// Tokens returns the keys currently tracked in memory.
func (s *Store) Tokens() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}

// Entry is one token's mutable state. Methods must only be called
// between Lock and Unlock.
type Entry struct {
	mu       sync.Mutex
	capacity int

	last          *domain.MarketSnapshot
	lastSentiment *domain.SentimentResult
	points        []domain.PricePoint // ring, oldest at head when full
	head          int
}

func (e *Entry) Unlock() { e.mu.Unlock() }

// Last returns the previous snapshot, nil on the first invocation
func (e *Entry) Last() *domain.MarketSnapshot {
	return e.last
}

// LastSentiment returns the previous sentiment, nil on the first invocation
func (e *Entry) LastSentiment() *domain.SentimentResult {
	return e.lastSentiment
}

// Update overwrites the baseline snapshot and sentiment and appends one
// history point, evicting the oldest point once the ring is full.
func (e *Entry) Update(snap domain.MarketSnapshot, sentiment domain.SentimentResult, point domain.PricePoint) {
	e.last = &snap
	e.lastSentiment = &sentiment

	if len(e.points) < e.capacity {
		e.points = append(e.points, point)
		return
	}

	e.points[e.head] = point
	e.head = (e.head + 1) % e.capacity
}

// Points returns the history oldest-first.
func (e *Entry) Points() []domain.PricePoint {
	out := make([]domain.PricePoint, 0, len(e.points))
	out = append(out, e.points[e.head:]...)
	out = append(out, e.points[:e.head]...)
	return out
}

// Len reports the number of buffered points.
func (e *Entry) Len() int { return len(e.points) }
