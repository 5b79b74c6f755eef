// Package ratelimit implements the fixed-window request limiter used
// by the OTP endpoints and sensitive mutations. Window state lives
// behind a Store so single-instance deployments run on the in-process
// map while multi-instance ones can point at Redis.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Record is one open window for a key.
type Record struct {
	Count   int
	ResetAt time.Time
}

// Store persists window records. Incr must be atomic: concurrent
// callers for the same key each observe a distinct count, so the
// limiter's comparison against max cannot over-admit.
type Store interface {
	// Incr opens a window of the given length for an absent or
	// elapsed key, otherwise bumps the existing window's count, and
	// returns the resulting record.
	Incr(ctx context.Context, key string, window time.Duration) (Record, error)
	Delete(ctx context.Context, key string) error
	// Sweep drops records whose window has elapsed. Purely a memory
	// bound; Incr re-opens expired windows in place regardless.
	Sweep(ctx context.Context, now time.Time) error
}

// MemoryStore is a mutex-guarded in-process Store.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
	now     func() time.Time
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
		now:     time.Now,
	}
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec, ok := s.records[key]
	if !ok || now.After(rec.ResetAt) {
		rec = &Record{Count: 1, ResetAt: now.Add(window)}
		s.records[key] = rec
	} else {
		rec.Count++
	}
	return *rec, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

func (s *MemoryStore) Sweep(_ context.Context, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, rec := range s.records {
		if now.After(rec.ResetAt) {
			delete(s.records, key)
		}
	}
	return nil
}
