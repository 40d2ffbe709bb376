package hold

import (
	"context"
	"sync"
	"time"

	"github.com/hoangnm/sports-booking/internal/model"
)

// MemoryStore is an in-process Store with the same per-entry expiry
// contract as RedisStore.  It backs tests and single-instance dev
// setups where no Redis is configured; holds placed here are invisible
// to other server instances.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	hold      model.Hold
	expiresAt time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]memoryEntry),
		now:     time.Now,
	}
}

// SetClock replaces the time source.  Tests use it to advance past
// hold TTLs without sleeping.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, courtID uint64, date string) ([]model.Hold, error) {
	return s.read(courtKey(courtID, date)), nil
}

// Place implements Store.  Both keys are written under one lock, so a
// reader can never observe the court-day hold without its cart entry.
func (s *MemoryStore) Place(ctx context.Context, h model.Hold, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := memoryEntry{hold: h, expiresAt: s.now().Add(ttl)}
	ck := courtKey(h.CourtID, h.Date)
	s.entries[ck] = append(s.entries[ck], e)
	uk := cartKey(h.OwnerID)
	s.entries[uk] = append(s.entries[uk], e)
	return nil
}

// GetCart implements Store.
func (s *MemoryStore) GetCart(ctx context.Context, userID uint64) ([]model.Hold, error) {
	return s.read(cartKey(userID)), nil
}

func (s *MemoryStore) read(key string) []model.Hold {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	live := s.entries[key][:0]
	var out []model.Hold
	for _, e := range s.entries[key] {
		if e.expiresAt.After(now) {
			live = append(live, e)
			out = append(out, e.hold)
		}
	}
	if len(live) == 0 {
		delete(s.entries, key)
	} else {
		s.entries[key] = live
	}
	return out
}
