package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/i474232898/weatherdash/internal/weather"
)

var (
	// ErrNotFound is returned when a session does not exist or has expired.
	ErrNotFound = weather.ErrSessionNotFound
)

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: session ID
	data map[string]weather.Session

	// retention configuration
	maxSessions int           // max number of live sessions
	maxAge      time.Duration // max idle time since LastSeen

	clock clockwork.Clock
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxSessions or maxAge is <= 0, it is treated as unlimited.
func NewMemoryStore(maxSessions int, maxAge time.Duration) *MemoryStore {
	return NewMemoryStoreWithClock(maxSessions, maxAge, clockwork.NewRealClock())
}

// NewMemoryStoreWithClock is NewMemoryStore with an explicit time source.
func NewMemoryStoreWithClock(maxSessions int, maxAge time.Duration, clock clockwork.Clock) *MemoryStore {
	return &MemoryStore{
		data:        make(map[string]weather.Session),
		maxSessions: maxSessions,
		maxAge:      maxAge,
		clock:       clock,
	}
}

// Save stores a copy of sess and enforces the session limit.
func (s *MemoryStore) Save(_ context.Context, sess weather.Session) error {
	sess.Records = slices.Clone(sess.Records)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[sess.ID] = sess

	// Enforce retention by count, evicting the least recently seen first.
	for s.maxSessions > 0 && len(s.data) > s.maxSessions {
		var (
			oldestID string
			oldest   time.Time
		)
		for id, v := range s.data {
			if id == sess.ID {
				continue
			}
			if oldestID == "" || v.LastSeen.Before(oldest) {
				oldestID, oldest = id, v.LastSeen
			}
		}
		if oldestID == "" {
			break
		}
		delete(s.data, oldestID)
	}
	return nil
}

// Get returns a copy of the session with the given ID.
func (s *MemoryStore) Get(_ context.Context, id string) (weather.Session, error) {
	s.mu.RLock()
	sess, ok := s.data[id]
	s.mu.RUnlock()

	if !ok {
		return weather.Session{}, ErrNotFound
	}
	if s.expired(sess, s.clock.Now()) {
		s.dropIfExpired(id)
		return weather.Session{}, ErrNotFound
	}

	sess.Records = slices.Clone(sess.Records)
	return sess, nil
}

// Update applies fn to the stored session under the write lock and returns a copy of the result.
// Missing and expired sessions yield ErrNotFound and fn is not called.
func (s *MemoryStore) Update(_ context.Context, id string, fn func(*weather.Session)) (weather.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.data[id]
	if !ok {
		return weather.Session{}, ErrNotFound
	}
	if s.expired(sess, s.clock.Now()) {
		delete(s.data, id)
		return weather.Session{}, ErrNotFound
	}

	sess.Records = slices.Clone(sess.Records)
	fn(&sess)
	sess.ID = id
	s.data[id] = sess

	sess.Records = slices.Clone(sess.Records)
	return sess, nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return ErrNotFound
	}
	delete(s.data, id)
	return nil
}

// List returns copies of every live session ordered by creation time.
func (s *MemoryStore) List(_ context.Context) ([]weather.Session, error) {
	now := s.clock.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]weather.Session, 0, len(s.data))
	for _, sess := range s.data {
		if s.expired(sess, now) {
			continue
		}
		sess.Records = slices.Clone(sess.Records)
		result = append(result, sess)
	}

	slices.SortFunc(result, func(a, b weather.Session) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return result, nil
}

// Prune drops every expired session and returns how many were removed.
func (s *MemoryStore) Prune(_ context.Context) (int, error) {
	if s.maxAge <= 0 {
		return 0, nil
	}
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.data {
		if s.expired(sess, now) {
			delete(s.data, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of live sessions; expired ones awaiting Prune are not counted.
func (s *MemoryStore) Len() int {
	now := s.clock.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, sess := range s.data {
		if !s.expired(sess, now) {
			n++
		}
	}
	return n
}

// dropIfExpired deletes id only if it is still expired under the write lock;
// a Save or Update may have touched it since the caller's read.
func (s *MemoryStore) dropIfExpired(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.data[id]
	if !ok || !s.expired(cur, s.clock.Now()) {
		return false
	}
	delete(s.data, id)
	return true
}

func (s *MemoryStore) expired(sess weather.Session, now time.Time) bool {
	if s.maxAge <= 0 {
		return false
	}
	return sess.LastSeen.Before(now.Add(-s.maxAge))
}
