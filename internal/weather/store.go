package weather

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned by a Store when a session does not exist or has expired.
var ErrSessionNotFound = errors.New("session not found")

// Store is the contract the in-memory session store (and any future persistent store) must satisfy.
// Implementations hand out copies; a returned Session never aliases stored state.
type Store interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	// Update mutates a live session atomically; it returns the stored result.
	Update(ctx context.Context, id string, fn func(*Session)) (Session, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Session, error)
	Prune(ctx context.Context) (int, error)
	// Len counts live sessions only.
	Len() int
}

// Metrics receives service events. A nil Metrics is ignored.
type Metrics interface {
	SessionsActive(n int)
	RecordsGenerated()
	ViewDerived(visible int)
	SessionsPruned(n int)
}
