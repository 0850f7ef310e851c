package weather

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Service owns dashboard sessions: it generates their records, applies
// filter changes and derives the view after every mutation.
type Service struct {
	store     Store
	generator *Generator
	logger    *zap.Logger
	metrics   Metrics
	clock     clockwork.Clock
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithClock sets the time source used for session timestamps.
func WithClock(c clockwork.Clock) ServiceOption {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// NewService creates a new Service.
func NewService(store Store, generator *Generator, opts ...ServiceOption) *Service {
	s := &Service{
		store:     store,
		generator: generator,
		logger:    zap.NewNop(),
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.generator == nil {
		s.generator = NewGenerator()
	}
	return s
}

// NewSession generates a fresh record set and stores it under a new ID.
func (s *Service) NewSession(ctx context.Context) (Session, error) {
	now := s.clock.Now().UTC()
	sess := Session{
		ID:         uuid.NewString(),
		Records:    s.generator.Generate(),
		Filters:    DefaultFilters(),
		Generation: 1,
		CreatedAt:  now,
		LastSeen:   now,
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	s.recordGeneration()

	s.logger.Debug("session created",
		zap.String("session", sess.ID),
		zap.Int("records", len(sess.Records)))
	return sess, nil
}

// Session loads a session and marks it as seen.
func (s *Service) Session(ctx context.Context, id string) (Session, error) {
	return s.store.Update(ctx, id, func(sess *Session) {
		sess.LastSeen = s.clock.Now().UTC()
	})
}

// View derives the view of the session's current state.
func (s *Service) View(ctx context.Context, id string) (View, error) {
	sess, err := s.Session(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.derive(sess), nil
}

// ApplyFilters updates the session's filter fields named in u and derives the new view.
func (s *Service) ApplyFilters(ctx context.Context, id string, u FilterUpdate) (View, error) {
	sess, err := s.store.Update(ctx, id, func(sess *Session) {
		sess.Filters = u.Apply(sess.Filters)
		sess.LastSeen = s.clock.Now().UTC()
	})
	if err != nil {
		return View{}, err
	}
	return s.derive(sess), nil
}

// Regenerate replaces the session's records with a fresh set, keeping its filters.
func (s *Service) Regenerate(ctx context.Context, id string) (View, error) {
	sess, err := s.regenerate(ctx, id, true)
	if err != nil {
		return View{}, err
	}
	return s.derive(sess), nil
}

// RegenerateAll replaces the records of every live session and returns how many were regenerated.
// Only records and Generation change; filters set concurrently are kept.
func (s *Service) RegenerateAll(ctx context.Context) (int, error) {
	sessions, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}

	n := 0
	for _, sess := range sessions {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if _, err := s.regenerate(ctx, sess.ID, false); err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				// Ended or expired since List.
				continue
			}
			s.logger.Warn("regenerate failed",
				zap.String("session", sess.ID),
				zap.Error(err))
			continue
		}
		n++
	}
	return n, nil
}

// EndSession discards a session and its records.
func (s *Service) EndSession(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.reportActive()
	s.logger.Debug("session ended", zap.String("session", id))
	return nil
}

// Prune drops expired sessions and returns how many were removed.
func (s *Service) Prune(ctx context.Context) (int, error) {
	n, err := s.store.Prune(ctx)
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	if s.metrics != nil {
		s.metrics.SessionsPruned(n)
	}
	s.reportActive()
	return n, nil
}

func (s *Service) regenerate(ctx context.Context, id string, touch bool) (Session, error) {
	records := s.generator.Generate()
	sess, err := s.store.Update(ctx, id, func(sess *Session) {
		sess.Records = records
		sess.Generation++
		if touch {
			sess.LastSeen = s.clock.Now().UTC()
		}
	})
	if err != nil {
		return Session{}, err
	}
	s.recordGeneration()

	s.logger.Debug("session regenerated",
		zap.String("session", sess.ID),
		zap.Int("generation", sess.Generation))
	return sess, nil
}

func (s *Service) derive(sess Session) View {
	v := DeriveView(sess.Records, sess.Filters)
	if s.metrics != nil {
		s.metrics.ViewDerived(len(v.Visible))
	}
	return v
}

func (s *Service) recordGeneration() {
	if s.metrics != nil {
		s.metrics.RecordsGenerated()
	}
	s.reportActive()
}

func (s *Service) reportActive() {
	if s.metrics != nil {
		s.metrics.SessionsActive(s.store.Len())
	}
}
