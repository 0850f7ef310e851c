package store

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weatherdash/internal/weather"
)

var epoch = time.Date(2024, time.October, 22, 8, 0, 0, 0, time.UTC)

func session(id string, lastSeen time.Time) weather.Session {
	return weather.Session{
		ID:         id,
		Records:    []weather.WeatherRecord{{Date: "2024-10-22", Temp: 65}},
		Filters:    weather.DefaultFilters(),
		Generation: 1,
		CreatedAt:  lastSeen,
		LastSeen:   lastSeen,
	}
}

func TestMemoryStore_SaveGetDelete(t *testing.T) {
	s := NewMemoryStore(0, 0)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, session("a", epoch)))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "a"), ErrNotFound)
}

func TestMemoryStore_CopiesRecords(t *testing.T) {
	s := NewMemoryStore(0, 0)
	ctx := context.Background()

	sess := session("a", epoch)
	require.NoError(t, s.Save(ctx, sess))
	sess.Records[0].Date = "changed after save"

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2024-10-22", got.Records[0].Date)

	got.Records[0].Date = "changed after get"
	again, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2024-10-22", again.Records[0].Date)
}

func TestMemoryStore_EvictsLeastRecentlySeen(t *testing.T) {
	s := NewMemoryStore(2, 0)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, session("old", epoch)))
	require.NoError(t, s.Save(ctx, session("mid", epoch.Add(time.Minute))))
	require.NoError(t, s.Save(ctx, session("new", epoch.Add(2*time.Minute))))

	assert.Equal(t, 2, s.Len())
	_, err := s.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)

	// The session being saved is never the one evicted.
	require.NoError(t, s.Save(ctx, session("stale", epoch.Add(-time.Hour))))
	_, err = s.Get(ctx, "stale")
	assert.NoError(t, err)
	_, err = s.Get(ctx, "mid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_AgeRetention(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	s := NewMemoryStoreWithClock(0, 10*time.Minute, clock)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, session("a", epoch)))
	require.NoError(t, s.Save(ctx, session("b", epoch.Add(5*time.Minute))))

	clock.Advance(12 * time.Minute)

	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)

	clock.Advance(10 * time.Minute)
	n, err := s.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, s.Len())
}

func TestMemoryStore_PruneWithoutMaxAge(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	s := NewMemoryStoreWithClock(0, 0, clock)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, session("a", epoch)))
	clock.Advance(1000 * time.Hour)

	n, err := s.Prune(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_ListOrderedByCreation(t *testing.T) {
	s := NewMemoryStore(0, 0)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, session("c", epoch.Add(2*time.Minute))))
	require.NoError(t, s.Save(ctx, session("a", epoch)))
	require.NoError(t, s.Save(ctx, session("b", epoch.Add(time.Minute))))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
	assert.Equal(t, "c", list[2].ID)
}

func TestMemoryStore_Update(t *testing.T) {
	s := NewMemoryStore(0, 0)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, session("a", epoch)))

	got, err := s.Update(ctx, "a", func(sess *weather.Session) {
		sess.Filters.Temp = weather.TempLow
		sess.Generation++
	})
	require.NoError(t, err)
	assert.Equal(t, weather.TempLow, got.Filters.Temp)
	assert.Equal(t, 2, got.Generation)

	stored, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, got, stored)

	// Mutating the returned copy does not reach the store.
	got.Records[0].Date = "changed"
	stored, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2024-10-22", stored.Records[0].Date)
}

func TestMemoryStore_UpdateMissingOrExpired(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	s := NewMemoryStoreWithClock(0, time.Minute, clock)
	ctx := context.Background()

	called := false
	mark := func(*weather.Session) { called = true }

	_, err := s.Update(ctx, "missing", mark)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, session("a", epoch)))
	clock.Advance(2 * time.Minute)

	_, err = s.Update(ctx, "a", mark)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, called)

	// An ended session is not brought back by a later update.
	require.NoError(t, s.Save(ctx, session("b", clock.Now())))
	require.NoError(t, s.Delete(ctx, "b"))
	_, err = s.Update(ctx, "b", mark)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, called)
	assert.Zero(t, s.Len())
}

func TestMemoryStore_DropIfExpiredRechecksUnderLock(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	s := NewMemoryStoreWithClock(0, time.Minute, clock)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, session("a", epoch)))
	clock.Advance(2 * time.Minute)

	// Touched after a reader saw it expired: it must survive.
	require.NoError(t, s.Save(ctx, session("a", clock.Now())))
	assert.False(t, s.dropIfExpired("a"))
	_, err := s.Get(ctx, "a")
	assert.NoError(t, err)

	clock.Advance(2 * time.Minute)
	assert.True(t, s.dropIfExpired("a"))
	assert.False(t, s.dropIfExpired("a"))
}

func TestMemoryStore_LenCountsLiveSessionsOnly(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	s := NewMemoryStoreWithClock(0, 10*time.Minute, clock)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, session("a", epoch)))
	require.NoError(t, s.Save(ctx, session("b", epoch.Add(8*time.Minute))))
	assert.Equal(t, 2, s.Len())

	clock.Advance(12 * time.Minute)
	assert.Equal(t, 1, s.Len())
}
