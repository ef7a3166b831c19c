// internal/historian/historian_test.go
package historian

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/shithead/internal/cache"
	"github.com/jason-s-yu/shithead/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQueue hands out queued payloads and then reports an empty list.
type fakeQueue struct {
	mu    sync.Mutex
	items []string
}

func (q *fakeQueue) BLPop(ctx context.Context, _ time.Duration, keys ...string) *redis.StringSliceCmd {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		select {
		case <-ctx.Done():
			return redis.NewStringSliceResult(nil, ctx.Err())
		case <-time.After(5 * time.Millisecond):
		}
		return redis.NewStringSliceResult(nil, redis.Nil)
	}
	item := q.items[0]
	q.items = q.items[1:]
	return redis.NewStringSliceResult([]string{keys[0], item}, nil)
}

type fakeStore struct {
	mu        sync.Mutex
	inserted  []cache.GameActionRecord
	abandoned []uuid.UUID
	failNext  bool
}

func (s *fakeStore) InsertGameActions(_ context.Context, records []cache.GameActionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return errors.New("db down")
	}
	s.inserted = append(s.inserted, records...)
	return nil
}

func (s *fakeStore) MarkGameAbandoned(_ context.Context, gameID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abandoned = append(s.abandoned, gameID)
	return true, nil
}

func (s *fakeStore) insertedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inserted)
}

func newTestService(batch int, q Queue, st Store) *Service {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	cfg := &config.Config{
		HistorianQueue:      "test_actions",
		HistorianBatchSize:  batch,
		HistorianFlushDelay: 20 * time.Millisecond,
		GameInactivity:      time.Minute,
	}
	return NewService(cfg, q, st, logger)
}

func payload(t *testing.T, gameID uuid.UUID, idx int) string {
	t.Helper()
	data, err := cache.EncodeRecord(cache.GameActionRecord{
		GameID:      gameID,
		ActionIndex: idx,
		ActorUserID: uuid.New(),
		ActionType:  "player_play",
		Timestamp:   time.Now().UnixMilli(),
	})
	require.NoError(t, err)
	return string(data)
}

func TestBatchFlushesWhenFull(t *testing.T) {
	store := &fakeStore{}
	s := newTestService(3, &fakeQueue{}, store)
	game := uuid.New()

	s.handlePayload(context.Background(), payload(t, game, 1))
	s.handlePayload(context.Background(), payload(t, game, 2))
	assert.Equal(t, 2, s.Pending())
	assert.Zero(t, store.insertedCount())

	s.handlePayload(context.Background(), payload(t, game, 3))
	assert.Zero(t, s.Pending())
	assert.Equal(t, 3, store.insertedCount())
}

func TestBadPayloadIsDropped(t *testing.T) {
	s := newTestService(5, &fakeQueue{}, &fakeStore{})
	s.handlePayload(context.Background(), "{broken")
	assert.Zero(t, s.Pending())
}

func TestFailedFlushKeepsRecords(t *testing.T) {
	store := &fakeStore{failNext: true}
	s := newTestService(10, &fakeQueue{}, store)
	s.handlePayload(context.Background(), payload(t, uuid.New(), 1))

	s.Flush(context.Background())
	assert.Equal(t, 1, s.Pending())

	s.Flush(context.Background())
	assert.Zero(t, s.Pending())
	assert.Equal(t, 1, store.insertedCount())
}

func TestSweepMarksInactiveGames(t *testing.T) {
	store := &fakeStore{}
	s := newTestService(10, &fakeQueue{}, store)
	stale, fresh := uuid.New(), uuid.New()
	s.lastActivity.Store(stale, time.Now().Add(-2*time.Minute))
	s.lastActivity.Store(fresh, time.Now())

	s.sweepInactive(context.Background(), time.Now())
	assert.Equal(t, []uuid.UUID{stale}, store.abandoned)

	_, tracked := s.lastActivity.Load(stale)
	assert.False(t, tracked)
	_, tracked = s.lastActivity.Load(fresh)
	assert.True(t, tracked)
}

func TestRunDrainsQueue(t *testing.T) {
	game := uuid.New()
	q := &fakeQueue{items: []string{payload(t, game, 1), payload(t, game, 2)}}
	store := &fakeStore{}
	s := newTestService(50, q, store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return store.insertedCount() == 2 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("historian did not stop")
	}
}
