// Package historian drains game action records from the Redis queue into Postgres and marks
// games abandoned once they stop producing actions.
package historian

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/shithead/internal/cache"
	"github.com/jason-s-yu/shithead/internal/config"
	"github.com/jason-s-yu/shithead/internal/database"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Queue is the part of the Redis client the historian reads from.
type Queue interface {
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

// Store persists what the historian reads.
type Store interface {
	InsertGameActions(ctx context.Context, records []cache.GameActionRecord) error
	MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) (bool, error)
}

// PostgresStore is the Store backed by the database package pool.
type PostgresStore struct{}

func (PostgresStore) InsertGameActions(ctx context.Context, records []cache.GameActionRecord) error {
	return database.InsertGameActions(ctx, records)
}

func (PostgresStore) MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) (bool, error) {
	return database.MarkGameAbandoned(ctx, gameID)
}

// popTimeout bounds each BLPop so cancellation is noticed.
const popTimeout = 3 * time.Second

// Service batches queue records and flushes them in a single transaction.
type Service struct {
	queue     Queue
	store     Store
	log       *logrus.Entry
	queueName string

	batchSize     int
	flushDelay    time.Duration
	inactivity    time.Duration
	sweepInterval time.Duration

	lastActivity sync.Map // uuid.UUID -> time.Time

	batchMu sync.Mutex
	batch   []cache.GameActionRecord
}

// NewService builds a historian from cfg.
func NewService(cfg *config.Config, queue Queue, store Store, logger *logrus.Logger) *Service {
	return &Service{
		queue:         queue,
		store:         store,
		log:           logger.WithField("component", "historian"),
		queueName:     cfg.HistorianQueue,
		batchSize:     cfg.HistorianBatchSize,
		flushDelay:    cfg.HistorianFlushDelay,
		inactivity:    cfg.GameInactivity,
		sweepInterval: time.Minute,
		batch:         make([]cache.GameActionRecord, 0, cfg.HistorianBatchSize),
	}
}

// Run blocks until ctx is cancelled, then flushes whatever is still batched.
func (s *Service) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); s.readLoop(ctx) }()
	go func() { defer wg.Done(); s.flushLoop(ctx) }()
	go func() { defer wg.Done(); s.inactivityLoop(ctx) }()

	s.log.Info("historian started")
	<-ctx.Done()
	wg.Wait()

	// the run context is gone; give the last flush its own deadline
	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Flush(flushCtx)
	s.log.Info("historian stopped")
}

func (s *Service) readLoop(ctx context.Context) {
	for ctx.Err() == nil {
		res, err := s.queue.BLPop(ctx, popTimeout, s.queueName).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				s.log.WithError(err).Error("BLPop failed")
				time.Sleep(time.Second)
			}
			continue
		}
		// res[0] is the queue name, res[1] the payload
		if len(res) < 2 {
			continue
		}
		s.handlePayload(ctx, res[1])
	}
}

func (s *Service) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(s.flushDelay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Flush(ctx)
		}
	}
}

func (s *Service) inactivityLoop(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.sweepInactive(ctx, now)
		}
	}
}

// handlePayload decodes one queue entry, batches it and flushes when the batch is full.
func (s *Service) handlePayload(ctx context.Context, payload string) {
	rec, err := cache.DecodeRecord(payload)
	if err != nil {
		s.log.WithError(err).Warn("dropping queue entry")
		return
	}
	s.lastActivity.Store(rec.GameID, time.Now())

	s.batchMu.Lock()
	s.batch = append(s.batch, rec)
	full := len(s.batch) >= s.batchSize
	s.batchMu.Unlock()

	if full {
		s.Flush(ctx)
	}
}

// Flush writes the current batch. On failure the records are put back for the next attempt.
func (s *Service) Flush(ctx context.Context) {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return
	}
	pending := s.batch
	s.batch = make([]cache.GameActionRecord, 0, s.batchSize)
	s.batchMu.Unlock()

	if err := s.store.InsertGameActions(ctx, pending); err != nil {
		s.log.WithError(err).WithField("count", len(pending)).Error("flush failed")
		s.batchMu.Lock()
		s.batch = append(pending, s.batch...)
		s.batchMu.Unlock()
		return
	}
	s.log.WithField("count", len(pending)).Debug("flushed actions")
}

// sweepInactive abandons every game whose last action is older than the inactivity window.
func (s *Service) sweepInactive(ctx context.Context, now time.Time) {
	s.lastActivity.Range(func(key, val interface{}) bool {
		gameID, ok1 := key.(uuid.UUID)
		last, ok2 := val.(time.Time)
		if !ok1 || !ok2 || now.Sub(last) <= s.inactivity {
			return true
		}
		changed, err := s.store.MarkGameAbandoned(ctx, gameID)
		if err != nil {
			s.log.WithError(err).WithField("game_id", gameID).Error("failed to mark game abandoned")
			return true
		}
		if changed {
			s.log.WithField("game_id", gameID).Info("marked game abandoned after inactivity")
		}
		s.lastActivity.Delete(gameID)
		return true
	})
}

// Pending returns how many records are waiting for the next flush.
func (s *Service) Pending() int {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	return len(s.batch)
}
