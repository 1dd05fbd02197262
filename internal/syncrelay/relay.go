package syncrelay

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/SemperAdmin/DutySync-sub000/config"
	"github.com/SemperAdmin/DutySync-sub000/internal/model"
	"github.com/SemperAdmin/DutySync-sub000/internal/repository"
)

// Queue is the mutating services' view of the relay: fire-and-forget.
type Queue interface {
	Enqueue(task Task)
}

// NopQueue discards every task. Used when sync is disabled.
type NopQueue struct{}

// Enqueue does nothing.
func (NopQueue) Enqueue(Task) {}

// Relay mirrors local mutations to the remote store in the background.
// Each task is retried with exponential backoff up to a fixed bound; an
// exhausted task becomes a durable sync_failures row. Callers never wait on
// the relay and are never rolled back by its failures.
type Relay struct {
	remote   Remote
	failures repository.SyncFailureRepository
	logger   *zap.Logger

	maxAttempts int
	baseBackoff time.Duration
	maxBackoff  time.Duration

	tasks  chan Task
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New starts a Relay with one background worker.
func New(cfg *config.SyncConfig, remote Remote, failures repository.SyncFailureRepository, logger *zap.Logger) *Relay {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Relay{
		remote:      remote,
		failures:    failures,
		logger:      logger,
		maxAttempts: cfg.MaxAttempts,
		baseBackoff: cfg.BaseBackoff,
		maxBackoff:  cfg.MaxBackoff,
		tasks:       make(chan Task, queueSize),
		ctx:         ctx,
		cancel:      cancel,
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// Enqueue hands a task to the background worker without blocking. A full
// queue drops the task with a warning; the remote is a mirror, so a dropped
// push costs observability, not correctness.
func (r *Relay) Enqueue(task Task) {
	select {
	case r.tasks <- task:
	default:
		r.logger.Warn("sync queue full, dropping task", zap.String("kind", task.Kind))
	}
}

// Close stops accepting work and waits for the worker to drain.
func (r *Relay) Close() {
	close(r.tasks)
	r.wg.Wait()
	r.cancel()
}

func (r *Relay) worker() {
	defer r.wg.Done()
	for task := range r.tasks {
		r.process(task)
	}
}

func (r *Relay) process(task Task) {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		lastErr = r.remote.Push(r.ctx, task)
		if lastErr == nil {
			return
		}

		r.logger.Warn("remote push failed",
			zap.String("kind", task.Kind),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)

		if attempt == r.maxAttempts {
			break
		}
		if !r.sleep(r.backoff(attempt)) {
			break // shutting down
		}
	}

	r.recordFailure(task, lastErr)
}

// backoff doubles per attempt, capped at maxBackoff.
func (r *Relay) backoff(attempt int) time.Duration {
	d := r.baseBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= r.maxBackoff {
			return r.maxBackoff
		}
	}
	if d > r.maxBackoff {
		return r.maxBackoff
	}
	return d
}

func (r *Relay) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-r.ctx.Done():
		return false
	}
}

func (r *Relay) recordFailure(task Task, pushErr error) {
	payload, err := json.Marshal(task.Payload)
	if err != nil {
		payload = nil
	}

	errText := ""
	if pushErr != nil {
		errText = pushErr.Error()
	}

	failure := &model.SyncFailure{
		Kind:      task.Kind,
		Payload:   datatypes.JSON(payload),
		Attempts:  r.maxAttempts,
		LastError: errText,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.failures.Create(ctx, failure); err != nil {
		r.logger.Error("record sync failure failed",
			zap.String("kind", task.Kind), zap.Error(err))
		return
	}

	r.logger.Error("sync task exhausted retries",
		zap.String("kind", task.Kind),
		zap.Int("attempts", r.maxAttempts),
		zap.String("last_error", errText),
	)
}
