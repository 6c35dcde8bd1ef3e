package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrStopped is returned when a job is submitted after Stop.
var ErrStopped = errors.New("mutation worker stopped")

// Job is one queued mutation. Apply runs after Delay has elapsed and after
// every earlier job with the same Lane has been applied.
type Job struct {
	Name  string
	Lane  string
	Delay time.Duration
	Apply func()
}

// MutationWorker applies jobs. Delays run concurrently, so a slow job only
// holds back later jobs in its own lane. Within a lane jobs apply in
// submission order, and applies never overlap. A job that has been accepted
// always runs; there is no cancellation.
type MutationWorker struct {
	logger *zap.Logger
	slots  chan struct{}

	applyMu sync.Mutex

	mu      sync.Mutex
	stopped bool
	lanes   map[string]chan struct{}
	running sync.WaitGroup
}

// NewMutationWorker creates a worker. queueSize bounds how many jobs may be
// outstanding before Submit waits.
func NewMutationWorker(logger *zap.Logger, queueSize int) *MutationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &MutationWorker{
		logger: logger,
		slots:  make(chan struct{}, queueSize),
		lanes:  make(map[string]chan struct{}),
	}
}

// Submit enqueues a job behind every job submitted before it on the same lane.
// It waits for a free slot until ctx ends.
func (w *MutationWorker) Submit(ctx context.Context, job Job) error {
	select {
	case w.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		<-w.slots
		return ErrStopped
	}
	prev := w.lanes[job.Lane]
	done := make(chan struct{})
	w.lanes[job.Lane] = done
	w.running.Add(1)
	w.mu.Unlock()

	go w.run(job, prev, done)
	return nil
}

// Stop refuses new jobs and waits until outstanding ones have been applied.
func (w *MutationWorker) Stop() {
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()
	w.running.Wait()
}

func (w *MutationWorker) run(job Job, prev, done chan struct{}) {
	defer w.running.Done()

	if job.Delay > 0 {
		time.Sleep(job.Delay)
	}
	if prev != nil {
		<-prev
	}

	start := time.Now()
	w.apply(job)
	close(done)

	w.mu.Lock()
	if w.lanes[job.Lane] == done {
		delete(w.lanes, job.Lane)
	}
	w.mu.Unlock()
	<-w.slots

	w.logger.Debug("mutation applied",
		zap.String("job", job.Name),
		zap.String("lane", job.Lane),
		zap.Duration("delay", job.Delay),
		zap.Duration("apply", time.Since(start)))
}

func (w *MutationWorker) apply(job Job) {
	w.applyMu.Lock()
	defer w.applyMu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("mutation panicked", zap.String("job", job.Name), zap.Any("panic", r))
		}
	}()
	job.Apply()
}
