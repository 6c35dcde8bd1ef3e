package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-dashboard/internal/worker"
	apperrors "github.com/spec-kit/support-dashboard/pkg/util/errorutil"
)

// Ordering lanes. Mutations on the same lane apply in call order.
const (
	laneNewTickets = "tickets:new"
	laneRewards    = "rewards"
)

// MutationRunner couples the submission guard with the mutation worker.
type MutationRunner struct {
	worker *worker.MutationWorker
	guard  SubmissionGuard
	logger *zap.Logger
}

// NewMutationRunner wires a runner. A nil guard falls back to process memory.
func NewMutationRunner(w *worker.MutationWorker, guard SubmissionGuard, logger *zap.Logger) *MutationRunner {
	if guard == nil {
		guard = NewMemoryGuard()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MutationRunner{worker: w, guard: guard, logger: logger}
}

// Close drains queued mutations.
func (r *MutationRunner) Close() {
	r.worker.Stop()
}

// submissionKey identifies one form of one session. Without a session there is
// nothing to tie two submissions together, so every call gets its own key.
func submissionKey(session, operation string, target int64) string {
	if session == "" {
		session = "anonymous-" + uuid.NewString()
	}
	return fmt.Sprintf("%s:%s:%d", session, operation, target)
}

func ticketLane(ticketID int64) string {
	return fmt.Sprintf("ticket:%d", ticketID)
}

// enqueue holds key until apply has run, so the same form cannot be submitted
// twice while a submission is outstanding. The pending always resolves, even
// when apply panics.
func enqueue[T any](ctx context.Context, r *MutationRunner, key, lane string, delay time.Duration, apply func() (T, error)) (*Pending[T], error) {
	acquired, err := r.guard.Acquire(ctx, key)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !acquired {
		return nil, apperrors.NewConflict("submission already pending", map[string]any{"key": key})
	}

	pending := newPending[T]()
	job := worker.Job{
		Name:  key,
		Lane:  lane,
		Delay: delay,
		Apply: func() {
			var value T
			var applyErr error
			defer func() {
				if rec := recover(); rec != nil {
					r.logger.Error("mutation panicked", zap.String("key", key), zap.Any("panic", rec))
					applyErr = apperrors.NewInternalError(fmt.Errorf("mutation panicked: %v", rec))
				}
				if err := r.guard.Release(context.Background(), key); err != nil {
					r.logger.Warn("release submission key", zap.String("key", key), zap.Error(err))
				}
				pending.resolve(value, applyErr)
			}()
			value, applyErr = apply()
		},
	}
	if err := r.worker.Submit(ctx, job); err != nil {
		_ = r.guard.Release(context.Background(), key)
		return nil, apperrors.NewInternalError(err)
	}
	return pending, nil
}
