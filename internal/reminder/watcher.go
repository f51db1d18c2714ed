package reminder

import (
	"context"
	"errors"

	"github.com/mkravets/tickle/internal/store"
)

// Run consumes the store's change stream and reconciles each affected
// task until ctx is cancelled or the channel closes. Changes are
// applied one at a time in arrival order, which is exactly the
// last-write-wins ordering per task id. Reconcile errors are logged
// and skipped; a periodic ReconcileAll repairs anything missed.
func (s *Scheduler) Run(ctx context.Context, changes <-chan store.Change) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			if err := s.apply(ctx, change); err != nil {
				s.logger.Error("failed to apply task change",
					"task", change.TaskID, "kind", change.Kind, "err", err)
			}
		}
	}
}

func (s *Scheduler) apply(ctx context.Context, change store.Change) error {
	if change.Kind == store.ChangeDeleted {
		return s.CancelReminder(ctx, change.TaskID)
	}

	task, err := s.tasks.GetTaskByID(change.TaskID)
	if err != nil {
		// The task vanished between the event and the lookup; its
		// reminder goes with it.
		if errors.Is(err, store.ErrTaskNotFound) {
			return s.CancelReminder(ctx, change.TaskID)
		}
		return err
	}
	return s.Reconcile(ctx, task)
}
