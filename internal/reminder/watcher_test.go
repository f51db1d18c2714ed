package reminder

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mkravets/tickle/internal/models"
	"github.com/mkravets/tickle/internal/store"
)

// waitFor polls cond until it holds or the test times out.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if cond() {
			return
		}
		select {
		case <-deadline:
			t.Fatal("condition not met in time")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRun_FollowsTaskLifecycle(t *testing.T) {
	due := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	task := taskWithDue(1, due)
	source := newFakeSource(task)
	mp := grantedPlatform()
	s := newTestScheduler(source, mp)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan store.Change, 8)
	runErr := make(chan error, 1)
	go func() { runErr <- s.Run(ctx, changes) }()

	// Created: the reminder appears.
	changes <- store.Change{TaskID: 1, Kind: store.ChangeCreated}
	waitFor(t, func() bool {
		_, ok := mp.Handle("task-1")
		return ok
	})

	// Due moved: the reminder follows.
	moved := time.Date(2025, 1, 12, 9, 0, 0, 0, time.UTC)
	updated := *task
	updated.Due = &moved
	source.put(&updated)
	changes <- store.Change{TaskID: 1, Kind: store.ChangeUpdated}
	waitFor(t, func() bool {
		h, ok := mp.Handle("task-1")
		return ok && h.FireAt.Equal(moved.Add(-30*time.Minute))
	})

	// Completed: the reminder goes away.
	completed := updated
	completed.Status = models.StatusDone
	source.put(&completed)
	changes <- store.Change{TaskID: 1, Kind: store.ChangeCompleted}
	waitFor(t, func() bool { return mp.Len() == 0 })

	cancel()
	select {
	case err := <-runErr:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRun_DeletedChangeCancels(t *testing.T) {
	due := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	task := taskWithDue(1, due)
	source := newFakeSource(task)
	mp := grantedPlatform()
	s := newTestScheduler(source, mp)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Reconcile(ctx, task); err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}

	changes := make(chan store.Change, 1)
	go s.Run(ctx, changes)

	source.remove(1)
	changes <- store.Change{TaskID: 1, Kind: store.ChangeDeleted}
	waitFor(t, func() bool { return mp.Len() == 0 })
}

func TestRun_VanishedTaskCancels(t *testing.T) {
	due := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	task := taskWithDue(1, due)
	source := newFakeSource(task)
	mp := grantedPlatform()
	s := newTestScheduler(source, mp)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Reconcile(ctx, task); err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}

	changes := make(chan store.Change, 1)
	go s.Run(ctx, changes)

	// A non-delete change for a task that is already gone: the lookup
	// fails with not-found and the reminder is dropped.
	source.remove(1)
	changes <- store.Change{TaskID: 1, Kind: store.ChangeUpdated}
	waitFor(t, func() bool { return mp.Len() == 0 })
}

func TestRun_StopsWhenChannelCloses(t *testing.T) {
	mp := grantedPlatform()
	s := newTestScheduler(newFakeSource(), mp)

	changes := make(chan store.Change)
	runErr := make(chan error, 1)
	go func() { runErr <- s.Run(context.Background(), changes) }()

	close(changes)
	select {
	case err := <-runErr:
		if err != nil {
			t.Errorf("Run after channel close = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after channel close")
	}
}

func TestRun_KeepsGoingPastFailures(t *testing.T) {
	due := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	task1 := taskWithDue(1, due)
	task2 := taskWithDue(2, due.Add(time.Hour))
	source := newFakeSource(task1, task2)
	mp := grantedPlatform()
	s := newTestScheduler(source, mp)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// task-2 is pending before the platform starts failing.
	if err := s.Reconcile(ctx, task2); err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	mp.ScheduleErr = fmt.Errorf("platform exploded")

	changes := make(chan store.Change, 2)
	go s.Run(ctx, changes)

	// The first change fails to schedule and is skipped; the second
	// must still be applied. Cancels are unaffected by ScheduleErr, so
	// an empty pending set proves the loop survived the failure.
	changes <- store.Change{TaskID: 1, Kind: store.ChangeCreated}
	source.remove(2)
	changes <- store.Change{TaskID: 2, Kind: store.ChangeDeleted}

	waitFor(t, func() bool { return mp.Len() == 0 })
}
