package reminder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mkravets/tickle/internal/models"
	"github.com/mkravets/tickle/internal/notify"
)

// Scheduler is the only writer of the platform's pending set. It
// mirrors that set in memory (primed lazily from the platform once per
// process), so reconciling an unchanged task costs no platform calls.
type Scheduler struct {
	tasks    TaskSource
	platform notify.Platform
	policy   Policy
	logger   *log.Logger

	now func() time.Time // for testing

	// guard protects locks, pending and primed. Never held across a
	// platform call.
	guard   sync.Mutex
	locks   map[uint]*taskLock
	pending map[uint]notify.Handle
	primed  bool
}

// taskLock serializes reconciliations of one task id. Reference
// counted so the map does not grow with every id ever seen.
type taskLock struct {
	mu   sync.Mutex
	refs int
}

// NewScheduler wires the scheduler to its task source and platform. A
// nil logger discards diagnostics.
func NewScheduler(tasks TaskSource, platform notify.Platform, policy Policy, logger *log.Logger) *Scheduler {
	if policy.Lead <= 0 {
		policy.Lead = DefaultLead
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Scheduler{
		tasks:    tasks,
		platform: platform,
		policy:   policy,
		logger:   logger,
		now:      time.Now,
		locks:    make(map[uint]*taskLock),
	}
}

// lockTask acquires the per-task mutex and returns its release func.
func (s *Scheduler) lockTask(id uint) func() {
	s.guard.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &taskLock{}
		s.locks[id] = l
	}
	l.refs++
	s.guard.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.guard.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.guard.Unlock()
	}
}

// prime loads the platform's pending set into the mirror. Runs once;
// afterwards the mirror is authoritative because nothing else writes
// to the platform.
func (s *Scheduler) prime(ctx context.Context) error {
	s.guard.Lock()
	primed := s.primed
	s.guard.Unlock()
	if primed {
		return nil
	}

	handles, err := s.platform.Pending(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending notifications: %w", err)
	}

	s.guard.Lock()
	defer s.guard.Unlock()
	if s.primed {
		return nil
	}
	s.pending = make(map[uint]notify.Handle, len(handles))
	for _, h := range handles {
		if id, ok := TaskIDFromHandle(h.ID); ok {
			s.pending[id] = h
		}
	}
	s.primed = true
	return nil
}

func (s *Scheduler) mirrorGet(id uint) (notify.Handle, bool) {
	s.guard.Lock()
	defer s.guard.Unlock()
	h, ok := s.pending[id]
	return h, ok
}

func (s *Scheduler) mirrorSet(id uint, h notify.Handle) {
	s.guard.Lock()
	defer s.guard.Unlock()
	s.pending[id] = h
}

func (s *Scheduler) mirrorDelete(id uint) {
	s.guard.Lock()
	defer s.guard.Unlock()
	delete(s.pending, id)
}

func (s *Scheduler) mirrorIDs() []uint {
	s.guard.Lock()
	defer s.guard.Unlock()
	ids := make([]uint, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sameHandle(a, b notify.Handle) bool {
	return a.ID == b.ID && a.FireAt.Equal(b.FireAt) && a.Title == b.Title && a.Body == b.Body
}

// Handle converts the request into its platform form.
func (r Request) Handle() notify.Handle {
	return notify.Handle{
		ID:     HandleID(r.TaskID),
		FireAt: r.FireAt,
		Title:  r.Title,
		Body:   r.Body,
	}
}

// Reconcile brings the platform in line with one task snapshot: cancel
// when the task wants no reminder, replace-by-id when it wants one at
// a different time or with different content, nothing when already in
// sync. Denied permission makes this a successful no-op.
func (s *Scheduler) Reconcile(ctx context.Context, task *models.Task) error {
	if task == nil || task.ID == 0 {
		return ErrInvalidTask
	}

	if s.platform.AuthorizationStatus() == notify.AuthDenied {
		return nil
	}

	if err := s.prime(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrSchedulingFailed, err)
	}

	unlock := s.lockTask(task.ID)
	defer unlock()

	req, want := s.policy.Request(task, s.now())
	if !want {
		return s.cancelLocked(ctx, task.ID)
	}
	return s.scheduleLocked(ctx, task.ID, req.Handle())
}

// CancelReminder drops any pending reminder for the task id. Used for
// deletions, where no snapshot survives to reconcile against.
func (s *Scheduler) CancelReminder(ctx context.Context, taskID uint) error {
	if taskID == 0 {
		return ErrInvalidTask
	}

	if err := s.prime(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrSchedulingFailed, err)
	}

	unlock := s.lockTask(taskID)
	defer unlock()
	return s.cancelLocked(ctx, taskID)
}

// scheduleLocked makes the platform hold exactly h for the task.
// Caller holds the task lock.
func (s *Scheduler) scheduleLocked(ctx context.Context, taskID uint, h notify.Handle) error {
	if current, ok := s.mirrorGet(taskID); ok && sameHandle(current, h) {
		return nil
	}

	if err := s.platform.Schedule(ctx, h); err != nil {
		if errors.Is(err, notify.ErrDenied) {
			// Permission flipped to denied mid-flight. Same contract
			// as any denied reconcile: no reminder, no error.
			_ = s.platform.Cancel(ctx, h.ID)
			s.mirrorDelete(taskID)
			return nil
		}
		// Never leave a handle at a stale fire time behind a failure:
		// the task ends up with no reminder at all, and the caller may
		// retry.
		_ = s.platform.Cancel(ctx, h.ID)
		s.mirrorDelete(taskID)
		s.logger.Error("failed to schedule reminder", "task", taskID, "err", err)
		return fmt.Errorf("task #%d: %w: %w", taskID, ErrSchedulingFailed, err)
	}

	s.mirrorSet(taskID, h)
	s.logger.Debug("scheduled reminder", "task", taskID, "fire_at", h.FireAt)
	return nil
}

// cancelLocked removes the task's reminder if the mirror holds one.
// Caller holds the task lock.
func (s *Scheduler) cancelLocked(ctx context.Context, taskID uint) error {
	if _, ok := s.mirrorGet(taskID); !ok {
		return nil
	}

	if err := s.platform.Cancel(ctx, HandleID(taskID)); err != nil {
		s.logger.Error("failed to cancel reminder", "task", taskID, "err", err)
		return fmt.Errorf("task #%d: %w: %w", taskID, ErrSchedulingFailed, err)
	}

	s.mirrorDelete(taskID)
	s.logger.Debug("cancelled reminder", "task", taskID)
	return nil
}

// ReconcileAll diffs the desired reminder set of tasks against the
// mirror: orphaned handles are cancelled, missing or mismatched ones
// scheduled. Per-task failures are collected, never aborting the
// batch; the error return is reserved for failing to list the pending
// set in the first place. Running it twice with no intervening changes
// makes no platform calls the second time.
func (s *Scheduler) ReconcileAll(ctx context.Context, tasks []models.Task) ([]Failure, error) {
	if s.platform.AuthorizationStatus() == notify.AuthDenied {
		return nil, nil
	}

	if err := s.prime(ctx); err != nil {
		return nil, err
	}

	now := s.now()
	desired := make(map[uint]notify.Handle, len(tasks))
	for i := range tasks {
		if req, want := s.policy.Request(&tasks[i], now); want {
			desired[req.TaskID] = req.Handle()
		}
	}

	var failures []Failure

	// Cancel orphans first so the pending set only ever shrinks toward
	// the desired one.
	for _, id := range s.mirrorIDs() {
		if _, wanted := desired[id]; wanted {
			continue
		}
		unlock := s.lockTask(id)
		err := s.cancelLocked(ctx, id)
		unlock()
		if err != nil {
			failures = append(failures, Failure{TaskID: id, Err: err})
		}
	}

	ids := make([]uint, 0, len(desired))
	for id := range desired {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		unlock := s.lockTask(id)
		err := s.scheduleLocked(ctx, id, desired[id])
		unlock()
		if err != nil {
			failures = append(failures, Failure{TaskID: id, Err: err})
		}
	}

	return failures, nil
}

// CancelAll removes every pending reminder. Used on reset and when
// reminders are switched off.
func (s *Scheduler) CancelAll(ctx context.Context) error {
	if err := s.prime(ctx); err != nil {
		return err
	}

	for _, id := range s.mirrorIDs() {
		unlock := s.lockTask(id)
		err := s.cancelLocked(ctx, id)
		unlock()
		if err != nil {
			return err
		}
	}
	return nil
}

// RequestPermission asks the platform for notification authorization.
// Idempotent: once the status is determined it is returned as recorded,
// without prompting again.
func (s *Scheduler) RequestPermission(ctx context.Context) (notify.AuthStatus, error) {
	status := s.platform.AuthorizationStatus()
	if status != notify.AuthNotDetermined {
		return status, nil
	}

	status, err := s.platform.RequestAuthorization(ctx)
	if err != nil {
		return status, fmt.Errorf("failed to request notification permission: %w", err)
	}
	s.logger.Info("notification permission determined", "status", status)
	return status, nil
}

// AuthorizationStatus reports the platform's recorded permission state.
func (s *Scheduler) AuthorizationStatus() notify.AuthStatus {
	return s.platform.AuthorizationStatus()
}

// IsReminderPending reports whether the task currently holds a pending
// reminder. Display-only query for the UI layer.
func (s *Scheduler) IsReminderPending(ctx context.Context, taskID uint) (bool, error) {
	if err := s.prime(ctx); err != nil {
		return false, err
	}
	_, ok := s.mirrorGet(taskID)
	return ok, nil
}
