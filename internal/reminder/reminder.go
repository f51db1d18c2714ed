package reminder

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/mkravets/tickle/internal/models"
)

// Sentinel errors. Permission denial is deliberately absent: a denied
// platform makes reconciliation a successful no-op, never an error.
var (
	// ErrInvalidTask rejects nil tasks and tasks without an ID. The
	// operation has no side effect.
	ErrInvalidTask = errors.New("invalid task")

	// ErrSchedulingFailed wraps a platform failure. The task is left
	// with no pending reminder; the caller may retry.
	ErrSchedulingFailed = errors.New("failed to schedule reminder")
)

// Request is the reminder a task currently wants: derived from the
// task by the policy, never persisted anywhere.
type Request struct {
	TaskID uint
	FireAt time.Time
	Title  string
	Body   string
}

// TaskSource is the slice of the task store the scheduler reads.
// *store.Store satisfies it.
type TaskSource interface {
	GetTaskByID(taskID uint) (*models.Task, error)
	ActiveTasks() ([]models.Task, error)
}

// Failure records one task a batch reconcile could not bring in sync.
type Failure struct {
	TaskID uint
	Err    error
}

const handlePrefix = "task-"

// HandleID returns the platform handle ID for a task. The mapping is
// 1:1, which is what makes schedule-by-ID an idempotent replace.
func HandleID(taskID uint) string {
	return handlePrefix + strconv.FormatUint(uint64(taskID), 10)
}

// TaskIDFromHandle recovers the task id from a handle ID. Foreign
// handles (not created by this scheduler) report ok=false.
func TaskIDFromHandle(id string) (uint, bool) {
	raw, found := strings.CutPrefix(id, handlePrefix)
	if !found {
		return 0, false
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}
