package reminder

import (
	"fmt"
	"time"

	"github.com/mkravets/tickle/internal/models"
)

// PastDuePolicy decides what happens when a task's reminder time has
// already passed by the time it is scheduled.
type PastDuePolicy int

const (
	// SkipPastDue schedules nothing for fire times in the past.
	SkipPastDue PastDuePolicy = iota

	// FirePastDueNow clamps past fire times to now, so the reminder
	// fires immediately instead of being dropped.
	FirePastDueNow
)

// DefaultLead is how long before the due date a reminder fires when
// the config does not say otherwise.
const DefaultLead = 30 * time.Minute

// Policy derives the reminder a task wants. It is a pure function of
// the task snapshot and the clock; the fire time is recomputed on
// every reconcile and never stored.
type Policy struct {
	// Lead is the span between the reminder and the due date.
	Lead time.Duration

	// PastDue picks the behavior for fire times already in the past.
	PastDue PastDuePolicy
}

// DefaultPolicy returns the stock 30-minutes-before, skip-past-due
// policy.
func DefaultPolicy() Policy {
	return Policy{Lead: DefaultLead, PastDue: SkipPastDue}
}

// Request returns the reminder the task should have, and whether it
// should have one at all. Completed, archived and soft-deleted tasks
// want no reminder, as do tasks without a due date or with reminders
// switched off.
func (p Policy) Request(task *models.Task, now time.Time) (Request, bool) {
	if task == nil || !task.Active() || task.Due == nil || !task.Remind {
		return Request{}, false
	}

	fireAt := task.Due.Add(-p.Lead)
	if fireAt.Before(now) {
		if p.PastDue == SkipPastDue {
			return Request{}, false
		}
		fireAt = now
	}

	return Request{
		TaskID: task.ID,
		FireAt: fireAt,
		Title:  task.Title,
		Body:   fmt.Sprintf("Due %s", task.Due.Format("Mon, 02 Jan 2006 15:04")),
	}, true
}
