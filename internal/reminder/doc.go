// Package reminder keeps the notification platform's pending set in
// sync with the task store.
//
// # Overview
//
// The Scheduler owns one invariant: the set of pending notifications
// equals the set of reminder requests derivable from active tasks that
// have a due date and reminders enabled. Nothing else writes to the
// platform. Reminder times are never stored; a Policy derives them
// from the task's due date every time, so edits, completions and
// deletions converge by re-running the same derivation.
//
// # Entry points
//
//   - Reconcile: bring one task's reminder in line after an edit
//   - ReconcileAll: diff the whole active set against the platform,
//     used at startup and after bulk changes
//   - CancelAll: drop every pending reminder (reset/disable)
//   - RequestPermission: one-shot authorization flow
//   - Run: consume the store's change stream and reconcile as edits
//     arrive
//
// Reconciliations of the same task are serialized; different tasks
// proceed concurrently. Permission denial is a state, not an error:
// reconciles still succeed and simply schedule nothing.
package reminder
