// Package notify defines the notification platform boundary: a small
// keyed store of pending deliveries plus an authorization state. The
// reminder scheduler talks only to the Platform interface; everything
// platform-specific stays behind it.
package notify

import (
	"context"
	"errors"
	"time"
)

// AuthStatus is the platform's notification permission state.
type AuthStatus string

const (
	AuthNotDetermined AuthStatus = "not_determined"
	AuthGranted       AuthStatus = "granted"
	AuthDenied        AuthStatus = "denied"
)

// Sentinel errors.
var (
	// ErrDenied is returned by Schedule when the user has denied
	// notification permission.
	ErrDenied = errors.New("notification permission denied")

	// ErrInvalidHandle is returned by Schedule for a handle without an ID.
	ErrInvalidHandle = errors.New("invalid notification handle")
)

// Handle is one pending notification. Handles are keyed by ID:
// scheduling an ID that already exists replaces the previous handle
// atomically, so callers never observe the old and new fire time side
// by side.
type Handle struct {
	ID     string    `json:"id"`
	FireAt time.Time `json:"fire_at"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
}

// Platform is the notification system the scheduler keeps in sync.
type Platform interface {
	// AuthorizationStatus reports the recorded permission state.
	AuthorizationStatus() AuthStatus

	// RequestAuthorization asks the user once and records the answer.
	// Once the status is determined it returns the recorded status
	// without asking again.
	RequestAuthorization(ctx context.Context) (AuthStatus, error)

	// Schedule registers a pending notification, replacing any existing
	// handle with the same ID. Returns ErrDenied when permission has
	// been denied.
	Schedule(ctx context.Context, h Handle) error

	// Cancel removes the handle with the given ID. Cancelling an ID
	// with no pending handle is not an error.
	Cancel(ctx context.Context, id string) error

	// Pending returns a snapshot of all pending handles.
	Pending(ctx context.Context) ([]Handle, error)
}
