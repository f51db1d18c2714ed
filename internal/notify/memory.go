package notify

import (
	"context"
	"sort"
	"sync"
)

// MemoryPlatform implements Platform entirely in memory. Useful for
// tests and dry runs. Call counters and the injectable failure are read
// or set between operations, not concurrently with them.
type MemoryPlatform struct {
	mu      sync.Mutex
	auth    AuthStatus
	handles map[string]Handle

	// Answer is what RequestAuthorization grants while the status is
	// still undetermined.
	Answer AuthStatus

	// ScheduleErr, when set, fails every Schedule call.
	ScheduleErr error

	ScheduleCalls int
	CancelCalls   int
	PendingCalls  int
	RequestCalls  int
}

var _ Platform = (*MemoryPlatform)(nil)

// NewMemoryPlatform returns a platform with undetermined authorization
// that grants on request.
func NewMemoryPlatform() *MemoryPlatform {
	return &MemoryPlatform{
		auth:    AuthNotDetermined,
		handles: make(map[string]Handle),
		Answer:  AuthGranted,
	}
}

// AuthorizationStatus reports the recorded permission state.
func (m *MemoryPlatform) AuthorizationStatus() AuthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.auth
}

// SetAuthorization overrides the permission state directly.
func (m *MemoryPlatform) SetAuthorization(status AuthStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auth = status
}

// RequestAuthorization records Answer on the first determination and
// returns the recorded status ever after.
func (m *MemoryPlatform) RequestAuthorization(ctx context.Context) (AuthStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RequestCalls++
	if m.auth == AuthNotDetermined {
		m.auth = m.Answer
	}
	return m.auth, nil
}

// Schedule registers or replaces a handle.
func (m *MemoryPlatform) Schedule(ctx context.Context, h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ScheduleCalls++
	if m.ScheduleErr != nil {
		return m.ScheduleErr
	}
	if h.ID == "" {
		return ErrInvalidHandle
	}
	if m.auth == AuthDenied {
		return ErrDenied
	}

	m.handles[h.ID] = h
	return nil
}

// Cancel removes a handle; missing IDs are a no-op.
func (m *MemoryPlatform) Cancel(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CancelCalls++
	delete(m.handles, id)
	return nil
}

// Pending returns all handles sorted by fire time, then ID.
func (m *MemoryPlatform) Pending(ctx context.Context) ([]Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PendingCalls++
	handles := make([]Handle, 0, len(m.handles))
	for _, h := range m.handles {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool {
		if handles[i].FireAt.Equal(handles[j].FireAt) {
			return handles[i].ID < handles[j].ID
		}
		return handles[i].FireAt.Before(handles[j].FireAt)
	})
	return handles, nil
}

// Handle returns the pending handle for id, if any.
func (m *MemoryPlatform) Handle(id string) (Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.handles[id]
	return h, ok
}

// Len reports how many handles are pending.
func (m *MemoryPlatform) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handles)
}

// ResetCounters zeroes the call counters.
func (m *MemoryPlatform) ResetCounters() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScheduleCalls = 0
	m.CancelCalls = 0
	m.PendingCalls = 0
	m.RequestCalls = 0
}
