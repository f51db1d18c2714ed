package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
)

// Notifier delivers one notification to the desktop. Injectable so
// tests never pop real toasts.
type Notifier func(title, body string) error

// LocalPlatform is the real desktop implementation of Platform. The
// pending set and the authorization state live in one JSON file under
// the app directory, so they survive across CLI invocations. Delivery
// happens when something calls DeliverDue, typically the daemon tick.
type LocalPlatform struct {
	path     string
	notifier Notifier

	mu    sync.RWMutex
	state localState
	dirty bool
}

type localState struct {
	Authorization AuthStatus        `json:"authorization"`
	Handles       map[string]Handle `json:"handles"`
}

var _ Platform = (*LocalPlatform)(nil)

// NewLocalPlatform opens (creating if needed) the platform state at
// path and delivers through beeep.
func NewLocalPlatform(path string) (*LocalPlatform, error) {
	p := &LocalPlatform{
		path: path,
		notifier: func(title, body string) error {
			return beeep.Notify(title, body, "")
		},
		state: localState{
			Authorization: AuthNotDetermined,
			Handles:       make(map[string]Handle),
		},
	}

	if _, err := os.Stat(path); err == nil {
		if err := p.load(); err != nil {
			return nil, fmt.Errorf("failed to load notification state: %w", err)
		}
	}

	return p, nil
}

// SetNotifier replaces the delivery function.
func (p *LocalPlatform) SetNotifier(n Notifier) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifier = n
}

func (p *LocalPlatform) load() error {
	f, err := os.Open(p.path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&p.state); err != nil {
		return err
	}
	if p.state.Handles == nil {
		p.state.Handles = make(map[string]Handle)
	}
	if p.state.Authorization == "" {
		p.state.Authorization = AuthNotDetermined
	}
	return nil
}

// save writes the state atomically via a temp file.
func (p *LocalPlatform) save() error {
	if !p.dirty {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(p.state, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := p.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write notification state: %w", err)
	}
	if err := os.Rename(tmpPath, p.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace notification state: %w", err)
	}

	p.dirty = false
	return nil
}

// AuthorizationStatus reports the recorded permission state.
func (p *LocalPlatform) AuthorizationStatus() AuthStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.Authorization
}

// RequestAuthorization grants on first request. There is no OS prompt
// on this platform; an explicit denial comes through SetAuthorization.
// Once determined, the recorded answer is returned without change.
func (p *LocalPlatform) RequestAuthorization(ctx context.Context) (AuthStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Authorization == AuthNotDetermined {
		p.state.Authorization = AuthGranted
		p.dirty = true
		if err := p.save(); err != nil {
			return p.state.Authorization, err
		}
	}
	return p.state.Authorization, nil
}

// SetAuthorization records the permission state directly. Used by the
// explicit enable/disable commands.
func (p *LocalPlatform) SetAuthorization(status AuthStatus) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Authorization == status {
		return nil
	}
	p.state.Authorization = status
	p.dirty = true
	return p.save()
}

// Schedule registers or replaces a handle and persists the change.
func (p *LocalPlatform) Schedule(ctx context.Context, h Handle) error {
	if h.ID == "" {
		return ErrInvalidHandle
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Authorization == AuthDenied {
		return ErrDenied
	}

	p.state.Handles[h.ID] = h
	p.dirty = true
	return p.save()
}

// Cancel removes a handle; missing IDs are a no-op.
func (p *LocalPlatform) Cancel(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.state.Handles[id]; !ok {
		return nil
	}
	delete(p.state.Handles, id)
	p.dirty = true
	return p.save()
}

// Pending returns all handles sorted by fire time, then ID.
func (p *LocalPlatform) Pending(ctx context.Context) ([]Handle, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	handles := make([]Handle, 0, len(p.state.Handles))
	for _, h := range p.state.Handles {
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

// DeliverDue fires every handle due at or before now and removes it
// from the pending set, returning what fired. A handle whose delivery
// fails stays pending for the next call. Nothing fires unless
// permission is granted.
func (p *LocalPlatform) DeliverDue(ctx context.Context, now time.Time) ([]Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Authorization != AuthGranted {
		return nil, nil
	}

	var due []Handle
	for _, h := range p.state.Handles {
		if !h.FireAt.After(now) {
			due = append(due, h)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].FireAt.Equal(due[j].FireAt) {
			return due[i].ID < due[j].ID
		}
		return due[i].FireAt.Before(due[j].FireAt)
	})

	var fired []Handle
	for _, h := range due {
		if err := p.notifier(h.Title, h.Body); err != nil {
			if saveErr := p.save(); saveErr != nil {
				return fired, saveErr
			}
			return fired, fmt.Errorf("failed to deliver notification %s: %w", h.ID, err)
		}
		delete(p.state.Handles, h.ID)
		p.dirty = true
		fired = append(fired, h)
	}

	return fired, p.save()
}
