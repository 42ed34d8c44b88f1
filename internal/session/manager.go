// Package session switches the active user and owns the task store that
// belongs to them. Only one user is active at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/sandeepkv93/atm/internal/model"
	"github.com/sandeepkv93/atm/internal/notify"
	"github.com/sandeepkv93/atm/internal/storage"
	"github.com/sandeepkv93/atm/internal/task"
)

var ErrEmptyUsername = errors.New("session: username is required")

// Backend is the persistence the manager needs: per-user task lists plus
// the global theme preference.
type Backend interface {
	task.Persister
	LoadTheme(ctx context.Context) (string, error)
	SaveTheme(ctx context.Context, theme string) error
}

type Manager struct {
	mu        sync.Mutex
	backend   Backend
	reminders task.Reminders
	gate      *notify.Gate
	opts      []task.Option
	store     *task.Store
}

// New builds a manager. reminders and gate may be nil.
func New(backend Backend, reminders task.Reminders, gate *notify.Gate, opts ...task.Option) *Manager {
	if gate == nil {
		gate = notify.NewGate(nil)
	}
	return &Manager{
		backend:   backend,
		reminders: reminders,
		gate:      gate,
		opts:      opts,
	}
}

// Normalize trims and lowercases a raw username.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Activate makes raw the active user. A blank name fails and leaves the
// current session untouched. Loaded tasks get their reminders armed and
// notification permission is requested once for the new session.
func (m *Manager) Activate(ctx context.Context, raw string) (*task.Store, error) {
	user := Normalize(raw)
	if user == "" {
		return nil, ErrEmptyUsername
	}
	store, err := task.New(ctx, user, m.backend, m.reminders, m.opts...)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	prev := m.store
	m.store = store
	m.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
	armed := store.ScheduleAll()
	log.Printf("session %s: loaded %d tasks, %d reminders armed", user, store.Len(), armed)
	m.gate.Reset()
	m.gate.RequestOnce()
	return store, nil
}

// Deactivate closes the active user's store, which cancels its reminders
// and leaves any handle to it read-only and empty.
func (m *Manager) Deactivate() {
	m.mu.Lock()
	prev := m.store
	m.store = nil
	m.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
}

func (m *Manager) User() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store == nil {
		return ""
	}
	return m.store.User()
}

func (m *Manager) Active() bool {
	return m.User() != ""
}

func (m *Manager) Store() (*task.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store == nil {
		return nil, task.ErrNoActiveUser
	}
	return m.store, nil
}

func (m *Manager) Gate() *notify.Gate {
	return m.gate
}

// Complete toggles the task. When that marks a recurring task done and its
// deadline projects forward, the next occurrence is added and returned.
func (m *Manager) Complete(ctx context.Context, id string) (model.Task, *model.Task, error) {
	store, err := m.Store()
	if err != nil {
		return model.Task{}, nil, err
	}
	updated, found, err := store.ToggleComplete(ctx, id)
	if err != nil || !found {
		return updated, nil, err
	}
	if !updated.Completed || !updated.Recurring.IsRecurring() {
		return updated, nil, nil
	}
	next := model.NextOccurrence(updated.Deadline, updated.Recurring)
	if next == nil {
		return updated, nil, nil
	}
	spawned, err := store.Add(ctx, updated.Title, updated.Priority, next, updated.Recurring)
	if err != nil {
		return updated, nil, fmt.Errorf("session: spawn next occurrence: %w", err)
	}
	return updated, &spawned, nil
}

func (m *Manager) Theme(ctx context.Context) (string, error) {
	return m.backend.LoadTheme(ctx)
}

func (m *Manager) SetTheme(ctx context.Context, theme string) error {
	return m.backend.SaveTheme(ctx, theme)
}

// ToggleTheme flips between light and dark and returns the new value.
func (m *Manager) ToggleTheme(ctx context.Context) (string, error) {
	current, err := m.backend.LoadTheme(ctx)
	if err != nil {
		return current, err
	}
	next := storage.ThemeDark
	if current == storage.ThemeDark {
		next = storage.ThemeLight
	}
	if err := m.backend.SaveTheme(ctx, next); err != nil {
		return current, err
	}
	return next, nil
}
