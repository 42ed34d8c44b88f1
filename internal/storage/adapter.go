package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sandeepkv93/atm/internal/model"
)

const (
	KeyUsers = "atm_users"
	KeyTheme = "atm_theme"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

var (
	ErrNoUser       = errors.New("storage: username is required")
	ErrInvalidTheme = errors.New("storage: invalid theme")
)

// Adapter maps a username to its ordered task list. It does no merging:
// a save replaces the user's whole list.
type Adapter struct {
	kv KV
}

func NewAdapter(kv KV) *Adapter {
	return &Adapter{kv: kv}
}

func (a *Adapter) LoadTasks(ctx context.Context, user string) ([]model.Task, error) {
	if strings.TrimSpace(user) == "" {
		return nil, ErrNoUser
	}
	users, err := a.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	tasks := users[user]
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (a *Adapter) SaveTasks(ctx context.Context, user string, tasks []model.Task) error {
	if strings.TrimSpace(user) == "" {
		return ErrNoUser
	}
	users, err := a.loadUsers(ctx)
	if err != nil {
		return err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	users[user] = tasks
	payload, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("storage: encode users: %w", err)
	}
	if err := a.kv.Set(ctx, KeyUsers, payload); err != nil {
		return fmt.Errorf("storage: save tasks for %s: %w", user, err)
	}
	return nil
}

// Users lists every username that has a stored collection, sorted.
func (a *Adapter) Users(ctx context.Context) ([]string, error) {
	users, err := a.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(users))
	for name := range users {
		out = append(out, name)
	}
	slices.Sort(out)
	return out, nil
}

func (a *Adapter) LoadTheme(ctx context.Context) (string, error) {
	raw, ok, err := a.kv.Get(ctx, KeyTheme)
	if err != nil {
		return ThemeLight, fmt.Errorf("storage: load theme: %w", err)
	}
	if !ok {
		return ThemeLight, nil
	}
	var theme string
	if err := json.Unmarshal(raw, &theme); err != nil || theme != ThemeDark {
		return ThemeLight, nil
	}
	return ThemeDark, nil
}

func (a *Adapter) SaveTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	payload, _ := json.Marshal(theme)
	if err := a.kv.Set(ctx, KeyTheme, payload); err != nil {
		return fmt.Errorf("storage: save theme: %w", err)
	}
	return nil
}

func (a *Adapter) loadUsers(ctx context.Context) (map[string][]model.Task, error) {
	raw, ok, err := a.kv.Get(ctx, KeyUsers)
	if err != nil {
		return nil, fmt.Errorf("storage: load users: %w", err)
	}
	users := make(map[string][]model.Task)
	if !ok || len(raw) == 0 {
		return users, nil
	}
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("storage: decode users: %w", err)
	}
	if users == nil {
		users = make(map[string][]model.Task)
	}
	return users, nil
}
