package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/sandeepkv93/atm/internal/model"
)

func TestAdapterTasksArePerUser(t *testing.T) {
	a := NewAdapter(NewMemoryKV())
	ctx := context.Background()

	empty, err := a.LoadTasks(ctx, "alice")
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", empty)
	}

	alice := []model.Task{{ID: "1", Title: "Write report", Order: 0}, {ID: "2", Title: "Ship", Order: 1}}
	bob := []model.Task{{ID: "3", Title: "Review", Order: 0}}
	if err := a.SaveTasks(ctx, "alice", alice); err != nil {
		t.Fatalf("save alice: %v", err)
	}
	if err := a.SaveTasks(ctx, "bob", bob); err != nil {
		t.Fatalf("save bob: %v", err)
	}

	got, err := a.LoadTasks(ctx, "alice")
	if err != nil {
		t.Fatalf("load alice: %v", err)
	}
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("unexpected alice tasks: %#v", got)
	}

	if err := a.SaveTasks(ctx, "alice", nil); err != nil {
		t.Fatalf("clear alice: %v", err)
	}
	got, _ = a.LoadTasks(ctx, "bob")
	if len(got) != 1 || got[0].Title != "Review" {
		t.Fatalf("bob affected by alice write: %#v", got)
	}

	users, err := a.Users(ctx)
	if err != nil || len(users) != 2 || users[0] != "alice" || users[1] != "bob" {
		t.Fatalf("unexpected users: %v %v", users, err)
	}
}

func TestAdapterRejectsEmptyUser(t *testing.T) {
	a := NewAdapter(NewMemoryKV())
	if err := a.SaveTasks(context.Background(), " ", nil); !errors.Is(err, ErrNoUser) {
		t.Fatalf("expected ErrNoUser, got %v", err)
	}
	if _, err := a.LoadTasks(context.Background(), ""); !errors.Is(err, ErrNoUser) {
		t.Fatalf("expected ErrNoUser, got %v", err)
	}
}

func TestAdapterTheme(t *testing.T) {
	a := NewAdapter(NewMemoryKV())
	ctx := context.Background()

	theme, err := a.LoadTheme(ctx)
	if err != nil || theme != ThemeLight {
		t.Fatalf("expected default light theme, got %q %v", theme, err)
	}
	if err := a.SaveTheme(ctx, ThemeDark); err != nil {
		t.Fatalf("save theme: %v", err)
	}
	theme, _ = a.LoadTheme(ctx)
	if theme != ThemeDark {
		t.Fatalf("expected dark, got %q", theme)
	}
	if err := a.SaveTheme(ctx, "blue"); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
}

type failingKV struct {
	*MemoryKV
}

func (failingKV) Set(context.Context, string, []byte) error {
	return errors.New("quota exceeded")
}

func TestAdapterWrapsBackendErrors(t *testing.T) {
	a := NewAdapter(failingKV{NewMemoryKV()})
	err := a.SaveTasks(context.Background(), "alice", []model.Task{{ID: "1", Title: "x"}})
	if err == nil || err.Error() != "storage: save tasks for alice: quota exceeded" {
		t.Fatalf("unexpected error: %v", err)
	}
}
