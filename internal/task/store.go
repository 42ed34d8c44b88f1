// Package task holds the authoritative in-memory task list for one user.
// Every mutation is written through to persistence before it is visible.
package task

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/atm/internal/model"
)

var (
	ErrNoActiveUser = errors.New("task: no active user")
	ErrEmptyTitle   = errors.New("task: title is required")
)

// Persister is the durable copy of a user's task list.
type Persister interface {
	LoadTasks(ctx context.Context, user string) ([]model.Task, error)
	SaveTasks(ctx context.Context, user string, tasks []model.Task) error
}

// Reminders arms and cancels deadline alerts.
type Reminders interface {
	Schedule(model.Task) bool
	Cancel(taskID string)
}

type noReminders struct{}

func (noReminders) Schedule(model.Task) bool { return false }
func (noReminders) Cancel(string)            {}

// OrderUpdate assigns a new position to a task.
type OrderUpdate struct {
	ID    string
	Order int
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(next func() string) Option {
	return func(s *Store) {
		if next != nil {
			s.newID = next
		}
	}
}

type Store struct {
	mu        sync.Mutex
	user      string
	tasks     []model.Task
	persist   Persister
	reminders Reminders
	hooks     []func([]model.Task)
	now       func() time.Time
	newID     func() string
	closed    bool
}

// New loads user's tasks. An empty user is rejected so nothing is ever
// written under an undefined key.
func New(ctx context.Context, user string, persist Persister, reminders Reminders, opts ...Option) (*Store, error) {
	if strings.TrimSpace(user) == "" {
		return nil, ErrNoActiveUser
	}
	if persist == nil {
		return nil, errors.New("task: nil persister")
	}
	if reminders == nil {
		reminders = noReminders{}
	}
	loaded, err := persist.LoadTasks(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("task: load %s: %w", user, err)
	}
	s := &Store{
		user:      user,
		tasks:     cloneTasks(loaded),
		persist:   persist,
		reminders: reminders,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	sortByOrder(s.tasks)
	return s, nil
}

func (s *Store) User() string {
	return s.user
}

// Subscribe registers fn to receive the ordered list after every
// successful mutation.
func (s *Store) Subscribe(fn func([]model.Task)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *Store) Get(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return model.Task{}, false
}

// DueOn returns tasks whose deadline is exactly date (YYYY-MM-DD).
func (s *Store) DueOn(date string) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, 0)
	for _, t := range s.tasks {
		if t.DeadlineString() == date && date != "" {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Add appends a new task at the end of the list and arms its reminder.
// Priority is not checked; unknown values display as "None".
func (s *Store) Add(ctx context.Context, title string, priority model.Priority, deadline *string, recurring model.Recurrence) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	t := model.Task{
		Title:     title,
		Priority:  priority,
		Recurring: recurring,
	}
	if deadline != nil && *deadline != "" {
		d := *deadline
		t.Deadline = &d
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return model.Task{}, ErrNoActiveUser
	}
	t.ID = s.newID()
	t.CreatedAt = s.now().UnixMilli()
	t.Order = len(s.tasks)
	if err := t.Validate(); err != nil {
		s.mu.Unlock()
		return model.Task{}, err
	}
	snapshot := cloneTasks(s.tasks)
	s.tasks = append(s.tasks, t)
	if err := s.saveLocked(ctx, snapshot); err != nil {
		s.mu.Unlock()
		return model.Task{}, err
	}
	hooks, view := s.hooksLocked()
	s.mu.Unlock()

	if t.HasDeadline() {
		s.reminders.Schedule(t)
	}
	notify(hooks, view)
	return t.Clone(), nil
}

// Edit merges patch onto the task. Unknown ids are ignored. Edit does not
// re-arm reminders; call Reschedule after changing a deadline.
func (s *Store) Edit(ctx context.Context, id string, patch model.Patch) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrNoActiveUser
	}
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	next := s.tasks[i].Clone()
	patch.Apply(&next)
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	snapshot := cloneTasks(s.tasks)
	s.tasks[i] = next
	if patch.Order != nil {
		sortByOrder(s.tasks)
	}
	if err := s.saveLocked(ctx, snapshot); err != nil {
		s.mu.Unlock()
		return err
	}
	hooks, view := s.hooksLocked()
	s.mu.Unlock()

	if next.Completed {
		s.reminders.Cancel(id)
	}
	notify(hooks, view)
	return nil
}

// Delete removes the task, relabels the remaining order values densely,
// and cancels its reminder.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrNoActiveUser
	}
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	snapshot := cloneTasks(s.tasks)
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	relabel(s.tasks)
	if err := s.saveLocked(ctx, snapshot); err != nil {
		s.mu.Unlock()
		return err
	}
	hooks, view := s.hooksLocked()
	s.mu.Unlock()

	s.reminders.Cancel(id)
	notify(hooks, view)
	return nil
}

// ToggleComplete flips the completed flag. found is false for unknown ids.
// Completing cancels the reminder; reopening re-arms it. Spawning the next
// occurrence of a recurring task is left to the caller.
func (s *Store) ToggleComplete(ctx context.Context, id string) (model.Task, bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return model.Task{}, false, ErrNoActiveUser
	}
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Task{}, false, nil
	}
	snapshot := cloneTasks(s.tasks)
	s.tasks[i].Completed = !s.tasks[i].Completed
	updated := s.tasks[i].Clone()
	if err := s.saveLocked(ctx, snapshot); err != nil {
		s.mu.Unlock()
		return model.Task{}, true, err
	}
	hooks, view := s.hooksLocked()
	s.mu.Unlock()

	if updated.Completed {
		s.reminders.Cancel(id)
	} else {
		s.reminders.Schedule(updated)
	}
	notify(hooks, view)
	return updated, true, nil
}

// Reorder applies each update, ignoring unknown ids, then stable-sorts by
// order. Callers moving a single task pass the full relabelled list.
func (s *Store) Reorder(ctx context.Context, updates []OrderUpdate) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrNoActiveUser
	}
	snapshot := cloneTasks(s.tasks)
	for _, u := range updates {
		if i := s.indexOf(u.ID); i >= 0 {
			s.tasks[i].Order = u.Order
		}
	}
	sortByOrder(s.tasks)
	if err := s.saveLocked(ctx, snapshot); err != nil {
		s.mu.Unlock()
		return err
	}
	hooks, view := s.hooksLocked()
	s.mu.Unlock()

	notify(hooks, view)
	return nil
}

// Move drops draggedID onto targetID's row and relabels every task 0..N-1.
func (s *Store) Move(ctx context.Context, draggedID, targetID string) error {
	if draggedID == targetID {
		return nil
	}
	return s.Reorder(ctx, MoveBefore(s.Tasks(), draggedID, targetID))
}

// Reschedule drops any pending reminder for id and arms a new one from
// the task's current deadline. It reports whether a reminder is armed.
func (s *Store) Reschedule(id string) bool {
	t, ok := s.Get(id)
	if !ok {
		return false
	}
	s.reminders.Cancel(id)
	if t.Completed {
		return false
	}
	return s.reminders.Schedule(t)
}

// ScheduleAll arms reminders for every open task with a future deadline.
func (s *Store) ScheduleAll() int {
	armed := 0
	for _, t := range s.Tasks() {
		if s.reminders.Schedule(t) {
			armed++
		}
	}
	return armed
}

// Close ends the session this store belongs to: reminders are cancelled,
// the in-memory list is dropped and later mutations fail with
// ErrNoActiveUser. Persisted data is left alone.
func (s *Store) Close() {
	s.mu.Lock()
	dropped := s.tasks
	s.tasks = nil
	s.hooks = nil
	s.closed = true
	s.mu.Unlock()

	for _, t := range dropped {
		s.reminders.Cancel(t.ID)
	}
}

// Closed reports whether Close has been called.
func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// MoveBefore computes the full order list for dropping draggedID onto
// targetID. The dragged task is removed and reinserted at the target's
// original index, so a drag upward lands before the target and a drag
// downward lands after it. Unknown ids yield the current order unchanged.
func MoveBefore(tasks []model.Task, draggedID, targetID string) []OrderUpdate {
	ids := make([]string, 0, len(tasks))
	from, to := -1, -1
	for i, t := range tasks {
		ids = append(ids, t.ID)
		switch t.ID {
		case draggedID:
			from = i
		case targetID:
			to = i
		}
	}
	if from >= 0 && to >= 0 && from != to {
		moved := ids[from]
		ids = append(ids[:from], ids[from+1:]...)
		ids = append(ids[:to], append([]string{moved}, ids[to:]...)...)
	}
	out := make([]OrderUpdate, 0, len(ids))
	for i, id := range ids {
		out = append(out, OrderUpdate{ID: id, Order: i})
	}
	return out
}

func (s *Store) saveLocked(ctx context.Context, snapshot []model.Task) error {
	if err := s.persist.SaveTasks(ctx, s.user, cloneTasks(s.tasks)); err != nil {
		s.tasks = snapshot
		return fmt.Errorf("task: persist %s: %w", s.user, err)
	}
	return nil
}

func (s *Store) hooksLocked() ([]func([]model.Task), []model.Task) {
	if len(s.hooks) == 0 {
		return nil, nil
	}
	hooks := slices.Clone(s.hooks)
	return hooks, cloneTasks(s.tasks)
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func notify(hooks []func([]model.Task), view []model.Task) {
	for _, fn := range hooks {
		fn(view)
	}
}

func sortByOrder(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Order < tasks[j].Order
	})
}

func relabel(tasks []model.Task) {
	for i := range tasks {
		tasks[i].Order = i
	}
}

func cloneTasks(in []model.Task) []model.Task {
	out := make([]model.Task, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}
