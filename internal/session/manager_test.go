package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/atm/internal/model"
	"github.com/sandeepkv93/atm/internal/notify"
	"github.com/sandeepkv93/atm/internal/scheduler"
	"github.com/sandeepkv93/atm/internal/storage"
	"github.com/sandeepkv93/atm/internal/task"
)

type countingNotifier struct {
	requests int
}

func (c *countingNotifier) Permission() notify.Permission { return notify.PermissionDefault }

func (c *countingNotifier) RequestPermission() notify.Permission {
	c.requests++
	return notify.PermissionDefault
}

func (c *countingNotifier) Send(notify.Notification) error { return nil }

var fixedNow = time.Date(2026, 2, 9, 12, 0, 0, 0, time.Local)

func newManager(t *testing.T) (*Manager, *scheduler.Engine, *countingNotifier) {
	t.Helper()
	clock := func() time.Time { return fixedNow }
	engine := scheduler.NewEngine(8, scheduler.WithClock(clock))
	notifier := &countingNotifier{}
	m := New(
		storage.NewAdapter(storage.NewMemoryKV()),
		scheduler.NewDeadlines(engine, time.Hour),
		notify.NewGate(notifier),
		task.WithClock(clock),
	)
	return m, engine, notifier
}

func deadline(s string) *string { return &s }

func TestActivateNormalizesUsername(t *testing.T) {
	m, _, _ := newManager(t)
	_, err := m.Activate(context.Background(), "  Alice ")
	require.NoError(t, err)
	assert.Equal(t, "alice", m.User())
	assert.True(t, m.Active())
}

func TestActivateBlankKeepsSession(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()
	_, err := m.Activate(ctx, "alice")
	require.NoError(t, err)

	_, err = m.Activate(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyUsername)
	assert.Equal(t, "alice", m.User())
}

func TestStoreRequiresActiveUser(t *testing.T) {
	m, _, _ := newManager(t)
	_, err := m.Store()
	assert.ErrorIs(t, err, task.ErrNoActiveUser)

	_, _, err = m.Complete(context.Background(), "x")
	assert.ErrorIs(t, err, task.ErrNoActiveUser)
}

func TestLoginLogoutLoginKeepsTasks(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()

	store, err := m.Activate(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, store.Tasks())
	_, err = store.Add(ctx, "Write report", model.PriorityHigh, deadline("2030-01-01"), model.RecurrenceNone)
	require.NoError(t, err)

	m.Deactivate()
	assert.Equal(t, "", m.User())

	store, err = m.Activate(ctx, "alice")
	require.NoError(t, err)
	tasks := store.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write report", tasks[0].Title)
	assert.Equal(t, 0, tasks[0].Order)
	assert.Equal(t, model.PriorityHigh, tasks[0].Priority)
}

func TestUsersAreIsolated(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()

	alice, err := m.Activate(ctx, "alice")
	require.NoError(t, err)
	_, err = alice.Add(ctx, "alice task", model.PriorityLow, nil, "")
	require.NoError(t, err)

	bob, err := m.Activate(ctx, "BOB")
	require.NoError(t, err)
	assert.Empty(t, bob.Tasks())
}

func TestPermissionRequestedOncePerActivation(t *testing.T) {
	m, _, notifier := newManager(t)
	ctx := context.Background()

	_, err := m.Activate(ctx, "alice")
	require.NoError(t, err)
	m.Gate().RequestOnce()
	assert.Equal(t, 1, notifier.requests)

	m.Deactivate()
	_, err = m.Activate(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, notifier.requests)
}

func TestSwitchingUsersMovesReminders(t *testing.T) {
	m, engine, _ := newManager(t)
	ctx := context.Background()

	alice, err := m.Activate(ctx, "alice")
	require.NoError(t, err)
	due, err := alice.Add(ctx, "Write report", model.PriorityHigh, deadline("2030-01-01"), "")
	require.NoError(t, err)
	_, err = alice.Add(ctx, "old", model.PriorityHigh, deadline("2020-01-01"), "")
	require.NoError(t, err)
	assert.Equal(t, 1, engine.Pending())

	_, err = m.Activate(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 0, engine.Pending())

	_, err = m.Activate(ctx, "alice")
	require.NoError(t, err)
	_, ok := engine.PendingFor(due.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, engine.Pending())

	m.Deactivate()
	assert.Equal(t, 0, engine.Pending())
}

func TestCompleteSpawnsNextOccurrence(t *testing.T) {
	m, engine, _ := newManager(t)
	ctx := context.Background()
	store, err := m.Activate(ctx, "alice")
	require.NoError(t, err)

	original, err := store.Add(ctx, "Pay rent", model.PriorityMedium, deadline("2030-01-31"), model.RecurrenceMonthly)
	require.NoError(t, err)

	updated, spawned, err := m.Complete(ctx, original.ID)
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	require.NotNil(t, spawned)
	assert.Equal(t, "Pay rent", spawned.Title)
	assert.Equal(t, model.PriorityMedium, spawned.Priority)
	assert.Equal(t, model.RecurrenceMonthly, spawned.Recurring)
	assert.Equal(t, "2030-03-03", spawned.DeadlineString())
	assert.Equal(t, 1, spawned.Order)
	assert.False(t, spawned.Completed)

	_, ok := engine.PendingFor(original.ID)
	assert.False(t, ok)
	_, ok = engine.PendingFor(spawned.ID)
	assert.True(t, ok)

	reopened, again, err := m.Complete(ctx, original.ID)
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
	assert.Nil(t, again)
	assert.Equal(t, 2, store.Len())
}

func TestCompleteWithoutChain(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()
	store, err := m.Activate(ctx, "alice")
	require.NoError(t, err)

	plain, err := store.Add(ctx, "once", model.PriorityLow, deadline("2030-01-01"), "")
	require.NoError(t, err)
	noDeadline, err := store.Add(ctx, "daily chore", model.PriorityLow, nil, model.RecurrenceDaily)
	require.NoError(t, err)

	for _, id := range []string{plain.ID, noDeadline.ID, "missing"} {
		_, spawned, err := m.Complete(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, spawned)
	}
	assert.Equal(t, 2, store.Len())
}

func TestThemeIsIndependentOfSession(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()

	theme, err := m.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, storage.ThemeLight, theme)

	theme, err = m.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, storage.ThemeDark, theme)

	_, err = m.Activate(ctx, "alice")
	require.NoError(t, err)
	m.Deactivate()

	theme, err = m.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, storage.ThemeDark, theme)

	assert.ErrorIs(t, m.SetTheme(ctx, "sepia"), storage.ErrInvalidTheme)
	theme, err = m.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, storage.ThemeLight, theme)
}

func TestDeactivatedStoreIsUnusable(t *testing.T) {
	m, engine, _ := newManager(t)
	ctx := context.Background()

	store, err := m.Activate(ctx, "alice")
	require.NoError(t, err)
	_, err = store.Add(ctx, "before logout", model.PriorityLow, deadline("2030-01-01"), "")
	require.NoError(t, err)

	m.Deactivate()
	assert.False(t, m.Active())
	assert.True(t, store.Closed())
	assert.Empty(t, store.Tasks())
	assert.Equal(t, 0, engine.Pending())

	_, err = store.Add(ctx, "after logout", model.PriorityLow, nil, "")
	assert.ErrorIs(t, err, task.ErrNoActiveUser)
	assert.Empty(t, store.Tasks())

	store, err = m.Activate(ctx, "alice")
	require.NoError(t, err)
	tasks := store.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "before logout", tasks[0].Title)
}

func TestSwitchingUsersClosesPreviousStore(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()

	alice, err := m.Activate(ctx, "alice")
	require.NoError(t, err)
	_, err = m.Activate(ctx, "bob")
	require.NoError(t, err)

	assert.True(t, alice.Closed())
	_, err = alice.Add(ctx, "stray", model.PriorityLow, nil, "")
	assert.ErrorIs(t, err, task.ErrNoActiveUser)
}
