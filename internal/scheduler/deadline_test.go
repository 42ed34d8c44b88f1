package scheduler

import (
	"testing"
	"time"

	"github.com/sandeepkv93/atm/internal/model"
)

func deadlineTask(id, deadline string) model.Task {
	d := deadline
	return model.Task{ID: id, Title: "Task " + id, Deadline: &d}
}

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func TestTriggerAtOneHourBeforeEndOfDay(t *testing.T) {
	now := time.Date(2026, 2, 9, 9, 0, 0, 0, time.Local)
	d := NewDeadlines(NewEngine(1, fixedClock(now)), 0)

	at, ok := d.TriggerAt(deadlineTask("a", "2026-02-10"), now)
	if !ok {
		t.Fatal("expected trigger")
	}
	want := time.Date(2026, 2, 10, 22, 59, 59, 0, time.Local)
	if !at.Equal(want) {
		t.Fatalf("trigger got %s want %s", at, want)
	}
}

func TestTriggerAtImmediateInsideLeadWindow(t *testing.T) {
	now := time.Date(2026, 2, 9, 23, 30, 0, 0, time.Local)
	d := NewDeadlines(NewEngine(1, fixedClock(now)), time.Hour)

	at, ok := d.TriggerAt(deadlineTask("a", "2026-02-09"), now)
	if !ok || !at.Equal(now) {
		t.Fatalf("expected immediate trigger at %s, got %s ok=%v", now, at, ok)
	}
}

func TestTriggerAtSkipsStaleCompletedAndMissing(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.Local)
	d := NewDeadlines(NewEngine(1, fixedClock(now)), time.Hour)

	if _, ok := d.TriggerAt(deadlineTask("a", "2026-02-08"), now); ok {
		t.Fatal("stale deadline must not trigger")
	}
	done := deadlineTask("b", "2026-03-01")
	done.Completed = true
	if _, ok := d.TriggerAt(done, now); ok {
		t.Fatal("completed task must not trigger")
	}
	if _, ok := d.TriggerAt(model.Task{ID: "c", Title: "no deadline"}, now); ok {
		t.Fatal("task without deadline must not trigger")
	}
}

func TestScheduleStaleDeadlineNeverFires(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.Local)
	engine := NewEngine(4, fixedClock(now))
	d := NewDeadlines(engine, time.Hour)

	if d.Schedule(deadlineTask("past", "2026-01-01")) {
		t.Fatal("expected stale deadline to be skipped")
	}
	if engine.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", engine.Pending())
	}

	engine.Start()
	defer engine.Stop()
	select {
	case ev := <-engine.C():
		t.Fatalf("stale deadline fired: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestScheduleTwiceFiresOnce(t *testing.T) {
	now := time.Date(2026, 2, 9, 23, 30, 0, 0, time.Local)
	engine := NewEngine(4, fixedClock(now))
	d := NewDeadlines(engine, time.Hour)

	task := deadlineTask("t1", "2026-02-09")
	if !d.Schedule(task) {
		t.Fatal("expected first schedule")
	}
	task.Title = "renamed"
	if !d.Schedule(task) {
		t.Fatal("expected second schedule")
	}
	if engine.Pending() != 1 {
		t.Fatalf("expected one pending timer, got %d", engine.Pending())
	}

	engine.Start()
	defer engine.Stop()

	ev := waitEvent(t, engine.C(), time.Second)
	if ev.TaskID != "t1" || ev.Title != "renamed" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	select {
	case extra := <-engine.C():
		t.Fatalf("expected a single fire, got extra %+v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCancelRemovesPending(t *testing.T) {
	now := time.Date(2026, 2, 9, 9, 0, 0, 0, time.Local)
	engine := NewEngine(1, fixedClock(now))
	d := NewDeadlines(engine, time.Hour)

	if !d.Schedule(deadlineTask("t1", "2026-02-20")) {
		t.Fatal("expected schedule")
	}
	if !d.Pending("t1") {
		t.Fatal("expected pending reminder")
	}
	d.Cancel("t1")
	d.Cancel("t1")
	if d.Pending("t1") || engine.Pending() != 0 {
		t.Fatal("expected reminder cancelled")
	}
}
