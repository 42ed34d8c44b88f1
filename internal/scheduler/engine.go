// Package scheduler fires deadline reminders at their trigger time.
package scheduler

import (
	"container/heap"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrMissingKey         = errors.New("scheduler: event key is required")
	ErrStopped            = errors.New("scheduler: engine stopped")
)

// ReminderEvent is one pending alert. TaskID is the key: the engine keeps
// at most one pending event per TaskID.
type ReminderEvent struct {
	TaskID    string
	Title     string
	Deadline  string
	TriggerAt time.Time
}

type Option func(*Engine)

// WithClock replaces time.Now. The loop still sleeps on real timers, so a
// fixed clock makes every event at or before "now" due immediately.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine delivers reminders on C once their trigger time passes. A full
// channel drops the reminder and bumps Dropped.
type Engine struct {
	mu      sync.Mutex
	pending reminderHeap
	byTask  map[string]*entry
	now     func() time.Time

	out     chan ReminderEvent
	poke    chan struct{}
	quit    chan struct{}
	done    chan struct{}
	running bool
	closed  bool
	dropped atomic.Uint64
}

func NewEngine(buffer int, opts ...Option) *Engine {
	e := &Engine{
		byTask: make(map[string]*entry),
		now:    time.Now,
		out:    make(chan ReminderEvent, max(buffer, 1)),
		poke:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) C() <-chan ReminderEvent { return e.out }

func (e *Engine) Now() time.Time { return e.now() }

func (e *Engine) Dropped() uint64 { return e.dropped.Load() }

// Start launches the delivery loop. Calling it twice, or after Stop, does
// nothing.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running || e.closed {
		return
	}
	e.running = true
	go e.run()
}

// Stop ends the loop and closes C. Pending reminders are discarded.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.quit)
	running := e.running
	e.mu.Unlock()

	if running {
		<-e.done
	}
}

// Schedule arms ev, replacing any pending event with the same TaskID.
func (e *Engine) Schedule(ev ReminderEvent) error {
	switch {
	case strings.TrimSpace(ev.TaskID) == "":
		return ErrMissingKey
	case ev.TriggerAt.IsZero():
		return ErrInvalidTriggerTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrStopped
	}
	if cur, ok := e.byTask[ev.TaskID]; ok {
		cur.ev = ev
		heap.Fix(&e.pending, cur.slot)
	} else {
		fresh := &entry{ev: ev}
		heap.Push(&e.pending, fresh)
		e.byTask[ev.TaskID] = fresh
	}
	e.wake()
	return nil
}

// Cancel drops the pending event for key. It reports whether one existed.
func (e *Engine) Cancel(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	cur, ok := e.byTask[key]
	if !ok {
		return false
	}
	heap.Remove(&e.pending, cur.slot)
	delete(e.byTask, key)
	e.wake()
	return true
}

func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending.Len()
}

// PendingFor returns the armed event for key, if any.
func (e *Engine) PendingFor(key string) (ReminderEvent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cur, ok := e.byTask[key]; ok {
		return cur.ev, true
	}
	return ReminderEvent{}, false
}

func (e *Engine) wake() {
	select {
	case e.poke <- struct{}{}:
	default:
	}
}

func (e *Engine) run() {
	defer close(e.done)
	defer close(e.out)

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		armed := false
		if at, ok := e.nextTrigger(); ok {
			rearm(timer, max(at.Sub(e.now()), 0))
			armed = true
		}

		var fire <-chan time.Time
		if armed {
			fire = timer.C
		}
		select {
		case <-fire:
			for _, ev := range e.takeDue(e.now()) {
				e.deliver(ev)
			}
		case <-e.poke:
		case <-e.quit:
			return
		}
	}
}

func (e *Engine) deliver(ev ReminderEvent) {
	select {
	case e.out <- ev:
	default:
		e.dropped.Add(1)
	}
}

func (e *Engine) nextTrigger() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending.Len() == 0 {
		return time.Time{}, false
	}
	return e.pending[0].ev.TriggerAt, true
}

// takeDue pops every reminder whose trigger time is at or before now.
func (e *Engine) takeDue(now time.Time) []ReminderEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	var due []ReminderEvent
	for e.pending.Len() > 0 && !e.pending[0].ev.TriggerAt.After(now) {
		head := heap.Pop(&e.pending).(*entry)
		delete(e.byTask, head.ev.TaskID)
		due = append(due, head.ev)
	}
	return due
}

// rearm resets t to fire after d, draining a stale tick first.
func rearm(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
