package scheduler

import (
	"time"

	"github.com/sandeepkv93/atm/internal/model"
)

const DefaultLeadTime = time.Hour

// Deadlines arms one best-effort reminder per task, lead before the end of
// the deadline day. Reminders capture the task as it was when scheduled.
type Deadlines struct {
	engine *Engine
	lead   time.Duration
}

func NewDeadlines(engine *Engine, lead time.Duration) *Deadlines {
	if lead <= 0 {
		lead = DefaultLeadTime
	}
	return &Deadlines{engine: engine, lead: lead}
}

// TriggerAt computes when a reminder for task should fire. ok is false when
// nothing should be armed: no deadline, already completed, or the deadline
// instant has passed.
func (d *Deadlines) TriggerAt(task model.Task, now time.Time) (time.Time, bool) {
	if !task.HasDeadline() || task.Completed {
		return time.Time{}, false
	}
	deadline, err := model.EndOfDay(*task.Deadline)
	if err != nil {
		return time.Time{}, false
	}
	diff := deadline.Sub(now)
	if diff <= 0 {
		return time.Time{}, false
	}
	wait := diff - d.lead
	if wait < 0 {
		wait = 0
	}
	return now.Add(wait), true
}

// Schedule arms a reminder for task and reports whether one was armed.
// A stale deadline leaves any existing reminder for the task untouched.
func (d *Deadlines) Schedule(task model.Task) bool {
	at, ok := d.TriggerAt(task, d.engine.Now())
	if !ok {
		return false
	}
	d.engine.Cancel(task.ID)
	err := d.engine.Schedule(ReminderEvent{
		TaskID:    task.ID,
		Title:     task.Title,
		Deadline:  *task.Deadline,
		TriggerAt: at,
	})
	return err == nil
}

func (d *Deadlines) Cancel(taskID string) {
	d.engine.Cancel(taskID)
}

func (d *Deadlines) Pending(taskID string) bool {
	_, ok := d.engine.PendingFor(taskID)
	return ok
}
