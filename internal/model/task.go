package model

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrInvalidPriority   = errors.New("model: invalid task priority")
	ErrInvalidRecurrence = errors.New("model: invalid task recurrence")
	ErrInvalidDeadline   = errors.New("model: invalid task deadline")
)

type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Label is the display form. Legacy records without a recognised priority
// show as "None".
func (p Priority) Label() string {
	if !p.IsValid() {
		return "None"
	}
	return string(p)
}

func ParsePriority(raw string) (Priority, error) {
	p := Priority(canonical(raw))
	if !p.IsValid() {
		return PriorityNone, fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
	return p, nil
}

type Recurrence string

const (
	RecurrenceNone    Recurrence = ""
	RecurrenceDaily   Recurrence = "Daily"
	RecurrenceWeekly  Recurrence = "Weekly"
	RecurrenceMonthly Recurrence = "Monthly"
)

func (r Recurrence) IsValid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	default:
		return false
	}
}

func (r Recurrence) IsRecurring() bool {
	return r != RecurrenceNone && r.IsValid()
}

func ParseRecurrence(raw string) (Recurrence, error) {
	c := canonical(raw)
	if c == "None" {
		return RecurrenceNone, nil
	}
	r := Recurrence(c)
	if !r.IsValid() {
		return RecurrenceNone, fmt.Errorf("%w: %q", ErrInvalidRecurrence, raw)
	}
	return r, nil
}

func canonical(raw string) string {
	// Casers carry state, so each call gets its own.
	return cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(raw)))
}

// Task is the persisted record. Field names follow the stored JSON layout.
type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Priority  Priority   `json:"priority"`
	Deadline  *string    `json:"deadline"`
	Recurring Recurrence `json:"recurring"`
	Completed bool       `json:"completed"`
	CreatedAt int64      `json:"createdAt"`
	Order     int        `json:"order"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if t.Deadline != nil {
		if _, err := ParseDate(*t.Deadline); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDeadline, *t.Deadline)
		}
	}
	if !t.Recurring.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRecurrence, t.Recurring)
	}
	return nil
}

func (t Task) HasDeadline() bool {
	return t.Deadline != nil && *t.Deadline != ""
}

// DeadlineString returns the deadline or "" when unset.
func (t Task) DeadlineString() string {
	if t.Deadline == nil {
		return ""
	}
	return *t.Deadline
}

// Patch is a partial update. A nil field means "no change"; a Deadline
// pointing at "" clears the deadline.
type Patch struct {
	Title     *string     `json:"title,omitempty"`
	Priority  *Priority   `json:"priority,omitempty"`
	Deadline  *string     `json:"deadline,omitempty"`
	Recurring *Recurrence `json:"recurring,omitempty"`
	Completed *bool       `json:"completed,omitempty"`
	Order     *int        `json:"order,omitempty"`
}

func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Deadline != nil {
		if *p.Deadline == "" {
			t.Deadline = nil
		} else {
			d := *p.Deadline
			t.Deadline = &d
		}
	}
	if p.Recurring != nil {
		t.Recurring = *p.Recurring
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Order != nil {
		t.Order = *p.Order
	}
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	out := t
	if t.Deadline != nil {
		d := *t.Deadline
		out.Deadline = &d
	}
	return out
}
