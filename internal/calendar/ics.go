package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/atm/internal/model"
)

const icsDateLayout = "20060102"

// ExportICS writes one all-day event per task with a deadline. Tasks
// without a deadline are skipped; recurring tasks carry an RRULE.
func ExportICS(tasks []model.Task, now time.Time) (string, error) {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//atm//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	stamp := now.UTC().Format("20060102T150405Z")
	for _, t := range tasks {
		if !t.HasDeadline() {
			continue
		}
		due, err := model.ParseDate(t.DeadlineString())
		if err != nil {
			return "", fmt.Errorf("calendar: task %s: %w", t.ID, err)
		}
		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+escapeICSText(fmt.Sprintf("task-%s@atm", t.ID)),
			"DTSTAMP:"+stamp,
			"SUMMARY:"+escapeICSText(t.Title),
			"DTSTART;VALUE=DATE:"+due.Format(icsDateLayout),
			"DTEND;VALUE=DATE:"+due.AddDate(0, 0, 1).Format(icsDateLayout),
			"PRIORITY:"+icsPriority(t.Priority),
		)
		if t.Completed {
			lines = append(lines, "STATUS:CANCELLED")
		}
		if rrule := recurrenceRRULE(t.Recurring); rrule != "" {
			lines = append(lines, "RRULE:"+rrule)
		}
		lines = append(lines, "END:VEVENT")
	}
	lines = append(lines, "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n"), nil
}

func recurrenceRRULE(r model.Recurrence) string {
	switch r {
	case model.RecurrenceDaily:
		return "FREQ=DAILY;INTERVAL=1"
	case model.RecurrenceWeekly:
		return "FREQ=WEEKLY;INTERVAL=1"
	case model.RecurrenceMonthly:
		return "FREQ=MONTHLY;INTERVAL=1"
	default:
		return ""
	}
}

// icsPriority maps onto RFC 5545 values: 1 high, 5 medium, 9 low, 0 undefined.
func icsPriority(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "1"
	case model.PriorityMedium:
		return "5"
	case model.PriorityLow:
		return "9"
	default:
		return "0"
	}
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
