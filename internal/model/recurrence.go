package model

import "time"

const DateLayout = "2006-01-02"

// ParseDate parses a calendar date (no time of day) in the local zone.
func ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, raw, time.Local)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// EndOfDay is the last second of the given calendar date in local time.
func EndOfDay(date string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	y, m, day := d.Date()
	return time.Date(y, m, day, 23, 59, 59, 0, time.Local), nil
}

// NextOccurrence projects the deadline of the next instance of a recurring
// task. It returns nil when there is no deadline, the deadline does not
// parse, or freq is not a recurring frequency.
//
// Monthly keeps the day of month and lets AddDate normalise overflow, so
// 2024-01-31 becomes 2024-03-02 rather than being clamped to February.
func NextOccurrence(deadline *string, freq Recurrence) *string {
	if deadline == nil || *deadline == "" {
		return nil
	}
	current, err := ParseDate(*deadline)
	if err != nil {
		return nil
	}

	var next time.Time
	switch freq {
	case RecurrenceDaily:
		next = current.AddDate(0, 0, 1)
	case RecurrenceWeekly:
		next = current.AddDate(0, 0, 7)
	case RecurrenceMonthly:
		next = current.AddDate(0, 1, 0)
	default:
		return nil
	}
	out := FormatDate(next)
	return &out
}

// Preview lists the next count projected deadlines starting after deadline.
func Preview(deadline *string, freq Recurrence, count int) []string {
	out := make([]string, 0, max(count, 0))
	cursor := deadline
	for i := 0; i < count; i++ {
		next := NextOccurrence(cursor, freq)
		if next == nil {
			break
		}
		out = append(out, *next)
		cursor = next
	}
	return out
}
