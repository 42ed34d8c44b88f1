// Package calendar lays out a month of deadlines and exports them as
// iCalendar.
package calendar

import (
	"time"

	"github.com/sandeepkv93/atm/internal/model"
)

var Weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type Cell struct {
	Date    time.Time
	Day     int
	InMonth bool
	Today   bool
	Due     []model.Task
}

type Grid struct {
	Year  int
	Month time.Month
	Weeks [][7]Cell
}

func (g Grid) Title() string {
	return time.Date(g.Year, g.Month, 1, 0, 0, 0, 0, time.Local).Format("January 2006")
}

// Prev and Next return the first day of the adjacent months.
func (g Grid) Prev() time.Time {
	return time.Date(g.Year, g.Month-1, 1, 0, 0, 0, 0, time.Local)
}

func (g Grid) Next() time.Time {
	return time.Date(g.Year, g.Month+1, 1, 0, 0, 0, 0, time.Local)
}

// Month builds a Sunday-first grid for the month. Days from the adjacent
// months pad the first and last week and never carry due tasks. A task is
// due on a day when its deadline string equals that date exactly.
func Month(year int, month time.Month, tasks []model.Task, today time.Time) Grid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	// normalize so month 13 or 0 behave like AddDate
	year, month = first.Year(), first.Month()

	byDate := make(map[string][]model.Task)
	for _, t := range tasks {
		if t.HasDeadline() {
			d := t.DeadlineString()
			byDate[d] = append(byDate[d], t)
		}
	}

	todayKey := model.FormatDate(today)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	g := Grid{Year: year, Month: month}
	for day := start; ; {
		var week [7]Cell
		for i := range week {
			key := model.FormatDate(day)
			cell := Cell{
				Date:    day,
				Day:     day.Day(),
				InMonth: day.Month() == month && day.Year() == year,
			}
			if cell.InMonth {
				cell.Today = key == todayKey
				cell.Due = byDate[key]
			}
			week[i] = cell
			day = day.AddDate(0, 0, 1)
		}
		g.Weeks = append(g.Weeks, week)
		if day.Month() != month || day.Year() != year {
			break
		}
	}
	return g
}

// DueCount is the number of tasks due on the cell's day.
func (c Cell) DueCount() int {
	return len(c.Due)
}
