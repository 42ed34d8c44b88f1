package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/atm/internal/calendar"
	"github.com/sandeepkv93/atm/internal/model"
	"github.com/sandeepkv93/atm/internal/views"
)

func (m Model) handleCalendarKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "h", "left", "p":
		m.CalendarMonth = m.calendarGrid().Prev()
	case "l", "right", "n":
		m.CalendarMonth = m.calendarGrid().Next()
	case "t":
		m.CalendarMonth = firstOfMonth(m.now())
	case "esc":
		m.CurrentView = ViewTasks
		return m
	}
	m.Status = info("calendar: " + m.CalendarMonth.Format("January 2006"))
	return m
}

func (m Model) calendarGrid() calendar.Grid {
	return calendar.Month(m.CalendarMonth.Year(), m.CalendarMonth.Month(), m.Tasks, m.now())
}

func (m Model) renderCalendarView() string {
	grid := m.calendarGrid()
	weeks := make([][]views.CalendarCell, 0, len(grid.Weeks))
	for _, week := range grid.Weeks {
		row := make([]views.CalendarCell, 0, len(week))
		for _, c := range week {
			row = append(row, views.CalendarCell{
				Day:     c.Day,
				InMonth: c.InMonth,
				Today:   c.Today,
				Due:     c.DueCount(),
			})
		}
		weeks = append(weeks, row)
	}

	var dueToday []string
	if s, active := m.store(); active {
		for _, t := range s.DueOn(model.FormatDate(m.now())) {
			dueToday = append(dueToday, t.Title)
		}
	}
	return views.RenderCalendar(views.CalendarData{
		Theme:    m.Theme,
		Title:    grid.Title(),
		Weekdays: calendar.Weekdays[:],
		Weeks:    weeks,
		DueToday: dueToday,
	})
}
