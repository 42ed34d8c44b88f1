package views

import (
	"fmt"
	"strings"
)

type LoginData struct {
	Theme     string
	InputView string
	Error     string
}

type TaskRow struct {
	Title     string
	Priority  string
	Deadline  string
	Recurring string
	Upcoming  []string
	Completed bool
	Reminder  bool
}

type TaskListData struct {
	Theme         string
	User          string
	Rows          []TaskRow
	Cursor        int
	ConfirmDelete string
}

type CalendarCell struct {
	Day     int
	InMonth bool
	Today   bool
	Due     int
}

type CalendarData struct {
	Theme    string
	Title    string
	Weekdays []string
	Weeks    [][]CalendarCell
	DueToday []string
}

type HelpPanelData struct {
	Theme    string
	Markdown string
	HelpView string
}

func RenderLogin(data LoginData) string {
	p := paletteFor(data.Theme)
	var b strings.Builder
	b.WriteString(p.header.Render("Advanced Task Manager") + "\n\n")
	b.WriteString("username:\n")
	b.WriteString(data.InputView + "\n")
	if data.Error != "" {
		b.WriteString("\n" + p.err.Render(data.Error) + "\n")
	}
	b.WriteString("\nactions: [enter]login [ctrl+c]quit")
	return b.String()
}

func RenderTaskList(data TaskListData) string {
	p := paletteFor(data.Theme)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Welcome, %s\n", data.User))
	b.WriteString("actions: [a]add [space]done [e]edit [d]delete [K/J]move [c]calendar\n\n")
	if len(data.Rows) == 0 {
		b.WriteString("(no tasks yet, press a to add one)")
		return b.String()
	}
	for i, row := range data.Rows {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		check := "[ ]"
		if row.Completed {
			check = "[x]"
		}
		title := row.Title
		switch {
		case row.Completed:
			title = p.done.Render(title)
		case i == data.Cursor:
			title = p.selected.Render(title)
		}
		b.WriteString(fmt.Sprintf("%s %d. %s %s\n", cursor, i+1, check, title))

		meta := []string{"Priority: " + priorityBadge(p, row.Priority)}
		if row.Deadline != "" {
			due := "Deadline: " + row.Deadline
			if row.Reminder {
				due += " (reminder set)"
			}
			meta = append(meta, due)
		}
		if row.Recurring != "" {
			rec := "Recurring: " + row.Recurring
			if len(row.Upcoming) > 0 {
				rec += " (next " + strings.Join(row.Upcoming, ", ") + ")"
			}
			meta = append(meta, rec)
		}
		b.WriteString("      " + p.other.Render(strings.Join(meta, " | ")) + "\n")
	}
	if data.ConfirmDelete != "" {
		b.WriteString("\n" + p.err.Render(fmt.Sprintf("Delete %q? [y/n]", data.ConfirmDelete)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func priorityBadge(p palette, label string) string {
	switch label {
	case "High":
		return p.high.Render(label)
	case "Medium":
		return p.medium.Render(label)
	case "Low":
		return p.low.Render(label)
	default:
		return label
	}
}

func RenderCalendar(data CalendarData) string {
	p := paletteFor(data.Theme)
	var b strings.Builder
	b.WriteString(p.header.Render(data.Title) + "\n")
	b.WriteString("actions: [h/l]month [t]today [esc]tasks\n\n")
	for _, wd := range data.Weekdays {
		b.WriteString(fmt.Sprintf("%-6s", wd))
	}
	b.WriteString("\n")
	for _, week := range data.Weeks {
		for _, c := range week {
			cell := fmt.Sprintf("%2d", c.Day)
			if c.Due > 0 {
				cell += fmt.Sprintf("(%d)", c.Due)
			}
			cell = fmt.Sprintf("%-6s", cell)
			switch {
			case !c.InMonth:
				cell = p.other.Render(cell)
			case c.Today:
				cell = p.today.Render(cell)
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}
	if len(data.DueToday) > 0 {
		b.WriteString("\ndue today:\n")
		for _, title := range data.DueToday {
			b.WriteString("- " + title + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command:\n%s\nexamples: add Pay rent p:high due:2030-01-31 every:monthly | done 2 | move 3 1", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return strings.TrimSpace(RenderMarkdown(data.Markdown, data.Theme) + "\n\n" + data.HelpView)
}
