package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/atm/internal/model"
	"github.com/sandeepkv93/atm/internal/task"
	"github.com/sandeepkv93/atm/internal/views"
)

const upcomingCount = 2

func (m *Model) store() (*task.Store, bool) {
	s, err := m.sessions.Store()
	if err != nil {
		return nil, false
	}
	return s, true
}

// attach points the model at store's change feed. A nil store detaches.
func (m *Model) attach(store *task.Store) {
	m.feed = nil
	m.feedSeen = 0
	if store != nil {
		m.feed = newTaskFeed(store)
	}
	m.refreshTasks()
}

// refreshTasks pulls the latest list pushed by the store, if it changed
// since the last pull.
func (m *Model) refreshTasks() {
	if m.feed == nil {
		m.Tasks = nil
		m.Cursor = 0
		return
	}
	tasks, version := m.feed.latest()
	if version == m.feedSeen {
		return
	}
	m.Tasks = tasks
	m.feedSeen = version
	m.Cursor = clamp(m.Cursor, 0, len(m.Tasks)-1)
}

func (m Model) selectedID() (string, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Tasks) {
		return "", false
	}
	return m.Tasks[m.Cursor].ID, true
}

func (m Model) handleTaskKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Tasks)-1 {
			m.Cursor++
		}
	case "a":
		return m.openPalette("add ")
	case "e":
		if _, ok := m.selectedID(); ok {
			return m.openPalette(fmt.Sprintf("edit %d ", m.Cursor+1))
		}
	case " ", "x", "enter":
		return m.completeSelected()
	case "d", "delete":
		if m.Cursor < len(m.Tasks) {
			m.ConfirmDelete = m.Tasks[m.Cursor].Title
		}
	case "K", "shift+up":
		return m.moveSelected(-1)
	case "J", "shift+down":
		return m.moveSelected(1)
	}
	return m
}

func (m Model) completeSelected() Model {
	id, ok := m.selectedID()
	if !ok {
		return m
	}
	updated, spawned, err := m.sessions.Complete(m.ctx, id)
	m.refreshTasks()
	switch {
	case err != nil:
		m.Status = failed(err)
	case spawned != nil:
		m.Status = info(fmt.Sprintf("completed %q, next due %s", updated.Title, spawned.DeadlineString()))
	case updated.Completed:
		m.Status = info(fmt.Sprintf("completed %q", updated.Title))
	default:
		m.Status = info(fmt.Sprintf("reopened %q", updated.Title))
	}
	return m
}

func (m Model) handleConfirmDeleteKey(msg tea.KeyMsg) Model {
	title := m.ConfirmDelete
	m.ConfirmDelete = ""
	if msg.String() != "y" && msg.String() != "Y" {
		m.Status = info("delete cancelled")
		return m
	}
	id, found := m.selectedID()
	s, active := m.store()
	if !found || !active {
		return m
	}
	if err := s.Delete(m.ctx, id); err != nil {
		m.Status = failed(err)
		return m
	}
	m.refreshTasks()
	m.Status = info(fmt.Sprintf("deleted %q", title))
	return m
}

// moveSelected drags the selected row onto its neighbour.
func (m Model) moveSelected(delta int) Model {
	target := m.Cursor + delta
	if target < 0 || target >= len(m.Tasks) {
		return m
	}
	s, active := m.store()
	if !active {
		return m
	}
	if err := s.Move(m.ctx, m.Tasks[m.Cursor].ID, m.Tasks[target].ID); err != nil {
		m.Status = failed(err)
		return m
	}
	m.Cursor = target
	m.refreshTasks()
	return m
}

func (m Model) renderTaskView() string {
	rows := make([]views.TaskRow, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		row := views.TaskRow{
			Title:     t.Title,
			Priority:  t.Priority.Label(),
			Deadline:  t.DeadlineString(),
			Recurring: string(t.Recurring),
			Completed: t.Completed,
		}
		if m.deadlines != nil {
			row.Reminder = m.deadlines.Pending(t.ID)
		}
		if !t.Completed {
			row.Upcoming = model.Preview(t.Deadline, t.Recurring, upcomingCount)
		}
		rows = append(rows, row)
	}
	return views.RenderTaskList(views.TaskListData{
		Theme:         m.Theme,
		User:          m.sessions.User(),
		Rows:          rows,
		Cursor:        m.Cursor,
		ConfirmDelete: m.ConfirmDelete,
	})
}

func (m Model) toggleTheme() Model {
	theme, err := m.sessions.ToggleTheme(m.ctx)
	if err != nil {
		m.Status = failed(err)
		return m
	}
	m.Theme = theme
	m.Status = info("theme: " + theme)
	return m
}
