package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/atm/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.engine == nil {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, waitForReminderCmd(m.engine.C()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.refreshTasks()
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.routeKey(msg)
	case LoginMsg:
		return m.login(msg.Username), nil
	case SwitchViewMsg:
		if isKnownView(msg.View) && (msg.View == ViewLogin || m.sessions.Active()) {
			m.CurrentView = msg.View
		}
	case SetStatusMsg:
		m.Status = StatusBar{Text: msg.Text, IsError: msg.IsError}
	case ClearStatusMsg:
		m.Status = StatusBar{}
	case AppErrorMsg:
		m.LastError = msg.Err
		if msg.Err != nil {
			m.Status = failed(msg.Err)
		}
	case ReminderDueMsg:
		var deliver tea.Cmd
		m, deliver = m.handleReminder(msg.Event)
		if m.engine != nil {
			return m, tea.Batch(deliver, waitForReminderCmd(m.engine.C()))
		}
		return m, deliver
	case NotificationFailedMsg:
		m.Status = StatusBar{Text: fmt.Sprintf("notification failed: %v", msg.Err), IsError: true}
	}
	return m, nil
}

// routeKey gives modal input first claim on a key press: login form,
// then the open palette, then a pending delete prompt. Global shortcuts
// come next and whatever is left goes to the active screen.
func (m Model) routeKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	pressed := k.String()
	if pressed == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	switch {
	case m.CurrentView == ViewLogin:
		return m.handleLoginKey(k)
	case m.Palette.Active:
		return m.handlePaletteKey(k), nil
	case m.ConfirmDelete != "":
		return m.handleConfirmDeleteKey(k), nil
	}

	switch pressed {
	case "/", ":":
		return m.openPalette(""), nil
	case m.Keys.Tasks:
		m.CurrentView = ViewTasks
	case m.Keys.Calendar:
		if m.CurrentView == ViewCalendar {
			m.CurrentView = ViewTasks
		} else {
			m.CurrentView = ViewCalendar
		}
	case m.Keys.Theme:
		return m.toggleTheme(), nil
	case m.Keys.Logout:
		return m.logout(), nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	default:
		if m.CurrentView == ViewCalendar {
			return m.handleCalendarKey(k), nil
		}
		return m.handleTaskKey(k), nil
	}
	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	data := views.AppData{
		Theme:        m.Theme,
		Header:       "atm",
		StatusError:  m.Status.IsError,
		Notification: m.renderReminderLog(),
		Footer: fmt.Sprintf("keys: %s tasks | %s calendar | / cmd | %s theme | %s logout | %s help | %s quit",
			m.Keys.Tasks, m.Keys.Calendar, m.Keys.Theme, m.Keys.Logout, m.Keys.Help, m.Keys.Quit),
	}
	if m.Status.Text != "" {
		data.StatusLine = "status: " + m.Status.Text
	}
	if user := m.sessions.User(); user != "" {
		data.Header = fmt.Sprintf("atm | user: %s | view: %s | theme: %s", user, m.CurrentView, m.Theme)
	}

	switch m.CurrentView {
	case ViewLogin:
		data.LeftPane = m.renderLoginView()
	case ViewCalendar:
		data.LeftPane = m.renderCalendarView()
	default:
		data.LeftPane = m.renderTaskView()
	}
	if m.CurrentView != ViewLogin {
		data.RightPane = views.RenderCommandPalette(m.Palette.Active, m.commandInput.View())
	}
	if m.HelpVisible {
		data.RightPane = joinNonEmpty(data.RightPane, m.renderHelpView())
	}
	return views.RenderApp(data)
}

func isKnownView(v View) bool {
	return v == ViewLogin || v == ViewTasks || v == ViewCalendar
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		switch {
		case p == "":
		case out == "":
			out = p
		default:
			out += "\n\n" + p
		}
	}
	return out
}
