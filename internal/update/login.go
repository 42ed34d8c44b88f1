package update

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/atm/internal/session"
	"github.com/sandeepkv93/atm/internal/views"
)

func (m Model) handleLoginKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.login(m.loginInput.Value()), nil
	case "esc":
		m.loginInput.SetValue("")
		m.LoginError = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.loginInput, cmd = m.loginInput.Update(msg)
	return m, cmd
}

func (m Model) login(raw string) Model {
	store, err := m.sessions.Activate(m.ctx, raw)
	if err != nil {
		if errors.Is(err, session.ErrEmptyUsername) {
			m.LoginError = "Please enter a valid username."
		} else {
			m.LoginError = err.Error()
		}
		return m
	}
	m.LoginError = ""
	m.loginInput.SetValue("")
	m.loginInput.Blur()
	m.CurrentView = ViewTasks
	m.Cursor = 0
	m.CalendarMonth = firstOfMonth(m.now())
	m.attach(store)
	m.Status = info("Welcome, " + store.User())
	return m
}

func (m Model) logout() Model {
	m.sessions.Deactivate()
	m.attach(nil)
	m.ConfirmDelete = ""
	m.Palette = CommandPaletteState{}
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	m.CurrentView = ViewLogin
	m.loginInput.SetValue("")
	m.loginInput.Focus()
	m.Status = info("logged out")
	return m
}

func (m Model) renderLoginView() string {
	return views.RenderLogin(views.LoginData{
		Theme:     m.Theme,
		InputView: m.loginInput.View(),
		Error:     m.LoginError,
	})
}
