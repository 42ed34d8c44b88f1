package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/atm/internal/commands"
	"github.com/sandeepkv93/atm/internal/model"
)

func (m Model) openPalette(prefill string) Model {
	m.Palette.Active = true
	m.Palette.Input = prefill
	m.commandInput.SetValue(prefill)
	m.commandInput.CursorEnd()
	m.commandInput.Focus()
	return m
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = info("command palette closed")
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			typed := string(msg.Runes)
			if msg.Type == tea.KeySpace {
				typed = " "
			}
			m.commandInput.SetValue(m.commandInput.Value() + typed)
			m.commandInput.CursorEnd()
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		m.commandInput, _ = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = failed(err)
		return m
	}
	s, active := m.store()
	if !active && cmd.Type != commands.TypeTheme {
		m.Status = StatusBar{Text: "log in first", IsError: true}
		return m
	}

	resolve := func(t commands.Target) (string, error) {
		id, found := t.Resolve(m.Tasks, m.Cursor)
		if !found {
			return "", &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task at %s", t)}
		}
		return id, nil
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			t, err := s.Add(m.ctx, a.Title, a.Priority, a.Deadline, a.Recurring)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added %q", t.Title)}, nil
		},
		Done: func(target commands.Target) (commands.Result, error) {
			id, err := resolve(target)
			if err != nil {
				return commands.Result{}, err
			}
			updated, spawned, err := m.sessions.Complete(m.ctx, id)
			if err != nil {
				return commands.Result{}, err
			}
			if spawned != nil {
				return commands.Result{Message: fmt.Sprintf("completed %q, next due %s", updated.Title, spawned.DeadlineString())}, nil
			}
			return commands.Result{Message: fmt.Sprintf("toggled %q", updated.Title)}, nil
		},
		Delete: func(target commands.Target) (commands.Result, error) {
			id, err := resolve(target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := s.Delete(m.ctx, id); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "deleted task " + target.String()}, nil
		},
		Move: func(a commands.MoveArgs) (commands.Result, error) {
			from, err := resolve(a.From)
			if err != nil {
				return commands.Result{}, err
			}
			to, err := resolve(a.To)
			if err != nil {
				return commands.Result{}, err
			}
			if err := s.Move(m.ctx, from, to); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("moved %s to %s", a.From, a.To)}, nil
		},
		Edit: func(a commands.EditArgs) (commands.Result, error) {
			id, err := resolve(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := s.Edit(m.ctx, id, a.Patch); err != nil {
				return commands.Result{}, err
			}
			msg := "edited task " + a.Target.String()
			if a.Patch.Deadline != nil {
				msg += " (reminder unchanged, use due to re-arm)"
			}
			return commands.Result{Message: msg}, nil
		},
		Due: func(a commands.DueArgs) (commands.Result, error) {
			id, err := resolve(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := s.Edit(m.ctx, id, model.Patch{Deadline: a.Deadline}); err != nil {
				return commands.Result{}, err
			}
			if s.Reschedule(id) {
				return commands.Result{Message: "deadline set, reminder armed"}, nil
			}
			return commands.Result{Message: "deadline updated, no reminder pending"}, nil
		},
		Theme: func(a commands.ThemeArgs) (commands.Result, error) {
			if a.Theme == "" {
				theme, err := m.sessions.ToggleTheme(m.ctx)
				if err != nil {
					return commands.Result{}, err
				}
				m.Theme = theme
			} else {
				if err := m.sessions.SetTheme(m.ctx, a.Theme); err != nil {
					return commands.Result{}, err
				}
				m.Theme = a.Theme
			}
			return commands.Result{Message: "theme: " + m.Theme}, nil
		},
	})
	if err != nil {
		m.Status = failed(err)
	} else {
		m.Status = info(res.Message)
	}
	m.refreshTasks()
	return m
}
