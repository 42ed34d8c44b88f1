package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/atm/internal/views"
)

const commandCheatSheet = `
## Commands

- ` + "`add <title> p:high due:2030-01-31 every:monthly`" + `
- ` + "`done|delete <n|selected>`, `move <n> <n>`" + `
- ` + "`edit <n> [title] [p:] [due:] [every:]`, `due <n> <date|none>`" + `
- ` + "`theme [light|dark|toggle]`" + `
`

// keyGroups feeds the bubbles help model: the first column holds the
// keys of the current view, the second the keys that work everywhere.
type keyGroups [][]key.Binding

func (g keyGroups) ShortHelp() []key.Binding {
	var flat []key.Binding
	for _, col := range g {
		flat = append(flat, col...)
	}
	return flat
}

func (g keyGroups) FullHelp() [][]key.Binding { return g }

func bind(keys, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(strings.Split(keys, "/")...), key.WithHelp(keys, desc))
}

func (m Model) renderHelpView() string {
	local := m.screenKeys()

	var md strings.Builder
	fmt.Fprintf(&md, "## %s\n\n", m.CurrentView)
	for _, b := range local {
		h := b.Help()
		fmt.Fprintf(&md, "- `%s` %s\n", h.Key, h.Desc)
	}
	md.WriteString(commandCheatSheet)

	return views.RenderHelpPanel(views.HelpPanelData{
		Theme:    m.Theme,
		Markdown: md.String(),
		HelpView: m.helpModel.View(keyGroups{local, m.appKeys()}),
	})
}

func (m Model) appKeys() []key.Binding {
	return []key.Binding{
		bind(m.Keys.Tasks, "task list"),
		bind(m.Keys.Calendar, "toggle calendar"),
		bind("/", "command palette"),
		bind(m.Keys.Theme, "toggle theme"),
		bind(m.Keys.Logout, "log out"),
		bind(m.Keys.Help, "help"),
		bind(m.Keys.Quit, "quit"),
	}
}

func (m Model) screenKeys() []key.Binding {
	switch m.CurrentView {
	case ViewTasks:
		return []key.Binding{
			bind("j/k", "move cursor"),
			bind("space", "complete or reopen"),
			bind("a", "add task"),
			bind("e", "edit selected"),
			bind("d", "delete selected"),
			bind("K/J", "move task up or down"),
		}
	case ViewCalendar:
		return []key.Binding{
			bind("h/l", "previous or next month"),
			bind("t", "jump to today"),
			bind("esc", "back to tasks"),
		}
	default:
		return []key.Binding{bind("enter", "log in")}
	}
}
