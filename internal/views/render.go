package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Theme        string
	Header       string
	LeftPane     string
	RightPane    string
	StatusLine   string
	StatusError  bool
	Footer       string
	Notification string
}

type palette struct {
	header   lipgloss.Style
	status   lipgloss.Style
	err      lipgloss.Style
	panel    lipgloss.Style
	footer   lipgloss.Style
	done     lipgloss.Style
	today    lipgloss.Style
	other    lipgloss.Style
	selected lipgloss.Style
	high     lipgloss.Style
	medium   lipgloss.Style
	low      lipgloss.Style
}

func newPalette(accent, muted, text, border string) palette {
	return palette{
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(border)).Padding(0, 1),
		footer:   lipgloss.NewStyle().Foreground(lipgloss.Color(muted)),
		done:     lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color(muted)),
		today:    lipgloss.NewStyle().Bold(true).Reverse(true),
		other:    lipgloss.NewStyle().Foreground(lipgloss.Color(muted)),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(text)),
		high:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		medium:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		low:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

var palettes = map[string]palette{
	"light": newPalette("4", "244", "0", "250"),
	"dark":  newPalette("12", "8", "15", "238"),
}

func paletteFor(theme string) palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes["light"]
}

func RenderApp(data AppData) string {
	p := paletteFor(data.Theme)
	left := p.panel.Width(58).Render(data.LeftPane)
	row := left
	if strings.TrimSpace(data.RightPane) != "" {
		right := p.panel.Width(58).Render(data.RightPane)
		row = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	status := p.status.Render(data.StatusLine)
	if data.StatusError {
		status = p.err.Render(data.StatusLine)
	}

	lines := []string{
		p.header.Render(data.Header),
		row,
		status,
	}
	if data.Notification != "" {
		lines = append(lines, p.panel.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, p.footer.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders md with the glamour style matching theme. On
// failure the raw markdown is returned.
func RenderMarkdown(md, theme string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	style := "light"
	if theme == "dark" {
		style = "dark"
	}
	out, err := glamour.Render(md, style)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
