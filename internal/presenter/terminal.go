package presenter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(1, 2)

	ruleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2563EB"))
)

// Terminal renders for an ANSI terminal.
type Terminal struct{}

func NewTerminal() *Terminal {
	return &Terminal{}
}

func (t *Terminal) Render(r Report) string {
	if r.Error != "" {
		return errorStyle.Render(r.Error)
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(r.Title))
	sb.WriteString("\n")
	for _, h := range r.Header {
		sb.WriteString(h)
		sb.WriteString("\n")
	}

	for _, section := range r.Sections {
		sb.WriteString(sectionStyle.Render(section.Title))
		sb.WriteString("\n")
		for _, line := range section.Lines {
			switch {
			case line.Rule:
				sb.WriteString(ruleStyle.Render(separator))
			case line.Indent:
				sb.WriteString("    " + line.Text)
			default:
				sb.WriteString(line.Text)
			}
			sb.WriteString("\n")
		}
	}

	return boxStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

func (t *Terminal) RenderFailure(reason string) string {
	return errorStyle.Render(reason)
}

func (t *Terminal) RenderLoading(symbol string) string {
	return loadingStyle.Render(MessageLoading + " " + symbol)
}
