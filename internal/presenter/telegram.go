package presenter

import (
	"fmt"
	"html"
	"strings"
)

// Telegram renders HTML for telebot.ModeHTML messages.
type Telegram struct{}

func NewTelegram() *Telegram {
	return &Telegram{}
}

// Render shows a server error result as its bare message. Only local
// failures carry the ❌ marker.
func (t *Telegram) Render(r Report) string {
	if r.Error != "" {
		return html.EscapeString(r.Error)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>%s</b>\n", html.EscapeString(r.Title)))
	for _, h := range r.Header {
		sb.WriteString(html.EscapeString(h))
		sb.WriteString("\n")
	}

	for _, section := range r.Sections {
		sb.WriteString(fmt.Sprintf("\n<b><i>%s</i></b>\n", html.EscapeString(section.Title)))
		for _, line := range section.Lines {
			switch {
			case line.Rule:
				sb.WriteString(separator)
			case line.Indent:
				sb.WriteString("   " + html.EscapeString(line.Text))
			default:
				sb.WriteString(html.EscapeString(line.Text))
			}
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (t *Telegram) RenderFailure(reason string) string {
	return fmt.Sprintf("❌ %s", html.EscapeString(reason))
}

func (t *Telegram) RenderLoading(symbol string) string {
	return fmt.Sprintf("⏳ %s <b>%s</b>", MessageLoading, html.EscapeString(symbol))
}
