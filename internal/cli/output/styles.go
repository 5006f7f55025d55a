package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the terminal styles. Outside a terminal every style is plain.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

func newStyles(color bool) Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return Styles{plain, plain, plain, plain, plain, plain, plain}
	}
	return Styles{
		Header1: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2: lipgloss.NewStyle().Bold(true),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// Styles returns the styles for the renderer's output. NO_COLOR disables
// colors even on a terminal.
func (r *Renderer) Styles() Styles {
	return newStyles(r.color() && r.EffectiveMode() == ModeTable)
}

func (r *Renderer) color() bool {
	return r.isTTY && !termenv.EnvNoColor()
}

// Header writes a section header.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(strings.Repeat("#", max(level, 1)) + " " + text)
		return
	}
	s := r.Styles()
	if level <= 1 {
		r.Println(s.Header1.Render(text))
		return
	}
	r.Println(s.Header2.Render(text))
}

// Status values understood by StatusLine.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
)

// StatusLine writes one check result.
func (r *Renderer) StatusLine(name, status, detail string) {
	s := r.Styles()

	var icon string
	switch status {
	case StatusSuccess:
		icon = s.Success.Render("✓")
	case StatusWarning:
		icon = s.Warning.Render("!")
	default:
		icon = s.Error.Render("✗")
	}

	line := fmt.Sprintf("%s %s", icon, name)
	if r.EffectiveMode() == ModeMarkdown {
		line = "- " + line
	}
	if detail != "" {
		line += " " + s.Muted.Render("("+detail+")")
	}
	r.Println(line)
}

// Warning reports a non-fatal problem on the diagnostics writer.
func (r *Renderer) Warning(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if r.isTTY {
		msg = newStyles(true).Warning.Render("warning: ") + msg
	} else {
		msg = "warning: " + msg
	}
	_, _ = fmt.Fprintln(r.errOut, msg)
}
