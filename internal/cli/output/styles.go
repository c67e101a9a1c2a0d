package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Styles holds the lipgloss styles used by text output.
type Styles struct {
	Title     lipgloss.Style
	Query     lipgloss.Style
	ParamName lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
}

// newStyles builds styles bound to w. Color is dropped when w is not a
// terminal or NO_COLOR is set.
func newStyles(w io.Writer) *Styles {
	r := lipgloss.NewRenderer(w)
	if !isTerminal(w) || os.Getenv("NO_COLOR") != "" {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Styles{
		Title:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Query:     r.NewStyle().Bold(true),
		ParamName: r.NewStyle().Foreground(lipgloss.Color("14")),
		Muted:     r.NewStyle().Faint(true),
		Error:     r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in int
}
