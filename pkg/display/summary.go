package display

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	failureStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// Summary prints the one line result of a batch: green when every item
// succeeded, red when none did and yellow otherwise.
func Summary(w io.Writer, succeeded, total int, text string) {
	style := warningStyle
	switch {
	case succeeded == total:
		style = successStyle
	case succeeded == 0:
		style = failureStyle
	}
	fmt.Fprintln(w, style.Render(text))
}

func Info(w io.Writer, text string) {
	fmt.Fprintln(w, infoStyle.Render(text))
}
