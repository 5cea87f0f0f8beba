package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/wbuck/azvm-manager/pkg/logger"
)

const progressBarWidth = 20

// NewSpinner creates a new spinner to alert the user about the progress.
// The spinner stays silent when w is not a terminal or when verbose console
// logging would interleave with it.
func NewSpinner(w io.Writer, message string) *spinner.Spinner {
	l := logger.Get()
	l.Debugf("Creating spinner: %s", message)

	if w == nil {
		w = os.Stderr
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Prefix = message + " "
	_ = s.Color("green")
	if l.IsVerbose() {
		return s
	}
	s.Start()

	return s
}

// Progress reports batch progress on a spinner line, e.g.
// "Started 1/2 virtual machines".
type Progress struct {
	spinner *spinner.Spinner
	noun    string
}

func NewProgress(w io.Writer, message, noun string) *Progress {
	return &Progress{spinner: NewSpinner(w, message), noun: noun}
}

// Update matches convergence.ProgressFunc.
func (p *Progress) Update(completed, total int, label string) {
	text := fmt.Sprintf("%s %s %d/%d %s", ProgressBar(completed, total, progressBarWidth), label, completed, total, p.noun)
	p.spinner.Lock()
	p.spinner.Suffix = " " + text
	p.spinner.Unlock()
	logger.Get().Debugf("%s %d/%d %s", label, completed, total, p.noun)
}

// Message replaces the spinner text between phases.
func (p *Progress) Message(message string) {
	p.spinner.Lock()
	p.spinner.Prefix = message + " "
	p.spinner.Suffix = ""
	p.spinner.Unlock()
}

func (p *Progress) Suffix() string {
	p.spinner.Lock()
	defer p.spinner.Unlock()
	return p.spinner.Suffix
}

// Stop halts the spinner and leaves message on its line.
func (p *Progress) Stop(message string) {
	if message != "" {
		p.spinner.FinalMSG = message + "\n"
	}
	p.spinner.Stop()
}

func ProgressBar(completed, total, width int) string {
	if total == 0 {
		return ""
	}
	filledWidth := int(float64(completed) / float64(total) * float64(width))
	emptyWidth := width - filledWidth

	filled := lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Render(strings.Repeat("█", filledWidth))
	empty := lipgloss.NewStyle().
		Foreground(lipgloss.Color("237")).
		Render(strings.Repeat("█", emptyWidth))

	return filled + empty
}
