// Package ui provides list rendering and interactive terminal components.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tood/internal/task"
)

var (
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	cursorStyle = lipgloss.NewStyle().Bold(true)
	promptStyle = lipgloss.NewStyle().Bold(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

// FormatLine renders one task line, numbered by id. Completed tasks are
// struck through unless plain is set.
func FormatLine(t task.Task, plain bool) string {
	line := fmt.Sprintf("%d. %s", t.ID, t.Body)
	if t.Done && !plain {
		return doneStyle.Render(line)
	}
	return line
}

// WriteList writes one line per task to w.
func WriteList(w io.Writer, tasks []task.Task, plain bool) {
	for _, t := range tasks {
		fmt.Fprintln(w, FormatLine(t, plain))
	}
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}
