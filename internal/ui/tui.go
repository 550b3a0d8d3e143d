package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tood/internal/store"
	"github.com/nibzard/tood/internal/task"
)

// RunTUI starts the interactive task browser against an open store.
func RunTUI(ctx context.Context, st *store.Store) error {
	m := newTUIModel(st)
	if err := m.refresh(); err != nil {
		return err
	}

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(*tuiModel); ok && fm.fatal != nil {
		return fm.fatal
	}
	return nil
}

type tuiModel struct {
	store  *store.Store
	tasks  []task.Task
	cursor int
	filter task.Filter
	adding bool
	input  textinput.Model
	status string
	fatal  error
}

func newTUIModel(st *store.Store) *tuiModel {
	ti := textinput.New()
	ti.Placeholder = "new todo"
	ti.Prompt = "add> "
	ti.CharLimit = 256

	return &tuiModel{
		store:  st,
		input:  ti,
		status: "a add | space toggle | d delete | 1 incomplete | 0 all | q quit",
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return m, nil
	}

	if m.adding {
		return m.updateAdding(key)
	}
	return m.updateList(key)
}

func (m *tuiModel) updateAdding(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.adding = false
		m.input.Reset()
		return m, nil
	case "enter":
		body := m.input.Value()
		m.adding = false
		m.input.Reset()
		if err := task.ValidateBody(body); err != nil {
			m.status = err.Error()
			return m, nil
		}
		t, err := m.store.Add(body)
		if err != nil {
			return m.fail(err)
		}
		m.status = fmt.Sprintf("Added: %s", t.Body)
		return m.reload()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m *tuiModel) updateList(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case " ", "t":
		if t, ok := m.current(); ok {
			toggled, err := m.store.Toggle(t.ID)
			if err != nil {
				return m.fail(err)
			}
			m.status = fmt.Sprintf("Toggled: %s", toggled.Body)
			return m.reload()
		}
	case "d":
		if t, ok := m.current(); ok {
			removed, err := m.store.Remove(t.ID)
			if err != nil {
				return m.fail(err)
			}
			m.status = fmt.Sprintf("Removed todo: %s", removed.Body)
			return m.reload()
		}
	case "a":
		m.adding = true
		return m, m.input.Focus()
	case "1":
		m.filter = task.Incomplete
		return m.reload()
	case "0":
		m.filter = task.All
		return m.reload()
	case "r":
		return m.reload()
	}
	return m, nil
}

func (m *tuiModel) current() (task.Task, bool) {
	if len(m.tasks) == 0 || m.cursor >= len(m.tasks) {
		return task.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *tuiModel) reload() (tea.Model, tea.Cmd) {
	if err := m.refresh(); err != nil {
		return m.fail(err)
	}
	return m, nil
}

func (m *tuiModel) fail(err error) (tea.Model, tea.Cmd) {
	m.fatal = err
	return m, tea.Quit
}

func (m *tuiModel) refresh() error {
	tasks, err := m.store.List(m.filter)
	if err != nil {
		return err
	}
	m.tasks = tasks
	if m.cursor > len(m.tasks)-1 {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	title := "Tood"
	if m.filter == task.Incomplete {
		title += " (incomplete)"
	}
	b.WriteString(promptStyle.Render(title) + "\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(helpStyle.Render("  nothing to do") + "\n")
	}
	for i, t := range m.tasks {
		line := FormatLine(t, false)
		if i == m.cursor && !m.adding {
			b.WriteString(cursorStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString("\n")
	if m.adding {
		b.WriteString(m.input.View() + "\n")
	}
	b.WriteString(helpStyle.Render(m.status) + "\n")
	b.WriteString(helpStyle.Render(m.store.Path()) + "\n")
	return b.String()
}
