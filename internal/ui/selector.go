package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/nibzard/tood/internal/task"
)

// Pick runs a fuzzy-filter single-select prompt over tasks and returns the
// chosen task. ok is false when the user cancels.
func Pick(tasks []task.Task, prompt string) (chosen task.Task, ok bool, err error) {
	if len(tasks) == 0 {
		return task.Task{}, false, fmt.Errorf("no tasks to choose from")
	}

	final, err := tea.NewProgram(newFuzzyModel(tasks, prompt)).Run()
	if err != nil {
		return task.Task{}, false, err
	}
	m := final.(*fuzzyModel)
	if m.canceled || m.choice.IsZero() {
		return task.Task{}, false, nil
	}
	return m.choice, true, nil
}

// PickMany runs a multi-select prompt over tasks. A canceled or empty
// selection returns a nil slice.
func PickMany(tasks []task.Task, prompt string) ([]task.Task, error) {
	if len(tasks) == 0 {
		return nil, fmt.Errorf("no tasks to choose from")
	}

	final, err := tea.NewProgram(newMultiModel(tasks, prompt)).Run()
	if err != nil {
		return nil, err
	}
	m := final.(*multiModel)
	if m.canceled {
		return nil, nil
	}

	var picked []task.Task
	for i, t := range m.tasks {
		if m.selected[i] {
			picked = append(picked, t)
		}
	}
	return picked, nil
}

// taskSource adapts a task slice for fuzzy matching on bodies.
type taskSource []task.Task

func (s taskSource) String(i int) string { return s[i].Body }
func (s taskSource) Len() int            { return len(s) }

type fuzzyModel struct {
	prompt   string
	tasks    []task.Task
	input    textinput.Model
	matches  []int // indices into tasks
	cursor   int
	choice   task.Task
	canceled bool
}

func newFuzzyModel(tasks []task.Task, prompt string) *fuzzyModel {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.Prompt = "> "
	ti.CharLimit = 128
	ti.Focus()

	m := &fuzzyModel{prompt: prompt, tasks: tasks, input: ti}
	m.filter()
	return m
}

func (m *fuzzyModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *fuzzyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, isKey := msg.(tea.KeyMsg); isKey {
		switch key.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			return m, tea.Quit
		case "enter":
			if len(m.matches) > 0 {
				m.choice = m.tasks[m.matches[m.cursor]]
			}
			return m, tea.Quit
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.filter()
	return m, cmd
}

// filter recomputes matches from the current query. An empty query matches
// everything in creation order.
func (m *fuzzyModel) filter() {
	m.matches = m.matches[:0]
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		for i := range m.tasks {
			m.matches = append(m.matches, i)
		}
	} else {
		for _, r := range fuzzy.FindFrom(query, taskSource(m.tasks)) {
			m.matches = append(m.matches, r.Index)
		}
	}
	if m.cursor > len(m.matches)-1 {
		m.cursor = len(m.matches) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *fuzzyModel) View() string {
	var b strings.Builder
	b.WriteString(promptStyle.Render(m.prompt) + "\n")
	b.WriteString(m.input.View() + "\n\n")

	if len(m.matches) == 0 {
		b.WriteString(helpStyle.Render("  no matches") + "\n")
	}
	for i, idx := range m.matches {
		t := m.tasks[idx]
		line := FormatLine(t, false)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString("\n" + helpStyle.Render("enter select | esc cancel") + "\n")
	return b.String()
}

type multiModel struct {
	prompt   string
	tasks    []task.Task
	cursor   int
	selected map[int]bool
	canceled bool
}

func newMultiModel(tasks []task.Task, prompt string) *multiModel {
	return &multiModel{
		prompt:   prompt,
		tasks:    tasks,
		selected: make(map[int]bool),
	}
}

func (m *multiModel) Init() tea.Cmd {
	return nil
}

func (m *multiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.canceled = true
		return m, tea.Quit
	case "enter":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case " ", "x":
		if m.selected[m.cursor] {
			delete(m.selected, m.cursor)
		} else {
			m.selected[m.cursor] = true
		}
	case "a":
		all := len(m.selected) != len(m.tasks)
		for i := range m.tasks {
			if all {
				m.selected[i] = true
			} else {
				delete(m.selected, i)
			}
		}
	}
	return m, nil
}

func (m *multiModel) View() string {
	var b strings.Builder
	b.WriteString(promptStyle.Render(m.prompt) + "\n\n")

	for i, t := range m.tasks {
		check := "[ ]"
		if m.selected[i] {
			check = "[x]"
		}
		line := check + " " + FormatLine(t, false)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString("\n" + helpStyle.Render("space toggle | a all | enter confirm | esc cancel") + "\n")
	return b.String()
}
