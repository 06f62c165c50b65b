package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// SelectModel is a Bubble Tea model for picking one or many labels.
type SelectModel struct {
	title     string
	labels    []string
	multi     bool
	cursor    int
	checked   map[int]bool
	done      bool
	cancelled bool
}

// NewSelectModel creates a single choice list.
func NewSelectModel(title string, labels []string) SelectModel {
	return SelectModel{title: title, labels: labels, checked: map[int]bool{}}
}

// NewMultiSelectModel creates a checklist.
func NewMultiSelectModel(title string, labels []string) SelectModel {
	m := NewSelectModel(title, labels)
	m.multi = true
	return m
}

// Init implements tea.Model.
func (m SelectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m SelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Quit):
		m.cancelled = true
		return m, tea.Quit

	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(m.labels)-1 {
			m.cursor++
		}

	case m.multi && key.Matches(keyMsg, keys.Toggle):
		m.checked = m.toggled(m.cursor)

	case m.multi && key.Matches(keyMsg, keys.All):
		m.checked = m.toggledAll()

	case key.Matches(keyMsg, keys.Confirm):
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

// toggled returns a copy of the checked set with i flipped, so that
// earlier model values stay unchanged.
func (m SelectModel) toggled(i int) map[int]bool {
	next := make(map[int]bool, len(m.checked)+1)
	for k, v := range m.checked {
		next[k] = v
	}
	next[i] = !next[i]
	return next
}

func (m SelectModel) toggledAll() map[int]bool {
	all := len(m.Chosen()) == len(m.labels)
	next := make(map[int]bool, len(m.labels))
	for i := range m.labels {
		next[i] = !all
	}
	return next
}

// View implements tea.Model.
func (m SelectModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("? " + m.title))
	b.WriteString("\n")

	for i, label := range m.labels {
		pointer := "  "
		if i == m.cursor {
			pointer = "> "
		}

		row := label
		if m.multi {
			box := "[ ]"
			if m.checked[i] {
				box = "[x]"
			}
			row = fmt.Sprintf("%s %s", box, label)
		}

		style := ItemStyle
		switch {
		case i == m.cursor:
			style = CursorStyle
		case m.checked[i]:
			style = CheckedStyle
		}
		b.WriteString(style.Render(pointer + row))
		b.WriteString("\n")
	}

	help := "↑/↓ move, enter confirm, esc cancel"
	if m.multi {
		help = "↑/↓ move, space toggle, a all, enter confirm, esc cancel"
	}
	b.WriteString(HelpStyle.Render(help))
	b.WriteString("\n")
	return b.String()
}

// Done reports whether the user confirmed.
func (m SelectModel) Done() bool {
	return m.done
}

// Cancelled reports whether the user left without confirming.
func (m SelectModel) Cancelled() bool {
	return m.cancelled
}

// Chosen returns the picked labels in list order. A single choice list
// returns the row under the cursor.
func (m SelectModel) Chosen() []string {
	if !m.multi {
		if len(m.labels) == 0 {
			return nil
		}
		return []string{m.labels[m.cursor]}
	}

	out := []string{}
	for i, label := range m.labels {
		if m.checked[i] {
			out = append(out, label)
		}
	}
	return out
}
