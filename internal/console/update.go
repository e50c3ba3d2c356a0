package console

import (
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"vpsctl/internal/catalog"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case statusMsg:
		if msg != nil {
			m.snapshots = msg
		}
		// Restart the animation when a snapshot brings busy services and no
		// tick is in flight; it winds down on its own once nothing spins.
		if m.anyBusy() && !m.spinning {
			m.spinning = true
			return m, tea.Batch(m.pollStatus(), spinnerTick())
		}
		return m, m.pollStatus()

	case spinnerTickMsg:
		m.frame++
		if !m.anyBusy() {
			m.spinning = false
			return m, nil
		}
		return m, spinnerTick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.filteredEntries()

	switch msg.String() {
	case "ctrl+c":
		m.outcome = Outcome{}
		m.done = true
		return m, tea.Quit

	case "esc":
		if m.search != "" {
			m.search = ""
			m.cursor = 0
			return m, nil
		}
		m.outcome = Outcome{}
		m.done = true
		return m, tea.Quit

	case "up":
		if len(view) > 0 {
			m.cursor = (m.cursor - 1 + len(view)) % len(view)
		}
		return m, nil

	case "down":
		if len(view) > 0 {
			m.cursor = (m.cursor + 1) % len(view)
		}
		return m, nil

	case " ", "right":
		m.toggleMark(view)
		return m, nil

	case "ctrl+a":
		m.toggleSelectAll()
		return m, nil

	case "tab":
		m.jumpNextUnmarked(view)
		return m, nil

	case "enter":
		if len(m.selected) == 0 {
			m.toggleMark(view)
		}
		if len(m.selected) == 0 {
			// Nothing selectable under the cursor, stay in the menu.
			return m, nil
		}
		m.outcome = Outcome{Confirmed: true, Selected: m.selectedInOrder()}
		m.done = true
		return m, tea.Quit

	case "backspace":
		if m.search != "" {
			_, size := utf8.DecodeLastRuneInString(m.search)
			m.search = m.search[:len(m.search)-size]
			m.cursor = 0
		}
		return m, nil
	}

	// Printable characters feed the incremental search.
	if len(msg.Runes) == 1 && unicode.IsPrint(msg.Runes[0]) {
		m.search += string(unicode.ToLower(msg.Runes[0]))
		m.cursor = 0
	}
	return m, nil
}

// toggleMark flips the selection of the entry under the cursor. Future rows
// never enter the selection set.
func (m *Model) toggleMark(view []catalog.Entry) {
	if m.cursor < 0 || m.cursor >= len(view) {
		return
	}
	entry := view[m.cursor]
	if !entry.Selectable() {
		return
	}
	if _, marked := m.selected[entry.ID]; marked {
		delete(m.selected, entry.ID)
	} else {
		m.selected[entry.ID] = struct{}{}
	}
}

// toggleSelectAll selects every selectable entry, or clears the set when
// everything is already selected.
func (m *Model) toggleSelectAll() {
	all := catalog.SelectableIDs()
	if len(m.selected) == len(all) {
		m.selected = make(map[string]struct{})
		return
	}
	for _, id := range all {
		m.selected[id] = struct{}{}
	}
}

// jumpNextUnmarked moves the cursor to the next unselected entry, wrapping.
func (m *Model) jumpNextUnmarked(view []catalog.Entry) {
	if len(view) == 0 {
		return
	}
	for offset := 1; offset <= len(view); offset++ {
		i := (m.cursor + offset) % len(view)
		if _, marked := m.selected[view[i].ID]; !marked {
			m.cursor = i
			return
		}
	}
}

// selectedInOrder returns the marked ids in catalog menu order.
func (m Model) selectedInOrder() []string {
	out := make([]string, 0, len(m.selected))
	for _, e := range m.entries {
		if _, marked := m.selected[e.ID]; marked {
			out = append(out, e.ID)
		}
	}
	return out
}
