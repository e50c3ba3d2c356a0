package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"vpsctl/internal/catalog"
	"vpsctl/internal/monitor"
)

// Frame geometry. The border adds two columns, so the printed frame is 92
// characters wide like the classic console it replaces.
const (
	frameInnerWidth = 90
	appColumnWidth  = 60
	statusColWidth  = 14
	cpuColWidth     = 8
	memColWidth     = 8
)

var spinnerFrames = spinner.MiniDot.Frames

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Width(frameInnerWidth)

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("152"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("84"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	futureStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	searchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("221"))

	glyphOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("84")).Render("✔")
	glyphStopped = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render("✖")
)

func (m Model) View() string {
	if m.done {
		return ""
	}

	view := m.filteredEntries()
	var b strings.Builder

	title := titleStyle.Render("VPS Bootstrap Console")
	counter := hintStyle.Render(fmt.Sprintf("Selected: %d", len(m.selected)))
	b.WriteString(padBetween(title, counter, frameInnerWidth))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("↑/↓ move · space mark · ctrl+a all · tab next unmarked · enter install · esc quit"))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(
		padCell("   APPLICATION", appColumnWidth) +
			padCell("STATUS", statusColWidth) +
			padCell("CPU", cpuColWidth) +
			padCell("MEM", memColWidth)))
	b.WriteString("\n")

	start, end := scrollWindow(len(view), m.cursor)
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(view[i], i))
		b.WriteString("\n")
	}
	for blank := end - start; blank < visibleRows && len(view) < visibleRows; blank++ {
		b.WriteString("\n")
	}

	if m.search != "" {
		b.WriteString("\n")
		b.WriteString(searchStyle.Render("search: " + m.search + "▌"))
		b.WriteString("\n")
	} else {
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("type to search, a number jumps to that entry"))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("✔ installed   " + spinnerFrames[0] + " running   ✖ stopped   · absent"))

	return frameStyle.Render(b.String())
}

// scrollWindow returns the half-open row range to display: up to visibleRows
// rows centered on the cursor, clamped to the list ends.
func scrollWindow(total, cursor int) (int, int) {
	if total <= visibleRows {
		return 0, total
	}
	half := visibleRows / 2
	start := cursor - half
	if start < 0 {
		start = 0
	}
	if start+visibleRows > total {
		start = total - visibleRows
	}
	return start, start + visibleRows
}

func (m Model) renderRow(entry catalog.Entry, index int) string {
	_, marked := m.selected[entry.ID]
	isCursor := index == m.cursor

	prefix := "  "
	if isCursor {
		prefix = "❯ "
	}
	mark := "[ ]"
	if marked {
		mark = "[x]"
	}
	if !entry.Selectable() {
		mark = "   "
	}

	ordinal := fmt.Sprintf("%2d.", menuPosition(m.entries, entry.ID))
	name := runewidth.Truncate(entry.Name, appColumnWidth-12, "…")
	appCell := padCell(fmt.Sprintf("%s%s %s %s", prefix, mark, ordinal, name), appColumnWidth)

	snap := m.snapshots[entry.ID]
	row := appCell +
		padCell(m.statusCell(entry, snap), statusColWidth) +
		padCell(cpuCell(snap), cpuColWidth) +
		padCell(memCell(snap), memColWidth)

	switch {
	case !entry.Selectable():
		return futureStyle.Render(row)
	case marked:
		return selectedStyle.Render(row)
	case isCursor:
		return cursorStyle.Render(row)
	default:
		return dimStyle.Render(row)
	}
}

// statusCell pairs the state word with its glyph. The spinner frame advances
// with the animation tick; updating spins at double speed.
func (m Model) statusCell(entry catalog.Entry, snap monitor.Snapshot) string {
	if !entry.Selectable() {
		return "soon"
	}
	switch snap.State {
	case monitor.StateConfigured:
		return glyphOK + " done"
	case monitor.StateRunning:
		frame := spinnerFrames[m.frame%len(spinnerFrames)]
		if snap.Replicas != "" {
			return frame + " " + snap.Replicas
		}
		return frame + " up"
	case monitor.StateUpdating:
		frame := spinnerFrames[(m.frame*2)%len(spinnerFrames)]
		return frame + " " + snap.Replicas
	case monitor.StateStopped:
		return glyphStopped + " down"
	default:
		return "·"
	}
}

func cpuCell(snap monitor.Snapshot) string {
	if !snap.HasStats {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", snap.CPUPercent)
}

func memCell(snap monitor.Snapshot) string {
	if !snap.HasStats {
		return "-"
	}
	if snap.MemMB >= 1024 {
		return fmt.Sprintf("%.1fG", snap.MemMB/1024)
	}
	return fmt.Sprintf("%.0fM", snap.MemMB)
}

// padCell right-pads (or truncates) to a fixed visible width. Widths are
// computed on rendered text, so styled glyphs count as their on-screen
// width, not their byte length.
func padCell(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		return runewidth.Truncate(s, width-1, "…") + " "
	}
	return s + strings.Repeat(" ", width-w)
}

// padBetween spreads two fragments to the full line width.
func padBetween(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func menuPosition(entries []catalog.Entry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i + 1
		}
	}
	return 0
}
