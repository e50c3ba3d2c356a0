// Package console is the interactive selection screen. It is a bubbletea
// program: key presses, spinner ticks and status refreshes all arrive as
// messages on the same event loop, so no goroutine ever touches the model.
package console

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"vpsctl/internal/catalog"
	"vpsctl/internal/monitor"
)

// SnapshotSource yields the latest status snapshot without blocking.
type SnapshotSource interface {
	Snapshot() map[string]monitor.Snapshot
}

// Outcome is what the console session produced.
type Outcome struct {
	// Confirmed is false when the operator quit without choosing anything.
	Confirmed bool
	// Selected lists the marked catalog ids in menu order.
	Selected []string
}

// spinnerTickMsg advances the busy animation.
type spinnerTickMsg time.Time

// statusMsg carries a fresh snapshot map from the source.
type statusMsg map[string]monitor.Snapshot

const (
	// visibleRows is the fixed height of the scroll window.
	visibleRows = 11
	// spinnerInterval drives the busy animation while services run.
	spinnerInterval = 100 * time.Millisecond
)

// Model holds the whole selection state. Only Update mutates it.
type Model struct {
	entries  []catalog.Entry
	source   SnapshotSource
	interval time.Duration

	cursor    int
	selected  map[string]struct{}
	search    string
	frame     int
	snapshots map[string]monitor.Snapshot
	// spinning tracks whether a spinner tick is in flight; the animation
	// runs only while some service is running or updating.
	spinning bool

	outcome Outcome
	done    bool
}

// NewModel builds the console over the full catalog.
func NewModel(source SnapshotSource, pollInterval time.Duration) Model {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return Model{
		entries:   catalog.All(),
		source:    source,
		interval:  pollInterval,
		selected:  make(map[string]struct{}),
		snapshots: make(map[string]monitor.Snapshot),
	}
}

// Outcome returns the session result once the program has finished.
func (m Model) Outcome() Outcome { return m.outcome }

func (m Model) Init() tea.Cmd {
	return m.pollStatus()
}

func (m Model) pollStatus() tea.Cmd {
	source := m.source
	interval := m.interval
	return tea.Tick(interval, func(time.Time) tea.Msg {
		if source == nil {
			return statusMsg(nil)
		}
		return statusMsg(source.Snapshot())
	})
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

// anyBusy reports whether a spinner glyph is currently on screen.
func (m Model) anyBusy() bool {
	for _, snap := range m.snapshots {
		if snap.State == monitor.StateRunning || snap.State == monitor.StateUpdating {
			return true
		}
	}
	return false
}

// Run drives a console session to completion on the current terminal.
func Run(source SnapshotSource, pollInterval time.Duration) (Outcome, error) {
	program := tea.NewProgram(NewModel(source, pollInterval))
	final, err := program.Run()
	if err != nil {
		return Outcome{}, fmt.Errorf("console session failed: %w", err)
	}
	model, ok := final.(Model)
	if !ok {
		return Outcome{}, fmt.Errorf("unexpected final model %T", final)
	}
	return model.Outcome(), nil
}
