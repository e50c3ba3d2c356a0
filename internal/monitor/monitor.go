package monitor

import (
	"context"
	"strings"
	"sync"
	"time"

	"vpsctl/internal/catalog"
	"vpsctl/pkg/logging"
)

// State is the derived run state of one catalog application.
type State string

const (
	// StateAbsent means the application was never installed.
	StateAbsent State = "absent"
	// StateConfigured marks config-only steps that completed successfully.
	StateConfigured State = "configured"
	StateRunning    State = "running"
	StateStopped    State = "stopped"
	// StateUpdating means some but not all desired replicas are up.
	StateUpdating State = "updating"
)

// Snapshot is the immutable per-application status published by the monitor.
// Readers always get copies, never a live reference.
type Snapshot struct {
	State      State
	Replicas   string // "current/desired", empty when not a swarm service
	CPUPercent float64
	MemMB      float64
	HasStats   bool
}

// InstalledChecker answers whether a config-only step has completed. The
// persistent state store satisfies this.
type InstalledChecker interface {
	IsAppInstalled(id string) bool
}

// Monitor polls the docker swarm orchestrator in the background and caches a
// per-application snapshot map. A failed or timed-out tick keeps the previous
// snapshot serving; Snapshot() never blocks on a poll.
type Monitor struct {
	runner   Runner
	store    InstalledChecker
	interval time.Duration
	timeout  time.Duration

	mu        sync.Mutex
	snapshots map[string]Snapshot

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// New builds a monitor. interval is the poll period, timeout bounds a single
// orchestrator command.
func New(runner Runner, store InstalledChecker, interval, timeout time.Duration) *Monitor {
	return &Monitor{
		runner:    runner,
		store:     store,
		interval:  interval,
		timeout:   timeout,
		snapshots: make(map[string]Snapshot),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the background poll loop. The first tick runs immediately so
// the console does not open on an empty table.
func (m *Monitor) Start() {
	m.startOnce.Do(func() {
		go m.loop()
	})
}

// Stop signals the loop to exit and waits for it with a bounded join.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
	select {
	case <-m.done:
	case <-time.After(3 * time.Second):
		logging.Warn("Monitor", "poll loop did not stop within 3s, abandoning")
	}
}

// Refresh runs a single poll synchronously and returns the result. It serves
// one-shot status queries that never start the background loop.
func (m *Monitor) Refresh() map[string]Snapshot {
	m.tick()
	return m.Snapshot()
}

// Snapshot returns a copy of the latest published snapshot map without
// blocking on an in-flight poll.
func (m *Monitor) Snapshot() map[string]Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]Snapshot, len(m.snapshots))
	for id, snap := range m.snapshots {
		out[id] = snap
	}
	return out
}

func (m *Monitor) loop() {
	defer close(m.done)

	m.tick()
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

// tick queries the orchestrator once and replaces the whole snapshot map
// atomically. On command failure the previous map keeps serving.
func (m *Monitor) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	serviceOut, err := m.runner.Run(ctx, "docker", "service", "ls", "--format", "{{json .}}")
	if err != nil {
		logging.Warn("Monitor", "service listing failed, keeping previous snapshot: %v", err)
		return
	}

	next := make(map[string]Snapshot)
	for _, rec := range parseServiceLines(serviceOut) {
		id, ok := serviceID(rec.Name)
		if !ok {
			continue
		}
		current, desired, ok := parseReplicas(rec.Replicas)
		if !ok {
			continue
		}

		snap := Snapshot{Replicas: normalizeReplicas(rec.Replicas)}
		switch {
		case current == 0:
			snap.State = StateStopped
		case current < desired:
			snap.State = StateUpdating
		default:
			snap.State = StateRunning
		}
		next[id] = snap
	}

	// Stats are best effort; a failure here degrades to status without
	// CPU/memory figures rather than losing the tick.
	statsOut, err := m.runner.Run(ctx, "docker", "stats", "--no-stream", "--no-trunc", "--format", "{{json .}}")
	if err != nil {
		logging.Debug("Monitor", "stats collection failed: %v", err)
	} else {
		applyStats(next, parseStatsLines(statsOut))
	}

	// Config-only steps have no swarm service; their state comes from the
	// persistent store.
	for _, id := range catalog.ConfigOnlyIDs {
		if m.store != nil && m.store.IsAppInstalled(id) {
			next[id] = Snapshot{State: StateConfigured}
		}
	}

	// Everything else in the catalog that was never observed is absent.
	for _, entry := range catalog.All() {
		if !entry.Selectable() {
			continue
		}
		if _, ok := next[entry.ID]; !ok {
			next[entry.ID] = Snapshot{State: StateAbsent}
		}
	}

	m.mu.Lock()
	m.snapshots = next
	m.mu.Unlock()
}

// applyStats aggregates container stats onto service snapshots: CPU is
// averaged and memory summed across a service's replicas.
func applyStats(snapshots map[string]Snapshot, records []statsRecord) {
	type agg struct {
		cpu        float64
		mem        float64
		containers int
	}
	totals := make(map[string]*agg)

	for _, rec := range records {
		id, ok := containerID(rec.Name)
		if !ok {
			continue
		}
		t := totals[id]
		if t == nil {
			t = &agg{}
			totals[id] = t
		}
		t.cpu += parseCPUPercent(rec.CPUPerc)
		t.mem += parseMemMB(rec.MemUsage)
		t.containers++
	}

	for id, t := range totals {
		snap, ok := snapshots[id]
		if !ok {
			continue
		}
		snap.CPUPercent = t.cpu / float64(t.containers)
		snap.MemMB = t.mem
		snap.HasStats = true
		snapshots[id] = snap
	}
}

func normalizeReplicas(ratio string) string {
	if i := strings.IndexByte(ratio, ' '); i >= 0 {
		return ratio[:i]
	}
	return ratio
}

// DockerAvailable reports whether the docker CLI responds.
func (m *Monitor) DockerAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := m.runner.Run(ctx, "docker", "version")
	return err == nil
}

// SwarmActive reports whether the local node is part of an active swarm.
func (m *Monitor) SwarmActive() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	out, err := m.runner.Run(ctx, "docker", "info", "--format", "{{.Swarm.LocalNodeState}}")
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(out), "active")
}
