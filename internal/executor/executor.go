// Package executor walks a resolved install plan and drives each module in
// order. It owns the stop-on-error policy and the run accounting the
// commands print after a session.
package executor

import (
	"fmt"
	"strings"
	"time"

	"vpsctl/internal/catalog"
	"vpsctl/internal/deps"
	"vpsctl/internal/installer"
	"vpsctl/pkg/logging"
)

// StepResult records the outcome of one plan step.
type StepResult struct {
	ID      string
	Origin  deps.Origin
	OK      bool
	Skipped bool
	Elapsed time.Duration
}

// RunSummary aggregates a full plan run.
type RunSummary struct {
	Results []StepResult
	Elapsed time.Duration
	Aborted bool
}

// Attempted returns how many steps were actually started.
func (s RunSummary) Attempted() int {
	n := 0
	for _, r := range s.Results {
		if !r.Skipped {
			n++
		}
	}
	return n
}

// Succeeded returns how many attempted steps completed.
func (s RunSummary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.OK {
			n++
		}
	}
	return n
}

// FailedIDs returns the ids of steps that ran and failed, in plan order.
func (s RunSummary) FailedIDs() []string {
	var ids []string
	for _, r := range s.Results {
		if !r.Skipped && !r.OK {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// AllOK reports whether every step in the plan ran and succeeded.
func (s RunSummary) AllOK() bool {
	for _, r := range s.Results {
		if !r.OK {
			return false
		}
	}
	return len(s.Results) > 0
}

// Driver executes plans against the install module registry.
type Driver struct {
	registry    Registry
	stopOnError bool
	now         func() time.Time
}

// Registry is the subset of the installer registry the driver needs.
type Registry interface {
	Get(id string) (installer.Installer, bool)
}

// New returns a driver. With stopOnError set, the first failed step skips
// everything after it; otherwise the driver presses on and reports all
// failures at the end.
func New(registry Registry, stopOnError bool) *Driver {
	return &Driver{registry: registry, stopOnError: stopOnError, now: time.Now}
}

// Execute runs every step of the plan in order. A module whose Validate
// returns false is counted as a failure without invoking Run, so an inactive
// swarm never receives a stack deploy.
func (d *Driver) Execute(plan deps.Plan) RunSummary {
	start := d.now()
	summary := RunSummary{Results: make([]StepResult, 0, len(plan.Steps))}

	failed := false
	for _, step := range plan.Steps {
		if failed && d.stopOnError {
			summary.Results = append(summary.Results, StepResult{
				ID: step.ID, Origin: step.Origin, Skipped: true,
			})
			continue
		}

		module, ok := d.registry.Get(step.ID)
		if !ok {
			logging.Error("Executor", nil, "no install module for %s", step.ID)
			summary.Results = append(summary.Results, StepResult{ID: step.ID, Origin: step.Origin})
			failed = true
			continue
		}

		stepStart := d.now()
		result := StepResult{ID: step.ID, Origin: step.Origin}
		if !module.Validate() {
			logging.Error("Executor", nil, "preconditions for %s not met", step.ID)
		} else {
			result.OK = module.Run()
		}
		result.Elapsed = d.now().Sub(stepStart)
		if !result.OK {
			failed = true
			logging.Warn("Executor", "step %s failed after %s", step.ID, result.Elapsed.Round(time.Second))
		} else {
			logging.Info("Executor", "step %s done in %s", step.ID, result.Elapsed.Round(time.Second))
		}
		summary.Results = append(summary.Results, result)
	}

	summary.Elapsed = d.now().Sub(start)
	summary.Aborted = failed && d.stopOnError
	return summary
}

// Render formats a summary for the terminal.
func Render(s RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Completed %d/%d steps in %s\n",
		s.Succeeded(), len(s.Results), s.Elapsed.Round(time.Second))

	for _, r := range s.Results {
		name := r.ID
		if entry, ok := catalog.ByID(r.ID); ok {
			name = entry.Name
		}
		switch {
		case r.Skipped:
			fmt.Fprintf(&b, "  - %s: skipped\n", name)
		case r.OK && r.Origin == deps.OriginDependency:
			fmt.Fprintf(&b, "  ✔ %s (dependency, %s)\n", name, r.Elapsed.Round(time.Second))
		case r.OK:
			fmt.Fprintf(&b, "  ✔ %s (%s)\n", name, r.Elapsed.Round(time.Second))
		default:
			fmt.Fprintf(&b, "  ✘ %s failed\n", name)
		}
	}

	if s.Aborted {
		b.WriteString("Run stopped at the first failure.\n")
	} else if ids := s.FailedIDs(); len(ids) > 0 {
		fmt.Fprintf(&b, "Failed: %s\n", strings.Join(ids, ", "))
	}
	return b.String()
}
