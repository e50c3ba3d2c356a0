// Package deps expands a user selection into a dependency-complete,
// deterministically ordered execution plan.
package deps

import (
	"fmt"
	"sort"
	"strings"

	"vpsctl/internal/catalog"
)

// Origin records why an id is part of the plan.
type Origin string

const (
	// OriginUser means the operator marked the id in the console.
	OriginUser Origin = "user"
	// OriginDependency means the id was pulled in as a prerequisite.
	OriginDependency Origin = "dependency"
)

// Step is one entry of an execution plan.
type Step struct {
	ID     string
	Origin Origin
}

// Plan is the ordered, deduplicated sequence of install steps. Every step's
// prerequisites appear strictly earlier in the sequence.
type Plan struct {
	Steps []Step
}

// IDs returns the plan's ids in execution order.
func (p Plan) IDs() []string {
	ids := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		ids[i] = s.ID
	}
	return ids
}

// CycleError reports a dependency cycle in the static map. The map is hand
// curated, so a cycle is a programming error that must fail loudly before any
// destructive install step runs.
type CycleError struct {
	IDs []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle involving: %s", strings.Join(e.IDs, ", "))
}

// Resolve computes the reflexive-transitive closure of the selection over the
// catalog dependency map and orders it topologically. Ids in the infra order
// list are preferred first (in that order); remaining ties break
// lexicographically, so the result is fully deterministic.
func Resolve(selected []string) (Plan, error) {
	userSelected := make(map[string]bool, len(selected))
	for _, id := range selected {
		if _, ok := catalog.ByID(id); !ok {
			return Plan{}, fmt.Errorf("unknown catalog id %q", id)
		}
		userSelected[id] = true
	}

	closure, err := expandClosure(selected)
	if err != nil {
		return Plan{}, err
	}

	ordered, err := topoSort(closure)
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{Steps: make([]Step, 0, len(ordered))}
	for _, id := range ordered {
		origin := OriginDependency
		if userSelected[id] {
			origin = OriginUser
		}
		plan.Steps = append(plan.Steps, Step{ID: id, Origin: origin})
	}
	return plan, nil
}

// expandClosure collects the selection plus all transitive prerequisites.
// Shared prerequisites are visited once, so overlapping selections are
// idempotent.
func expandClosure(selected []string) (map[string]bool, error) {
	closure := make(map[string]bool)

	var visit func(id string) error
	visit = func(id string) error {
		if closure[id] {
			return nil
		}
		if _, ok := catalog.ByID(id); !ok {
			return fmt.Errorf("dependency map references unknown id %q", id)
		}
		closure[id] = true
		for _, dep := range catalog.Dependencies[id] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		return nil
	}

	for _, id := range selected {
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return closure, nil
}

// topoSort is Kahn's algorithm restricted to the closure. Ready nodes are
// drained by priority: infra-order position first, then id. Nodes left over
// when no progress can be made form a cycle.
func topoSort(closure map[string]bool) ([]string, error) {
	indegree := make(map[string]int, len(closure))
	dependents := make(map[string][]string, len(closure))

	for id := range closure {
		indegree[id] += 0
		for _, dep := range catalog.Dependencies[id] {
			if !closure[dep] {
				continue
			}
			indegree[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var ready []string
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}

	ordered := make([]string, 0, len(closure))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return lessByInfraOrder(ready[i], ready[j]) })
		id := ready[0]
		ready = ready[1:]

		ordered = append(ordered, id)
		for _, dependent := range dependents[id] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(ordered) != len(closure) {
		var remaining []string
		for id := range closure {
			if indegree[id] > 0 {
				remaining = append(remaining, id)
			}
		}
		sort.Strings(remaining)
		return nil, &CycleError{IDs: remaining}
	}
	return ordered, nil
}

func lessByInfraOrder(a, b string) bool {
	ai, bi := infraIndex(a), infraIndex(b)
	if ai != bi {
		return ai < bi
	}
	return a < b
}

func infraIndex(id string) int {
	for i, infra := range catalog.InfraOrder {
		if infra == id {
			return i
		}
	}
	return len(catalog.InfraOrder)
}

// ValidateInfraOrder checks that the hand-curated infra order list is
// consistent with the dependency edges: a prerequisite listed in the infra
// order must never sort after its dependent. Run at startup so an editing
// mistake in the catalog surfaces before anything is installed.
func ValidateInfraOrder() error {
	for id, prereqs := range catalog.Dependencies {
		di := infraIndex(id)
		for _, dep := range prereqs {
			if infraIndex(dep) > di {
				return fmt.Errorf("infra order lists %q after its dependent %q", dep, id)
			}
		}
	}
	return nil
}
