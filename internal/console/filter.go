package console

import (
	"strconv"
	"strings"

	"vpsctl/internal/catalog"
)

// filteredEntries narrows the catalog by the current search term.
//
// Resolution order: an all-digit term is tried as a 1-based menu position
// first and wins outright when in bounds. Otherwise name-prefix matches come
// before name-substring matches before id-substring matches, deduplicated in
// that order. An empty result falls back to the full catalog so the list is
// never blank.
func (m Model) filteredEntries() []catalog.Entry {
	term := strings.ToLower(strings.TrimSpace(m.search))
	if term == "" {
		return m.entries
	}

	if isAllDigits(term) {
		if n, err := strconv.Atoi(term); err == nil && n >= 1 && n <= len(m.entries) {
			return m.entries[n-1 : n]
		}
	}

	seen := make(map[string]struct{})
	var out []catalog.Entry
	add := func(e catalog.Entry) {
		if _, dup := seen[e.ID]; dup {
			return
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}

	for _, e := range m.entries {
		if strings.HasPrefix(strings.ToLower(e.Name), term) {
			add(e)
		}
	}
	for _, e := range m.entries {
		if strings.Contains(strings.ToLower(e.Name), term) {
			add(e)
		}
	}
	for _, e := range m.entries {
		if strings.Contains(e.ID, term) {
			add(e)
		}
	}

	if len(out) == 0 {
		return m.entries
	}
	return out
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
