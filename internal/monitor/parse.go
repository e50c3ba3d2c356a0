package monitor

import (
	"encoding/json"
	"strconv"
	"strings"
)

// serviceRecord mirrors one line of `docker service ls --format '{{json .}}'`.
type serviceRecord struct {
	Name     string `json:"Name"`
	Replicas string `json:"Replicas"`
	Mode     string `json:"Mode"`
}

// statsRecord mirrors one line of `docker stats --no-stream --format '{{json .}}'`.
type statsRecord struct {
	Name     string `json:"Name"`
	CPUPerc  string `json:"CPUPerc"`
	MemUsage string `json:"MemUsage"`
}

// parseServiceLines decodes one JSON object per line, skipping malformed
// lines. A bad record never fails the whole tick.
func parseServiceLines(output string) []serviceRecord {
	var records []serviceRecord
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var rec serviceRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

func parseStatsLines(output string) []statsRecord {
	var records []statsRecord
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var rec statsRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// parseReplicas splits a "current/desired" ratio. Global-mode services report
// shapes like "1/1 (max 1 per node)"; the trailing annotation is ignored.
func parseReplicas(ratio string) (current, desired int, ok bool) {
	if i := strings.IndexByte(ratio, ' '); i >= 0 {
		ratio = ratio[:i]
	}
	parts := strings.SplitN(ratio, "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	current, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	desired, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return current, desired, true
}

// parseCPUPercent converts "12.34%" to 12.34.
func parseCPUPercent(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseMemMB converts the used part of "245MiB / 1.5GiB" to megabytes.
func parseMemMB(s string) float64 {
	used := s
	if i := strings.IndexByte(s, '/'); i >= 0 {
		used = s[:i]
	}
	used = strings.TrimSpace(used)

	// Longest suffixes first so "GiB" is not consumed as "B".
	units := []struct {
		suffix string
		toMB   float64
	}{
		{"GiB", 1024},
		{"GB", 1024},
		{"MiB", 1},
		{"MB", 1},
		{"KiB", 1.0 / 1024},
		{"KB", 1.0 / 1024},
		{"B", 1.0 / (1024 * 1024)},
	}
	for _, u := range units {
		if strings.HasSuffix(used, u.suffix) {
			raw := strings.TrimSpace(strings.TrimSuffix(used, u.suffix))
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return 0
			}
			return v * u.toMB
		}
	}
	return 0
}
