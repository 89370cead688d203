package discovery

import (
	"cmp"
	"slices"
)

// Ranker groups listening processes by port and orders the result.
type Ranker struct {
	// MinPort drops ports below it. Zero keeps every port.
	MinPort int
	// PriorityPorts lists preferred ports, highest priority first.
	PriorityPorts []int
	// Runtimes marks program names whose identities are preferred as labels.
	Runtimes []string
}

// Rank returns one candidate per port, ordered by priority rank and then by
// port number.
func (r Ranker) Rank(records []ListeningProcess, ids map[int]AppIdentity) []PortCandidate {
	ranks := make(map[int]int, len(r.PriorityPorts))
	for i, port := range r.PriorityPorts {
		if _, dup := ranks[port]; !dup {
			ranks[port] = i + 1
		}
	}
	unranked := len(r.PriorityPorts) + 1

	var order []int
	groups := make(map[int][]ListeningProcess)
	for _, rec := range records {
		if rec.Port < r.MinPort {
			continue
		}
		if _, ok := groups[rec.Port]; !ok {
			order = append(order, rec.Port)
		}
		groups[rec.Port] = append(groups[rec.Port], rec)
	}

	candidates := make([]PortCandidate, 0, len(order))
	for _, port := range order {
		group := groups[port]

		var programs []AppIdentity
		seen := make(map[int]bool)
		for _, rec := range group {
			if seen[rec.PID] {
				continue
			}
			seen[rec.PID] = true
			programs = append(programs, identityFor(rec.PID, ids))
		}

		rank, ok := ranks[port]
		if !ok {
			rank = unranked
		}
		candidates = append(candidates, PortCandidate{
			Port:         port,
			Label:        r.label(group, ids),
			Programs:     programs,
			PriorityRank: rank,
		})
	}

	slices.SortStableFunc(candidates, func(a, b PortCandidate) int {
		if c := cmp.Compare(a.PriorityRank, b.PriorityRank); c != 0 {
			return c
		}
		return cmp.Compare(a.Port, b.Port)
	})
	return candidates
}

// label picks the most informative name for a port: a resolved name from a
// runtime process, then any resolved name, then the program name.
func (r Ranker) label(group []ListeningProcess, ids map[int]AppIdentity) string {
	best, bestScore := "", -1
	for _, rec := range group {
		id := identityFor(rec.PID, ids)
		score := 0
		if id.Known() {
			score = 1
			if rec.Program != "" && len(r.Runtimes) > 0 && matchesRuntime(rec.Program, r.Runtimes) {
				score = 2
			}
		}
		if score > bestScore {
			best, bestScore = id.Name, score
		}
	}
	if bestScore > 0 {
		return best
	}
	for _, rec := range group {
		if rec.Program != "" {
			return rec.Program
		}
	}
	return Unknown
}

func identityFor(pid int, ids map[int]AppIdentity) AppIdentity {
	if id, ok := ids[pid]; ok {
		return id
	}
	return AppIdentity{PID: pid, Name: Unknown}
}
