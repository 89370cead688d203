package discovery

import (
	"fmt"
	"strconv"
	"strings"
)

// Unknown is the name given to a process whose project could not be worked out.
const Unknown = "Unknown"

// ListeningProcess is one listening socket parsed from a line of the process
// table listing.
type ListeningProcess struct {
	PID      int    `json:"pid" yaml:"pid"`
	Program  string `json:"program,omitempty" yaml:"program,omitempty"`
	Port     int    `json:"port" yaml:"port"`
	Protocol string `json:"protocol" yaml:"protocol"`
	Address  string `json:"address" yaml:"address"`
	State    string `json:"state,omitempty" yaml:"state,omitempty"`
	RawLine  string `json:"-" yaml:"-"`
}

// AppIdentity names the project a process belongs to.
type AppIdentity struct {
	PID  int    `json:"pid" yaml:"pid"`
	Name string `json:"name" yaml:"name"`
}

// Known reports whether the identity carries a resolved name.
func (a AppIdentity) Known() bool {
	return a.Name != "" && a.Name != Unknown
}

// PortCandidate is one port offered to the user, with every process found
// listening on it.
type PortCandidate struct {
	Port         int           `json:"port" yaml:"port"`
	Label        string        `json:"label" yaml:"label"`
	Programs     []AppIdentity `json:"programs" yaml:"programs"`
	PriorityRank int           `json:"priority_rank" yaml:"priority_rank"`
}

// PIDs returns the PIDs of the candidate's processes in discovery order.
func (c PortCandidate) PIDs() []int {
	pids := make([]int, 0, len(c.Programs))
	for _, p := range c.Programs {
		pids = append(pids, p.PID)
	}
	return pids
}

// Description is the secondary text shown next to the label in a picker.
func (c PortCandidate) Description() string {
	desc := fmt.Sprintf("Port: %d", c.Port)
	if len(c.Programs) == 0 {
		return desc
	}
	pids := make([]string, 0, len(c.Programs))
	for _, p := range c.Programs {
		pids = append(pids, strconv.Itoa(p.PID))
	}
	noun := "PID"
	if len(pids) > 1 {
		noun = "PIDs"
	}
	return fmt.Sprintf("%s (%s %s)", desc, noun, strings.Join(pids, ", "))
}
