package discovery

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// AllowList maps the PIDs of runtime processes to their image names.
type AllowList map[int]string

// ParseTasklist builds an AllowList from tasklist output. Rows may be CSV
// ("node.exe","4242","Console","1","48,000 K") or columnar
// (node.exe  4242 Console  1  48,000 K); the PID is the second column in both.
// Only rows whose image name matches one of runtimes are kept; an empty
// runtimes list keeps every row.
func ParseTasklist(content string, runtimes []string) AllowList {
	allowed := make(AllowList)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		image, pid, ok := parseTaskRow(line)
		if !ok || !matchesImage(image, runtimes) {
			continue
		}
		allowed[pid] = image
	}
	return allowed
}

func parseTaskRow(line string) (string, int, bool) {
	var cols []string
	if strings.HasPrefix(line, `"`) {
		rec, err := csv.NewReader(strings.NewReader(line)).Read()
		if err != nil {
			return "", 0, false
		}
		cols = rec
	} else {
		cols = strings.Fields(line)
	}
	if len(cols) < 2 {
		return "", 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(cols[1]))
	if err != nil || pid <= 0 {
		return "", 0, false
	}
	return strings.TrimSpace(cols[0]), pid, true
}

func matchesImage(image string, runtimes []string) bool {
	if len(runtimes) == 0 {
		return true
	}
	for _, rt := range runtimes {
		if strings.EqualFold(image, imageName(rt)) {
			return true
		}
	}
	return false
}

// NameByPID copies image names from the task listing onto records that
// have no program name. Every record is kept.
func NameByPID(records []ListeningProcess, names AllowList) []ListeningProcess {
	out := make([]ListeningProcess, len(records))
	for i, rec := range records {
		if image, ok := names[rec.PID]; ok && rec.Program == "" {
			rec.Program = image
		}
		out[i] = rec
	}
	return out
}

// FilterByPID keeps the records whose PID is allowed. Records without a
// program name take the image name from the task listing.
func FilterByPID(records []ListeningProcess, allowed AllowList) []ListeningProcess {
	var kept []ListeningProcess
	for _, rec := range records {
		image, ok := allowed[rec.PID]
		if !ok {
			continue
		}
		if rec.Program == "" {
			rec.Program = image
		}
		kept = append(kept, rec)
	}
	return kept
}
