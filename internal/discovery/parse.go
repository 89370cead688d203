package discovery

import (
	"strconv"
	"strings"

	"github.com/dsmmcken/devport/internal/platform"
)

type lineParser func(line string) (ListeningProcess, bool)

// ParseListing parses the socket listing for platform p. Lines that do not
// carry a usable port and PID are dropped.
func ParseListing(p platform.Platform, content string) []ListeningProcess {
	parse := parserFor(p)

	var records []ListeningProcess
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if rec, ok := parse(line); ok {
			records = append(records, rec)
		}
	}
	return records
}

// ParseLine parses a single listing line for platform p.
func ParseLine(p platform.Platform, line string) (ListeningProcess, bool) {
	return parserFor(p)(strings.TrimRight(line, "\r"))
}

func parserFor(p platform.Platform) lineParser {
	if p == platform.Windows {
		return parseNetstatLine
	}
	return parseLsofLine
}

// parseLsofLine parses lsof's default columns:
// COMMAND PID USER FD TYPE DEVICE SIZE/OFF NODE NAME [(STATE)]
// e.g. "node 4242 me 23u IPv6 0xa1 0t0 TCP *:3000 (LISTEN)".
func parseLsofLine(line string) (ListeningProcess, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return ListeningProcess{}, false
	}

	pid, err := strconv.Atoi(fields[1])
	if err != nil || pid <= 0 {
		return ListeningProcess{}, false
	}

	// The NAME column is the last field holding host:port; "(LISTEN)" follows it.
	addrIdx := -1
	for i := len(fields) - 1; i >= 2; i-- {
		if strings.HasPrefix(fields[i], "(") {
			continue
		}
		if strings.Contains(fields[i], ":") {
			addrIdx = i
			break
		}
	}
	if addrIdx < 0 {
		return ListeningProcess{}, false
	}

	local := fields[addrIdx]
	if i := strings.Index(local, "->"); i >= 0 {
		local = local[:i]
	}
	host, port, ok := splitHostPort(local)
	if !ok {
		return ListeningProcess{}, false
	}

	protocol := "TCP"
	if addrIdx > 2 && isProtocol(fields[addrIdx-1]) {
		protocol = strings.ToUpper(fields[addrIdx-1])
	}

	state := ""
	if addrIdx+1 < len(fields) {
		state = strings.Trim(fields[addrIdx+1], "()")
	}

	return ListeningProcess{
		PID:      pid,
		Program:  fields[0],
		Port:     port,
		Protocol: protocol,
		Address:  host,
		State:    state,
		RawLine:  line,
	}, true
}

// parseNetstatLine parses "netstat -ano" rows:
// Proto Local-Address Foreign-Address State PID
// e.g. "TCP    0.0.0.0:3000    0.0.0.0:0    LISTENING    4242".
func parseNetstatLine(line string) (ListeningProcess, bool) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return ListeningProcess{}, false
	}

	pid, err := strconv.Atoi(fields[4])
	if err != nil || pid <= 0 {
		return ListeningProcess{}, false
	}

	host, port, ok := splitHostPort(fields[1])
	if !ok {
		return ListeningProcess{}, false
	}

	return ListeningProcess{
		PID:      pid,
		Port:     port,
		Protocol: strings.ToUpper(fields[0]),
		Address:  host,
		State:    fields[3],
		RawLine:  line,
	}, true
}

// splitHostPort splits at the last colon, so "[::1]:3000", "*:3000" and
// "0.0.0.0:3000" all work. The port must be in [1, 65535].
func splitHostPort(addr string) (string, int, bool) {
	idx := strings.LastIndex(addr, ":")
	if idx < 0 {
		return "", 0, false
	}
	port, err := strconv.Atoi(addr[idx+1:])
	if err != nil || port < 1 || port > 65535 {
		return "", 0, false
	}
	host := strings.TrimSuffix(strings.TrimPrefix(addr[:idx], "["), "]")
	return host, port, true
}

func isProtocol(s string) bool {
	switch strings.ToUpper(s) {
	case "TCP", "TCP6", "UDP", "UDP6":
		return true
	}
	return false
}
