package discovery

import (
	"errors"
	"strconv"
	"strings"
)

// Valid port bounds for manual entry.
const (
	MinValidPort = 1
	MaxValidPort = 65535
)

// ErrInvalidPort is the user-facing message for a rejected manual entry.
var ErrInvalidPort = errors.New("Please enter a valid port number (1-65535)") //nolint:staticcheck // shown verbatim to the user

// ParsePort parses a manually entered port. Only ASCII digits are accepted
// once surrounding whitespace is trimmed, so signs and "0x" forms fail.
func ParsePort(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.IndexFunc(s, isNotDigit) >= 0 {
		return 0, ErrInvalidPort
	}
	port, err := strconv.Atoi(s)
	if err != nil || port < MinValidPort || port > MaxValidPort {
		return 0, ErrInvalidPort
	}
	return port, nil
}

func isNotDigit(r rune) bool {
	return r < '0' || r > '9'
}

// ValidatePort returns ErrInvalidPort unless s is an integer in [1, 65535].
func ValidatePort(s string) error {
	_, err := ParsePort(s)
	return err
}
