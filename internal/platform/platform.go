// Package platform identifies which process-table flavor the host exposes.
// The value is computed once at startup and passed to every component that
// needs it.
package platform

import "runtime"

// Platform selects the listing commands and the column layout used to parse
// their output.
type Platform int

const (
	// Posix hosts (Linux, macOS, BSD) list sockets with lsof, which prints the
	// process name inline.
	Posix Platform = iota
	// Windows hosts list sockets with netstat and process names with tasklist.
	Windows
)

// Detect returns the platform of the running binary.
func Detect() Platform {
	return FromGOOS(runtime.GOOS)
}

// FromGOOS maps a GOOS value to a Platform.
func FromGOOS(goos string) Platform {
	if goos == "windows" {
		return Windows
	}
	return Posix
}

func (p Platform) String() string {
	switch p {
	case Windows:
		return "windows"
	default:
		return "posix"
	}
}

// PathSeparator is the separator used in paths printed by this platform's
// introspection commands.
func (p Platform) PathSeparator() string {
	if p == Windows {
		return `\`
	}
	return "/"
}
