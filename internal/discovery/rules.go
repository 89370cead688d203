package discovery

import (
	"regexp"
	"strings"

	"github.com/dsmmcken/devport/internal/platform"
)

// Rule extracts a project name from introspection output. Rules are tried in
// order and the first one whose Pattern matches wins.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Extract func(match []string) string
}

// Apply runs the rule against subject.
func (r Rule) Apply(subject string) (string, bool) {
	m := r.Pattern.FindStringSubmatch(subject)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(r.Extract(m))
	if name == "" {
		return "", false
	}
	return name, true
}

// ApplyRules returns the result of the first matching rule.
func ApplyRules(rules []Rule, subject string) (string, string, bool) {
	for _, rule := range rules {
		if name, ok := rule.Apply(subject); ok {
			return name, rule.Name, true
		}
	}
	return "", "", false
}

// DependencyMarkers are directory names whose parent is a project root.
var DependencyMarkers = []string{
	"node_modules",
	"bower_components",
	".venv",
	"venv",
	"site-packages",
	"vendor",
}

func markerAlternation() string {
	quoted := make([]string, len(DependencyMarkers))
	for i, m := range DependencyMarkers {
		quoted[i] = regexp.QuoteMeta(m)
	}
	return strings.Join(quoted, "|")
}

// Windows subjects are command lines split into one argument per line (see
// windowsSubject), so a path segment can hold spaces without running into
// the next argument.
var (
	windowsScriptRule = Rule{
		Name:    "script-after-runtime",
		Pattern: regexp.MustCompile(`(?i)\.exe\n[^\n]*?([^\\/\n]+)[\\/](?:` + markerAlternation() + `)(?:[\\/\n]|$)`),
		Extract: func(m []string) string { return m[1] },
	}

	windowsMarkerRule = Rule{
		Name:    "dependency-marker",
		Pattern: regexp.MustCompile(`(?i)([^\\/\n]+)[\\/](?:` + markerAlternation() + `)(?:[\\/\n]|$)`),
		Extract: func(m []string) string { return m[1] },
	}

	windowsFallbackRule = Rule{
		Name:    "last-path-segments",
		Pattern: regexp.MustCompile(`(?s)^(?:.*\n)?([^\n]*[\\/][^\n]*)`),
		Extract: func(m []string) string { return lastSegments(m[1], 2, platform.Windows.PathSeparator()) },
	}

	posixMarkerRule = Rule{
		Name:    "dependency-marker",
		Pattern: regexp.MustCompile(`([^/]+)/(?:` + markerAlternation() + `)(?:/|$)`),
		Extract: func(m []string) string { return m[1] },
	}

	posixFallbackRule = Rule{
		Name:    "last-path-segment",
		Pattern: regexp.MustCompile(`([^/]+)/*$`),
		Extract: func(m []string) string { return m[1] },
	}
)

// RulesFor returns the ordered name rules for platform p.
func RulesFor(p platform.Platform) []Rule {
	if p == platform.Windows {
		return []Rule{windowsScriptRule, windowsMarkerRule, windowsFallbackRule}
	}
	return []Rule{posixMarkerRule, posixFallbackRule}
}

var commandArg = regexp.MustCompile(`"[^"]*"|[^\s"]+`)

// windowsSubject rewrites a Windows command line as one unquoted argument
// per line.
func windowsSubject(cmdline string) string {
	args := commandArg.FindAllString(cmdline, -1)
	for i, a := range args {
		args[i] = strings.Trim(a, `"`)
	}
	return strings.Join(args, "\n")
}

// lastSegments joins the last n non-empty path segments of path with sep.
func lastSegments(path string, n int, sep string) string {
	parts := strings.FieldsFunc(path, func(r rune) bool { return r == '\\' || r == '/' })
	if len(parts) > n {
		parts = parts[len(parts)-n:]
	}
	return strings.Join(parts, sep)
}
