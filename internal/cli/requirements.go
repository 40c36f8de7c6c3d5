package cli

import (
	"strings"
)

// parseSpec splits a package specifier into name and version. Both
// "name==1.2" and "name@1.2" forms are accepted; environment markers
// (after ";") and extras ("name[extra]") are dropped, and any other
// version operator leaves the version empty.
func parseSpec(s string) (name, version string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if n, v, ok := strings.Cut(s, "=="); ok {
		return trimExtras(n), strings.TrimSpace(v)
	}
	if n, v, ok := strings.Cut(s, "@"); ok {
		return trimExtras(n), strings.TrimSpace(v)
	}
	if i := strings.IndexAny(s, "<>!~="); i >= 0 {
		return trimExtras(s[:i]), ""
	}
	return trimExtras(s), ""
}

func trimExtras(name string) string {
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

// parseRequirements extracts package specifiers from a requirements
// style listing: one specifier per line, "#" starts a comment, blank
// lines are ignored.
func parseRequirements(text string) []string {
	var specs []string
	for _, line := range strings.Split(text, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		specs = append(specs, line)
	}
	return specs
}
