package version

import (
	"sort"
	"strings"
)

// Expand prepares a package's version mapping for structured lookups.
//
// The result always contains "latest" and "stable" keys, every entry of the
// input, and two kinds of derived synonyms: the shortened form of ".x"
// labels ("1.2.x" also registers "1.2") and the canonical form of labels
// whose normalized spelling differs from the literal ("v2.2.0" also
// registers "2.2.0"). Synonyms never shadow an existing literal entry.
//
// "latest" maps to the URL of the maximum parseable version and "stable" to
// the maximum version that is neither a pre-release nor a dev-release
// (falling back to latest). When no label parses at all, both fall back
// along existing aliases: latest -> stable -> master -> main -> "".
//
// The input mapping is not modified.
func Expand(versions map[string]string) map[string]string {
	out := make(map[string]string, len(versions)+2)
	if len(versions) == 0 {
		return out
	}
	for k, u := range versions {
		out[k] = u
	}

	type entry struct {
		v     *Version
		label string
	}
	var parsed []entry
	for label := range versions {
		if v, ok := Parse(label); ok {
			parsed = append(parsed, entry{v, label})
		}
	}

	if len(parsed) == 0 {
		// Only aliases such as stable/latest are present.
		out["latest"] = firstAlias(versions, "latest", "stable", "master", "main")
		out["stable"] = firstAlias(versions, "stable", "latest", "master", "main")
		return out
	}

	sort.Slice(parsed, func(i, j int) bool {
		if c := parsed[i].v.Compare(parsed[j].v); c != 0 {
			return c < 0
		}
		return parsed[i].label < parsed[j].label
	})

	for _, e := range parsed {
		var syn string
		if strings.Contains(e.label, ".x") {
			syn = strings.ReplaceAll(e.label, ".x", "")
		} else if c := e.v.Canonical(); c != e.label {
			syn = c
		}
		if syn != "" {
			if _, exists := out[syn]; !exists {
				out[syn] = versions[e.label]
			}
		}
	}

	latest := parsed[len(parsed)-1]
	out["latest"] = versions[latest.label]

	stable := latest
	for i := len(parsed) - 1; i >= 0; i-- {
		if !parsed[i].v.IsPrerelease() {
			stable = parsed[i]
			break
		}
	}
	out["stable"] = versions[stable.label]

	return out
}

// firstAlias returns the first non-empty value among the given keys.
func firstAlias(versions map[string]string, keys ...string) string {
	for _, k := range keys {
		if u, ok := versions[k]; ok && u != "" {
			return u
		}
	}
	return ""
}
