package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// pep440RE matches the subset of PEP 440 this package understands: a dotted
// release, then optional pre-release, post-release and dev segments.
// Separators between segments may be ".", "-", "_" or nothing.
var pep440RE = regexp.MustCompile(
	`^(\d+(?:\.\d+)*)` +
		`(?:[._-]?(alpha|a|beta|b|preview|pre|rc|c)[._-]?(\d*))?` +
		`([._-]?(?:post|rev|r)[._-]?(\d*))?` +
		`([._-]?dev[._-]?(\d*))?$`)

// preTags maps every accepted pre-release spelling to its canonical tag and
// its ordering rank. Ranks start at 1 so that dev-only releases (rank 0)
// sort below every pre-release phase, as PEP 440 requires.
var preTags = map[string]struct {
	tag  string
	rank int
}{
	"alpha": {"a", 1}, "a": {"a", 1},
	"beta": {"b", 2}, "b": {"b", 2},
	"rc": {"rc", 3}, "c": {"rc", 3}, "pre": {"rc", 3}, "preview": {"rc", 3},
}

// Version is a parsed, comparable documentation version label.
// The zero value is not useful; obtain instances through [Parse].
type Version struct {
	literal string
	canon   string
	release []int
	sv      *semver.Version
	preN    int // -1 when absent
	postN   int // -1 when absent
	devN    int // -1 when absent
}

// Parse converts a free-form version label into a comparable Version.
//
// Following the catalog conventions, ".x" range segments are stripped
// ("1.2.x" parses as "1.2") and a leading "v" is ignored. Epoch and local
// segments are dropped before comparison. The second return value is false
// when the label cannot be parsed; such labels are opaque aliases, not
// errors.
func Parse(label string) (*Version, bool) {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.ReplaceAll(s, ".x", "")
	s = strings.TrimPrefix(s, "v")
	if i := strings.Index(s, "!"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.Index(s, "+"); i >= 0 {
		s = s[:i]
	}

	m := pep440RE.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}

	parts := strings.Split(m[1], ".")
	release := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		release[i] = n
	}

	v := &Version{literal: label, release: release, preN: -1, postN: -1, devN: -1}

	var preTag string
	var preRank int
	if m[2] != "" {
		pt := preTags[m[2]]
		preTag, preRank = pt.tag, pt.rank
		v.preN = numOrZero(m[3])
	}
	if m[4] != "" {
		v.postN = numOrZero(m[5])
	}
	if m[6] != "" {
		v.devN = numOrZero(m[7])
	}

	// Encode the ordering into a semver string: the release triple plus a
	// prerelease part whose first identifier ranks the PEP 440 phase
	// (0=dev, 1=alpha, 2=beta, 3=rc). Post-releases collapse onto the base
	// release here and are tie-broken in Compare.
	core := fmt.Sprintf("%d.%d.%d", seg(release, 0), seg(release, 1), seg(release, 2))
	switch {
	case preTag != "":
		core += fmt.Sprintf("-%d.%s.%d", preRank, preTag, v.preN)
	case v.devN >= 0:
		core += fmt.Sprintf("-0.dev.%d", v.devN)
	}
	sv, err := semver.NewVersion(core)
	if err != nil {
		return nil, false
	}
	v.sv = sv

	// Canonical PEP 440 public form, e.g. "v2.2.0" -> "2.2.0",
	// "1.0-alpha1" -> "1.0a1".
	segs := make([]string, len(release))
	for i, n := range release {
		segs[i] = strconv.Itoa(n)
	}
	canon := strings.Join(segs, ".")
	if preTag != "" {
		canon += preTag + strconv.Itoa(v.preN)
	}
	if v.postN >= 0 {
		canon += ".post" + strconv.Itoa(v.postN)
	}
	if v.devN >= 0 {
		canon += ".dev" + strconv.Itoa(v.devN)
	}
	v.canon = canon

	return v, true
}

// String returns the original label the version was parsed from.
func (v *Version) String() string { return v.literal }

// Canonical returns the normalized PEP 440 public form of the version.
func (v *Version) Canonical() string { return v.canon }

// IsPrerelease reports whether the version is a pre-release or dev-release.
func (v *Version) IsPrerelease() bool { return v.preN >= 0 || v.devN >= 0 }

// Compare returns -1, 0 or 1 depending on whether v sorts before, equal to
// or after o. Ordering follows semantic-version precedence on the release
// triple and pre-release phase; release segments beyond the third, post
// numbers and dev numbers act as tie-breakers.
func (v *Version) Compare(o *Version) int {
	if c := v.sv.Compare(o.sv); c != 0 {
		return c
	}
	for i := 3; i < len(v.release) || i < len(o.release); i++ {
		if c := cmpInt(seg(v.release, i), seg(o.release, i)); c != 0 {
			return c
		}
	}
	if c := cmpInt(v.postN, o.postN); c != 0 {
		return c // -1 means "no post segment", which sorts first
	}
	// A dev release sorts before the same version without one.
	return cmpInt(devOrd(v.devN), devOrd(o.devN))
}

// LessThan reports whether v sorts strictly before o.
func (v *Version) LessThan(o *Version) bool { return v.Compare(o) < 0 }

func seg(release []int, i int) int {
	if i < len(release) {
		return release[i]
	}
	return 0
}

func numOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

func devOrd(n int) int {
	if n < 0 {
		return int(^uint(0) >> 1) // absent sorts last
	}
	return n
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
