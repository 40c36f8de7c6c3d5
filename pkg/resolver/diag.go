package resolver

import "fmt"

// Severity grades a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Kind classifies what went wrong during resolution.
type Kind string

const (
	// KindSoftMiss: a catalog stage knows the package but has no entry
	// for the requested version; resolution moved on to the next stage.
	// Warning severity for the user catalog, info for the builtin one.
	KindSoftMiss Kind = "soft-miss"
	// KindVersionMiss: the package is known but the requested version
	// label is not, and no stage could supply it.
	KindVersionMiss Kind = "version-miss"
	// KindConflict: two requests for the same package produced different
	// URLs (error, the first one won) or repeated the same URL (info).
	KindConflict Kind = "conflict"
	// KindUnresolved: no source knows the package.
	KindUnresolved Kind = "unresolved"
)

// Diagnostic describes one noteworthy event from a resolution run.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Package  string
	Version  string
	Message  string
}

// String formats the diagnostic for terminal output.
func (d Diagnostic) String() string {
	ref := d.Package
	if d.Version != "" {
		ref += "@" + d.Version
	}
	return fmt.Sprintf("%s: %s: %s", d.Severity, ref, d.Message)
}
