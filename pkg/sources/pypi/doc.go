// Package pypi discovers documentation URLs through the Python Package
// Index JSON API.
//
// # Overview
//
// The lookup reads the package's main record at
// https://pypi.org/pypi/<name>/json, extracts the "Documentation" project
// URL and verifies that the address actually serves an objects.inv
// inventory before accepting it.
//
// # Historical releases
//
// Release records carry their own metadata, so older documentation links
// can be recovered by probing https://pypi.org/pypi/<name>/<version>/json
// per release. The probe depth is configurable:
//
//   - 0: only the main record (a single request)
//   - N > 0: additionally the N most recent releases
//   - N < 0: every release
//
// Releases whose record is unavailable or lacks a working documentation
// URL are skipped silently.
//
// # Caching
//
// The final version->URL mapping is cached per (package, depth) pair, so
// repeated documentation builds do not hammer PyPI.
package pypi
