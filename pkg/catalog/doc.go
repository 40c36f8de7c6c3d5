// Package catalog stores and resolves documentation cross-reference
// information for named packages.
//
// # Data model
//
// A [Catalog] maps package names to entries with two sub-mappings:
//
//   - versions: version label -> documentation base URL. Labels are free
//     form; most are PEP-440-style release numbers, the rest are aliases
//     such as "latest", "stable", "main" or "master".
//   - sources: source kind ("environment", "readthedocs", "pypi") -> the
//     external name the package is known by on that source.
//
// Both the package order and the key order inside each entry are
// preserved across load/dump round-trips, so the persisted JSON file is
// stable under version control. [Reorder] defines the canonical version
// ordering of the persisted form.
//
// # Updating
//
// Update operations share one contract: ensure the entry exists with both
// sub-mappings, ask a [Fetcher] for version->URL data, merge non-empty
// results (new labels added, known labels overwritten), reorder, and
// record the external name used. A fetcher that fails or finds nothing
// never removes previously known versions.
//
// # Lookups
//
// A [Lookup] is a derived, read-only view over a catalog snapshot: it
// expands version aliases (see the version package) and package aliases
// (the names recorded under sources) for constant-time queries. The view
// does not track later catalog mutations; callers rebuild it after any
// write they need reflected.
package catalog
