// Package version parses and compares documentation version labels.
//
// # Overview
//
// Version labels found in documentation catalogs are free-form: most are
// PEP-440-style release numbers ("1.26.4", "2.0rc1", "v3.2"), some are
// shortened ranges ("1.2.x"), and the rest are opaque aliases such as
// "latest", "stable", "main" or "devdocs". This package turns the parseable
// subset into comparable values and derives the alias entries a lookup
// needs.
//
// # Parsing
//
// [Parse] strips ".x" range segments and a leading "v", canonicalizes
// PEP 440 pre-release spellings (alpha/a, beta/b, rc/c/pre/preview, dev,
// post) and hands the result to Masterminds/semver for ordering. Labels
// that do not parse are not errors; they are simply opaque aliases.
//
// # Expansion
//
// [Expand] computes the lookup dictionary for a package: it guarantees
// "latest" and "stable" keys, keeps every original entry, and registers
// shortened ("1.2.x" -> "1.2") and canonical ("v2.2.0" -> "2.2.0")
// synonyms.
package version
