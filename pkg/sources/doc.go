// Package sources provides the shared HTTP plumbing for documentation
// lookups.
//
// # Overview
//
// The three fetchers (environment, readthedocs, pypi) answer one question:
// "which documentation versions exist for this package, and at which base
// URLs?". Each lives in its own subpackage and implements the
// catalog.Fetcher capability; this package holds what they share:
//
//   - [Client]: cached HTTP GET (JSON, text, raw) and HEAD probing
//   - [EnsureDirURL]: normalization of discovered URLs to directory form
//   - [NormalizeName]: PEP 503 package-name normalization
//
// # Failure model
//
// Lookups fail soft. The client classifies failures ([cache.ErrNotFound],
// [cache.ErrNetwork]) and performs a single attempt per call; callers
// treat any error as "no data" and move on. Transient failures are marked
// retryable so that callers with a hard requirement (such as downloading a
// mandatory package list) can opt into cache.Retry.
package sources
