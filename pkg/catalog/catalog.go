package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"golang.org/x/exp/maps"
)

// Source kinds recorded in entry sources mappings.
const (
	SourceEnvironment = "environment"
	SourceReadTheDocs = "readthedocs"
	SourcePyPI        = "pypi"
)

// SkipSource is the sentinel external name that marks a source as
// deliberately skipped for a package.
const SkipSource = "-"

// ErrParse reports a catalog document that is not valid JSON or does not
// have the expected shape.
var ErrParse = errors.New("malformed catalog")

// Entry holds the catalog data of a single package.
type Entry struct {
	Versions *OrderedMap[string] `json:"versions"`
	Sources  *OrderedMap[string] `json:"sources"`
}

// Catalog is an ordered collection of package entries.
type Catalog struct {
	pkgs *OrderedMap[*Entry]
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{pkgs: NewOrderedMap[*Entry]()}
}

// Len returns the number of packages.
func (c *Catalog) Len() int { return c.pkgs.Len() }

// Has reports whether the catalog has an entry for pkg.
func (c *Catalog) Has(pkg string) bool { return c.pkgs.Has(pkg) }

// Get returns the entry for pkg.
func (c *Catalog) Get(pkg string) (*Entry, bool) { return c.pkgs.Get(pkg) }

// Set stores an entry, appending pkg to the package order if new.
func (c *Catalog) Set(pkg string, e *Entry) { c.pkgs.Set(pkg, e) }

// Delete removes a package.
func (c *Catalog) Delete(pkg string) { c.pkgs.Delete(pkg) }

// Packages returns the package names in catalog order.
func (c *Catalog) Packages() []string { return c.pkgs.Keys() }

// Reset discards all entries.
func (c *Catalog) Reset() { c.pkgs = NewOrderedMap[*Entry]() }

// Loads replaces the catalog contents with the entries of a JSON
// document, preserving their document order. The previous contents are
// kept on error.
func (c *Catalog) Loads(text string) error {
	pkgs := NewOrderedMap[*Entry]()
	if err := json.Unmarshal([]byte(text), pkgs); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	c.pkgs = pkgs
	return nil
}

// Load replaces the catalog contents with the entries of a JSON file.
func (c *Catalog) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := c.Loads(string(data)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Dumps serializes the catalog. The output is deterministic: two
// structurally equal catalogs serialize to the same bytes.
func (c *Catalog) Dumps() (string, error) {
	data, err := json.MarshalIndent(c.pkgs, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

// Dump writes the catalog to path. An existing file is first copied to
// path~ so a bad update can be rolled back by hand.
func (c *Catalog) Dump(path string) error {
	text, err := c.Dumps()
	if err != nil {
		return err
	}
	if prev, err := os.ReadFile(path); err == nil {
		if err := os.WriteFile(path+"~", prev, 0o644); err != nil {
			return fmt.Errorf("backing up %s: %w", path, err)
		}
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

// ensure returns the entry for pkg, creating it and its sub-mappings as
// needed.
func (c *Catalog) ensure(pkg string) *Entry {
	e, ok := c.pkgs.Get(pkg)
	if !ok || e == nil {
		e = &Entry{}
		c.pkgs.Set(pkg, e)
	}
	if e.Versions == nil {
		e.Versions = NewOrderedMap[string]()
	}
	if e.Sources == nil {
		e.Sources = NewOrderedMap[string]()
	}
	return e
}

// Fetcher produces version->documentation URL mappings for a package
// from one external source.
type Fetcher interface {
	// Kind identifies the source ("environment", "readthedocs", "pypi").
	Kind() string
	// DocURLs looks the package up under its source-specific name. An
	// empty mapping means the source knows nothing about the package.
	DocURLs(ctx context.Context, name string) (map[string]string, error)
}

// UpdateFrom merges the documentation URLs one fetcher finds for pkg
// into its entry, under the external name given (the package name when
// empty). It reports whether any data was found; failed or empty
// fetches leave the versions mapping untouched, though the entry itself
// is created if missing.
func (c *Catalog) UpdateFrom(ctx context.Context, f Fetcher, pkg, name string) bool {
	e := c.ensure(pkg)
	if name == "" {
		name = pkg
	}
	urls, err := f.DocURLs(ctx, name)
	if err != nil || len(urls) == 0 {
		return false
	}
	// Merge in sorted label order so the position of appended labels does
	// not depend on map iteration.
	labels := maps.Keys(urls)
	slices.Sort(labels)
	for _, label := range labels {
		e.Versions.Set(label, urls[label])
	}
	e.Versions = Reorder(e.Versions)
	e.Sources.Set(f.Kind(), name)
	return true
}

// UpdateOptions adjust a bulk catalog update.
type UpdateOptions struct {
	// Names maps source kind -> package -> external name. A missing
	// entry means the package name itself; SkipSource skips the source
	// for that package.
	Names map[string]map[string]string
	// KeepGoing queries every fetcher instead of stopping at the first
	// one that finds data.
	KeepGoing bool
	// Logger, when set, receives progress messages.
	Logger func(msg string, args ...any)
}

// UpdateVersions refreshes the entries of the named packages from the
// given fetchers, in order. By default each package stops at the first
// fetcher that finds data.
func (c *Catalog) UpdateVersions(ctx context.Context, pkgs []string, fetchers []Fetcher, opts UpdateOptions) {
	logf := opts.Logger
	if logf == nil {
		logf = func(string, ...any) {}
	}
	for _, pkg := range pkgs {
		for _, f := range fetchers {
			name := pkg
			if m := opts.Names[f.Kind()]; m != nil {
				if n, ok := m[pkg]; ok {
					if n == SkipSource {
						logf("skipping source", "package", pkg, "source", f.Kind())
						continue
					}
					if n != "" {
						name = n
					}
				}
			}
			logf("querying source", "package", pkg, "source", f.Kind(), "name", name)
			if c.UpdateFrom(ctx, f, pkg, name) && !opts.KeepGoing {
				break
			}
		}
	}
}

// SourceNames collects the external names and skip markers the catalog
// records for each of the given fetchers, in the shape UpdateOptions
// expects.
func (c *Catalog) SourceNames(fetchers []Fetcher) map[string]map[string]string {
	names := map[string]map[string]string{}
	for _, f := range fetchers {
		names[f.Kind()] = map[string]string{}
	}
	for _, pkg := range c.Packages() {
		e, _ := c.pkgs.Get(pkg)
		if e == nil || e.Sources == nil {
			continue
		}
		for _, kind := range e.Sources.Keys() {
			if m, ok := names[kind]; ok {
				n, _ := e.Sources.Get(kind)
				m[pkg] = n
			}
		}
	}
	return names
}

// SelfUpdate refreshes every entry already in the catalog, honoring the
// external names and skip markers its sources mappings record.
func (c *Catalog) SelfUpdate(ctx context.Context, fetchers []Fetcher, opts UpdateOptions) {
	opts.Names = c.SourceNames(fetchers)
	c.UpdateVersions(ctx, c.Packages(), fetchers, opts)
}
