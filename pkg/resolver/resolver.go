// Package resolver turns package/version requests into documentation
// URL mappings by walking a fixed chain of sources.
//
// The chain is: user catalog, builtin catalog, installed environment,
// readthedocs.org, pypi.org. Resolution stops at the first stage that
// answers unless configured to keep going. Whatever the network stages
// discover is folded back into the user catalog, which is persisted at
// the end of a run when its serialized form changed.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/docdex/docdex/pkg/catalog"
	"github.com/docdex/docdex/pkg/sources"
	"github.com/docdex/docdex/pkg/sources/environment"
	"github.com/docdex/docdex/pkg/sources/pypi"
	"github.com/docdex/docdex/pkg/sources/readthedocs"
)

// DefaultVersion is assumed when a request names no version.
const DefaultVersion = "stable"

// Request asks for the documentation URL of one package. An empty
// Version means DefaultVersion.
type Request struct {
	Package string
	Version string
}

// Mapping is the resolved result: package name -> documentation base URL.
type Mapping map[string]string

// Options configure a Driver.
type Options struct {
	// UserCatalogPath is the writable catalog file. Empty disables both
	// loading and persisting a user catalog.
	UserCatalogPath string
	// UserCatalog overrides loading from UserCatalogPath (mainly for
	// tests). The driver mutates it.
	UserCatalog *catalog.Catalog

	// Stage switches. The user catalog stage always runs.
	NoBuiltin     bool
	NoEnvironment bool
	NoReadTheDocs bool
	NoPyPI        bool

	// KeepGoing queries every remaining stage even after a hit, so the
	// user catalog accumulates data from all sources.
	KeepGoing bool
	// PyPIMaxEntries bounds historical release probing on PyPI: 0 none,
	// N>0 the N most recent, negative all.
	PyPIMaxEntries int

	// Fetchers replaces the network stages entirely (mainly for tests).
	Fetchers []catalog.Fetcher
	// Client performs the HTTP traffic of the default fetchers. Required
	// unless Fetchers is set or all network stages are switched off.
	Client *sources.Client

	// OnStage, when set, is called for every stage that yields data for
	// a package, with the version mapping known after that stage.
	OnStage func(stage, pkg string, versions map[string]string)
	// Logger receives progress and soft-miss messages. Defaults to a
	// discarding logger.
	Logger *log.Logger
}

// Driver resolves requests against the source chain. It is not safe for
// concurrent use.
type Driver struct {
	opts     Options
	log      *log.Logger
	user     *catalog.Catalog
	lookup   *catalog.Lookup
	builtin  *catalog.Lookup
	builtinC *catalog.Catalog
	fetchers []catalog.Fetcher
	baseline string
	diags    []Diagnostic
}

// New creates a Driver, loading the user catalog if one is configured.
// A missing user catalog file is treated as empty; a malformed one is an
// error (wrapping catalog.ErrParse).
func New(opts Options) (*Driver, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.With("run", uuid.NewString()[:8])

	user := opts.UserCatalog
	if user == nil {
		user = catalog.New()
		if opts.UserCatalogPath != "" {
			if err := user.Load(opts.UserCatalogPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}
	baseline, err := user.Dumps()
	if err != nil {
		return nil, err
	}

	d := &Driver{
		opts:     opts,
		log:      logger,
		user:     user,
		lookup:   catalog.NewLookup(user),
		baseline: baseline,
	}
	if !opts.NoBuiltin {
		d.builtinC = catalog.Builtin()
		d.builtin = catalog.NewLookup(d.builtinC)
	}
	d.fetchers = opts.Fetchers
	if d.fetchers == nil {
		if !opts.NoEnvironment {
			d.fetchers = append(d.fetchers, environment.New(opts.Client))
		}
		if !opts.NoReadTheDocs {
			d.fetchers = append(d.fetchers, readthedocs.New(opts.Client))
		}
		if !opts.NoPyPI {
			d.fetchers = append(d.fetchers, pypi.New(opts.Client, opts.PyPIMaxEntries))
		}
	}
	for _, c := range d.lookup.Collisions() {
		d.diag(SeverityWarning, KindConflict, c.Alias, "",
			fmt.Sprintf("alias also claimed by %q; %q wins", c.Previous, c.Winner))
	}
	return d, nil
}

// UserCatalog returns the catalog the driver accumulates results into.
func (d *Driver) UserCatalog() *catalog.Catalog { return d.user }

// ResolveAll resolves every request, then persists the user catalog if
// it changed. Resolution failures surface as diagnostics, not as an
// error; the error covers persistence only.
func (d *Driver) ResolveAll(ctx context.Context, reqs []Request) (Mapping, []Diagnostic, error) {
	out := Mapping{}
	for _, req := range reqs {
		if req.Version == "" {
			req.Version = DefaultVersion
		}
		url, ok := d.Resolve(ctx, req)
		if !ok {
			continue
		}
		if prev, dup := out[req.Package]; dup {
			if prev != url {
				d.diag(SeverityError, KindConflict, req.Package, req.Version,
					fmt.Sprintf("already mapped to %s; ignoring %s", prev, url))
			} else {
				d.diag(SeverityInfo, KindConflict, req.Package, req.Version,
					fmt.Sprintf("already mapped to %s; ignoring repeated request", prev))
			}
			continue
		}
		out[req.Package] = url
	}
	err := d.persist()
	return out, d.diags, err
}

// Resolve walks the stage chain for a single request. A failed
// resolution records one diagnostic and returns false.
func (d *Driver) Resolve(ctx context.Context, req Request) (string, bool) {
	if req.Version == "" {
		req.Version = DefaultVersion
	}
	logger := d.log.With("package", req.Package, "version", req.Version)

	if url := d.fromLookup(d.lookup, "user", req); url != "" {
		logger.Debug("resolved from user catalog", "url", url)
		return url, true
	}
	if len(d.lookup.Versions(req.Package)) > 0 {
		d.diag(SeverityWarning, KindSoftMiss, req.Package, req.Version,
			"user catalog knows the package but not this version")
	}
	if d.builtin != nil {
		if url := d.fromLookup(d.builtin, "builtin", req); url != "" {
			logger.Debug("resolved from builtin catalog", "url", url)
			return url, true
		}
		if len(d.builtin.Versions(req.Package)) > 0 {
			d.diag(SeverityInfo, KindSoftMiss, req.Package, req.Version,
				"builtin catalog knows the package but not this version")
		}
	}

	var found string
	for _, f := range d.fetchers {
		name, skip := d.externalName(req.Package, f.Kind())
		if skip {
			logger.Debug("source skipped by catalog marker", "source", f.Kind())
			continue
		}
		if !d.user.UpdateFrom(ctx, f, req.Package, name) {
			logger.Debug("source had no data", "source", f.Kind())
			continue
		}
		d.lookup = catalog.NewLookup(d.user)
		if url := d.fromLookup(d.lookup, f.Kind(), req); url != "" {
			logger.Debug("resolved", "source", f.Kind(), "url", url)
			if !d.opts.KeepGoing {
				return url, true
			}
			if found == "" {
				found = url
			}
		} else {
			logger.Debug("source knows the package but not this version", "source", f.Kind())
		}
	}
	if found != "" {
		return found, true
	}

	if d.known(req.Package) {
		d.diag(SeverityError, KindVersionMiss, req.Package, req.Version,
			"no documentation for the requested version")
	} else {
		d.diag(SeverityError, KindUnresolved, req.Package, req.Version,
			"not found in any source")
	}
	return "", false
}

// fromLookup queries one lookup view and fires the stage callback on a
// hit.
func (d *Driver) fromLookup(l *catalog.Lookup, stage string, req Request) string {
	url := l.Get(req.Package, req.Version, "")
	if url != "" && d.opts.OnStage != nil {
		d.opts.OnStage(stage, req.Package, l.Versions(req.Package))
	}
	return url
}

// known reports whether any catalog stage has version data for pkg.
// Entries that exist but carry no versions (skeletons left by failed
// fetches) do not count.
func (d *Driver) known(pkg string) bool {
	if len(d.lookup.Versions(pkg)) > 0 {
		return true
	}
	return d.builtin != nil && d.builtin.HasPackage(pkg)
}

// externalName looks up the source-specific name recorded for pkg, user
// catalog first, then builtin. skip is true when the catalogs mark the
// source as not applicable for this package.
func (d *Driver) externalName(pkg, kind string) (name string, skip bool) {
	for _, c := range []*catalog.Catalog{d.user, d.builtinC} {
		if c == nil {
			continue
		}
		e, ok := c.Get(pkg)
		if !ok || e == nil || e.Sources == nil {
			continue
		}
		if n, ok := e.Sources.Get(kind); ok {
			if n == catalog.SkipSource {
				return "", true
			}
			if n != "" {
				return n, false
			}
		}
	}
	return pkg, false
}

// persist writes the user catalog back to disk, but only when its
// serialized form differs from what was loaded.
func (d *Driver) persist() error {
	if d.opts.UserCatalogPath == "" {
		return nil
	}
	now, err := d.user.Dumps()
	if err != nil {
		return err
	}
	if now == d.baseline {
		return nil
	}
	d.log.Debug("persisting user catalog", "path", d.opts.UserCatalogPath)
	if err := d.user.Dump(d.opts.UserCatalogPath); err != nil {
		return err
	}
	d.baseline = now
	return nil
}

func (d *Driver) diag(sev Severity, kind Kind, pkg, ver, msg string) {
	d.diags = append(d.diags, Diagnostic{Severity: sev, Kind: kind, Package: pkg, Version: ver, Message: msg})
}

