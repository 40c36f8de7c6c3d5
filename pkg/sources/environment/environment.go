// Package environment discovers documentation URLs from the metadata of
// locally installed Python packages.
//
// Installed distributions keep their metadata in site-packages under
// <name>-<version>.dist-info/METADATA, an RFC 822 style header block.
// A "Project-URL: Documentation, <url>" entry points at the package's
// documentation; the URL is only accepted if it serves a reachable
// objects.inv inventory.
package environment

import (
	"bufio"
	"context"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/docdex/docdex/pkg/sources"
)

// Fetcher inspects installed package metadata under one or more
// site-packages roots.
type Fetcher struct {
	client *sources.Client
	roots  []string
}

// New creates an environment fetcher. When no roots are given they are
// discovered from the active environment at lookup time.
func New(client *sources.Client, roots ...string) *Fetcher {
	return &Fetcher{client: client, roots: roots}
}

// Kind returns the source kind recorded in catalog entries.
func (f *Fetcher) Kind() string { return "environment" }

// DocURLs returns a single-entry mapping from the installed version (or
// "latest" when the version is indeterminate) to the package's verified
// documentation URL. Packages that are not installed, carry no
// documentation project URL, or whose inventory is unreachable yield an
// empty mapping.
func (f *Fetcher) DocURLs(ctx context.Context, name string) (map[string]string, error) {
	roots := f.roots
	if len(roots) == 0 {
		roots = DiscoverRoots()
	}
	want := sources.NormalizeName(name)

	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() || !matchesDistInfo(e.Name(), want) {
				continue
			}
			md, err := readMetadata(filepath.Join(root, e.Name(), "METADATA"))
			if err != nil || md.docURL == "" {
				continue
			}
			addr := sources.EnsureDirURL(md.docURL)
			if !sources.CheckInventory(ctx, f.client, addr) {
				continue
			}
			key := md.version
			if key == "" {
				key = "latest"
			}
			return map[string]string{key: addr}, nil
		}
	}
	return map[string]string{}, nil
}

// DiscoverRoots locates site-packages directories from the active Python
// environment: the virtualenv named by $VIRTUAL_ENV plus any $PYTHONPATH
// entries.
func DiscoverRoots() []string {
	var roots []string
	if venv := os.Getenv("VIRTUAL_ENV"); venv != "" {
		matches, _ := filepath.Glob(filepath.Join(venv, "lib", "python*", "site-packages"))
		roots = append(roots, matches...)
		roots = append(roots, filepath.Join(venv, "Lib", "site-packages"))
	}
	for _, p := range filepath.SplitList(os.Getenv("PYTHONPATH")) {
		if p != "" {
			roots = append(roots, p)
		}
	}
	return roots
}

// matchesDistInfo reports whether a directory entry names the dist-info
// of the wanted (normalized) distribution.
func matchesDistInfo(dir, want string) bool {
	base, ok := strings.CutSuffix(dir, ".dist-info")
	if !ok {
		return false
	}
	// dist-info directories are named <distribution>-<version>; the
	// version part never contains a hyphen.
	i := strings.LastIndex(base, "-")
	if i <= 0 {
		return false
	}
	return sources.NormalizeName(base[:i]) == want
}

type metadata struct {
	name    string
	version string
	docURL  string
}

// readMetadata extracts the fields of interest from a METADATA file.
func readMetadata(path string) (*metadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	tp := textproto.NewReader(bufio.NewReader(file))
	hdr, err := tp.ReadMIMEHeader()
	if err != nil && len(hdr) == 0 {
		return nil, err
	}

	md := &metadata{
		name:    hdr.Get("Name"),
		version: hdr.Get("Version"),
	}
	for _, pu := range hdr.Values("Project-URL") {
		label, value, ok := strings.Cut(pu, ",")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(label), "documentation") {
			md.docURL = strings.TrimSpace(value)
		}
	}
	return md, nil
}
