package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/docdex/docdex/pkg/catalog"
)

// stubFetcher is a canned network stage.
type stubFetcher struct {
	kind  string
	urls  map[string]map[string]string
	calls []string
}

func (f *stubFetcher) Kind() string { return f.kind }

func (f *stubFetcher) DocURLs(_ context.Context, name string) (map[string]string, error) {
	f.calls = append(f.calls, name)
	return f.urls[name], nil
}

func userCatalog(t *testing.T, pkg string, versions map[string]string) *catalog.Catalog {
	t.Helper()
	c := catalog.New()
	e := &catalog.Entry{Versions: catalog.NewOrderedMap[string](), Sources: catalog.NewOrderedMap[string]()}
	for k, v := range versions {
		e.Versions.Set(k, v)
	}
	c.Set(pkg, e)
	return c
}

func TestUserCatalogWinsOverEverything(t *testing.T) {
	fetcher := &stubFetcher{kind: catalog.SourcePyPI}
	d, err := New(Options{
		UserCatalog: userCatalog(t, "python", map[string]string{"3.12": "https://mirror/python/3.12/"}),
		Fetchers:    []catalog.Fetcher{fetcher},
	})
	if err != nil {
		t.Fatal(err)
	}

	mapping, diags, err := d.ResolveAll(context.Background(), []Request{{Package: "python", Version: "3.12"}})
	if err != nil {
		t.Fatal(err)
	}
	if mapping["python"] != "https://mirror/python/3.12/" {
		t.Errorf("mapping = %v, want the user catalog URL, not the builtin one", mapping)
	}
	if len(fetcher.calls) != 0 {
		t.Error("network stages must not run after a catalog hit")
	}
	if len(diags) != 0 {
		t.Errorf("diags = %v, want none", diags)
	}
}

func TestBuiltinCatalogStage(t *testing.T) {
	fetcher := &stubFetcher{kind: catalog.SourcePyPI}
	d, err := New(Options{Fetchers: []catalog.Fetcher{fetcher}})
	if err != nil {
		t.Fatal(err)
	}

	mapping, diags, err := d.ResolveAll(context.Background(), []Request{{Package: "numpy"}})
	if err != nil {
		t.Fatal(err)
	}
	if mapping["numpy"] != "https://numpy.org/doc/stable/" {
		t.Errorf("mapping = %v, want numpy's builtin stable URL", mapping)
	}
	if len(fetcher.calls) != 0 {
		t.Error("network stages must not run after a builtin hit")
	}
	if len(diags) != 0 {
		t.Errorf("diags = %v, want none", diags)
	}
}

func TestFetcherStageUpdatesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	fetcher := &stubFetcher{kind: catalog.SourcePyPI, urls: map[string]map[string]string{
		"demo": {"1.0": "https://demo.dev/1.0/"},
	}}

	d, err := New(Options{
		UserCatalogPath: path,
		Fetchers:        []catalog.Fetcher{fetcher},
	})
	if err != nil {
		t.Fatal(err)
	}

	mapping, _, err := d.ResolveAll(context.Background(), []Request{{Package: "demo"}})
	if err != nil {
		t.Fatal(err)
	}
	if mapping["demo"] != "https://demo.dev/1.0/" {
		t.Errorf("mapping = %v, want the fetched URL under the stable alias", mapping)
	}

	persisted := catalog.New()
	if err := persisted.Load(path); err != nil {
		t.Fatalf("user catalog not persisted: %v", err)
	}
	e, ok := persisted.Get("demo")
	if !ok {
		t.Fatal("persisted catalog misses the fetched entry")
	}
	if n, _ := e.Sources.Get(catalog.SourcePyPI); n != "demo" {
		t.Errorf("persisted source name = %q", n)
	}
}

func TestNoPersistWithoutChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	d, err := New(Options{UserCatalogPath: path})
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := d.ResolveAll(context.Background(), []Request{{Package: "numpy"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("builtin-only resolution must not write a user catalog")
	}
}

func TestUnresolvedYieldsSingleDiagnostic(t *testing.T) {
	d, err := New(Options{Fetchers: []catalog.Fetcher{
		&stubFetcher{kind: catalog.SourceReadTheDocs},
		&stubFetcher{kind: catalog.SourcePyPI},
	}})
	if err != nil {
		t.Fatal(err)
	}

	mapping, diags, err := d.ResolveAll(context.Background(), []Request{{Package: "setuptoolx", Version: "stable"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(mapping) != 0 {
		t.Errorf("mapping = %v, want empty", mapping)
	}
	if len(diags) != 1 {
		t.Fatalf("diags = %v, want exactly one", diags)
	}
	if diags[0].Kind != KindUnresolved || diags[0].Severity != SeverityError {
		t.Errorf("diag = %+v, want an unresolved error", diags[0])
	}
}

func TestVersionMissOnKnownPackage(t *testing.T) {
	d, err := New(Options{Fetchers: []catalog.Fetcher{}})
	if err != nil {
		t.Fatal(err)
	}

	_, diags, err := d.ResolveAll(context.Background(), []Request{{Package: "numpy", Version: "0.0.0.99"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 2 {
		t.Fatalf("diags = %v, want a builtin soft-miss and a terminal version-miss", diags)
	}
	if diags[0].Kind != KindSoftMiss || diags[0].Severity != SeverityInfo {
		t.Errorf("stage diag = %+v, want an info soft-miss from the builtin catalog", diags[0])
	}
	if diags[1].Kind != KindVersionMiss || diags[1].Severity != SeverityError {
		t.Errorf("terminal diag = %+v, want a version-miss error", diags[1])
	}
}

func TestUserCatalogVersionMissWarns(t *testing.T) {
	d, err := New(Options{
		UserCatalog: userCatalog(t, "demo", map[string]string{"1.0": "https://demo.dev/1.0/"}),
		NoBuiltin:   true,
		Fetchers:    []catalog.Fetcher{},
	})
	if err != nil {
		t.Fatal(err)
	}

	_, diags, err := d.ResolveAll(context.Background(), []Request{{Package: "demo", Version: "9.9"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 2 {
		t.Fatalf("diags = %v, want a user-catalog soft-miss and a terminal version-miss", diags)
	}
	if diags[0].Kind != KindSoftMiss || diags[0].Severity != SeverityWarning {
		t.Errorf("stage diag = %+v, want a warning soft-miss from the user catalog", diags[0])
	}
	if diags[1].Kind != KindVersionMiss || diags[1].Severity != SeverityError {
		t.Errorf("terminal diag = %+v, want a version-miss error", diags[1])
	}
}

func TestConflictKeepsFirstMapping(t *testing.T) {
	d, err := New(Options{Fetchers: []catalog.Fetcher{}})
	if err != nil {
		t.Fatal(err)
	}

	mapping, diags, err := d.ResolveAll(context.Background(), []Request{
		{Package: "numpy", Version: "stable"},
		{Package: "numpy", Version: "devdocs"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if mapping["numpy"] != "https://numpy.org/doc/stable/" {
		t.Errorf("mapping = %v, want the first request to win", mapping)
	}
	if len(diags) != 1 || diags[0].Kind != KindConflict || diags[0].Severity != SeverityError {
		t.Errorf("diags = %v, want a single conflict error", diags)
	}
}

func TestDuplicateAgreeingRequestsLogInfo(t *testing.T) {
	d, err := New(Options{Fetchers: []catalog.Fetcher{}})
	if err != nil {
		t.Fatal(err)
	}

	mapping, diags, err := d.ResolveAll(context.Background(), []Request{
		{Package: "numpy", Version: "stable"},
		{Package: "numpy", Version: "stable"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(mapping) != 1 {
		t.Errorf("mapping = %v, want a single entry", mapping)
	}
	if len(diags) != 1 || diags[0].Kind != KindConflict || diags[0].Severity != SeverityInfo {
		t.Errorf("diags = %v, want one info diagnostic for the repeated request", diags)
	}
}

func TestKeepGoingQueriesAllStages(t *testing.T) {
	first := &stubFetcher{kind: catalog.SourceReadTheDocs, urls: map[string]map[string]string{
		"demo": {"latest": "https://rtd/demo/"},
	}}
	second := &stubFetcher{kind: catalog.SourcePyPI, urls: map[string]map[string]string{
		"demo": {"1.0": "https://pypi/demo/1.0/"},
	}}

	d, err := New(Options{
		KeepGoing: true,
		Fetchers:  []catalog.Fetcher{first, second},
	})
	if err != nil {
		t.Fatal(err)
	}

	url, ok := d.Resolve(context.Background(), Request{Package: "demo", Version: "latest"})
	if !ok || url != "https://rtd/demo/" {
		t.Errorf("Resolve = %q, %v; want the first hit returned", url, ok)
	}
	if len(second.calls) != 1 {
		t.Error("keep-going must still query the later stages")
	}

	// Both sources ended up in the accumulated catalog.
	e, _ := d.UserCatalog().Get("demo")
	if !e.Sources.Has(catalog.SourceReadTheDocs) || !e.Sources.Has(catalog.SourcePyPI) {
		t.Errorf("sources = %v, want both recorded", e.Sources.Keys())
	}
}

func TestSkipMarkerSuppressesFetcher(t *testing.T) {
	fetcher := &stubFetcher{kind: catalog.SourcePyPI, urls: map[string]map[string]string{
		"python": {"3.99": "https://nope/"},
	}}
	d, err := New(Options{Fetchers: []catalog.Fetcher{fetcher}})
	if err != nil {
		t.Fatal(err)
	}

	// The builtin catalog marks python's pypi source as skipped; a version
	// the catalogs do not know must not fall through to pypi.
	d.Resolve(context.Background(), Request{Package: "python", Version: "3.99"})
	if len(fetcher.calls) != 0 {
		t.Error("skip marker in the catalog must suppress the fetcher")
	}
}
