package environment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/docdex/docdex/pkg/cache"
	"github.com/docdex/docdex/pkg/sources"
)

// writeDistInfo fakes an installed distribution under root.
func writeDistInfo(t *testing.T, root, dir, metadata string) {
	t.Helper()
	path := filepath.Join(root, dir)
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(path, "METADATA"), []byte(metadata), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newClient(t *testing.T) *sources.Client {
	t.Helper()
	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return sources.NewClient(backend, "env:", 0, nil)
}

func TestDocURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/docs/objects.inv" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	root := t.TempDir()
	writeDistInfo(t, root, "demo_pkg-1.2.0.dist-info", fmt.Sprintf(
		"Metadata-Version: 2.1\nName: demo-pkg\nVersion: 1.2.0\n"+
			"Project-URL: Homepage, https://example.org\n"+
			"Project-URL: Documentation, %s/docs/index.html\n\n", srv.URL))

	f := New(newClient(t), root)
	out, err := f.DocURLs(context.Background(), "Demo.Pkg")
	if err != nil {
		t.Fatalf("DocURLs: %v", err)
	}
	want := map[string]string{"1.2.0": srv.URL + "/docs/"}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("DocURLs = %v, want %v", out, want)
	}
}

func TestDocURLsNotInstalled(t *testing.T) {
	f := New(newClient(t), t.TempDir())
	out, err := f.DocURLs(context.Background(), "nosuch")
	if err != nil {
		t.Fatalf("DocURLs: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("DocURLs = %v, want empty for packages that are not installed", out)
	}
}

func TestDocURLsUnreachableInventory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	root := t.TempDir()
	writeDistInfo(t, root, "demo-1.0.dist-info", fmt.Sprintf(
		"Name: demo\nVersion: 1.0\nProject-URL: Documentation, %s/docs/\n\n", srv.URL))

	out, err := New(newClient(t), root).DocURLs(context.Background(), "demo")
	if err != nil {
		t.Fatalf("DocURLs: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("DocURLs = %v, want empty when the inventory is unreachable", out)
	}
}

func TestMatchesDistInfo(t *testing.T) {
	tests := []struct {
		dir, want string
		ok        bool
	}{
		{"demo_pkg-1.2.0.dist-info", "demo-pkg", true},
		{"Demo.Pkg-1.2.0.dist-info", "demo-pkg", true},
		{"other-1.0.dist-info", "demo-pkg", false},
		{"demo_pkg-1.2.0.egg-info", "demo-pkg", false},
		{"noversion.dist-info", "noversion", false},
	}
	for _, tt := range tests {
		if got := matchesDistInfo(tt.dir, tt.want); got != tt.ok {
			t.Errorf("matchesDistInfo(%q, %q) = %v, want %v", tt.dir, tt.want, got, tt.ok)
		}
	}
}
