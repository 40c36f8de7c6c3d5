package readthedocs

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/docdex/docdex/pkg/cache"
	"github.com/docdex/docdex/pkg/sources"
)

const versionsPage = `<html><body>
<div class="module">
  <a class="module-item-title" href="https://demo.readthedocs.io/en/latest/">latest</a>
  <a class="module-item-title" href="https://demo.readthedocs.io/en/stable/index.html"> stable </a>
  <a class="module-item-title" href="/projects/demo/builds/">2.0</a>
  <a href="https://demo.readthedocs.io/en/1.0/">1.0</a>
</div>
</body></html>`

func newFetcher(t *testing.T, baseURL string) *Fetcher {
	t.Helper()
	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := New(sources.NewClient(backend, "rtd:", 0, nil))
	f.baseURL = baseURL
	return f
}

func TestDocURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects/demo/versions/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, versionsPage)
	}))
	defer srv.Close()

	out, err := newFetcher(t, srv.URL).DocURLs(context.Background(), "demo")
	if err != nil {
		t.Fatalf("DocURLs: %v", err)
	}

	// Only absolute module-item-title links count; labels are trimmed and
	// page URLs reduced to directory form.
	want := map[string]string{
		"latest": "https://demo.readthedocs.io/en/latest/",
		"stable": "https://demo.readthedocs.io/en/stable/",
	}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("DocURLs = %v, want %v", out, want)
	}
}

func TestDocURLsUnknownProject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newFetcher(t, srv.URL).DocURLs(context.Background(), "nosuch")
	if err == nil {
		t.Fatal("unknown project should surface an error for the caller to soft-fail on")
	}
}
