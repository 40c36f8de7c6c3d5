// Package readthedocs discovers documentation URLs by scraping the
// per-project versions listing on readthedocs.org.
package readthedocs

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/docdex/docdex/pkg/sources"
)

// Fetcher looks up the hosted versions listing for a project. The project
// name must be the readthedocs.org slug, which may differ from the package
// name.
type Fetcher struct {
	client  *sources.Client
	baseURL string
}

// New creates a readthedocs fetcher.
func New(client *sources.Client) *Fetcher {
	return &Fetcher{client: client, baseURL: "https://readthedocs.org"}
}

// Kind returns the source kind recorded in catalog entries.
func (f *Fetcher) Kind() string { return "readthedocs" }

// DocURLs returns every documentation version listed for the project,
// keyed by version name. Projects unknown to readthedocs.org yield an
// empty mapping.
func (f *Fetcher) DocURLs(ctx context.Context, name string) (map[string]string, error) {
	out := map[string]string{}
	err := f.client.Cached(ctx, name, false, &out, func() error {
		page, err := f.client.GetText(ctx, fmt.Sprintf("%s/projects/%s/versions/", f.baseURL, url.PathEscape(name)))
		if err != nil {
			return err
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
		if err != nil {
			return err
		}
		// Version links carry the module-item-title class marker; only
		// absolute links point at built documentation.
		doc.Find("a.module-item-title").Each(func(_ int, sel *goquery.Selection) {
			href, ok := sel.Attr("href")
			if !ok || !strings.HasPrefix(href, "http") {
				return
			}
			if label := strings.TrimSpace(sel.Text()); label != "" {
				out[label] = sources.EnsureDirURL(href)
			}
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
