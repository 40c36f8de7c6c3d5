package pypi

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/docdex/docdex/pkg/sources"
	"github.com/docdex/docdex/pkg/version"
)

// Fetcher looks up documentation URLs on pypi.org.
type Fetcher struct {
	client     *sources.Client
	baseURL    string
	maxEntries int
}

// New creates a PyPI fetcher. maxEntries controls how many historical
// releases are probed beyond the main record: 0 none, N>0 the N most
// recent, negative all of them.
func New(client *sources.Client, maxEntries int) *Fetcher {
	return &Fetcher{client: client, baseURL: "https://pypi.org", maxEntries: maxEntries}
}

// Kind returns the source kind recorded in catalog entries.
func (f *Fetcher) Kind() string { return "pypi" }

// DocURLs returns the documentation versions pypi.org knows for the
// package, keyed by release version. Missing packages and packages
// without a verified documentation URL yield an empty mapping.
func (f *Fetcher) DocURLs(ctx context.Context, name string) (map[string]string, error) {
	name = sources.NormalizeName(name)
	out := map[string]string{}
	key := fmt.Sprintf("%s:%d", name, f.maxEntries)
	err := f.client.Cached(ctx, key, false, &out, func() error {
		return f.fetch(ctx, name, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *Fetcher) fetch(ctx context.Context, name string, out map[string]string) error {
	var data record
	if err := f.client.GetJSON(ctx, fmt.Sprintf("%s/pypi/%s/json", f.baseURL, name), &data); err != nil {
		return err
	}
	f.collect(ctx, &data, out)

	for _, label := range f.releasesToProbe(&data) {
		var rel record
		if err := f.client.GetJSON(ctx, fmt.Sprintf("%s/pypi/%s/%s/json", f.baseURL, name, label), &rel); err != nil {
			continue
		}
		f.collect(ctx, &rel, out)
	}
	return nil
}

// collect records the documentation URL of a single release record, if it
// exists and its inventory is reachable.
func (f *Fetcher) collect(ctx context.Context, data *record, out map[string]string) {
	addr := docURL(data.Info.ProjectURLs)
	if addr == "" {
		return
	}
	addr = sources.EnsureDirURL(addr)
	if !sources.CheckInventory(ctx, f.client, addr) {
		return
	}
	out[data.Info.Version] = addr
}

// releasesToProbe returns the release labels to fetch individually, in
// decreasing version order, limited by maxEntries.
func (f *Fetcher) releasesToProbe(data *record) []string {
	type rel struct {
		v     *version.Version
		label string
	}
	var rels []rel
	for label := range data.Releases {
		if v, ok := version.Parse(label); ok {
			rels = append(rels, rel{v, label})
		}
	}
	sort.Slice(rels, func(i, j int) bool {
		if c := rels[i].v.Compare(rels[j].v); c != 0 {
			return c > 0
		}
		return rels[i].label > rels[j].label
	})
	if f.maxEntries >= 0 && f.maxEntries < len(rels) {
		rels = rels[:f.maxEntries]
	}
	labels := make([]string, len(rels))
	for i, r := range rels {
		labels[i] = r.label
	}
	return labels
}

// docURL extracts the documentation project URL from a project_urls
// mapping. The key is matched case-insensitively, with the conventional
// "Documentation" spelling preferred.
func docURL(urls map[string]any) string {
	if s, ok := urls["Documentation"].(string); ok && s != "" {
		return s
	}
	for k, v := range urls {
		if strings.EqualFold(k, "documentation") {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

type record struct {
	Info struct {
		Name        string         `json:"name"`
		Version     string         `json:"version"`
		ProjectURLs map[string]any `json:"project_urls"`
	} `json:"info"`
	Releases map[string]json.RawMessage `json:"releases"`
}
