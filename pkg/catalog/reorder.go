package catalog

import (
	"sort"

	"github.com/docdex/docdex/pkg/version"
)

// protectedLabels always sort to the front of a versions mapping, in
// this order.
var protectedLabels = []string{"latest", "main", "master", "stable"}

// Reorder returns a copy of a versions mapping in canonical persisted
// order: protected labels first, then parseable version labels in
// decreasing version order, then everything else in its original order.
// Reordering an already ordered mapping is a no-op.
func Reorder(versions *OrderedMap[string]) *OrderedMap[string] {
	out := NewOrderedMap[string]()
	for _, label := range protectedLabels {
		if u, ok := versions.Get(label); ok {
			out.Set(label, u)
		}
	}

	type parsed struct {
		v     *version.Version
		label string
	}
	var rels []parsed
	for _, label := range versions.Keys() {
		if out.Has(label) {
			continue
		}
		if v, ok := version.Parse(label); ok {
			rels = append(rels, parsed{v, label})
		}
	}
	sort.SliceStable(rels, func(i, j int) bool {
		if c := rels[i].v.Compare(rels[j].v); c != 0 {
			return c > 0
		}
		return rels[i].label > rels[j].label
	})
	for _, r := range rels {
		u, _ := versions.Get(r.label)
		out.Set(r.label, u)
	}

	for _, label := range versions.Keys() {
		if !out.Has(label) {
			u, _ := versions.Get(label)
			out.Set(label, u)
		}
	}
	return out
}
