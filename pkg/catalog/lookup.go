package catalog

import (
	"maps"

	"github.com/docdex/docdex/pkg/version"
)

// Collision records a package alias claimed by more than one package.
// The later package in catalog order wins the alias.
type Collision struct {
	Alias    string
	Previous string
	Winner   string
}

// Lookup is a read-only resolution view over a catalog snapshot.
// Version labels are expanded per version.Expand and the external names
// recorded under sources become package aliases. The view is not kept in
// sync with the catalog; rebuild it after mutations.
type Lookup struct {
	versions   map[string]map[string]string
	aliases    map[string]string
	collisions []Collision
}

// NewLookup builds a lookup view from the current catalog contents.
func NewLookup(c *Catalog) *Lookup {
	l := &Lookup{
		versions: map[string]map[string]string{},
		aliases:  map[string]string{},
	}
	for _, pkg := range c.Packages() {
		e, _ := c.Get(pkg)
		vm := map[string]string{}
		if e != nil && e.Versions != nil {
			for _, label := range e.Versions.Keys() {
				u, _ := e.Versions.Get(label)
				vm[label] = u
			}
		}
		l.versions[pkg] = version.Expand(vm)

		l.addAlias(pkg, pkg)
		if e == nil || e.Sources == nil {
			continue
		}
		for _, kind := range e.Sources.Keys() {
			name, _ := e.Sources.Get(kind)
			if name != "" && name != SkipSource {
				l.addAlias(name, pkg)
			}
		}
	}
	return l
}

// addAlias maps alias to a canonical package name. Later registrations
// win; catalog order makes the outcome deterministic.
func (l *Lookup) addAlias(alias, canonical string) {
	if prev, ok := l.aliases[alias]; ok && prev != canonical {
		l.collisions = append(l.collisions, Collision{Alias: alias, Previous: prev, Winner: canonical})
	}
	l.aliases[alias] = canonical
}

// Get returns the documentation URL for a package and version label,
// or def when either is unknown. The package name is resolved through
// aliases first, then the version through the expanded labels.
func (l *Lookup) Get(pkg, ver, def string) string {
	canonical, ok := l.aliases[pkg]
	if !ok {
		return def
	}
	u, ok := l.versions[canonical][ver]
	if !ok {
		return def
	}
	return u
}

// Versions returns a copy of the expanded version mapping for pkg,
// resolved through aliases. Unknown packages yield nil.
func (l *Lookup) Versions(pkg string) map[string]string {
	canonical, ok := l.aliases[pkg]
	if !ok {
		return nil
	}
	return maps.Clone(l.versions[canonical])
}

// HasPackage reports whether pkg resolves to a catalog entry, directly
// or through an alias.
func (l *Lookup) HasPackage(pkg string) bool {
	_, ok := l.aliases[pkg]
	return ok
}

// Collisions returns the alias collisions observed while building the
// view, in detection order.
func (l *Lookup) Collisions() []Collision { return l.collisions }
