package catalog

import (
	_ "embed"
	"fmt"
)

//go:embed catalog.json
var builtinJSON string

// Builtin returns a fresh copy of the catalog shipped with the binary.
// It covers popular packages so common cross-references resolve without
// any network traffic.
func Builtin() *Catalog {
	c := New()
	if err := c.Loads(builtinJSON); err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}
