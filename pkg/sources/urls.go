package sources

import (
	"context"
	"regexp"
	"strings"
)

// InventoryFile is the conventional name of the Sphinx inventory within a
// documentation set.
const InventoryFile = "objects.inv"

// EnsureDirURL normalizes a documentation address to directory form: a URL
// pointing at an ".html" page is truncated to its parent path, and exactly
// one trailing slash is guaranteed.
func EnsureDirURL(addr string) string {
	if strings.HasSuffix(addr, ".html") {
		if i := strings.LastIndex(addr, "/"); i >= 0 {
			addr = addr[:i]
		}
	}
	if !strings.HasSuffix(addr, "/") {
		addr += "/"
	}
	return addr
}

// CheckInventory reports whether base (in directory form) serves a
// reachable inventory file.
func CheckInventory(ctx context.Context, c *Client, base string) bool {
	return c.Head(ctx, base+InventoryFile)
}

var nameSepRE = regexp.MustCompile(`[-_.]+`)

// NormalizeName normalizes a package name following PEP 503: lowercase,
// with runs of "-", "_" and "." collapsed into a single hyphen.
func NormalizeName(name string) string {
	return nameSepRE.ReplaceAllString(strings.ToLower(name), "-")
}
