// Package inventory reads Sphinx objects.inv files, the compressed
// indexes that document cross-referenceable objects of a project.
//
// The version 2 format is four "#"-prefixed header lines (format marker,
// project, version, compression note) followed by a zlib stream of
// records, one object per line:
//
//	name domain:role priority uri dispname
//
// A uri ending in "$" abbreviates "uri with the trailing $ replaced by
// the object name"; a dispname of "-" means the display name equals the
// object name. Both abbreviations are expanded on load.
package inventory

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/docdex/docdex/pkg/sources"
)

// Object is one cross-referenceable entry of an inventory.
type Object struct {
	Name     string
	Domain   string
	Role     string
	Priority int
	URI      string
	DispName string
}

// Inventory is a parsed objects.inv file.
type Inventory struct {
	Project string
	Version string
	Objects []Object
}

var recordRE = regexp.MustCompile(`^(.+?)\s+(\S+)\s+(-?\d+)\s+(\S*)\s+(.*)$`)

// Parse reads a version 2 inventory stream.
func Parse(r io.Reader) (*Inventory, error) {
	br := bufio.NewReader(r)

	header := make([]string, 4)
	for i := range header {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("reading inventory header: %w", err)
		}
		header[i] = strings.TrimRight(line, "\r\n")
	}
	if !strings.HasPrefix(header[0], "# Sphinx inventory version 2") {
		return nil, fmt.Errorf("unsupported inventory format: %q", header[0])
	}
	inv := &Inventory{
		Project: strings.TrimSpace(strings.TrimPrefix(header[1], "# Project:")),
		Version: strings.TrimSpace(strings.TrimPrefix(header[2], "# Version:")),
	}

	zr, err := zlib.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("decompressing inventory: %w", err)
	}
	defer zr.Close()

	sc := bufio.NewScanner(zr)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := recordRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		domain, role, _ := strings.Cut(m[2], ":")
		prio, _ := strconv.Atoi(m[3])
		uri := m[4]
		if cut, ok := strings.CutSuffix(uri, "$"); ok {
			uri = cut + name
		}
		disp := m[5]
		if disp == "-" {
			disp = name
		}
		inv.Objects = append(inv.Objects, Object{
			Name:     name,
			Domain:   domain,
			Role:     role,
			Priority: prio,
			URI:      uri,
			DispName: disp,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading inventory records: %w", err)
	}
	return inv, nil
}

// Fetch loads an inventory from a local file path, a direct URL to an
// objects.inv file, or a documentation base URL (objects.inv is appended
// to URLs not already naming one).
func Fetch(ctx context.Context, client *sources.Client, location string) (*Inventory, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		if !strings.HasSuffix(location, sources.InventoryFile) {
			location = sources.EnsureDirURL(location) + sources.InventoryFile
		}
		data, err := client.GetRaw(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", location, err)
		}
		return Parse(bytes.NewReader(data))
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
