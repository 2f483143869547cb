// Package collect discovers translation modules under an extracted
// channel tree. A module is a direct subdirectory holding one language
// table per locale, e.g. vanilla/en_US.json.
package collect

import (
	"fmt"
	"os"
	"path/filepath"
)

// Modules returns the names of all module directories directly under
// root, in sorted order. The listing is captured once per merge pass so
// later filesystem changes cannot reorder it.
func Modules(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list modules in %s: %w", root, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Source is one module's language table on disk.
type Source struct {
	// Module is the module name, possibly prefixed with a variant
	// subtree such as "beta/vanilla".
	Module string
	// Path is the table location under the channel root.
	Path string
}

// Sources resolves the table path for each module and keeps only the
// ones that exist. Modules without a table for this locale are simply
// absent from that locale's merge.
func Sources(root string, modules []string, file string) []Source {
	var out []Source
	for _, module := range modules {
		path := filepath.Join(root, filepath.FromSlash(module), file)
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}
		out = append(out, Source{Module: module, Path: path})
	}
	return out
}
