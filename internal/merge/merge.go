// File: internal/merge/merge.go
// Brief: First-write-wins merge over ordered language tables.

// Package merge folds ordered per-module language tables into one
// consolidated table per channel and locale. Precedence is positional:
// the first module to define a key owns it, later values for the same
// key are ignored. Output is serialized with keys in lexicographic
// order, so merging is deterministic for a given source order.
package merge

import (
	"io"
	"sort"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/langfile"
)

// Source is one module's language table, positioned by precedence.
type Source struct {
	Module  string
	Entries map[string]string
}

// Result is a merged table plus per-key provenance.
type Result struct {
	values  map[string]string
	winners map[string]string
	sources int
}

// Merge folds the sources in order. Every key present in any source
// appears in the result; the earliest source defining a key supplies
// its value.
func Merge(sources []Source) *Result {
	r := &Result{
		values:  make(map[string]string),
		winners: make(map[string]string),
		sources: len(sources),
	}
	for _, src := range sources {
		for key, value := range src.Entries {
			if _, ok := r.values[key]; ok {
				continue
			}
			r.values[key] = value
			r.winners[key] = src.Module
		}
	}
	return r
}

// Len returns the number of merged keys.
func (r *Result) Len() int {
	return len(r.values)
}

// SourceCount returns how many sources were folded.
func (r *Result) SourceCount() int {
	return r.sources
}

// Value returns the merged value for key.
func (r *Result) Value(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Winner returns the module whose value was kept for key.
func (r *Result) Winner(key string) (string, bool) {
	m, ok := r.winners[key]
	return m, ok
}

// Keys returns all merged keys in lexicographic order.
func (r *Result) Keys() []string {
	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Table returns a copy of the merged mapping.
func (r *Result) Table() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Encode writes the merged table as indented JSON with sorted keys.
func (r *Result) Encode(w io.Writer) error {
	return langfile.EncodeSortedJSON(w, r.values)
}
