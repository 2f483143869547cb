// File: internal/report/diff.go
// Brief: Structured diff between two language tables.

// Package report renders human-facing views of pipeline results: the
// table diff for patch review and the post-merge summary table.
package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/langfile"
)

// TableDiff captures drift between two language tables.
type TableDiff struct {
	Left    TableSide
	Right   TableSide
	Summary DiffSummary
	Changes []KeyChange
	// Unified holds the unified diff of the key=value renderings,
	// empty when the tables match.
	Unified string
}

// TableSide describes one side of the diff.
type TableSide struct {
	Path string
	Keys int
}

// DiffSummary aggregates change counts.
type DiffSummary struct {
	Added   int
	Removed int
	Changed int
}

// KeyChange captures one key's drift.
type KeyChange struct {
	Key    string
	Change string // added, removed, or changed
	Before string
	After  string
}

// Changed reports whether the tables differ.
func (d *TableDiff) Changed() bool {
	return d.Summary.Added+d.Summary.Removed+d.Summary.Changed > 0
}

// BuildTableDiff loads two flat JSON language tables and classifies
// every key as added, removed, or changed, sorted by key.
func BuildTableDiff(leftPath, rightPath string) (*TableDiff, error) {
	left, err := langfile.LoadJSON(leftPath)
	if err != nil {
		return nil, fmt.Errorf("load left table: %w", err)
	}
	right, err := langfile.LoadJSON(rightPath)
	if err != nil {
		return nil, fmt.Errorf("load right table: %w", err)
	}

	leftMap := left.Map()
	rightMap := right.Map()
	diff := &TableDiff{
		Left:  TableSide{Path: leftPath, Keys: len(leftMap)},
		Right: TableSide{Path: rightPath, Keys: len(rightMap)},
	}

	seen := make(map[string]struct{}, len(leftMap)+len(rightMap))
	for key := range leftMap {
		seen[key] = struct{}{}
	}
	for key := range rightMap {
		seen[key] = struct{}{}
	}

	changes := make([]KeyChange, 0, len(seen))
	for key := range seen {
		before, leftOK := leftMap[key]
		after, rightOK := rightMap[key]
		change := ""
		switch {
		case leftOK && !rightOK:
			change = "removed"
			diff.Summary.Removed++
		case !leftOK && rightOK:
			change = "added"
			diff.Summary.Added++
		default:
			if before == after {
				continue
			}
			change = "changed"
			diff.Summary.Changed++
		}
		changes = append(changes, KeyChange{Key: key, Change: change, Before: before, After: after})
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Key < changes[j].Key })
	diff.Changes = changes

	if diff.Changed() {
		diff.Unified = unified(leftMap, rightMap, leftPath, rightPath)
	}
	return diff, nil
}

func unified(leftMap, rightMap map[string]string, leftPath, rightPath string) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(dumpLines(leftMap)),
		B:        difflib.SplitLines(dumpLines(rightMap)),
		FromFile: fmt.Sprintf("left/%s", filepath.Base(leftPath)),
		ToFile:   fmt.Sprintf("right/%s", filepath.Base(rightPath)),
		Context:  3,
	}
	out, _ := difflib.GetUnifiedDiffString(diff)
	return out
}

// dumpLines renders a table as sorted key=value lines so the unified
// diff stays stable across runs.
func dumpLines(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(m[key])
		b.WriteString("\n")
	}
	return b.String()
}
