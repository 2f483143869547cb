// File: internal/merge/order.go
// Brief: Merge-order patterns and module order resolution.

package merge

import (
	"fmt"
	"sort"
	"strings"
)

// PatternKind tags the two forms a merge-order entry can take.
type PatternKind int

const (
	// PatternLiteral matches exactly one module name.
	PatternLiteral PatternKind = iota
	// PatternPrefix matches every module whose name starts with a stem,
	// written as "stem*" in configuration.
	PatternPrefix
)

// Pattern is one parsed merge-order entry.
type Pattern struct {
	Kind PatternKind
	// Name holds the literal module name, or the prefix stem with the
	// trailing '*' removed.
	Name string
}

// ParsePattern parses a single merge-order entry. A trailing '*' marks
// a prefix pattern; '*' anywhere else is rejected.
func ParsePattern(raw string) (Pattern, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Pattern{}, fmt.Errorf("empty merge order entry")
	}
	if strings.HasSuffix(trimmed, "*") {
		stem := strings.TrimSuffix(trimmed, "*")
		if strings.Contains(stem, "*") {
			return Pattern{}, fmt.Errorf("merge order entry %q: '*' is only valid as a trailing wildcard", trimmed)
		}
		return Pattern{Kind: PatternPrefix, Name: stem}, nil
	}
	if strings.Contains(trimmed, "*") {
		return Pattern{}, fmt.Errorf("merge order entry %q: '*' is only valid as a trailing wildcard", trimmed)
	}
	return Pattern{Kind: PatternLiteral, Name: trimmed}, nil
}

// ParseOrder parses a full merge-order list.
func ParseOrder(raw []string) ([]Pattern, error) {
	patterns := make([]Pattern, 0, len(raw))
	for i, entry := range raw {
		p, err := ParsePattern(entry)
		if err != nil {
			return nil, fmt.Errorf("merge order entry %d: %w", i+1, err)
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// Match reports whether the pattern selects the given module name.
func (p Pattern) Match(name string) bool {
	switch p.Kind {
	case PatternPrefix:
		return strings.HasPrefix(name, p.Name)
	default:
		return name == p.Name
	}
}

func (p Pattern) String() string {
	if p.Kind == PatternPrefix {
		return p.Name + "*"
	}
	return p.Name
}

// Resolve orders the available modules for merging. Modules claimed by
// an earlier pattern are not reclaimed by a later one; prefix matches
// come out in lexicographic order; modules no pattern names are
// appended afterwards, also lexicographically. Excluded names never
// appear in the result.
func Resolve(available []string, order []Pattern, excluded map[string]bool) []string {
	names := make([]string, 0, len(available))
	for _, name := range available {
		if !excluded[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	claimed := make([]bool, len(names))
	ordered := make([]string, 0, len(names))
	for _, p := range order {
		for i, name := range names {
			if !claimed[i] && p.Match(name) {
				claimed[i] = true
				ordered = append(ordered, name)
			}
		}
	}
	for i, name := range names {
		if !claimed[i] {
			ordered = append(ordered, name)
		}
	}
	return ordered
}
