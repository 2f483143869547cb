// File: internal/langfile/langfile.go
// Brief: Parser and formatter for Bedrock .lang key=value files.

// Package langfile reads and writes Minecraft Bedrock language files.
//
// The .lang format is line based: "key=value" pairs, "##" comment lines,
// and blank lines. Values may carry an inline comment introduced by a tab
// followed by '#'. Keys are unique per file; when a key repeats, the first
// occurrence wins.
package langfile

import (
	"fmt"
	"os"
	"strings"
)

// asciiSpace is the cutset used when trimming raw lines and values.
// strings.TrimSpace would also eat U+00A0, which several locales keep
// inside translated values, so trimming stays ASCII-only there.
const asciiSpace = " \t\r\n\f\v"

// Entry is a single key/value pair in file order.
type Entry struct {
	Key   string
	Value string
}

// File is an ordered set of unique key/value entries parsed from one
// language file.
type File struct {
	entries []Entry
	index   map[string]int
}

// NewFile returns an empty File.
func NewFile() *File {
	return &File{index: make(map[string]int)}
}

// Add appends a key/value pair unless the key is already present. It
// reports whether the pair was added.
func (f *File) Add(key, value string) bool {
	if _, ok := f.index[key]; ok {
		return false
	}
	f.index[key] = len(f.entries)
	f.entries = append(f.entries, Entry{Key: key, Value: value})
	return true
}

// set stores the pair, replacing the value in place when the key exists.
func (f *File) set(key, value string) {
	if i, ok := f.index[key]; ok {
		f.entries[i].Value = value
		return
	}
	f.index[key] = len(f.entries)
	f.entries = append(f.entries, Entry{Key: key, Value: value})
}

// Len returns the number of entries.
func (f *File) Len() int {
	return len(f.entries)
}

// Get returns the value stored under key.
func (f *File) Get(key string) (string, bool) {
	i, ok := f.index[key]
	if !ok {
		return "", false
	}
	return f.entries[i].Value, true
}

// Entries returns a copy of the entries in file order.
func (f *File) Entries() []Entry {
	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Map returns the entries as a plain map, discarding order.
func (f *File) Map() map[string]string {
	out := make(map[string]string, len(f.entries))
	for _, e := range f.entries {
		out[e.Key] = e.Value
	}
	return out
}

// Parse reads .lang content into an ordered File.
//
// Lines are trimmed of ASCII whitespace, blank lines and "##" comments
// are skipped, and only lines whose separator is not the first byte
// become entries. The key is trimmed of all Unicode whitespace; the
// value keeps U+00A0 and loses any trailing "\t#" inline comment.
// Repeated keys keep the first value.
func Parse(content string) *File {
	f := NewFile()
	for _, line := range strings.Split(content, "\n") {
		line = strings.Trim(line, asciiSpace)
		if line == "" || strings.HasPrefix(line, "##") {
			continue
		}
		eq := strings.Index(line, "=")
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		value := strings.Trim(line[eq+1:], asciiSpace)
		if i := strings.Index(value, "\t#"); i >= 0 {
			value = strings.TrimRight(value[:i], asciiSpace)
		}
		f.Add(key, value)
	}
	return f
}

// Clean normalizes raw .lang content: the UTF-8 BOM is dropped, line
// endings become LF, blank lines are removed, and repeated keys are
// reduced to their first occurrence while comment lines stay as-is.
func Clean(raw string) string {
	s := strings.ReplaceAll(raw, string(rune(0xFEFF)), "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var kept []string
	for _, line := range strings.Split(s, "\n") {
		if strings.Trim(line, asciiSpace) != "" {
			kept = append(kept, line)
		}
	}
	s = strings.Join(kept, "\n")
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return dropDuplicateKeys(s)
}

// dropDuplicateKeys removes every line that restates an already seen key.
// Comment and non key=value lines pass through untouched.
func dropDuplicateKeys(content string) string {
	seen := make(map[string]struct{})
	var out []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "##") {
			out = append(out, line)
			continue
		}
		eq := strings.Index(trimmed, "=")
		if eq <= 0 {
			out = append(out, line)
			continue
		}
		key := strings.TrimSpace(trimmed[:eq])
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// FormatLang renders the entries as .lang text, one key=value per line,
// without a trailing newline.
func (f *File) FormatLang() string {
	lines := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		lines = append(lines, e.Key+"="+e.Value)
	}
	return strings.Join(lines, "\n")
}

// Load reads, cleans, and parses a .lang file from disk.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lang file: %w", err)
	}
	return Parse(Clean(string(raw))), nil
}
