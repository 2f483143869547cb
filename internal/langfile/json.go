// File: internal/langfile/json.go
// Brief: JSON codec for flat string tables, order preserving.

package langfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// DecodeJSON parses a flat JSON object of string values, preserving the
// document order of its keys. A repeated key replaces the earlier value
// in place. Nested objects, arrays, and non-string values are rejected.
func DecodeJSON(data []byte) (*File, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decode json: expected object, got %v", tok)
	}
	f := NewFile()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("decode json: unexpected key token %v", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		value, ok := valTok.(string)
		if !ok {
			return nil, fmt.Errorf("decode json: value for key %q is not a string", key)
		}
		f.set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return f, nil
}

// LoadJSON reads and decodes a flat JSON string table from disk.
func LoadJSON(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json file: %w", err)
	}
	f, err := DecodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// EncodeJSON writes the entries as a two-space indented JSON object in
// entry order. Non-ASCII text is emitted as UTF-8 and no trailing
// newline is added.
func (f *File) EncodeJSON(w io.Writer) error {
	return writePairs(w, f.entries)
}

// EncodeSortedJSON writes the mapping as a two-space indented JSON
// object with keys in lexicographic byte order.
func EncodeSortedJSON(w io.Writer, m map[string]string) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]Entry, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Entry{Key: k, Value: m[k]})
	}
	return writePairs(w, pairs)
}

func writePairs(w io.Writer, pairs []Entry) error {
	if len(pairs) == 0 {
		_, err := io.WriteString(w, "{}")
		return err
	}
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, e := range pairs {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		if err := writeJSONString(&buf, e.Key); err != nil {
			return err
		}
		buf.WriteString(": ")
		if err := writeJSONString(&buf, e.Value); err != nil {
			return err
		}
	}
	buf.WriteString("\n}")
	_, err := w.Write(buf.Bytes())
	return err
}

// writeJSONString encodes one string without HTML escaping, so UTF-8
// text stays readable in the output.
func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
