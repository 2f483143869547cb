// File: internal/crowdin/crowdin.go
// Brief: Crowdin source strings built from merged language tables.

// Package crowdin assembles translation source files for the Crowdin
// platform. Each source string carries the original text plus a
// context block listing the reference translations already shipped
// upstream, so translators see what the official locales chose.
package crowdin

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/langfile"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/tsvutil"
)

// contextHeader opens every context block.
const contextHeader = "Original Translation"

// SourceString is one entry of a Crowdin source file.
type SourceString struct {
	Key     string
	Text    string
	Context string
}

// Reference is a translated table whose values become translator
// context, one "<label>: <value>" line per key it shares with the
// source table.
type Reference struct {
	Label string
	Table *langfile.File
}

// Build pairs every source entry with its reference context. Entries
// keep the order of the source table, and context lines keep the
// order of the references.
func Build(source *langfile.File, refs []Reference) []SourceString {
	entries := source.Entries()
	out := make([]SourceString, len(entries))
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		out[i] = SourceString{Key: e.Key, Text: e.Value, Context: contextHeader}
		index[e.Key] = i
	}
	for _, ref := range refs {
		for _, e := range ref.Table.Entries() {
			if i, ok := index[e.Key]; ok {
				out[i].Context += "\n" + ref.Label + ": " + e.Value
			}
		}
	}
	return out
}

type stringWithContext struct {
	Text           string `json:"text"`
	CrowdinContext string `json:"crowdinContext"`
}

// EncodeJSON writes the entries as a two-space indented JSON object of
// {text, crowdinContext} records. Crowdin pairs uploads with exports
// by position, so the keys stay in build order, never sorted.
func EncodeJSON(w io.Writer, entries []SourceString) error {
	if len(entries) == 0 {
		_, err := io.WriteString(w, "{}")
		return err
	}
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, e := range entries {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		key, err := encodeValue(e.Key)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteString(": ")
		obj, err := encodeValue(stringWithContext{Text: e.Text, CrowdinContext: e.Context})
		if err != nil {
			return err
		}
		buf.Write(obj)
	}
	buf.WriteString("\n}")
	_, err := w.Write(buf.Bytes())
	return err
}

// EncodeTSV writes the entries as a tab-separated sheet with the
// header Key, Source string, Context, Translation. Rows leave the
// Translation column for Crowdin to fill in.
func EncodeTSV(w io.Writer, entries []SourceString) error {
	tw := tsvutil.NewWriter(w)
	if err := tw.Write([]string{"Key", "Source string", "Context", "Translation"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := tw.Write([]string{e.Key, e.Text, e.Context}); err != nil {
			return err
		}
	}
	tw.Flush()
	return tw.Error()
}

// encodeValue renders v without HTML escaping, indenting nested
// objects so they line up under their two-space indented key.
func encodeValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("  ", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
