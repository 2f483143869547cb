// File: internal/langfile/langfile_test.go
// Brief: Tests for .lang parsing, cleaning, and formatting.

package langfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseSkipsCommentsAndBlankLines(t *testing.T) {
	content := "## header comment\n\nitem.apple.name=Apple\n\n## trailing comment\nitem.stone.name=Stone\n"
	f := Parse(content)
	if f.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", f.Len())
	}
	if v, ok := f.Get("item.apple.name"); !ok || v != "Apple" {
		t.Fatalf("item.apple.name = %q, %v", v, ok)
	}
	if v, ok := f.Get("item.stone.name"); !ok || v != "Stone" {
		t.Fatalf("item.stone.name = %q, %v", v, ok)
	}
}

func TestParseKeepsFirstValueForRepeatedKey(t *testing.T) {
	f := Parse("key.a=first\nkey.a=second\nkey.b=only")
	if v, _ := f.Get("key.a"); v != "first" {
		t.Fatalf("expected first value to win, got %q", v)
	}
	if f.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", f.Len())
	}
}

func TestParseSplitsOnFirstSeparatorOnly(t *testing.T) {
	f := Parse("formula=a=b+c")
	if v, _ := f.Get("formula"); v != "a=b+c" {
		t.Fatalf("expected value to keep later separators, got %q", v)
	}
}

func TestParseIgnoresLineWithLeadingSeparator(t *testing.T) {
	f := Parse("=orphan value\nvalid=yes")
	if f.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", f.Len())
	}
	if _, ok := f.Get(""); ok {
		t.Fatalf("empty key must not be stored")
	}
}

func TestParseTrimsInlineTabComment(t *testing.T) {
	f := Parse("menu.play=Play\t#generated via tool")
	if v, _ := f.Get("menu.play"); v != "Play" {
		t.Fatalf("expected inline comment removed, got %q", v)
	}
}

func TestParsePreservesNoBreakSpaceInValue(t *testing.T) {
	nbsp := string(rune(0xA0))
	f := Parse("unit.meters=10" + nbsp + "m" + nbsp + " \t")
	if v, _ := f.Get("unit.meters"); v != "10"+nbsp+"m"+nbsp {
		t.Fatalf("expected U+00A0 preserved and ASCII tail trimmed, got %q", v)
	}
}

func TestParseEntriesKeepFileOrder(t *testing.T) {
	f := Parse("z.last=1\na.first=2\nm.middle=3")
	entries := f.Entries()
	want := []string{"z.last", "a.first", "m.middle"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, key := range want {
		if entries[i].Key != key {
			t.Fatalf("entry %d = %q, want %q", i, entries[i].Key, key)
		}
	}
}

func TestCleanNormalizesEndingsAndDropsBlankLines(t *testing.T) {
	raw := string(rune(0xFEFF)) + "key.a=1\r\n\r\nkey.b=2\rkey.c=3\n   \n"
	got := Clean(raw)
	want := "key.a=1\nkey.b=2\nkey.c=3"
	if got != want {
		t.Fatalf("Clean = %q, want %q", got, want)
	}
}

func TestCleanRemovesDuplicateKeysButKeepsComments(t *testing.T) {
	raw := "## first block\nkey.a=1\nkey.a=2\n## second block\nkey.b=3\n"
	got := Clean(raw)
	want := "## first block\nkey.a=1\n## second block\nkey.b=3"
	if got != want {
		t.Fatalf("Clean = %q, want %q", got, want)
	}
}

func TestCleanReturnsEmptyForWhitespaceOnlyContent(t *testing.T) {
	if got := Clean(" \r\n\t\n  \n"); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

func TestFormatLangJoinsEntriesWithoutTrailingNewline(t *testing.T) {
	f := NewFile()
	f.Add("key.b", "2")
	f.Add("key.a", "1")
	got := f.FormatLang()
	want := "key.b=2\nkey.a=1"
	if got != want {
		t.Fatalf("FormatLang = %q, want %q", got, want)
	}
}

func TestAddReportsDuplicate(t *testing.T) {
	f := NewFile()
	if !f.Add("k", "v1") {
		t.Fatalf("first add should succeed")
	}
	if f.Add("k", "v2") {
		t.Fatalf("second add should be rejected")
	}
	if v, _ := f.Get("k"); v != "v1" {
		t.Fatalf("expected original value, got %q", v)
	}
}

func TestLoadCleansBeforeParsing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en_US.lang")
	raw := string(rune(0xFEFF)) + "## locale file\r\nkey.a=1\r\nkey.a=override\r\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write lang file: %v", err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if f.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", f.Len())
	}
	if v, _ := f.Get("key.a"); v != "1" {
		t.Fatalf("expected first occurrence kept, got %q", v)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.lang")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
