// File: internal/catalog/catalog_test.go
// Brief: Tests for the provenance catalog writer.

package catalog

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/merge"
)

func openCatalog(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("count %s rows: %v", table, err)
	}
	return count
}

func TestWriteRecordsWinnersPerKey(t *testing.T) {
	result := merge.Merge([]merge.Source{
		{Module: "vanilla", Entries: map[string]string{"key.a": "first", "key.b": "b"}},
		{Module: "oreui", Entries: map[string]string{"key.a": "late", "key.c": "c"}},
	})
	outcomes := []merge.Outcome{{Channel: "release", Locale: "en_US.json", Result: result}}

	path := filepath.Join(t.TempDir(), "catalog.sqlite")
	if err := Write(context.Background(), path, "1.2.3", outcomes); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	db := openCatalog(t, path)

	var module, value string
	err := db.QueryRow(`SELECT module, value FROM entries WHERE channel='release' AND lang='en_US' AND key='key.a'`).
		Scan(&module, &value)
	if err != nil {
		t.Fatalf("query entry: %v", err)
	}
	if module != "vanilla" || value != "first" {
		t.Fatalf("key.a recorded as %s=%q, want vanilla=first", module, value)
	}

	var keys, sources int
	err = db.QueryRow(`SELECT keys, sources FROM merges WHERE channel='release' AND lang='en_US'`).
		Scan(&keys, &sources)
	if err != nil {
		t.Fatalf("query merge summary: %v", err)
	}
	if keys != 3 || sources != 2 {
		t.Fatalf("summary = %d keys from %d sources, want 3 from 2", keys, sources)
	}

	var version string
	if err := db.QueryRow(`SELECT value FROM catalog_meta WHERE key='tool_version'`).Scan(&version); err != nil {
		t.Fatalf("query meta: %v", err)
	}
	if version != "1.2.3" {
		t.Fatalf("tool_version = %q", version)
	}
}

func TestWriteLeavesOutSkippedAndFailedPairs(t *testing.T) {
	good := merge.Merge([]merge.Source{
		{Module: "vanilla", Entries: map[string]string{"key.a": "a"}},
	})
	outcomes := []merge.Outcome{
		{Channel: "release", Locale: "en_US.json", Result: good},
		{Channel: "release", Locale: "fr_FR.json", Skipped: true, Reason: "no language tables found"},
		{Channel: "beta", Locale: "en_US.json"},
	}

	path := filepath.Join(t.TempDir(), "catalog.sqlite")
	if err := Write(context.Background(), path, "dev", outcomes); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	db := openCatalog(t, path)
	if got := countRows(t, db, "merges"); got != 1 {
		t.Fatalf("expected 1 merge row, got %d", got)
	}
	if got := countRows(t, db, "entries"); got != 1 {
		t.Fatalf("expected 1 entry row, got %d", got)
	}

	var channels string
	if err := db.QueryRow(`SELECT value FROM catalog_meta WHERE key='channels'`).Scan(&channels); err != nil {
		t.Fatalf("query meta: %v", err)
	}
	if channels != "2" {
		t.Fatalf("channels = %q, want 2", channels)
	}
}

func TestWriteReplacesExistingCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.sqlite")
	first := []merge.Outcome{{
		Channel: "release", Locale: "en_US.json",
		Result: merge.Merge([]merge.Source{{Module: "vanilla", Entries: map[string]string{"key.a": "a", "key.b": "b"}}}),
	}}
	if err := Write(context.Background(), path, "dev", first); err != nil {
		t.Fatalf("first write: %v", err)
	}

	second := []merge.Outcome{{
		Channel: "release", Locale: "en_US.json",
		Result: merge.Merge([]merge.Source{{Module: "vanilla", Entries: map[string]string{"key.c": "c"}}}),
	}}
	if err := Write(context.Background(), path, "dev", second); err != nil {
		t.Fatalf("second write: %v", err)
	}

	db := openCatalog(t, path)
	if got := countRows(t, db, "entries"); got != 1 {
		t.Fatalf("expected the rewritten catalog to hold 1 entry, got %d", got)
	}
}

func TestWriteRejectsEmptyPath(t *testing.T) {
	if err := Write(context.Background(), "  ", "dev", nil); err == nil {
		t.Fatal("expected error for empty path")
	}
}
