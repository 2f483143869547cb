// File: internal/catalog/catalog.go
// Brief: SQLite provenance catalog for merge runs.

// Package catalog records merge provenance as a SQLite artifact: which
// module won each key, per channel and language. The pipeline only
// writes the catalog; inspection happens with sqlite3 or similar tools.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/merge"
)

const (
	createMetaTableStmt = `
CREATE TABLE IF NOT EXISTS catalog_meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);`
	createMergesTableStmt = `
CREATE TABLE IF NOT EXISTS merges (
  channel TEXT NOT NULL,
  lang TEXT NOT NULL,
  keys INTEGER NOT NULL,
  sources INTEGER NOT NULL,
  PRIMARY KEY(channel, lang)
);`
	createEntriesTableStmt = `
CREATE TABLE IF NOT EXISTS entries (
  channel TEXT NOT NULL,
  lang TEXT NOT NULL,
  key TEXT NOT NULL,
  value TEXT NOT NULL,
  module TEXT NOT NULL,
  PRIMARY KEY(channel, lang, key)
);`
)

// Write stores the outcomes of a merge run at path. Skipped and failed
// pairs are left out. The file appears atomically: rows are written to
// a temp database in one transaction and renamed into place.
func Write(ctx context.Context, path, toolVersion string, outcomes []merge.Outcome) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("catalog output path is required")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "mcbepatch-catalog-*.sqlite")
	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}
	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()
	cleanupTmp := func() { _ = os.Remove(tmpPath) }

	if err := writeCatalog(ctx, tmpPath, toolVersion, outcomes); err != nil {
		cleanupTmp()
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanupTmp()
		return fmt.Errorf("finalize catalog: %w", err)
	}
	return nil
}

func writeCatalog(ctx context.Context, path, toolVersion string, outcomes []merge.Outcome) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	defer db.Close()

	for _, stmt := range []string{createMetaTableStmt, createMergesTableStmt, createEntriesTableStmt} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create catalog schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertMeta(ctx, tx, map[string]string{
		"tool_version": toolVersion,
		"created_at":   time.Now().UTC().Format(time.RFC3339Nano),
		"channels":     strconv.Itoa(countChannels(outcomes)),
	}); err != nil {
		return err
	}

	mergeStmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO merges(channel, lang, keys, sources) VALUES(?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare merges insert: %w", err)
	}
	defer mergeStmt.Close()

	entryStmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO entries(channel, lang, key, value, module) VALUES(?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare entries insert: %w", err)
	}
	defer entryStmt.Close()

	for _, outcome := range outcomes {
		if outcome.Skipped || outcome.Err != nil || outcome.Result == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		lang := langColumn(outcome.Locale)
		if _, err := mergeStmt.ExecContext(ctx, outcome.Channel, lang,
			outcome.Result.Len(), outcome.Result.SourceCount()); err != nil {
			return fmt.Errorf("insert merge %s/%s: %w", outcome.Channel, lang, err)
		}
		for _, key := range outcome.Result.Keys() {
			value, _ := outcome.Result.Value(key)
			module, _ := outcome.Result.Winner(key)
			if _, err := entryStmt.ExecContext(ctx, outcome.Channel, lang, key, value, module); err != nil {
				return fmt.Errorf("insert entry %s: %w", key, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertMeta(ctx context.Context, tx *sql.Tx, values map[string]string) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO catalog_meta(key, value) VALUES(?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare meta insert: %w", err)
	}
	defer stmt.Close()
	for k, v := range values {
		if _, err := stmt.ExecContext(ctx, k, v); err != nil {
			return fmt.Errorf("insert meta %s: %w", k, err)
		}
	}
	return nil
}

func countChannels(outcomes []merge.Outcome) int {
	seen := make(map[string]bool)
	for _, outcome := range outcomes {
		seen[outcome.Channel] = true
	}
	return len(seen)
}

// langColumn strips the table file extension, "en_US.json" -> "en_US".
func langColumn(locale string) string {
	return strings.TrimSuffix(locale, filepath.Ext(locale))
}
