// File: cmd/mcbepatch/diff_test.go
// Brief: Tests for the diff command.

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func forcePlainColors(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func writeDiffTable(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDiffReportsAddedRemovedChanged(t *testing.T) {
	forcePlainColors(t)
	dir := t.TempDir()
	left := writeDiffTable(t, dir, "left.json",
		`{"key.a": "Apple", "key.b": "Banana", "key.c": "Cherry"}`)
	right := writeDiffTable(t, dir, "right.json",
		`{"key.b": "Banana", "key.c": "Cerise", "key.d": "Date"}`)

	stdout, _, err := execute(t, newDiffCommand(), left, right)
	if err != nil {
		t.Fatalf("diff returned error: %v", err)
	}
	if !strings.Contains(stdout, "1 added, 1 removed, 1 changed") {
		t.Fatalf("summary missing from %q", stdout)
	}
	for _, line := range []string{
		"+ key.d = Date",
		"- key.a = Apple",
		"~ key.c = Cerise (was Cherry)",
	} {
		if !strings.Contains(stdout, line) {
			t.Fatalf("output missing %q:\n%s", line, stdout)
		}
	}
}

func TestDiffIdenticalTables(t *testing.T) {
	forcePlainColors(t)
	dir := t.TempDir()
	left := writeDiffTable(t, dir, "left.json", `{"key.a": "Apple", "key.b": "Banana"}`)
	right := writeDiffTable(t, dir, "right.json", `{"key.b": "Banana", "key.a": "Apple"}`)

	stdout, _, err := execute(t, newDiffCommand(), left, right)
	if err != nil {
		t.Fatalf("diff returned error: %v", err)
	}
	if !strings.Contains(stdout, "Tables match (2 keys)") {
		t.Fatalf("unexpected output %q", stdout)
	}
}

func TestDiffUnifiedOutput(t *testing.T) {
	forcePlainColors(t)
	dir := t.TempDir()
	left := writeDiffTable(t, dir, "left.json", `{"key.a": "Apple"}`)
	right := writeDiffTable(t, dir, "right.json", `{"key.a": "Apricot"}`)

	stdout, _, err := execute(t, newDiffCommand(), "--unified", left, right)
	if err != nil {
		t.Fatalf("diff returned error: %v", err)
	}
	if !strings.Contains(stdout, "-key.a=Apple") || !strings.Contains(stdout, "+key.a=Apricot") {
		t.Fatalf("unified diff missing lines:\n%s", stdout)
	}
}

func TestDiffQuietSignalsDifferenceSilently(t *testing.T) {
	dir := t.TempDir()
	left := writeDiffTable(t, dir, "left.json", `{"key.a": "Apple"}`)
	right := writeDiffTable(t, dir, "right.json", `{"key.a": "Apricot"}`)

	stdout, stderr, err := execute(t, newDiffCommand(), "--quiet", left, right)
	if !errors.Is(err, errTablesDiffer) {
		t.Fatalf("expected errTablesDiffer, got %v", err)
	}
	if stdout != "" || stderr != "" {
		t.Fatalf("quiet mode must not print, got %q %q", stdout, stderr)
	}

	same := writeDiffTable(t, dir, "same.json", `{"key.a": "Apple"}`)
	if _, _, err := execute(t, newDiffCommand(), "--quiet", left, same); err != nil {
		t.Fatalf("identical tables must succeed, got %v", err)
	}
}
