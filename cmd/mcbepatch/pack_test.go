// File: cmd/mcbepatch/pack_test.go
// Brief: End-to-end tests for the pack command.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/versions"
)

func writePackConfig(t *testing.T, base string) string {
	t.Helper()
	content := "base_dir: " + base + "\n" +
		"locales:\n" +
		"  - zh_CN\n" +
		"source_locale: zh_CN\n"
	path := filepath.Join(base, "mcbepatch.yaml")
	writeFixtureFile(t, path, content)
	return path
}

func TestPackCommandBuildsBranchArchives(t *testing.T) {
	isolateConfigDirs(t)
	base := t.TempDir()
	configPath := writePackConfig(t, base)
	writeFixtureFile(t, filepath.Join(base, "patched", "release", "zh_CN.tsv"),
		"Key\tSource string\tContext\tTranslation\r\n"+
			"key.a\tApple\tctx\t苹果\r\n")
	writeFixtureFile(t, filepath.Join(base, "patched", "empty", ".keep"), "")
	writeFixtureFile(t, filepath.Join(base, "resources", "manifest.json"), `{"format_version": 2}`)
	if err := versions.Write(filepath.Join(base, "versions.json"), map[string]string{
		"release":     "1.21.2301.0",
		"development": "1.21.2422.1",
	}); err != nil {
		t.Fatalf("write versions: %v", err)
	}

	baseDir := ""
	logLevel := "error"
	stdout, _, err := execute(t, newPackCommand(&configPath, &baseDir, &logLevel))
	if err != nil {
		t.Fatalf("pack returned error: %v", err)
	}

	zipPath := filepath.Join(base, "packed", "MCBE_Chinese_Patch_release_1.21.23.zip")
	if _, err := os.Stat(zipPath); err != nil {
		t.Fatalf("zip missing: %v", err)
	}
	mcpackPath := filepath.Join(base, "packed", "MCBE_Chinese_Patch_release_1.21.23.mcpack")
	if _, err := os.Stat(mcpackPath); err != nil {
		t.Fatalf("mcpack missing: %v", err)
	}

	if !strings.Contains(stdout, "release 1.21.23: "+mcpackPath+" (1 language files)") {
		t.Fatalf("release line missing:\n%s", stdout)
	}
	if !strings.Contains(stdout, "empty: skipped (no language files)") {
		t.Fatalf("empty-branch skip missing:\n%s", stdout)
	}
}

func TestPackCommandWithoutPatchedTree(t *testing.T) {
	isolateConfigDirs(t)
	base := t.TempDir()
	configPath := writePackConfig(t, base)

	baseDir := ""
	logLevel := "error"
	stdout, _, err := execute(t, newPackCommand(&configPath, &baseDir, &logLevel))
	if err != nil {
		t.Fatalf("pack returned error: %v", err)
	}
	if !strings.Contains(stdout, "No translated branches found") {
		t.Fatalf("unexpected output %q", stdout)
	}
}
