// File: internal/extract/extract_test.go
// Brief: Tests for appx language extraction.

package extract

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/langfile"
)

func buildAppx(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.appx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	w := zip.NewWriter(f)
	for name, content := range files {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return path
}

func TestArchiveExtractsTargetLocalesOnly(t *testing.T) {
	appx := buildAppx(t, map[string]string{
		"data/resource_packs/vanilla/texts/en_US.lang": "key.a=1\nkey.b=2\n",
		"data/resource_packs/vanilla/texts/fr_FR.lang": "key.a=un\n",
		"data/resource_packs/vanilla/textures/a.png":   "binary",
		"AppxManifest.xml":                             "<xml/>",
	})
	outDir := t.TempDir()

	res, err := Archive(context.Background(), logr.Discard(), appx, outDir, Options{
		TargetFiles: []string{"en_US.lang"},
	})
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if len(res.Created) != 1 || res.Created[0] != "vanilla/en_US.lang" {
		t.Fatalf("created = %v", res.Created)
	}
	if _, err := os.Stat(filepath.Join(outDir, "vanilla", "fr_FR.lang")); !os.IsNotExist(err) {
		t.Fatalf("untargeted locale extracted")
	}

	table, err := langfile.LoadJSON(filepath.Join(outDir, "vanilla", "en_US.json"))
	if err != nil {
		t.Fatalf("load json sibling: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", table.Len())
	}
}

func TestArchiveCleansContentBeforeWriting(t *testing.T) {
	appx := buildAppx(t, map[string]string{
		"data/resource_packs/vanilla/texts/en_US.lang": string(rune(0xFEFF)) + "key.a=1\r\nkey.a=dup\r\n\r\nkey.b=2\r\n",
	})
	outDir := t.TempDir()

	if _, err := Archive(context.Background(), logr.Discard(), appx, outDir, Options{
		TargetFiles: []string{"en_US.lang"},
	}); err != nil {
		t.Fatalf("archive: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "vanilla", "en_US.lang"))
	if err != nil {
		t.Fatalf("read lang: %v", err)
	}
	want := "key.a=1\nkey.b=2"
	if string(data) != want {
		t.Fatalf("cleaned lang = %q, want %q", data, want)
	}
}

func TestArchiveSkipsExcludedSubtrees(t *testing.T) {
	appx := buildAppx(t, map[string]string{
		"data/resource_packs/vanilla/texts/en_US.lang":      "key.a=1\n",
		"data/resource_packs/beta/vanilla/texts/en_US.lang": "key.beta=1\n",
	})
	outDir := t.TempDir()

	res, err := Archive(context.Background(), logr.Discard(), appx, outDir, Options{
		TargetFiles:  []string{"en_US.lang"},
		SkipSubtrees: []string{"beta"},
	})
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if res.Skipped != 1 {
		t.Fatalf("expected 1 skipped entry, got %d", res.Skipped)
	}
	if _, err := os.Stat(filepath.Join(outDir, "beta")); !os.IsNotExist(err) {
		t.Fatalf("excluded subtree written")
	}
}

func TestArchiveKeepsNestedSubtreesWhenNotExcluded(t *testing.T) {
	appx := buildAppx(t, map[string]string{
		"data/resource_packs/beta/vanilla/texts/en_US.lang": "key.beta=1\n",
	})
	outDir := t.TempDir()

	res, err := Archive(context.Background(), logr.Discard(), appx, outDir, Options{
		TargetFiles: []string{"en_US.lang"},
	})
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if len(res.Created) != 1 || res.Created[0] != "beta/vanilla/en_US.lang" {
		t.Fatalf("created = %v", res.Created)
	}
}

func TestArchiveSkipsFilesEmptyAfterCleaning(t *testing.T) {
	appx := buildAppx(t, map[string]string{
		"data/resource_packs/empty/texts/en_US.lang":   "\r\n\r\n   \r\n",
		"data/resource_packs/vanilla/texts/en_US.lang": "key.a=1\n",
	})
	outDir := t.TempDir()

	res, err := Archive(context.Background(), logr.Discard(), appx, outDir, Options{
		TargetFiles: []string{"en_US.lang"},
	})
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if len(res.Created) != 1 || res.Created[0] != "vanilla/en_US.lang" {
		t.Fatalf("created = %v", res.Created)
	}
	if _, err := os.Stat(filepath.Join(outDir, "empty")); !os.IsNotExist(err) {
		t.Fatalf("empty table written")
	}
}

func TestArchiveRejectsMissingArchive(t *testing.T) {
	_, err := Archive(context.Background(), logr.Discard(), filepath.Join(t.TempDir(), "no.appx"), t.TempDir(), Options{})
	if err == nil {
		t.Fatalf("expected error for missing archive")
	}
}
