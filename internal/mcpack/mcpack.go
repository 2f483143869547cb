// File: internal/mcpack/mcpack.go
// Brief: TSV conversion and per-branch resource pack assembly.

// Package mcpack turns patched translation exports into distributable
// resource packs. Each branch directory of TSV files is converted to
// .lang siblings and packed into a zip plus a byte-identical .mcpack,
// named after the branch and its pack version.
package mcpack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/langfile"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/versions"
)

const packNamePrefix = "MCBE_Chinese_Patch"

// Options configures a packaging run.
type Options struct {
	// PatchedDir holds one directory of Crowdin TSV exports per branch.
	PatchedDir string
	// PackedDir receives the finished archives.
	PackedDir string
	// ResourcesDir provides manifest.json and the static texts files.
	ResourcesDir string
	// VersionsPath points at the versions.json from the last extraction.
	VersionsPath string
}

// Outcome reports one branch.
type Outcome struct {
	Branch     string
	Version    string
	ZipPath    string
	McpackPath string
	LangFiles  int
	Skipped    bool
	Reason     string
}

// Run converts every branch's TSV exports to .lang siblings, then
// packs each branch that has language files. A missing patched tree
// packs nothing; a branch without language files is skipped. The
// release branch is versioned from the release capture, every other
// branch from the development capture.
func Run(ctx context.Context, log logr.Logger, opts Options) ([]Outcome, error) {
	branches, err := listBranches(opts.PatchedDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Info("patched directory missing, nothing to pack", "dir", opts.PatchedDir)
			return nil, nil
		}
		return nil, err
	}

	for _, branch := range branches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := convertBranch(log, filepath.Join(opts.PatchedDir, branch)); err != nil {
			return nil, err
		}
	}

	recorded, err := versions.Read(opts.VersionsPath)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(branches))
	for _, branch := range branches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outcome, err := packBranch(log, opts, recorded, branch)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func listBranches(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list branches in %s: %w", dir, err)
	}
	branches := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			branches = append(branches, e.Name())
		}
	}
	return branches, nil
}

func convertBranch(log logr.Logger, branchDir string) error {
	entries, err := os.ReadDir(branchDir)
	if err != nil {
		return fmt.Errorf("list %s: %w", branchDir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".tsv") {
			continue
		}
		tsvPath := filepath.Join(branchDir, e.Name())
		table, err := TranslationsFromTSV(tsvPath)
		if err != nil {
			return err
		}
		langPath := strings.TrimSuffix(tsvPath, ".tsv") + ".lang"
		if err := writeLang(langPath, table); err != nil {
			return fmt.Errorf("write %s: %w", langPath, err)
		}
		log.Info("converted", "tsv", tsvPath, "keys", table.Len())
	}
	return nil
}

func packBranch(log logr.Logger, opts Options, recorded *versions.File, branch string) (Outcome, error) {
	outcome := Outcome{Branch: branch}
	branchDir := filepath.Join(opts.PatchedDir, branch)

	langFiles, err := listLangFiles(branchDir)
	if err != nil {
		return outcome, err
	}
	if len(langFiles) == 0 {
		log.Info("skipping branch without language files", "branch", branch)
		outcome.Skipped = true
		outcome.Reason = "no language files"
		return outcome, nil
	}

	version, err := packVersion(recorded, branch)
	if err != nil {
		return outcome, err
	}
	outcome.Version = version
	outcome.LangFiles = len(langFiles)

	manifest := filepath.Join(opts.ResourcesDir, "manifest.json")
	if _, err := os.Stat(manifest); err != nil {
		return outcome, fmt.Errorf("pack manifest: %w", err)
	}
	files := []packFile{{Name: "manifest.json", Path: manifest}}
	for _, name := range langFiles {
		files = append(files, packFile{Name: "texts/" + name, Path: filepath.Join(branchDir, name)})
	}
	languagesJSON := filepath.Join(opts.ResourcesDir, "texts", "languages.json")
	if _, err := os.Stat(languagesJSON); err == nil {
		files = append(files, packFile{Name: "texts/languages.json", Path: languagesJSON})
	}

	baseName := fmt.Sprintf("%s_%s_%s", packNamePrefix, branch, version)
	outcome.ZipPath = filepath.Join(opts.PackedDir, baseName+".zip")
	outcome.McpackPath = filepath.Join(opts.PackedDir, baseName+".mcpack")
	if err := writeDeterministicZip(outcome.ZipPath, files); err != nil {
		return outcome, fmt.Errorf("write %s: %w", outcome.ZipPath, err)
	}
	if err := copyFile(outcome.ZipPath, outcome.McpackPath); err != nil {
		return outcome, fmt.Errorf("write %s: %w", outcome.McpackPath, err)
	}
	log.Info("packed", "branch", branch, "version", version,
		"languages", len(langFiles), "zip", outcome.ZipPath)
	return outcome, nil
}

func packVersion(recorded *versions.File, branch string) (string, error) {
	if branch == "release" {
		raw, ok := recorded.Get("release")
		if !ok {
			return "", fmt.Errorf("no release version recorded for branch %s", branch)
		}
		return versions.FormatRelease(raw)
	}
	raw, ok := recorded.Get("development")
	if !ok {
		return "", fmt.Errorf("no development version recorded for branch %s", branch)
	}
	return versions.FormatDev(raw)
}

func listLangFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lang") {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func writeLang(path string, table *langfile.File) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, table.FormatLang()); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
