// File: internal/extract/extract.go
// Brief: Language file extraction from appx packages.

// Package extract pulls Bedrock language files out of appx archives.
// An appx is a zip; the files of interest live under
// data/resource_packs/<pack>/texts/<locale>.lang. Each extracted file
// is cleaned and written twice: the normalized .lang and its .json
// table in original key order.
package extract

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-logr/logr"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/langfile"
)

const packPrefix = "data/resource_packs/"

// Options selects what to extract.
type Options struct {
	// TargetFiles lists the locale file names to keep, e.g. en_US.lang.
	TargetFiles []string
	// SkipSubtrees drops entries whose first path segment below the
	// resource pack root matches, used to keep beta content out of a
	// release tree.
	SkipSubtrees []string
}

// Result summarizes one archive extraction.
type Result struct {
	// Created lists the .lang files written, relative to the output
	// directory. Every entry has a .json sibling.
	Created []string
	// Skipped counts entries dropped by SkipSubtrees.
	Skipped int
}

// Archive extracts the targeted language files from the appx at
// archivePath into outputDir.
func Archive(ctx context.Context, log logr.Logger, archivePath, outputDir string, opts Options) (*Result, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	defer reader.Close()

	targets := make(map[string]struct{}, len(opts.TargetFiles))
	for _, name := range opts.TargetFiles {
		targets[name] = struct{}{}
	}
	skip := make(map[string]struct{}, len(opts.SkipSubtrees))
	for _, name := range opts.SkipSubtrees {
		skip[name] = struct{}{}
	}

	var entries []*zip.File
	for _, entry := range reader.File {
		name := entry.Name
		if strings.HasPrefix(name, packPrefix) &&
			strings.Contains(name, "/texts/") &&
			strings.HasSuffix(name, ".lang") {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	result := &Result{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, ok := targets[path.Base(entry.Name)]; !ok {
			continue
		}

		rel := strings.TrimPrefix(entry.Name, packPrefix)
		rel = strings.ReplaceAll(rel, "/texts/", "/")

		if first, _, found := strings.Cut(rel, "/"); found {
			if _, drop := skip[first]; drop {
				log.V(1).Info("skipping excluded subtree entry", "entry", rel)
				result.Skipped++
				continue
			}
		}

		cleaned, err := readCleaned(entry)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name, err)
		}
		if cleaned == "" {
			continue
		}

		langPath := filepath.Join(outputDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(langPath), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(langPath, []byte(cleaned), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", langPath, err)
		}

		table := langfile.Parse(cleaned)
		jsonPath := strings.TrimSuffix(langPath, ".lang") + ".json"
		if err := writeTable(jsonPath, table); err != nil {
			return nil, fmt.Errorf("write %s: %w", jsonPath, err)
		}

		log.Info("extracted", "file", rel, "entries", table.Len())
		result.Created = append(result.Created, rel)
	}
	return result, nil
}

// readCleaned decodes one zip entry, dropping bytes that are not valid
// UTF-8, and normalizes it.
func readCleaned(entry *zip.File) (string, error) {
	rc, err := entry.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	raw := new(strings.Builder)
	if _, err := io.Copy(raw, rc); err != nil {
		return "", err
	}
	return langfile.Clean(strings.ToValidUTF8(raw.String(), "")), nil
}

func writeTable(path string, table *langfile.File) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := table.EncodeJSON(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
