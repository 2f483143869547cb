// File: internal/crowdin/runner.go
// Brief: Per-channel source file builds with skip semantics.

package crowdin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/langfile"
)

// Format selects the source file layout.
type Format int

const (
	// FormatJSON emits {key: {text, crowdinContext}} records.
	FormatJSON Format = iota
	// FormatTSV emits a Key/Source string/Context/Translation sheet.
	FormatTSV
)

// Options configures a source build run.
type Options struct {
	MergedDir  string
	SourcesDir string
	Channels   []string
	// SourceFile names the merged source table, e.g. "en_US.json".
	SourceFile string
	// References name the translated tables that provide context. JSON
	// context lines are labeled by file name, TSV lines by locale code.
	References []string
	Format     Format
}

// Outcome reports one channel.
type Outcome struct {
	Channel string
	Output  string
	Entries int
	Skipped bool
	Reason  string
	Err     error
}

// Run builds one source file per channel. A channel without merged
// tables is skipped rather than failed, and a missing reference table
// only loses its context lines. Write failures are recorded on the
// outcome so the remaining channels still build.
func Run(ctx context.Context, log logr.Logger, opts Options) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(opts.Channels))
	for _, channel := range opts.Channels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, buildChannel(log, opts, channel))
	}
	return outcomes, nil
}

func buildChannel(log logr.Logger, opts Options, channel string) Outcome {
	outcome := Outcome{Channel: channel}

	srcDir := filepath.Join(opts.MergedDir, channel)
	if _, err := os.Stat(srcDir); errors.Is(err, os.ErrNotExist) {
		log.Info("skipping channel", "channel", channel, "reason", "merged tables missing")
		outcome.Skipped = true
		outcome.Reason = "merged tables missing"
		return outcome
	}

	source, err := langfile.LoadJSON(filepath.Join(srcDir, opts.SourceFile))
	if err != nil {
		log.Error(err, "skipping channel without readable source table", "channel", channel)
		outcome.Skipped = true
		outcome.Reason = "source table unreadable"
		return outcome
	}

	refs := make([]Reference, 0, len(opts.References))
	for _, name := range opts.References {
		table, err := langfile.LoadJSON(filepath.Join(srcDir, name))
		if err != nil {
			log.Info("reference table unavailable", "channel", channel, "table", name, "error", err.Error())
			continue
		}
		refs = append(refs, Reference{Label: referenceLabel(name, opts.Format), Table: table})
	}

	entries := Build(source, refs)
	outcome.Entries = len(entries)
	outcome.Output = filepath.Join(opts.SourcesDir, channel, outputName(opts.SourceFile, opts.Format))
	if err := writeSource(outcome.Output, entries, opts.Format); err != nil {
		log.Error(err, "write source file", "channel", channel, "output", outcome.Output)
		outcome.Err = fmt.Errorf("write %s: %w", outcome.Output, err)
		return outcome
	}
	log.Info("source file written", "channel", channel, "entries", len(entries), "output", outcome.Output)
	return outcome
}

func referenceLabel(name string, format Format) string {
	if format == FormatTSV {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}

func outputName(sourceFile string, format Format) string {
	if format == FormatTSV {
		return strings.TrimSuffix(sourceFile, filepath.Ext(sourceFile)) + ".tsv"
	}
	return sourceFile
}

func writeSource(path string, entries []SourceString, format Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	encode := EncodeJSON
	if format == FormatTSV {
		encode = EncodeTSV
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := encode(f, entries); err != nil {
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
