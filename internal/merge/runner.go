// File: internal/merge/runner.go
// Brief: Channel-by-locale merge orchestration and output writing.

package merge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/collect"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/langfile"
)

// Channel describes one release channel's extracted tree.
type Channel struct {
	Name string
	Root string
	// Exclude lists variant subtrees kept out of the top-level pass,
	// typically the other channel's subtree in a shared tree.
	Exclude []string
	// Subtree names the variant directory whose modules are appended
	// after the top-level modules, each prefixed with the subtree name.
	// The subtree itself never merges as a top-level module.
	Subtree string
}

// Options configures a merge run.
type Options struct {
	Channels  []Channel
	Locales   []string // table file names, e.g. "en_US.json"
	Order     []Pattern
	OutputDir string
	Jobs      int
}

// Outcome reports one channel/locale merge.
type Outcome struct {
	Channel string
	Locale  string
	Output  string
	Modules []string // modules that contributed, in precedence order
	Result  *Result
	Skipped bool
	Reason  string
	Err     error
}

// Run merges every configured channel and locale pair. A failed output
// write is recorded on its outcome and does not stop the remaining
// pairs; Run itself only fails on cancellation or when a channel tree
// cannot be listed.
func Run(ctx context.Context, log logr.Logger, opts Options) ([]Outcome, error) {
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}
	outcomes := make([]Outcome, len(opts.Channels)*len(opts.Locales))
	index := func(ci, li int) int { return ci*len(opts.Locales) + li }

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for ci, channel := range opts.Channels {
		ordered, skipReason, err := channelOrder(log, channel, opts.Order)
		if err != nil {
			return nil, err
		}
		if skipReason != "" {
			log.Info("skipping channel", "channel", channel.Name, "root", channel.Root, "reason", skipReason)
			for li, locale := range opts.Locales {
				outcomes[index(ci, li)] = Outcome{
					Channel: channel.Name,
					Locale:  locale,
					Skipped: true,
					Reason:  skipReason,
				}
			}
			continue
		}
		for li, locale := range opts.Locales {
			ci, li := ci, li
			channel, locale, ordered := channel, locale, ordered
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				outcomes[index(ci, li)] = mergeOne(log, channel, ordered, locale, opts.OutputDir)
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// channelOrder captures the channel's module listing once and resolves
// the merge order, including the variant subtree when present.
func channelOrder(log logr.Logger, channel Channel, order []Pattern) ([]string, string, error) {
	modules, err := collect.Modules(channel.Root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "channel tree missing", nil
		}
		return nil, "", err
	}

	excluded := make(map[string]bool, len(channel.Exclude)+1)
	for _, name := range channel.Exclude {
		excluded[name] = true
	}
	if channel.Subtree != "" {
		excluded[channel.Subtree] = true
	}
	ordered := Resolve(modules, order, excluded)

	if channel.Subtree != "" {
		nested, err := collect.Modules(filepath.Join(channel.Root, channel.Subtree))
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.V(1).Info("variant subtree missing", "channel", channel.Name, "subtree", channel.Subtree)
		case err != nil:
			return nil, "", err
		default:
			for _, name := range Resolve(nested, order, nil) {
				ordered = append(ordered, channel.Subtree+"/"+name)
			}
		}
	}
	return ordered, "", nil
}

func mergeOne(log logr.Logger, channel Channel, ordered []string, locale, outputDir string) Outcome {
	outcome := Outcome{Channel: channel.Name, Locale: locale}

	sources := collect.Sources(channel.Root, ordered, locale)
	if len(sources) == 0 {
		log.Info("no language tables found", "channel", channel.Name, "locale", locale)
		outcome.Skipped = true
		outcome.Reason = "no language tables found"
		return outcome
	}

	loaded := make([]Source, 0, len(sources))
	for _, src := range sources {
		table, err := langfile.LoadJSON(src.Path)
		if err != nil {
			log.Error(err, "skipping unreadable table", "channel", channel.Name, "locale", locale, "module", src.Module)
			continue
		}
		loaded = append(loaded, Source{Module: src.Module, Entries: table.Map()})
		outcome.Modules = append(outcome.Modules, src.Module)
	}

	outcome.Result = Merge(loaded)
	outcome.Output = filepath.Join(outputDir, channel.Name, locale)
	if err := writeResult(outcome.Output, outcome.Result); err != nil {
		log.Error(err, "write merged table", "channel", channel.Name, "locale", locale, "output", outcome.Output)
		outcome.Err = fmt.Errorf("write %s: %w", outcome.Output, err)
		return outcome
	}
	log.Info("merged", "channel", channel.Name, "locale", locale,
		"modules", len(loaded), "keys", outcome.Result.Len(), "output", outcome.Output)
	return outcome
}

func writeResult(path string, result *Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := result.Encode(f); err != nil {
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
