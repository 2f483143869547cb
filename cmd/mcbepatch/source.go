// File: cmd/mcbepatch/source.go
// Brief: CLI command wiring and implementation for 'source'.

package main

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/config"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/crowdin"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/logging"
)

func newSourceCommand(configPath, baseDir, logLevel *string) *cobra.Command {
	var tsv bool
	cmd := &cobra.Command{
		Use:   "source",
		Short: "Build Crowdin source files from the merged tables",
		Long: "source reads the merged source-locale table of every channel and\n" +
			"writes a Crowdin source file next to it, pairing each string with\n" +
			"the official translations as translator context. Channels that have\n" +
			"not been merged yet are skipped.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, baseDir)
			if err != nil {
				return err
			}
			log, err := logging.New(*logLevel)
			if err != nil {
				return err
			}
			return runSource(cmd, cfg, log, tsv)
		},
	}
	cmd.Flags().BoolVar(&tsv, "tsv", false, "Write tab-separated sheets instead of Crowdin JSON")
	return cmd
}

func runSource(cmd *cobra.Command, cfg *config.Config, log logr.Logger, tsv bool) error {
	format := crowdin.FormatJSON
	if tsv {
		format = crowdin.FormatTSV
	}
	channels := make([]string, 0, len(cfg.Channels))
	for _, ch := range cfg.Channels {
		channels = append(channels, ch.Name)
	}
	references := make([]string, 0, len(cfg.Locales))
	for _, locale := range cfg.TargetLocales() {
		references = append(references, locale+".json")
	}

	outcomes, err := crowdin.Run(cmd.Context(), log, crowdin.Options{
		MergedDir:  cfg.MergedPath(),
		SourcesDir: cfg.SourcesPath(),
		Channels:   channels,
		SourceFile: cfg.SourceLocale + ".json",
		References: references,
		Format:     format,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, outcome := range outcomes {
		switch {
		case outcome.Skipped:
			fmt.Fprintf(out, "%s: skipped (%s)\n", outcome.Channel, outcome.Reason)
		case outcome.Err != nil:
			fmt.Fprintf(out, "%s: failed: %v\n", outcome.Channel, outcome.Err)
			failed++
		default:
			fmt.Fprintf(out, "%s: %s (%d strings)\n", outcome.Channel, outcome.Output, outcome.Entries)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d source builds failed", failed, len(outcomes))
	}
	return nil
}
