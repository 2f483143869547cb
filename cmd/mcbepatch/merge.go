// File: cmd/mcbepatch/merge.go
// Brief: CLI command wiring and implementation for 'merge'.

package main

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/buildinfo"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/catalog"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/config"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/logging"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/merge"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/report"
)

func newMergeCommand(configPath, baseDir, logLevel *string) *cobra.Command {
	var jobs int
	var catalogPath string
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge extracted language tables for every channel and locale",
		Long: "merge walks each configured channel tree, loads the per-module\n" +
			"language tables in precedence order, and writes one merged table\n" +
			"per channel and locale. Earlier modules win conflicting keys, and\n" +
			"variant subtrees merge after the top-level modules.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, baseDir)
			if err != nil {
				return err
			}
			if jobs > 0 {
				cfg.Jobs = jobs
			}
			log, err := logging.New(*logLevel)
			if err != nil {
				return err
			}
			return runMerge(cmd, cfg, log, catalogPath)
		},
	}
	cmd.Flags().IntVar(&jobs, "jobs", 0, "Concurrent channel/locale merges (defaults to the configured jobs, then the CPU count)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Write a SQLite provenance catalog to this path after merging")
	return cmd
}

func runMerge(cmd *cobra.Command, cfg *config.Config, log logr.Logger, catalogPath string) error {
	ctx := cmd.Context()
	outcomes, err := merge.Run(ctx, log, merge.Options{
		Channels:  cfg.MergeChannels(),
		Locales:   cfg.LocaleFiles(".json"),
		Order:     cfg.OrderPatterns(),
		OutputDir: cfg.MergedPath(),
		Jobs:      cfg.Jobs,
	})
	if err != nil {
		return err
	}

	report.Summary(cmd.OutOrStdout(), outcomes)

	if catalogPath != "" {
		expanded, err := homedir.Expand(catalogPath)
		if err != nil {
			return fmt.Errorf("expand catalog path: %w", err)
		}
		if err := catalog.Write(ctx, expanded, buildinfo.Get().Version, outcomes); err != nil {
			return err
		}
		log.Info("catalog written", "path", expanded)
	}

	failed := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d merges failed", failed, len(outcomes))
	}
	return nil
}
