// File: cmd/mcbepatch/pack.go
// Brief: CLI command wiring and implementation for 'pack'.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/config"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/logging"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/mcpack"
)

func newPackCommand(configPath, baseDir, logLevel *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack translated tables into .mcpack resource packs",
		Long: "pack converts the Crowdin TSV exports under the patched directory\n" +
			"to .lang tables, then builds one resource pack per translated\n" +
			"branch from those tables and the static pack resources. Archives\n" +
			"are named after the branch and the captured game version and\n" +
			"written as both .zip and .mcpack.",
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
			return runPack(cmd, cfg, log)
		},
	}
	return cmd
}

func runPack(cmd *cobra.Command, cfg *config.Config, log logr.Logger) error {
	outcomes, err := mcpack.Run(cmd.Context(), log, mcpack.Options{
		PatchedDir:   cfg.PatchedPath(),
		PackedDir:    cfg.PackedPath(),
		ResourcesDir: cfg.ResourcesPath(),
		VersionsPath: filepath.Join(cfg.BaseDir, "versions.json"),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(outcomes) == 0 {
		fmt.Fprintln(out, "No translated branches found")
		return nil
	}
	for _, outcome := range outcomes {
		if outcome.Skipped {
			fmt.Fprintf(out, "%s: skipped (%s)\n", outcome.Branch, outcome.Reason)
			continue
		}
		fmt.Fprintf(out, "%s %s: %s (%d language files)\n",
			outcome.Branch, outcome.Version, outcome.McpackPath, outcome.LangFiles)
	}
	return nil
}
