// File: cmd/mcbepatch/extract.go
// Brief: CLI command wiring and implementation for 'extract'.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/config"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/extract"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/logging"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/store"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/ui"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/versions"
)

func newExtractCommand(configPath, baseDir, logLevel *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Download the configured store packages and extract their language files",
		Long: "extract resolves a download link for every configured package\n" +
			"family, streams the x64 appx into the base directory, and unpacks\n" +
			"the shipped language tables into the extracted tree. Captured game\n" +
			"versions are recorded in versions.json for the pack stage.",
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
			return runExtract(cmd, cfg, log)
		},
	}
	return cmd
}

func runExtract(cmd *cobra.Command, cfg *config.Config, log logr.Logger) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	interactive := ui.Interactive(errOut)
	client := &store.Client{
		Endpoint:    cfg.StoreEndpoint,
		Progress:    errOut,
		Interactive: interactive,
	}

	captured := make(map[string]string, len(cfg.Packages))
	failed := 0
	for _, pkg := range cfg.Packages {
		if err := ctx.Err(); err != nil {
			return err
		}

		spinner := ui.NewSpinner(errOut, "Resolving "+pkg.Family, interactive)
		listing, err := client.Resolve(ctx, pkg.Family)
		if err != nil {
			spinner.Stop("failed")
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error(err, "resolve package link", "family", pkg.Family, "folder", pkg.Folder)
			failed++
			continue
		}
		spinner.Stop(listing.Name)

		dl, err := client.Retrieve(ctx, listing, cfg.BaseDir)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error(err, "download package", "family", pkg.Family, "file", listing.Name)
			failed++
			continue
		}
		if dl.Cached {
			log.Info("using cached archive", "file", dl.Name)
		}

		opts := extract.Options{TargetFiles: cfg.LocaleFiles(".lang")}
		if pkg.Folder == "release" {
			// Release payloads carry a dev-only beta subtree.
			opts.SkipSubtrees = []string{"beta"}
		}
		outputDir := filepath.Join(cfg.ExtractedPath(), pkg.Folder)
		res, err := extract.Archive(ctx, log, dl.Path, outputDir, opts)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error(err, "extract archive", "file", dl.Name, "folder", pkg.Folder)
			failed++
			continue
		}
		if dl.Version != "" {
			captured[pkg.Folder] = dl.Version
		}
		fmt.Fprintf(out, "%s: extracted %d language files to %s\n", pkg.Folder, len(res.Created), outputDir)
	}

	if len(captured) > 0 {
		versionsPath := filepath.Join(cfg.BaseDir, "versions.json")
		if err := versions.Write(versionsPath, captured); err != nil {
			return fmt.Errorf("record versions: %w", err)
		}
		log.Info("versions recorded", "path", versionsPath)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d packages failed", failed, len(cfg.Packages))
	}
	return nil
}
