// main.go bootstraps mcbepatch: it builds the root Cobra command and executes with a signal-aware context.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/config"
)

// errTablesDiffer reports a drift found under 'diff --quiet'. The
// process exits nonzero without printing anything.
var errTablesDiffer = errors.New("tables differ")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	handleError(err)
	if err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	var baseDir string
	logLevel := "info"
	cmd := &cobra.Command{
		Use:   "mcbepatch",
		Short: "Build pipeline for the Minecraft Bedrock Simplified Chinese patch",
		Long: "mcbepatch rebuilds the Bedrock localization patch from upstream game\n" +
			"packages: it downloads store appx files, extracts their language\n" +
			"tables, merges the per-module strings for every release channel,\n" +
			"publishes translation sources, and packs translated tables into\n" +
			"distributable resource packs.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the mcbepatch config file (defaults to ./mcbepatch.yaml, then ~/.config/mcbepatch)")
	cmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "Base directory for pipeline inputs and outputs (overrides base_dir from the config)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "Log level for mcbepatch output (debug, info, warn, error)")
	cmd.AddCommand(
		newExtractCommand(&configPath, &baseDir, &logLevel),
		newConvertCommand(),
		newMergeCommand(&configPath, &baseDir, &logLevel),
		newSourceCommand(&configPath, &baseDir, &logLevel),
		newPackCommand(&configPath, &baseDir, &logLevel),
		newDiffCommand(),
		newConfigCommand(&configPath, &baseDir),
		newVersionCommand(),
	)
	cmd.Example = `  # Download the release and beta packages and extract their language files
  mcbepatch extract

  # Merge the extracted tables for every channel and locale
  mcbepatch merge --jobs 4

  # Publish Crowdin source sheets as TSV
  mcbepatch source --tsv

  # Pack translated tables into .mcpack archives
  mcbepatch pack`
	return cmd
}

func handleError(err error) {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return
	}
	if errors.Is(err, errTablesDiffer) {
		return
	}
	message := err.Error()
	switch {
	case errors.Is(err, context.Canceled):
		message = "interrupted"
	case errors.Is(err, context.DeadlineExceeded):
		message = fmt.Sprintf("%s\nHint: the store link resolver can be slow; retry or point store_endpoint at a mirror.", err)
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}

// loadConfig builds the effective configuration: defaults, then the
// config file, then MCBEPATCH_* environment variables, then flags.
func loadConfig(configPath, baseDir *string) (*config.Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix("MCBEPATCH")
	v.AutomaticEnv()
	// Unmarshal never consults AutomaticEnv, so every scalar key that
	// may arrive through the environment needs an explicit binding.
	for _, key := range []string{
		"base_dir", "extracted_dir", "merged_dir", "sources_dir",
		"patched_dir", "packed_dir", "resources_dir",
		"store_endpoint", "source_locale", "jobs",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	explicit := strings.TrimSpace(*configPath)
	if explicit == "" {
		explicit = os.Getenv("MCBEPATCH_CONFIG")
	}
	if explicit != "" {
		expanded, err := homedir.Expand(explicit)
		if err != nil {
			return nil, fmt.Errorf("expand config path: %w", err)
		}
		explicit = expanded
	}
	configureConfigFile(v, explicit)
	if err := readConfigFile(v, explicit != ""); err != nil {
		return nil, err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	if override := strings.TrimSpace(*baseDir); override != "" {
		expanded, err := homedir.Expand(override)
		if err != nil {
			return nil, fmt.Errorf("expand base directory: %w", err)
		}
		cfg.BaseDir = expanded
	}
	return cfg, nil
}

func configureConfigFile(v *viper.Viper, explicitPath string) {
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		return
	}
	v.SetConfigName("mcbepatch")
	v.AddConfigPath(".")
	for _, dir := range configSearchDirs() {
		v.AddConfigPath(dir)
	}
}

func readConfigFile(v *viper.Viper, strict bool) error {
	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if errors.As(err, &cfgErr) && !strict {
			return nil
		}
		return err
	}
	return nil
}

func configSearchDirs() []string {
	added := make(map[string]struct{})
	var dirs []string
	add := func(path string) {
		if path == "" {
			return
		}
		if _, ok := added[path]; ok {
			return
		}
		added[path] = struct{}{}
		dirs = append(dirs, path)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		add(filepath.Join(xdg, "mcbepatch"))
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		add(filepath.Join(home, ".config", "mcbepatch"))
		add(filepath.Join(home, ".mcbepatch"))
	}
	return dirs
}
