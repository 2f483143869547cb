// File: cmd/mcbepatch/config.go
// Brief: CLI command wiring and implementation for 'config'.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/config"
)

func newConfigCommand(configPath, baseDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "config",
		Short:         "Inspect or scaffold the mcbepatch configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newConfigShowCommand(configPath, baseDir),
		newConfigInitCommand(),
	)
	return cmd
}

func newConfigShowCommand(configPath, baseDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Long: "show resolves the configuration the other commands would use,\n" +
			"combining defaults, the config file, MCBEPATCH_* environment\n" +
			"variables, and flags, and prints it as YAML.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, baseDir)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encode configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:           "init [PATH]",
		Short:         "Write a config file populated with the defaults",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "mcbepatch.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			path, err := homedir.Expand(path)
			if err != nil {
				return fmt.Errorf("expand path: %w", err)
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}
			data, err := yaml.Marshal(config.Default())
			if err != nil {
				return fmt.Errorf("encode configuration: %w", err)
			}
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
