// File: cmd/mcbepatch/diff.go
// Brief: CLI command wiring and implementation for 'diff'.

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/report"
)

func newDiffCommand() *cobra.Command {
	var unified bool
	var quiet bool
	cmd := &cobra.Command{
		Use:   "diff LEFT RIGHT",
		Short: "Compare two JSON language tables key by key",
		Long: "diff loads two flat JSON language tables and reports the keys\n" +
			"added, removed, and changed between them. With --unified it prints\n" +
			"a unified diff of the key=value renderings instead; with --quiet it\n" +
			"prints nothing and exits 1 when the tables differ.",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, args[0], args[1], unified, quiet)
		},
	}
	cmd.Flags().BoolVar(&unified, "unified", false, "Print a unified diff of the key=value renderings")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Print nothing; exit 1 when the tables differ")
	cmd.Example = `  # What changed between two game releases?
  mcbepatch diff old/merged/release/zh_CN.json merged/release/zh_CN.json

  # Gate a CI job on the tables being identical
  mcbepatch diff --quiet merged/release/en_US.json merged/beta/en_US.json`
	return cmd
}

func runDiff(cmd *cobra.Command, leftPath, rightPath string, unified, quiet bool) error {
	leftPath, err := homedir.Expand(leftPath)
	if err != nil {
		return fmt.Errorf("expand path: %w", err)
	}
	rightPath, err = homedir.Expand(rightPath)
	if err != nil {
		return fmt.Errorf("expand path: %w", err)
	}

	d, err := report.BuildTableDiff(leftPath, rightPath)
	if err != nil {
		return err
	}
	if quiet {
		if d.Changed() {
			return errTablesDiffer
		}
		return nil
	}

	out := cmd.OutOrStdout()
	if !d.Changed() {
		fmt.Fprintf(out, "Tables match (%d keys)\n", d.Left.Keys)
		return nil
	}
	if unified {
		fmt.Fprint(out, d.Unified)
		return nil
	}

	fmt.Fprintf(out, "%s: %d keys\n", d.Left.Path, d.Left.Keys)
	fmt.Fprintf(out, "%s: %d keys\n", d.Right.Path, d.Right.Keys)
	fmt.Fprintf(out, "%d added, %d removed, %d changed\n",
		d.Summary.Added, d.Summary.Removed, d.Summary.Changed)
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	changed := color.New(color.FgYellow)
	for _, change := range d.Changes {
		switch change.Change {
		case "added":
			fmt.Fprintln(out, added.Sprintf("+ %s = %s", change.Key, change.After))
		case "removed":
			fmt.Fprintln(out, removed.Sprintf("- %s = %s", change.Key, change.Before))
		default:
			fmt.Fprintln(out, changed.Sprintf("~ %s = %s (was %s)", change.Key, change.After, change.Before))
		}
	}
	return nil
}
