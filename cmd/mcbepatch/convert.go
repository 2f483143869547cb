// File: cmd/mcbepatch/convert.go
// Brief: CLI command wiring and implementation for 'convert'.

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/crowdin"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/langfile"
)

func newConvertCommand() *cobra.Command {
	var crowdinSource bool
	cmd := &cobra.Command{
		Use:   "convert INPUT [OUTPUT]",
		Short: "Convert a language table between .lang and .json",
		Long: "convert reads a .lang or .json language table and writes the other\n" +
			"representation. JSON output is key sorted; .lang output keeps the\n" +
			"document order of the input. With --crowdin-source it instead writes\n" +
			"a Crowdin source file with empty context blocks, ready for manual\n" +
			"upload.",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := ""
			if len(args) == 2 {
				output = args[1]
			}
			return runConvert(cmd, args[0], output, crowdinSource)
		},
	}
	cmd.Flags().BoolVar(&crowdinSource, "crowdin-source", false, "Write a Crowdin source file with empty contexts instead of converting")
	cmd.Example = `  # Produce texts/zh_CN.json from a shipped .lang table
  mcbepatch convert texts/zh_CN.lang

  # Convert back, naming the output explicitly
  mcbepatch convert merged/release/zh_CN.json out/zh_CN.lang

  # Build a Crowdin source skeleton from the merged source table
  mcbepatch convert merged/release/en_US.json --crowdin-source`
	return cmd
}

func runConvert(cmd *cobra.Command, input, output string, crowdinSource bool) error {
	input, err := homedir.Expand(input)
	if err != nil {
		return fmt.Errorf("expand input path: %w", err)
	}
	if output != "" {
		if output, err = homedir.Expand(output); err != nil {
			return fmt.Errorf("expand output path: %w", err)
		}
	}

	table, err := loadTable(input)
	if err != nil {
		return err
	}

	var data []byte
	switch {
	case crowdinSource:
		entries := make([]crowdin.SourceString, 0, table.Len())
		for _, e := range table.Entries() {
			entries = append(entries, crowdin.SourceString{Key: e.Key, Text: e.Value})
		}
		var buf bytes.Buffer
		if err := crowdin.EncodeJSON(&buf, entries); err != nil {
			return err
		}
		data = buf.Bytes()
		if output == "" {
			output = swapExt(input, ".crowdin.json")
		}
	case strings.EqualFold(filepath.Ext(input), ".lang"):
		var buf bytes.Buffer
		if err := langfile.EncodeSortedJSON(&buf, table.Map()); err != nil {
			return err
		}
		data = buf.Bytes()
		if output == "" {
			output = swapExt(input, ".json")
		}
	default:
		data = []byte(table.FormatLang())
		if output == "" {
			output = swapExt(input, ".lang")
		}
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d strings)\n", output, table.Len())
	return nil
}

// loadTable picks the parser by file extension.
func loadTable(path string) (*langfile.File, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lang":
		return langfile.Load(path)
	case ".json":
		return langfile.LoadJSON(path)
	default:
		return nil, fmt.Errorf("unsupported input extension %q (expected .lang or .json)", filepath.Ext(path))
	}
}

func swapExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
