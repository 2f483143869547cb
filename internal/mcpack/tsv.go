// File: internal/mcpack/tsv.go
// Brief: Translation extraction from Crowdin TSV exports.

package mcpack

import (
	"fmt"
	"os"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/langfile"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/tsvutil"
)

// TranslationsFromTSV reads a Crowdin TSV export and returns the
// translated table. Column 1 is the key; the Translation column is
// preferred, with the Source string column as fallback for rows the
// translators have not covered yet. The first occurrence of a key
// wins, matching .lang semantics.
func TranslationsFromTSV(path string) (*langfile.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tsv: %w", err)
	}
	defer f.Close()

	r := tsvutil.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	table := langfile.NewFile()
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == "Key" {
			continue
		}
		if len(row) < 2 || row[0] == "" {
			continue
		}
		value := row[1]
		if len(row) >= 4 && row[3] != "" {
			value = row[3]
		}
		if value == "" {
			continue
		}
		table.Add(row[0], value)
	}
	return table, nil
}
