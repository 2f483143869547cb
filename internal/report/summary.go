// summary.go prints the per-pair outcome table after 'mcbepatch merge'.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/langtag"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/merge"
)

// sampleWidth caps the SAMPLE column so one long translation cannot
// push the remaining columns off the screen.
const sampleWidth = 30

var summaryHeader = []string{"CHANNEL", "LANGUAGE", "NAME", "KEYS", "SOURCES", "SAMPLE", "TOP MODULE"}

const (
	colKeys    = 3
	colSources = 4
)

// Summary renders one line per channel/locale pair. Sample values are
// often CJK, so cells are padded by display width rather than byte
// length, and color is applied to the padded line so the escape codes
// never enter the width math.
func Summary(w io.Writer, outcomes []merge.Outcome) {
	rows := make([][]string, 0, len(outcomes))
	paints := make([]*color.Color, 0, len(outcomes))
	for _, outcome := range outcomes {
		row, paint := summaryRow(outcome)
		rows = append(rows, row)
		paints = append(paints, paint)
	}

	widths := make([]int, len(summaryHeader))
	for i, h := range summaryHeader {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	fmt.Fprintln(w, formatRow(summaryHeader, widths, color.New(color.Bold)))
	for i, row := range rows {
		fmt.Fprintln(w, formatRow(row, widths, paints[i]))
	}
}

func summaryRow(outcome merge.Outcome) ([]string, *color.Color) {
	code := strings.TrimSuffix(outcome.Locale, filepath.Ext(outcome.Locale))
	name := code
	if tag, err := langtag.FromFile(outcome.Locale); err == nil {
		name = tag.DisplayName()
	}
	row := []string{outcome.Channel, code, name, "-", "-", "-", "-"}

	switch {
	case outcome.Skipped:
		row[6] = "skipped: " + outcome.Reason
		return row, color.New(color.FgYellow)
	case outcome.Err != nil:
		if outcome.Result != nil {
			row[colKeys] = strconv.Itoa(outcome.Result.Len())
			row[colSources] = strconv.Itoa(outcome.Result.SourceCount())
		}
		row[6] = "error: " + outcome.Err.Error()
		return row, color.New(color.FgHiRed)
	case outcome.Result == nil:
		return row, nil
	}

	row[colKeys] = strconv.Itoa(outcome.Result.Len())
	row[colSources] = strconv.Itoa(outcome.Result.SourceCount())
	row[5] = sampleCell(outcome.Result)
	row[6] = topModuleCell(outcome.Result)
	return row, nil
}

func formatRow(cells []string, widths []int, paint *color.Color) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = padCell(cell, widths[i], i == colKeys || i == colSources)
	}
	line := strings.TrimRight(strings.Join(padded, "  "), " ")
	if paint == nil || color.NoColor {
		return line
	}
	return paint.Sprint(line)
}

func padCell(text string, width int, right bool) string {
	pad := width - runewidth.StringWidth(text)
	if pad <= 0 {
		return text
	}
	if right {
		return strings.Repeat(" ", pad) + text
	}
	return text + strings.Repeat(" ", pad)
}

// sampleCell shows the value of the first key in sort order, collapsed
// to a single line.
func sampleCell(result *merge.Result) string {
	keys := result.Keys()
	if len(keys) == 0 {
		return "-"
	}
	value, _ := result.Value(keys[0])
	value = strings.Join(strings.Fields(value), " ")
	if value == "" {
		return "-"
	}
	return trimToWidth(value, sampleWidth)
}

// topModuleCell names the module that won the most keys, with its share
// of the merged table. Ties go to the lexicographically smallest name.
func topModuleCell(result *merge.Result) string {
	counts := make(map[string]int)
	for _, key := range result.Keys() {
		if module, ok := result.Winner(key); ok {
			counts[module]++
		}
	}
	if len(counts) == 0 {
		return "-"
	}
	top := ""
	for module, n := range counts {
		if top == "" || n > counts[top] || (n == counts[top] && module < top) {
			top = module
		}
	}
	return fmt.Sprintf("%s (%d%%)", top, counts[top]*100/result.Len())
}

// trimToWidth trims by rune width so double-width runes never split.
func trimToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	var out []rune
	used := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			rw = 1
		}
		if used+rw > width-1 {
			break
		}
		out = append(out, r)
		used += rw
	}
	return string(out) + "…"
}
