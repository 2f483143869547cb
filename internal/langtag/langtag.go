// Package langtag handles Bedrock locale codes such as "en_US" and
// "zh_CN". Bedrock spells tags with an underscore; BCP 47 tooling wants
// a hyphen, so this package converts between the two and exposes an
// English display name for reports.
package langtag

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Tag is a Bedrock locale code in ll_CC form.
type Tag string

// Parse validates a Bedrock locale code. The original spelling is kept;
// validation only confirms the code resolves to a known language.
func Parse(s string) (Tag, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Errorf("empty locale code")
	}
	if _, err := language.Parse(strings.ReplaceAll(trimmed, "_", "-")); err != nil {
		return "", fmt.Errorf("invalid locale code %q: %w", trimmed, err)
	}
	return Tag(trimmed), nil
}

// FromFile derives the locale code from a file name such as
// "zh_CN.lang" or "zh_CN.json".
func FromFile(name string) (Tag, error) {
	base := name
	for _, ext := range []string{".lang", ".json", ".tsv"} {
		if strings.HasSuffix(base, ext) {
			base = strings.TrimSuffix(base, ext)
			break
		}
	}
	return Parse(base)
}

// File returns the file name for this locale with the given extension,
// e.g. File(".json") on "en_US" yields "en_US.json".
func (t Tag) File(ext string) string {
	return string(t) + ext
}

// BCP47 returns the tag in canonical BCP 47 form.
func (t Tag) BCP47() language.Tag {
	parsed, err := language.Parse(strings.ReplaceAll(string(t), "_", "-"))
	if err != nil {
		return language.Und
	}
	return parsed
}

// DisplayName returns the English name of the locale, or the raw code
// when the locale is unknown.
func (t Tag) DisplayName() string {
	parsed := t.BCP47()
	if parsed == language.Und {
		return string(t)
	}
	name := display.English.Tags().Name(parsed)
	if name == "" {
		return string(t)
	}
	return name
}

func (t Tag) String() string {
	return string(t)
}
