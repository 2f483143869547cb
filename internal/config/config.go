// File: internal/config/config.go
// Brief: Internal config package implementation for 'config'.

// Package config defines the file and flag configuration shared by
// mcbepatch commands, translating Viper settings into a strongly typed
// struct that the extract, merge, and pack pipelines consume.
package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/langtag"
	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/merge"
)

// Channel maps one release channel onto an extracted tree.
type Channel struct {
	Name string `mapstructure:"name" yaml:"name"`
	// Path is the extracted tree for this channel, relative to the
	// base directory. Channels may share a tree.
	Path string `mapstructure:"path" yaml:"path"`
	// Exclude lists variant subtrees kept out of the top-level merge
	// pass, typically the sibling channel's subtree.
	Exclude []string `mapstructure:"exclude" yaml:"exclude,omitempty"`
	// Subtree names the variant directory merged after the top-level
	// modules, with module names prefixed by the subtree name.
	Subtree string `mapstructure:"subtree" yaml:"subtree,omitempty"`
}

// Package identifies one Microsoft Store package to download and the
// extracted folder it feeds.
type Package struct {
	Family string `mapstructure:"family" yaml:"family"`
	Folder string `mapstructure:"folder" yaml:"folder"`
}

// Config holds every setting the pipeline reads. Paths are relative to
// BaseDir unless absolute.
type Config struct {
	BaseDir      string `mapstructure:"base_dir" yaml:"base_dir"`
	ExtractedDir string `mapstructure:"extracted_dir" yaml:"extracted_dir"`
	MergedDir    string `mapstructure:"merged_dir" yaml:"merged_dir"`
	SourcesDir   string `mapstructure:"sources_dir" yaml:"sources_dir"`
	PatchedDir   string `mapstructure:"patched_dir" yaml:"patched_dir"`
	PackedDir    string `mapstructure:"packed_dir" yaml:"packed_dir"`
	ResourcesDir string `mapstructure:"resources_dir" yaml:"resources_dir"`

	StoreEndpoint string    `mapstructure:"store_endpoint" yaml:"store_endpoint"`
	Packages      []Package `mapstructure:"packages" yaml:"packages"`

	Locales      []string `mapstructure:"locales" yaml:"locales"`
	SourceLocale string   `mapstructure:"source_locale" yaml:"source_locale"`

	MergeOrder []string  `mapstructure:"merge_order" yaml:"merge_order"`
	Channels   []Channel `mapstructure:"channels" yaml:"channels"`
	Jobs       int       `mapstructure:"jobs" yaml:"jobs"`

	orderPatterns []merge.Pattern
	localeTags    []langtag.Tag
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		BaseDir:       ".",
		ExtractedDir:  "extracted",
		MergedDir:     "merged",
		SourcesDir:    "sources",
		PatchedDir:    "patched",
		PackedDir:     "packed",
		ResourcesDir:  "resources",
		StoreEndpoint: "https://store.rg-adguard.net/api/GetFiles",
		Packages: []Package{
			{Family: "Microsoft.MinecraftUWP_8wekyb3d8bbwe", Folder: "release"},
			{Family: "Microsoft.MinecraftWindowsBeta_8wekyb3d8bbwe", Folder: "development"},
		},
		Locales:      []string{"en_US", "zh_CN", "zh_TW"},
		SourceLocale: "en_US",
		MergeOrder: []string{
			"vanilla",
			"experimental_*",
			"oreui",
			"persona",
			"editor",
			"chemistry",
			"education",
			"education_demo",
		},
		Channels: []Channel{
			{Name: "release", Path: "extracted/release"},
			{Name: "beta", Path: "extracted/development", Exclude: []string{"previewapp"}, Subtree: "beta"},
			{Name: "preview", Path: "extracted/development", Exclude: []string{"beta"}, Subtree: "previewapp"},
		},
		Jobs: runtime.NumCPU(),
	}
}

// Load builds the effective configuration from Viper on top of the
// defaults, then validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks coherence and compiles string settings into their
// typed forms.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseDir) == "" {
		c.BaseDir = "."
	}
	if c.Jobs < 1 {
		c.Jobs = runtime.NumCPU()
	}

	if len(c.Locales) == 0 {
		return fmt.Errorf("at least one locale is required")
	}
	c.localeTags = c.localeTags[:0]
	seenLocales := make(map[string]struct{}, len(c.Locales))
	for i, raw := range c.Locales {
		tag, err := langtag.Parse(raw)
		if err != nil {
			return fmt.Errorf("locale %d: %w", i+1, err)
		}
		if _, ok := seenLocales[tag.String()]; ok {
			return fmt.Errorf("locale %q listed twice", tag)
		}
		seenLocales[tag.String()] = struct{}{}
		c.Locales[i] = tag.String()
		c.localeTags = append(c.localeTags, tag)
	}
	source := strings.TrimSpace(c.SourceLocale)
	if source == "" {
		return fmt.Errorf("source_locale is required")
	}
	if _, ok := seenLocales[source]; !ok {
		return fmt.Errorf("source_locale %q is not listed in locales", source)
	}
	c.SourceLocale = source

	patterns, err := merge.ParseOrder(c.MergeOrder)
	if err != nil {
		return err
	}
	c.orderPatterns = patterns

	if len(c.Channels) == 0 {
		return fmt.Errorf("at least one channel is required")
	}
	seenChannels := make(map[string]struct{}, len(c.Channels))
	for i := range c.Channels {
		ch := &c.Channels[i]
		ch.Name = strings.TrimSpace(ch.Name)
		if ch.Name == "" {
			return fmt.Errorf("channel %d: name is required", i+1)
		}
		if _, ok := seenChannels[ch.Name]; ok {
			return fmt.Errorf("channel %q listed twice", ch.Name)
		}
		seenChannels[ch.Name] = struct{}{}
		if strings.TrimSpace(ch.Path) == "" {
			return fmt.Errorf("channel %q: path is required", ch.Name)
		}
	}

	seenFolders := make(map[string]struct{}, len(c.Packages))
	for i := range c.Packages {
		pkg := &c.Packages[i]
		pkg.Family = strings.TrimSpace(pkg.Family)
		pkg.Folder = strings.TrimSpace(pkg.Folder)
		if pkg.Family == "" {
			return fmt.Errorf("package %d: family is required", i+1)
		}
		if pkg.Folder == "" {
			return fmt.Errorf("package %q: folder is required", pkg.Family)
		}
		if _, ok := seenFolders[pkg.Folder]; ok {
			return fmt.Errorf("package folder %q listed twice", pkg.Folder)
		}
		seenFolders[pkg.Folder] = struct{}{}
	}
	return nil
}

// OrderPatterns returns the compiled merge order. Validate must have
// succeeded first.
func (c *Config) OrderPatterns() []merge.Pattern {
	return c.orderPatterns
}

// LocaleTags returns the validated locale tags.
func (c *Config) LocaleTags() []langtag.Tag {
	return c.localeTags
}

// resolve joins a configured path onto the base directory.
func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

// ExtractedPath returns the root of the extracted trees.
func (c *Config) ExtractedPath() string { return c.resolve(c.ExtractedDir) }

// MergedPath returns the merged output root.
func (c *Config) MergedPath() string { return c.resolve(c.MergedDir) }

// SourcesPath returns the translation-source output root.
func (c *Config) SourcesPath() string { return c.resolve(c.SourcesDir) }

// PatchedPath returns the root holding translated tables from Crowdin.
func (c *Config) PatchedPath() string { return c.resolve(c.PatchedDir) }

// PackedPath returns the resource-pack output root.
func (c *Config) PackedPath() string { return c.resolve(c.PackedDir) }

// ResourcesPath returns the static pack resources root.
func (c *Config) ResourcesPath() string { return c.resolve(c.ResourcesDir) }

// ChannelRoot returns the extracted tree for one channel.
func (c *Config) ChannelRoot(ch Channel) string { return c.resolve(ch.Path) }

// MergeChannels translates the configured channels into merge runner
// channels with resolved roots.
func (c *Config) MergeChannels() []merge.Channel {
	out := make([]merge.Channel, 0, len(c.Channels))
	for _, ch := range c.Channels {
		out = append(out, merge.Channel{
			Name:    ch.Name,
			Root:    c.ChannelRoot(ch),
			Exclude: append([]string(nil), ch.Exclude...),
			Subtree: ch.Subtree,
		})
	}
	return out
}

// LocaleFiles returns the locale file names with the given extension,
// e.g. ".json" yields en_US.json.
func (c *Config) LocaleFiles(ext string) []string {
	out := make([]string, 0, len(c.localeTags))
	for _, tag := range c.localeTags {
		out = append(out, tag.File(ext))
	}
	return out
}

// TargetLocales returns every locale except the source locale.
func (c *Config) TargetLocales() []string {
	out := make([]string, 0, len(c.Locales))
	for _, locale := range c.Locales {
		if locale != c.SourceLocale {
			out = append(out, locale)
		}
	}
	return out
}
