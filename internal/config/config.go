// Package config resolves hideblock configuration with viper.
// Precedence is defaults < config file < HIDEBLOCK_* environment < flags.
package config

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/grahms/hideblock"
	"github.com/grahms/hideblock/internal/logger"
	"github.com/grahms/hideblock/markup"
)

// Config is the decoded configuration.
type Config struct {
	Site   Site          `mapstructure:"site"`
	Tags   Tags          `mapstructure:"tags"`
	Markup markup.Config `mapstructure:"markup"`
	Log    Log           `mapstructure:"log"`
}

// Site configures page discovery and output.
type Site struct {
	Title      string   `mapstructure:"title"`
	Source     string   `mapstructure:"source"`
	Output     string   `mapstructure:"output"`
	Include    []string `mapstructure:"include"`
	Exclude    []string `mapstructure:"exclude"`
	Layout     string   `mapstructure:"layout"`
	LayoutsDir string   `mapstructure:"layouts_dir"`
	AssetsDir  string   `mapstructure:"assets_dir"`
}

// Tags configures the block tag engine.
type Tags struct {
	Hide           string `mapstructure:"hide"`
	Unknown        string `mapstructure:"unknown"`
	Nested         bool   `mapstructure:"nested"`
	TitlePattern   string `mapstructure:"title_pattern"`
	SanitizeTitles bool   `mapstructure:"sanitize_titles"`
}

// Log configures the global logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the configuration keys, their defaults and meanings.
func GetConfigOptions() []ConfigOption {
	md := markup.Default
	return []ConfigOption{
		{Key: "site.title", Default: "", Comment: "Site name appended to page titles"},
		{Key: "site.source", Default: ".", Comment: "Directory holding page sources"},
		{Key: "site.output", Default: "_site", Comment: "Directory the built pages are written to"},
		{Key: "site.include", Default: []string{"**/*.md", "**/*.markdown"}, Comment: "Globs (relative to source) selecting pages"},
		{Key: "site.exclude", Default: []string{"_site/**", "node_modules/**", "README.md"}, Comment: "Globs (relative to source) skipped even when included"},
		{Key: "site.layout", Default: "", Comment: "Optional html/template file replacing the built-in page layout"},
		{Key: "site.layouts_dir", Default: "_layouts", Comment: "Directory (relative to source) holding layouts named by a page's layout front matter"},
		{Key: "site.assets_dir", Default: "assets", Comment: "Directory under output receiving the toggle script and stylesheet"},

		{Key: "tags.hide", Default: hideblock.DefaultTagName, Comment: "Name of the hidden-block tag"},
		{Key: "tags.unknown", Default: "passthrough", Comment: "Unknown tags: passthrough, drop or strict"},
		{Key: "tags.nested", Default: false, Comment: "Expand tags inside block bodies before rendering the block"},
		{Key: "tags.title_pattern", Default: "", Comment: "Regular expression every hidden-block title must match"},
		{Key: "tags.sanitize_titles", Default: false, Comment: "Strip unsafe HTML from hidden-block titles"},

		{Key: "markup.extensions.typographer", Default: md.Extensions.Typographer, Comment: "Smart quotes and dashes"},
		{Key: "markup.extensions.footnote", Default: md.Extensions.Footnote, Comment: "Footnotes"},
		{Key: "markup.extensions.definition_list", Default: md.Extensions.DefinitionList, Comment: "Definition lists"},
		{Key: "markup.extensions.table", Default: md.Extensions.Table, Comment: "GFM tables"},
		{Key: "markup.extensions.strikethrough", Default: md.Extensions.Strikethrough, Comment: "GFM strikethrough"},
		{Key: "markup.extensions.linkify", Default: md.Extensions.Linkify, Comment: "Turn bare URLs into links"},
		{Key: "markup.extensions.task_list", Default: md.Extensions.TaskList, Comment: "GFM task lists"},
		{Key: "markup.renderer.hard_wraps", Default: md.Renderer.HardWraps, Comment: "Render soft line breaks as <br>"},
		{Key: "markup.renderer.xhtml", Default: md.Renderer.XHTML, Comment: "Emit XHTML instead of HTML5"},
		{Key: "markup.renderer.unsafe", Default: md.Renderer.Unsafe, Comment: "Pass raw HTML through"},
		{Key: "markup.parser.auto_heading_id", Default: md.Parser.AutoHeadingID, Comment: "Generate heading ids"},
		{Key: "markup.parser.attribute", Default: md.Parser.Attribute, Comment: "Allow {#id .class} attributes"},
		{Key: "markup.highlighting.enabled", Default: md.Highlighting.Enabled, Comment: "Syntax highlight fenced code"},
		{Key: "markup.highlighting.style", Default: md.Highlighting.Style, Comment: "Chroma style used for highlighting"},

		{Key: "log.level", Default: "warn", Comment: "Log level: debug, info, warn, error"},
		{Key: "log.format", Default: "fmt", Comment: "Log format: fmt or json"},
	}
}

func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load seeds v with defaults, reads the config file if one is found and
// enables HIDEBLOCK_* environment overrides. A missing config file is not an
// error; an unreadable or malformed one is.
func Load(ctx context.Context, v *viper.Viper) error {
	explicit := v.ConfigFileUsed() != ""
	if !explicit {
		v.SetConfigName("hideblock")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "hideblock"))
		}
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return errors.Wrap(err, "failed to read config file")
		}
		logger.G(ctx).Debug("no config file found, using defaults")
	} else {
		logger.G(ctx).WithField("file", v.ConfigFileUsed()).Debug("loaded config file")
	}

	v.SetEnvPrefix("hideblock")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return nil
}

// Decode unmarshals v into a Config and validates it.
func Decode(v *viper.Viper) (*Config, error) {
	if err := CheckConfigValidity(v); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	return &cfg, nil
}

// CheckConfigValidity reports every invalid setting at once. The returned
// error wraps a *multierror.Error holding one error per problem.
func CheckConfigValidity(v *viper.Viper) error {
	var result *multierror.Error
	problem := func(msg string) { result = multierror.Append(result, errors.New(msg)) }

	if strings.TrimSpace(v.GetString("tags.hide")) == "" {
		problem("tags.hide is required")
	}
	if _, ok := hideblock.ParseUnknownTagPolicy(v.GetString("tags.unknown")); !ok {
		problem("tags.unknown must be one of passthrough, drop, strict")
	}
	if p := v.GetString("tags.title_pattern"); p != "" {
		if _, err := regexp.Compile(p); err != nil {
			problem("tags.title_pattern is not a valid regular expression")
		}
	}
	if strings.TrimSpace(v.GetString("site.output")) == "" {
		problem("site.output is required")
	}
	if filepath.IsAbs(v.GetString("site.assets_dir")) {
		problem("site.assets_dir must be relative to site.output")
	}
	switch v.GetString("log.format") {
	case "", "fmt", "text", "json":
	default:
		problem("log.format must be fmt, text or json")
	}
	if v.GetBool("markup.highlighting.enabled") && strings.TrimSpace(v.GetString("markup.highlighting.style")) == "" {
		problem("markup.highlighting.style is required when highlighting is enabled")
	}

	return errors.Wrap(result.ErrorOrNil(), "invalid configuration")
}
