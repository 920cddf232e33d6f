package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	v := viper.New()
	require.NoError(t, Load(context.Background(), v))

	cfg, err := Decode(v)
	require.NoError(t, err)

	assert.Equal(t, "hide", cfg.Tags.Hide)
	assert.Equal(t, "passthrough", cfg.Tags.Unknown)
	assert.False(t, cfg.Tags.SanitizeTitles)
	assert.Equal(t, "_site", cfg.Site.Output)
	assert.Equal(t, []string{"**/*.md", "**/*.markdown"}, cfg.Site.Include)
	assert.True(t, cfg.Markup.Renderer.Unsafe)
	assert.True(t, cfg.Markup.Extensions.Table)
	assert.Equal(t, "monokai", cfg.Markup.Highlighting.Style)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hideblock.yaml")
	content := `site:
  source: docs
  output: public
tags:
  hide: spoiler
  unknown: strict
markup:
  renderer:
    hard_wraps: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, Load(context.Background(), v))

	cfg, err := Decode(v)
	require.NoError(t, err)
	want := Site{
		Source:     "docs",
		Output:     "public",
		Include:    []string{"**/*.md", "**/*.markdown"},
		Exclude:    []string{"_site/**", "node_modules/**", "README.md"},
		LayoutsDir: "_layouts",
		AssetsDir:  "assets",
	}
	if diff := cmp.Diff(want, cfg.Site); diff != "" {
		t.Errorf("site config mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "spoiler", cfg.Tags.Hide)
	assert.Equal(t, "strict", cfg.Tags.Unknown)
	assert.True(t, cfg.Markup.Renderer.HardWraps)
	assert.True(t, cfg.Markup.Renderer.Unsafe, "unset keys keep their defaults")
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HIDEBLOCK_TAGS_HIDE", "details")

	v := viper.New()
	require.NoError(t, Load(context.Background(), v))

	cfg, err := Decode(v)
	require.NoError(t, err)
	assert.Equal(t, "details", cfg.Tags.Hide)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, Load(context.Background(), v))
}

func TestCheckConfigValidityInvalid(t *testing.T) {
	v := viper.New()
	v.Set("tags.hide", " ")
	v.Set("tags.unknown", "ignore")
	v.Set("tags.title_pattern", "(")
	v.Set("site.output", "")
	v.Set("site.assets_dir", "/abs")
	v.Set("log.format", "xml")
	v.Set("markup.highlighting.enabled", true)
	v.Set("markup.highlighting.style", "")

	err := CheckConfigValidity(v)
	require.Error(t, err)

	for _, want := range []string{
		"tags.hide is required",
		"tags.unknown must be one of passthrough, drop, strict",
		"tags.title_pattern is not a valid regular expression",
		"site.output is required",
		"site.assets_dir must be relative to site.output",
		"log.format must be fmt, text or json",
		"markup.highlighting.style is required when highlighting is enabled",
	} {
		assert.Contains(t, err.Error(), want)
	}

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 7)
}

func TestCheckConfigValidityDefaults(t *testing.T) {
	v := viper.New()
	applyDefaults(v)
	assert.NoError(t, CheckConfigValidity(v))
}
