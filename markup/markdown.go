// Package markup converts lightweight markup (Markdown) into HTML with
// goldmark, splits YAML front matter from page sources and sanitises
// user-facing titles.
package markup

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer is a configured goldmark instance. It is immutable once built
// and safe to reuse across pages.
type Renderer struct {
	md goldmark.Markdown
}

// New builds a renderer from cfg.
func New(cfg Config) *Renderer {
	var exts []goldmark.Extender
	if cfg.Extensions.Table {
		exts = append(exts, extension.Table)
	}
	if cfg.Extensions.Strikethrough {
		exts = append(exts, extension.Strikethrough)
	}
	if cfg.Extensions.Linkify {
		exts = append(exts, extension.Linkify)
	}
	if cfg.Extensions.TaskList {
		exts = append(exts, extension.TaskList)
	}
	if cfg.Extensions.Typographer {
		exts = append(exts, extension.Typographer)
	}
	if cfg.Extensions.Footnote {
		exts = append(exts, extension.Footnote)
	}
	if cfg.Extensions.DefinitionList {
		exts = append(exts, extension.DefinitionList)
	}
	if cfg.Highlighting.Enabled {
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(cfg.Highlighting.Style),
		))
	}

	var parserOpts []parser.Option
	if cfg.Parser.AutoHeadingID {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}
	if cfg.Parser.Attribute {
		parserOpts = append(parserOpts, parser.WithAttribute())
	}

	var htmlOpts []renderer.Option
	if cfg.Renderer.HardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}
	if cfg.Renderer.XHTML {
		htmlOpts = append(htmlOpts, html.WithXHTML())
	}
	if cfg.Renderer.Unsafe {
		htmlOpts = append(htmlOpts, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(htmlOpts...),
	)
	return &Renderer{md: md}
}

// Render converts src to HTML.
func (r *Renderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", errors.Wrap(err, "failed to convert markdown")
	}
	return buf.String(), nil
}

// Func returns Render as a plain function value, the shape block tag
// handlers take their markup renderer in.
func (r *Renderer) Func() func(string) (string, error) {
	return r.Render
}
