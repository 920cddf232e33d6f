// Package site builds a directory of markdown pages into static HTML,
// expanding block tags such as hide on the way.
package site

import (
	"bytes"
	"context"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/grahms/hideblock"
	"github.com/grahms/hideblock/assets"
	"github.com/grahms/hideblock/internal/config"
	"github.com/grahms/hideblock/internal/logger"
	"github.com/grahms/hideblock/markup"
)

// Builder renders pages through the tag engine, the markup renderer and a
// page layout.
type Builder struct {
	cfg    config.Site
	engine *hideblock.Engine
	md     *markup.Renderer
	layout *template.Template

	layouts map[string]*template.Template
}

// Report lists what a build wrote, relative to the output directory.
type Report struct {
	Pages  []string
	Assets []string
}

// New creates a builder. It fails only when a custom layout cannot be parsed.
func New(cfg config.Site, eng *hideblock.Engine, md *markup.Renderer) (*Builder, error) {
	layout, err := loadLayout(cfg.Layout)
	if err != nil {
		return nil, err
	}
	if cfg.AssetsDir == "" {
		cfg.AssetsDir = "assets"
	}
	if cfg.LayoutsDir == "" {
		cfg.LayoutsDir = "_layouts"
	}
	return &Builder{
		cfg:     cfg,
		engine:  eng,
		md:      md,
		layout:  layout,
		layouts: map[string]*template.Template{},
	}, nil
}

// Discover returns the page paths under the source directory, relative to
// it and slash separated, that match an include glob and no exclude glob.
// The output directory is never treated as a source.
func (b *Builder) Discover() ([]string, error) {
	fsys := os.DirFS(b.cfg.Source)
	outputRel := b.outputWithinSource()

	seen := make(map[string]bool)
	var pages []string
	for _, pattern := range b.cfg.Include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Wrapf(err, "invalid include pattern %q", pattern)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true

			if outputRel != "" && (m == outputRel || strings.HasPrefix(m, outputRel+"/")) {
				continue
			}
			excluded, err := b.excluded(m)
			if err != nil {
				return nil, err
			}
			if !excluded {
				pages = append(pages, m)
			}
		}
	}

	sort.Strings(pages)
	return pages, nil
}

func (b *Builder) excluded(page string) (bool, error) {
	for _, pattern := range b.cfg.Exclude {
		ok, err := doublestar.Match(pattern, page)
		if err != nil {
			return false, errors.Wrapf(err, "invalid exclude pattern %q", pattern)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// outputWithinSource returns the output directory relative to the source
// directory, or "" when it lies outside it.
func (b *Builder) outputWithinSource() string {
	src, err := filepath.Abs(b.cfg.Source)
	if err != nil {
		return ""
	}
	out, err := filepath.Abs(b.cfg.Output)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(src, out)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	return filepath.ToSlash(rel)
}

// Build renders every discovered page into the output directory and writes
// the toggle assets. Pages are built in order; the first failure stops the
// build and names the page.
func (b *Builder) Build(ctx context.Context) (Report, error) {
	var report Report

	pages, err := b.Discover()
	if err != nil {
		return report, err
	}
	logger.G(ctx).WithField("pages", len(pages)).Info("building site")

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		pctx := logger.With(ctx, "page", page)

		src, err := fs.ReadFile(os.DirFS(b.cfg.Source), page)
		if err != nil {
			return report, errors.Wrapf(err, "failed to read page %s", page)
		}
		html, err := b.RenderPage(pctx, page, src)
		if err != nil {
			return report, errors.Wrapf(err, "failed to build page %s", page)
		}

		outName := OutputName(page)
		dst := filepath.Join(b.cfg.Output, filepath.FromSlash(outName))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return report, errors.Wrapf(err, "failed to create directory for %s", outName)
		}
		if err := os.WriteFile(dst, html, 0o644); err != nil {
			return report, errors.Wrapf(err, "failed to write %s", outName)
		}
		logger.G(pctx).WithField("output", outName).Debug("built page")
		report.Pages = append(report.Pages, outName)
	}

	written, err := assets.WriteTo(filepath.Join(b.cfg.Output, b.cfg.AssetsDir))
	if err != nil {
		return report, err
	}
	for _, path := range written {
		rel, err := filepath.Rel(b.cfg.Output, path)
		if err != nil {
			rel = path
		}
		report.Assets = append(report.Assets, filepath.ToSlash(rel))
	}

	return report, nil
}

// RenderPage renders one page source (front matter, block tags, markdown)
// and applies the layout: the one named by the page's "layout" front matter
// key, or the site layout. name is the page path relative to the source
// directory.
func (b *Builder) RenderPage(ctx context.Context, name string, src []byte) ([]byte, error) {
	page, err := markup.ParsePage(src)
	if err != nil {
		return nil, err
	}
	content, err := b.RenderContent(ctx, page)
	if err != nil {
		return nil, err
	}
	layout, err := b.pageLayout(page.Layout())
	if err != nil {
		return nil, err
	}
	if layout == nil {
		return []byte(content), nil
	}

	outName := OutputName(name)
	assetsPath, err := filepath.Rel(filepath.Dir(filepath.FromSlash(outName)), filepath.FromSlash(b.cfg.AssetsDir))
	if err != nil {
		assetsPath = b.cfg.AssetsDir
	}

	title := page.Title()
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}

	var buf bytes.Buffer
	err = layout.Execute(&buf, LayoutData{
		Title:      title,
		SiteTitle:  b.cfg.Title,
		Path:       outName,
		AssetsPath: filepath.ToSlash(assetsPath),
		Meta:       page.Meta,
		Content:    template.HTML(content),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to apply layout to %s", name)
	}
	return buf.Bytes(), nil
}

// RenderContent expands the block tags of page and converts the result to
// HTML, without a layout.
func (b *Builder) RenderContent(ctx context.Context, page *markup.Page) (string, error) {
	s := &slots{}
	eng := b.engine.
		WithRegistry(b.engine.Registry().Wrap(s.wrap)).
		With(hideblock.WithStartLine(page.BodyLine))

	expanded, err := eng.ProcessString(ctx, page.Body)
	if err != nil {
		return "", err
	}
	html, err := b.md.Render(isolate(expanded))
	if err != nil {
		return "", err
	}
	return s.restore(html), nil
}

// OutputName maps a page path to its output path: the extension becomes .html.
func OutputName(page string) string {
	return strings.TrimSuffix(page, filepath.Ext(page)) + ".html"
}
