package site

import (
	"html/template"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const defaultLayout = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Title }}{{ if and .Title .SiteTitle }} | {{ end }}{{ .SiteTitle }}</title>
<link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/font-awesome/4.7.0/css/font-awesome.min.css">
<link rel="stylesheet" href="{{ .AssetsPath }}/hide.css">
</head>
<body>
<main>
{{ .Content }}
</main>
<script src="{{ .AssetsPath }}/hide-script.js"></script>
</body>
</html>
`

// LayoutData is what page layouts are executed with.
type LayoutData struct {
	Title      string
	SiteTitle  string
	Path       string // output path relative to the site output directory
	AssetsPath string // relative URL from the page to the assets directory
	Meta       map[string]interface{}
	Content    template.HTML
}

func loadLayout(path string) (*template.Template, error) {
	if path == "" {
		return template.New("layout").Parse(defaultLayout)
	}
	tmpl, err := template.New(filepath.Base(path)).ParseFiles(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse layout %s", path)
	}
	return tmpl, nil
}

// noLayout as a page's layout renders the page content without any layout.
const noLayout = "none"

// pageLayout returns the layout named by a page's front matter, loaded from
// the layouts directory under the source and cached per builder. An empty
// name selects the site layout, noLayout selects none (nil).
func (b *Builder) pageLayout(name string) (*template.Template, error) {
	switch name {
	case "":
		return b.layout, nil
	case noLayout:
		return nil, nil
	}
	if tmpl, ok := b.layouts[name]; ok {
		return tmpl, nil
	}

	path := filepath.Join(b.cfg.Source, b.cfg.LayoutsDir, name+".html")
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "layout %q not found", name)
	}
	tmpl, err := loadLayout(path)
	if err != nil {
		return nil, err
	}
	b.layouts[name] = tmpl
	return tmpl, nil
}
