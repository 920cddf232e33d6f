// Package assets embeds the client-side files that make hidden blocks
// collapsible: a toggle script and a default stylesheet.
package assets

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	ScriptName     = "hide-script.js"
	StylesheetName = "hide.css"
)

// HideScript toggles every .hiding-example-content between shown and
// hidden when its sibling .hiding-example-toggle is clicked. State lives in
// the element's display property only.
//
//go:embed hide-script.js
var HideScript string

// Stylesheet hides block content until toggled.
//
//go:embed hide.css
var Stylesheet string

//go:embed hide-script.js hide.css
var files embed.FS

// FS returns the embedded asset files.
func FS() fs.FS {
	return files
}

// WriteTo writes every asset into dir, creating it if needed, and returns
// the written paths.
func WriteTo(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create asset directory %s", dir)
	}

	var written []string
	for _, name := range []string{ScriptName, StylesheetName} {
		data, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read embedded asset %s", name)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, errors.Wrapf(err, "failed to write asset %s", path)
		}
		written = append(written, path)
	}
	return written, nil
}
