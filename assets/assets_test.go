package assets

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHideScript(t *testing.T) {
	t.Run("should target the fragment classes", func(t *testing.T) {
		assert.Contains(t, HideScript, ".hiding-example-toggle")
		assert.Contains(t, HideScript, ".hiding-example-content")
	})

	t.Run("should swap between the hidden and shown icons", func(t *testing.T) {
		assert.Contains(t, HideScript, "fa fa-eye-slash")
		assert.Contains(t, HideScript, "fa fa-eye\"")
		assert.Contains(t, HideScript, `display = "none"`)
		assert.Contains(t, HideScript, `display = "block"`)
	})

	t.Run("should start with content hidden", func(t *testing.T) {
		assert.Contains(t, Stylesheet, ".hiding-example-content {\n  display: none;")
	})
}

func TestFS(t *testing.T) {
	data, err := fs.ReadFile(FS(), ScriptName)
	require.NoError(t, err)
	assert.Equal(t, HideScript, string(data))
}

func TestWriteTo(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "assets")

	written, err := WriteTo(dir)
	require.NoError(t, err)
	require.Len(t, written, 2)

	script, err := os.ReadFile(filepath.Join(dir, ScriptName))
	require.NoError(t, err)
	assert.Equal(t, HideScript, string(script))

	css, err := os.ReadFile(filepath.Join(dir, StylesheetName))
	require.NoError(t, err)
	assert.Equal(t, Stylesheet, string(css))
}
