package hideblock

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boldMarkup is a deterministic stand-in for a markdown renderer: it
// converts **x** to <strong>x</strong> and wraps non-empty input in <p>.
func boldMarkup(src string) (string, error) {
	if src == "" {
		return "", nil
	}
	for strings.Contains(src, "**") {
		src = strings.Replace(src, "**", "<strong>", 1)
		src = strings.Replace(src, "**", "</strong>", 1)
	}
	return "<p>" + src + "</p>", nil
}

func fragment(title, content string) string {
	return `<div class="hiding-example"><span class="hiding-example-header">` + title +
		`</span><button class="hiding-example-toggle"></button><span class="hiding-example-content">` +
		content + `</span></div>`
}

func Test_Hidden_Render(t *testing.T) {
	h := NewHidden(boldMarkup)

	t.Run("should wrap rendered markup in the hidden-block fragment", func(t *testing.T) {
		out, err := h.Render(TagInvocation{Title: "Solution", RawBody: "**bold text**"})
		require.NoError(t, err)
		assert.Equal(t,
			`<div class="hiding-example"><span class="hiding-example-header">Solution</span><button class="hiding-example-toggle"></button><span class="hiding-example-content"><p><strong>bold text</strong></p></span></div>`,
			out)
	})

	t.Run("should keep an empty header span for an empty title", func(t *testing.T) {
		out, err := h.Render(TagInvocation{Title: "", RawBody: "x"})
		require.NoError(t, err)
		assert.Contains(t, out, `<span class="hiding-example-header"></span>`)
	})

	t.Run("should render a whitespace-only body as the rendering of an empty string", func(t *testing.T) {
		for _, body := range []string{"", " ", "\n\n", "\t \r\n "} {
			out, err := h.Render(TagInvocation{Title: "T", RawBody: body})
			require.NoError(t, err)
			assert.Equal(t, fragment("T", ""), out)
		}
	})

	t.Run("should trim the body before rendering it", func(t *testing.T) {
		var got string
		spy := NewHidden(func(src string) (string, error) {
			got = src
			return src, nil
		})
		_, err := spy.Render(TagInvocation{Title: "T", RawBody: "\n  line one\nline two  \n\n"})
		require.NoError(t, err)
		assert.Equal(t, "line one\nline two", got)
	})

	t.Run("should strip only ASCII whitespace and NUL from the body", func(t *testing.T) {
		var got string
		spy := NewHidden(func(src string) (string, error) {
			got = src
			return src, nil
		})
		_, err := spy.Render(TagInvocation{Title: "T", RawBody: "\x00\v\u00a0kept\u00a0\f\x00"})
		require.NoError(t, err)
		assert.Equal(t, "\u00a0kept\u00a0", got)
	})

	t.Run("should substitute the title verbatim exactly once", func(t *testing.T) {
		titles := []string{"Solution", "a < b & c", `<em>Hint</em>`, "{{ x }}", "  padded  ", "%s %d"}
		for _, title := range titles {
			out, err := h.Render(TagInvocation{Title: title, RawBody: "body"})
			require.NoError(t, err)
			header := `<span class="hiding-example-header">` + title + `</span>`
			assert.Equal(t, 1, strings.Count(out, header), "title %q", title)
		}
	})

	t.Run("should be idempotent", func(t *testing.T) {
		inv := TagInvocation{Title: "Again", RawBody: "**twice**\n"}
		first, err := h.Render(inv)
		require.NoError(t, err)
		second, err := h.Render(inv)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("should return markup errors unchanged", func(t *testing.T) {
		boom := errors.New("malformed markup")
		failing := NewHidden(func(string) (string, error) { return "", boom })
		out, err := failing.Render(TagInvocation{Title: "T", RawBody: "x"})
		assert.Same(t, boom, err)
		assert.Empty(t, out)
	})

	t.Run("should apply the title filter when one is set", func(t *testing.T) {
		upper := NewHidden(boldMarkup, WithTitleFilter(strings.ToUpper))
		out, err := upper.Render(TagInvocation{Title: "quiet", RawBody: "x"})
		require.NoError(t, err)
		assert.Equal(t, fragment("QUIET", "<p>x</p>"), out)
	})
}

func Test_RegisterHidden(t *testing.T) {
	t.Run("should register under the default tag name", func(t *testing.T) {
		reg := NewRegistry()
		RegisterHidden(reg, "", boldMarkup)
		assert.Equal(t, []string{DefaultTagName}, reg.Names())

		h, ok := reg.get("hide")
		require.True(t, ok)
		out, err := h("Solution", "**bold text**")
		require.NoError(t, err)
		assert.Equal(t, fragment("Solution", "<p><strong>bold text</strong></p>"), out)
	})

	t.Run("should register under a custom name", func(t *testing.T) {
		reg := NewRegistry()
		RegisterHidden(reg, "Spoiler", boldMarkup)
		_, ok := reg.get("spoiler")
		assert.True(t, ok)
		_, ok = reg.get("hide")
		assert.False(t, ok)
	})
}
