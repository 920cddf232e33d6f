package hideblock

import (
	"strings"
)

// DefaultTagName is the block tag name the hidden-block renderer is usually
// registered under: {% hide Title %} ... {% endhide %}.
const DefaultTagName = "hide"

const (
	hiddenOpen    = `<div class="hiding-example"><span class="hiding-example-header">`
	hiddenToggle  = `</span><button class="hiding-example-toggle"></button><span class="hiding-example-content">`
	hiddenClose   = `</span></div>`
	hiddenWrapLen = len(hiddenOpen) + len(hiddenToggle) + len(hiddenClose)
)

// asciiSpace is the set stripped from titles and bodies: ASCII whitespace
// and NUL. Unicode spaces such as U+00A0 are content.
const asciiSpace = " \t\n\v\f\r\x00"

func stripSpace(s string) string {
	return strings.Trim(s, asciiSpace)
}

// MarkupFunc converts lightweight markup to output markup.
type MarkupFunc func(src string) (string, error)

// TagInvocation is one occurrence of a block tag.
type TagInvocation struct {
	Name    string
	Title   string // trimmed argument string, may be empty
	RawBody string // exact text between the open and close markers
}

// Hidden renders a block as a collapsible example: a header holding the
// title, a toggle button and the rendered body.
type Hidden struct {
	markup      MarkupFunc
	titleFilter func(string) string
}

// HiddenOption configures a Hidden renderer.
type HiddenOption func(*Hidden)

// WithTitleFilter transforms the title before it is placed in the header.
// Titles are inserted verbatim unless a filter is set.
func WithTitleFilter(f func(string) string) HiddenOption {
	return func(h *Hidden) { h.titleFilter = f }
}

func NewHidden(markup MarkupFunc, opts ...HiddenOption) *Hidden {
	h := &Hidden{markup: markup}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Render produces the hidden-block fragment for inv. Errors from the markup
// function are returned unchanged.
func (h *Hidden) Render(inv TagInvocation) (string, error) {
	content, err := h.markup(stripSpace(inv.RawBody))
	if err != nil {
		return "", err
	}

	title := inv.Title
	if h.titleFilter != nil {
		title = h.titleFilter(title)
	}

	var sb strings.Builder
	sb.Grow(hiddenWrapLen + len(title) + len(content))
	sb.WriteString(hiddenOpen)
	sb.WriteString(title)
	sb.WriteString(hiddenToggle)
	sb.WriteString(content)
	sb.WriteString(hiddenClose)
	return sb.String(), nil
}

// RegisterHidden registers a hidden-block renderer under name, or under
// DefaultTagName when name is empty.
func RegisterHidden(reg *Registry, name string, markup MarkupFunc, opts ...HiddenOption) *Hidden {
	if name == "" {
		name = DefaultTagName
	}
	h := NewHidden(markup, opts...)
	reg.RegisterBlockTag(name, func(title, rawBody string) (string, error) {
		return h.Render(TagInvocation{Name: canonicalName(name), Title: title, RawBody: rawBody})
	})
	return h
}
