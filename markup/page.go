package markup

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

const frontMatterDelim = "---"

// Page is a page source split into its front matter and body.
type Page struct {
	Meta map[string]interface{}
	Body string
	// BodyLine is the 1-based line of the source on which Body starts.
	BodyLine int
}

// Title returns the "title" front matter value, or "" when absent.
func (p *Page) Title() string {
	title, _ := p.Meta["title"].(string)
	return title
}

// Layout returns the "layout" front matter value, or "" when absent.
func (p *Page) Layout() string {
	layout, _ := p.Meta["layout"].(string)
	return layout
}

var metaParser = goldmark.New(goldmark.WithExtensions(meta.Meta))

// ParsePage splits YAML front matter delimited by "---" lines from the page
// body. Sources without front matter yield an empty Meta and the whole source
// as Body.
func ParsePage(src []byte) (*Page, error) {
	body, bodyLine, hasFrontMatter := extractBody(string(src))
	if !hasFrontMatter {
		return &Page{Meta: map[string]interface{}{}, Body: string(src), BodyLine: 1}, nil
	}

	pctx := parser.NewContext()
	if err := metaParser.Convert(src, io.Discard, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse front matter")
	}
	data, err := meta.TryGet(pctx)
	if err != nil {
		return nil, errors.Wrap(err, "invalid front matter")
	}
	if data == nil {
		data = map[string]interface{}{}
	}

	return &Page{Meta: data, Body: body, BodyLine: bodyLine}, nil
}

// extractBody removes the front matter block and the blank lines after it.
// It returns the body and the line the body starts on.
func extractBody(content string) (string, int, bool) {
	if !strings.HasPrefix(content, frontMatterDelim) {
		return content, 1, false
	}

	lines := strings.Split(content, "\n")
	if strings.TrimSpace(lines[0]) != frontMatterDelim {
		return content, 1, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontMatterDelim {
			rest := strings.Join(lines[i+1:], "\n")
			body := strings.TrimLeft(rest, "\n")
			return body, i + 2 + len(rest) - len(body), true
		}
	}
	return content, 1, false
}
