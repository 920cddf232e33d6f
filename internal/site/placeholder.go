package site

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/grahms/hideblock"
)

// slots keeps block tag output out of the page-level markdown pass. Each
// handler result is swapped for a token, the token is moved onto a paragraph
// of its own inside the container it appeared in, and the output is put back
// after the page is converted. Blank lines inside rendered blocks therefore
// cannot end the surrounding HTML block early.
type slots struct {
	rendered []string
}

var (
	tokenRe = regexp.MustCompile(`HIDEBLOCKSLOT-\d+-HBHB`)
	// Leading blockquote markers, list markers and indentation of a line.
	containerRe  = regexp.MustCompile(`^(?:[ \t]*(?:>|[-+*][ \t]|\d{1,9}[.)][ \t]))*[ \t]*`)
	listMarkerRe = regexp.MustCompile(`[-+*]|\d{1,9}[.)]`)
)

func token(i int) string {
	return fmt.Sprintf("HIDEBLOCKSLOT-%d-HBHB", i)
}

func (s *slots) wrap(_ string, h hideblock.Handler) hideblock.Handler {
	return func(title, rawBody string) (string, error) {
		// Bodies only hold tokens under nested expansion.
		out, err := h(title, isolate(rawBody))
		if err != nil {
			return "", err
		}
		s.rendered = append(s.rendered, out)
		return token(len(s.rendered) - 1), nil
	}
}

// isolate rewrites every line holding a token so that each token and each
// run of text around it becomes a separate paragraph, keeping the line's
// blockquote and list nesting.
func isolate(src string) string {
	if !tokenRe.MatchString(src) {
		return src
	}
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		if tokenRe.MatchString(line) {
			lines[i] = isolateLine(line)
		}
	}
	return strings.Join(lines, "\n")
}

func isolateLine(line string) string {
	prefix := containerRe.FindString(line)
	// Continuation lines of a list item are indented, not marked.
	cont := listMarkerRe.ReplaceAllStringFunc(prefix, func(m string) string {
		return strings.Repeat(" ", len(m))
	})
	blank := strings.TrimRight(cont, " \t")

	rest := line[len(prefix):]
	var parts []string
	last := 0
	for _, loc := range tokenRe.FindAllStringIndex(rest, -1) {
		if text := strings.TrimSpace(rest[last:loc[0]]); text != "" {
			parts = append(parts, text)
		}
		parts = append(parts, rest[loc[0]:loc[1]])
		last = loc[1]
	}
	if text := strings.TrimSpace(rest[last:]); text != "" {
		parts = append(parts, text)
	}

	var sb strings.Builder
	sb.WriteString(blank + "\n")
	for i, part := range parts {
		if i == 0 {
			sb.WriteString(prefix)
		} else {
			sb.WriteString("\n" + blank + "\n" + cont)
		}
		sb.WriteString(part)
	}
	sb.WriteString("\n" + blank)
	return sb.String()
}

// restore replaces tokens in html with the stored output. Later slots are
// restored first because a block rendered with nested expansion contains the
// tokens of the blocks inside it.
func (s *slots) restore(html string) string {
	for i := len(s.rendered) - 1; i >= 0; i-- {
		t := token(i)
		html = strings.ReplaceAll(html, "<p>"+t+"</p>", s.rendered[i])
		html = strings.ReplaceAll(html, t, s.rendered[i])
	}
	return html
}
