package hideblock

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/grahms/hideblock/internal/logger"
	"github.com/pkg/errors"
)

func NewEngine(reg *Registry, opts ...func(*Engine)) *Engine {
	e := &Engine{reg: reg, policy: UnknownPassthrough}
	for _, o := range opts {
		o(e)
	}
	return e
}

func WithUnknownPolicy(p UnknownTagPolicy) func(*Engine) {
	return func(e *Engine) { e.policy = p }
}

// WithValidators checks the arguments of every registered tag before its
// handler runs.
func WithValidators(v *ValidatorRegistry) func(*Engine) {
	return func(e *Engine) { e.validators = v }
}

// WithNestedExpansion expands registered tags inside a block body before the
// block's own handler sees it. Without it handlers receive the body verbatim.
func WithNestedExpansion() func(*Engine) {
	return func(e *Engine) { e.nested = true }
}

// WithStartLine numbers the first line of the processed text n instead of 1,
// for text cut out of a larger file such as a page body after its front
// matter. Error positions and context excerpts then refer to the file.
func WithStartLine(n int) func(*Engine) {
	return func(e *Engine) { e.startLine = n }
}

// Registry returns the registry the engine dispatches to.
func (e *Engine) Registry() *Registry {
	return e.reg
}

// WithRegistry returns a copy of e, with the same options, dispatching to reg.
func (e *Engine) WithRegistry(reg *Registry) *Engine {
	return e.With(func(c *Engine) { c.reg = reg })
}

// With returns a copy of e with opts applied on top of its options.
func (e *Engine) With(opts ...func(*Engine)) *Engine {
	c := *e
	for _, o := range opts {
		o(&c)
	}
	return &c
}

// run holds the state of one pass over a page source.
type run struct {
	e      *Engine
	w      io.Writer
	buf    bytes.Buffer
	pos    Position      // position of buf[0] in the page
	source *bytes.Buffer // everything read so far, for error context
}

// ProcessStream reads a page from r in chunks and writes it to w with every
// registered block tag replaced by its handler's output.
// Plain text is copied as soon as it is known not to start a marker; a block
// is rendered once its close marker has been read. At EOF anything still
// buffered must form complete units, otherwise a MalformedTagError is returned.
func (e *Engine) ProcessStream(ctx context.Context, r io.Reader, w io.Writer) error {
	ru := &run{e: e, w: w, pos: Position{Line: 1, Column: 1}, source: &bytes.Buffer{}}
	// Blank lines stand in for the text before the start line so that
	// context excerpts line up with positions.
	for ; ru.pos.Line < e.startLine; ru.pos.Line++ {
		ru.source.WriteByte('\n')
	}
	br := bufio.NewReader(r)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk := make([]byte, 4096)
		n, err := br.Read(chunk)
		if n > 0 {
			ru.buf.Write(chunk[:n])
			ru.source.Write(chunk[:n])
			if perr := ru.drain(ctx, false); perr != nil {
				return perr
			}
		}
		if err == io.EOF {
			return ru.drain(ctx, true)
		}
		if err != nil {
			return errors.Wrap(err, "failed to read page source")
		}
	}
}

// ProcessString is ProcessStream over an in-memory page.
func (e *Engine) ProcessString(ctx context.Context, src string) (string, error) {
	var sb strings.Builder
	if err := e.ProcessStream(ctx, strings.NewReader(src), &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (r *run) drain(ctx context.Context, eof bool) error {
	for {
		progress, err := r.tryExtract(ctx, eof)
		if err != nil {
			return err
		}
		if !progress {
			return nil
		}
	}
}

// tryExtract consumes one unit from the front of the buffer: a run of plain
// text, a raw region, a complete block, or a lone marker.
func (r *run) tryExtract(ctx context.Context, eof bool) (bool, error) {
	b := r.buf.Bytes()
	if len(b) == 0 {
		return false, nil
	}

	// 1) Plain text up to the next marker. A trailing '{' may be the first
	// half of a delimiter, so it waits for more input.
	if at := bytes.Index(b, openDelim); at != 0 {
		end := at
		if at < 0 {
			end = len(b)
			if !eof && b[len(b)-1] == '{' {
				end--
			}
		}
		if end == 0 {
			return false, nil
		}
		return true, r.emit(b[:end])
	}

	// 2) Marker at buffer start.
	_, headerEnd, name, args, found := nextMarker(b, 0)
	if !found {
		if eof {
			return true, NewMalformedTagError(r.pos, peekName(b), "tag marker is not closed with %}", r.source.String())
		}
		return false, nil
	}
	if name == "" {
		return r.unknown(b[:headerEnd], "")
	}

	lname := canonicalName(name)
	if lname == rawTagName {
		return r.extractRaw(b, headerEnd, eof)
	}
	if h, ok := r.e.reg.get(lname); ok {
		return r.extractBlock(ctx, b, headerEnd, lname, stripSpace(args), h, eof)
	}
	if strings.HasPrefix(lname, "end") {
		opened := lname[len("end"):]
		if _, ok := r.e.reg.get(opened); ok || opened == rawTagName {
			return true, NewUnmatchedTagError(r.pos, opened, r.source.String())
		}
	}
	return r.unknown(b[:headerEnd], name)
}

// 3) Raw region: {% raw %} ... {% endraw %}, copied without the markers.
func (r *run) extractRaw(b []byte, headerEnd int, eof bool) (bool, error) {
	innerEnd, end, ok := findRawEnd(b, headerEnd)
	if !ok {
		if eof {
			return true, NewMalformedTagError(r.pos, rawTagName, "missing close tag {% endraw %}", r.source.String())
		}
		return false, nil
	}
	if _, err := r.w.Write(b[headerEnd:innerEnd]); err != nil {
		return true, errors.Wrap(err, "failed to write raw region")
	}
	r.consume(end)
	return true, nil
}

// 4) Registered block: {% name args %} body {% endname %}.
func (r *run) extractBlock(ctx context.Context, b []byte, headerEnd int, name, args string, h Handler, eof bool) (bool, error) {
	bodyEnd, end, ok := findClose(b, headerEnd, name)
	if !ok {
		if eof {
			return true, NewMalformedTagError(r.pos, name, fmt.Sprintf("missing close tag {%% end%s %%}", name), r.source.String())
		}
		return false, nil
	}

	tagPos := r.pos
	body := string(b[headerEnd:bodyEnd])
	bodyPos := r.pos.advance(b[:headerEnd])

	if r.e.validators != nil {
		if err := r.e.validators.ValidateArgs(name, args, tagPos); err != nil {
			return true, r.validationError(err, tagPos, name)
		}
	}

	if r.e.nested {
		expanded, err := r.expand(ctx, body, bodyPos)
		if err != nil {
			return true, err
		}
		body = expanded
	}

	logger.G(ctx).WithField("tag", name).WithField("position", tagPos.String()).Debug("rendering block tag")

	out, err := h(args, body)
	if err != nil {
		return true, NewTagError(tagPos, name, err, r.source.String())
	}
	if _, err := io.WriteString(r.w, out); err != nil {
		return true, errors.Wrapf(err, "failed to write output of tag %s", name)
	}
	r.consume(end)
	return true, nil
}

// expand processes a block body with the same engine, keeping positions
// relative to the enclosing page.
func (r *run) expand(ctx context.Context, body string, at Position) (string, error) {
	var sb strings.Builder
	sub := &run{e: r.e, w: &sb, pos: at, source: r.source}
	sub.buf.WriteString(body)
	if err := sub.drain(ctx, true); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (r *run) unknown(header []byte, name string) (bool, error) {
	switch r.e.policy {
	case UnknownDrop:
		r.consume(len(header))
		return true, nil
	case UnknownStrict:
		return true, NewMalformedTagError(r.pos, name, "unknown tag", r.source.String())
	default:
		return true, r.emit(header)
	}
}

func (r *run) validationError(err error, pos Position, name string) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		if ve.Context == "" {
			ve.Context = extractContext(r.source.String(), pos)
		}
		return ve
	}
	return NewValidationError(pos, name, err.Error(), r.source.String())
}

func (r *run) emit(b []byte) error {
	if _, err := r.w.Write(b); err != nil {
		return errors.Wrap(err, "failed to write page output")
	}
	r.consume(len(b))
	return nil
}

func (r *run) consume(n int) {
	r.pos = r.pos.advance(r.buf.Next(n))
}
