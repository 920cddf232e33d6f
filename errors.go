package hideblock

import (
	"fmt"
	"strings"
)

// Position represents a position in the page source.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// advance returns the position reached after consuming b starting at p.
func (p Position) advance(b []byte) Position {
	for _, c := range b {
		if c == '\n' {
			p.Line++
			p.Column = 1
			continue
		}
		p.Column++
	}
	return p
}

// ParseError is the base error type for all tag processing errors.
type ParseError struct {
	Pos     Position // Position of the offending open or close marker
	Message string   // Error message
	Context string   // Surrounding source for context
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s at %s\nContext: %s", e.Message, e.Pos, e.Context)
	}
	return fmt.Sprintf("%s at %s", e.Message, e.Pos)
}

// MalformedTagError is returned for tag markers that cannot be completed:
// an open marker without "%}", a block without its close marker, or an
// unknown tag under UnknownStrict.
type MalformedTagError struct {
	ParseError
	TagName string
}

// Error implements the error interface.
func (e *MalformedTagError) Error() string {
	return fmt.Sprintf("malformed tag {%% %s %%} at %s: %s\nContext: %s",
		e.TagName, e.Pos, e.Message, e.Context)
}

// UnmatchedTagError is returned when a close marker has no open block.
type UnmatchedTagError struct {
	ParseError
	TagName string
}

// Error implements the error interface.
func (e *UnmatchedTagError) Error() string {
	return fmt.Sprintf("unmatched close tag {%% end%s %%} at %s\nContext: %s",
		e.TagName, e.Pos, e.Context)
}

// ValidationError is returned when a tag's arguments fail validation.
type ValidationError struct {
	ParseError
	TagName string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for tag {%% %s %%} at %s: %s\nContext: %s",
		e.TagName, e.Pos, e.Message, e.Context)
}

// TagError wraps an error returned by a block tag handler, usually one raised
// by the markup renderer. The wrapped error is reachable through errors.Is and
// errors.As.
type TagError struct {
	ParseError
	TagName string
	Err     error
}

// Error implements the error interface.
func (e *TagError) Error() string {
	return fmt.Sprintf("rendering tag {%% %s %%} at %s: %v", e.TagName, e.Pos, e.Err)
}

// Unwrap returns the handler error.
func (e *TagError) Unwrap() error { return e.Err }

// NewParseError creates a new ParseError with context.
func NewParseError(pos Position, message, context string) *ParseError {
	return &ParseError{
		Pos:     pos,
		Message: message,
		Context: extractContext(context, pos),
	}
}

// NewMalformedTagError creates a new MalformedTagError.
func NewMalformedTagError(pos Position, tagName, message, context string) *MalformedTagError {
	return &MalformedTagError{
		ParseError: *NewParseError(pos, message, context),
		TagName:    tagName,
	}
}

// NewUnmatchedTagError creates a new UnmatchedTagError.
func NewUnmatchedTagError(pos Position, tagName, context string) *UnmatchedTagError {
	return &UnmatchedTagError{
		ParseError: *NewParseError(pos, "close tag has no matching open tag", context),
		TagName:    tagName,
	}
}

// NewValidationError creates a new ValidationError.
func NewValidationError(pos Position, tagName, message, context string) *ValidationError {
	return &ValidationError{
		ParseError: *NewParseError(pos, message, context),
		TagName:    tagName,
	}
}

// NewTagError creates a new TagError.
func NewTagError(pos Position, tagName string, err error, context string) *TagError {
	return &TagError{
		ParseError: *NewParseError(pos, err.Error(), context),
		TagName:    tagName,
		Err:        err,
	}
}

// extractContext extracts a snippet of text around the error position.
// It includes up to two lines before and one line after the error line.
func extractContext(content string, pos Position) string {
	if content == "" {
		return ""
	}

	lines := strings.Split(content, "\n")
	if pos.Line < 1 || pos.Line > len(lines) {
		return content
	}

	startLine := max(0, pos.Line-3)
	endLine := min(len(lines)-1, pos.Line)

	var sb strings.Builder
	for i := startLine; i <= endLine; i++ {
		lineNum := i + 1
		if lineNum == pos.Line {
			sb.WriteString(fmt.Sprintf("-> %d: %s\n", lineNum, lines[i]))
			if pos.Column <= len(lines[i])+1 {
				sb.WriteString(strings.Repeat(" ", pos.Column+5) + "^\n")
			}
		} else {
			sb.WriteString(fmt.Sprintf("   %d: %s\n", lineNum, lines[i]))
		}
	}

	return sb.String()
}
