package hideblock

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Position(t *testing.T) {
	t.Run("should advance across lines", func(t *testing.T) {
		p := Position{Line: 1, Column: 1}.advance([]byte("ab\ncd\n\nxyz"))
		assert.Equal(t, Position{Line: 4, Column: 4}, p)
	})

	t.Run("should format as line and column", func(t *testing.T) {
		assert.Equal(t, "line 2, column 7", Position{Line: 2, Column: 7}.String())
	})
}

func Test_Errors(t *testing.T) {
	src := "first\nsecond\nthird {% hide %}\nfourth\nfifth"
	pos := Position{Line: 3, Column: 7}

	t.Run("should include surrounding lines and a caret in the context", func(t *testing.T) {
		want := "   1: first\n" +
			"   2: second\n" +
			"-> 3: third {% hide %}\n" +
			"            ^\n" +
			"   4: fourth\n"
		assert.Equal(t, want, extractContext(src, pos))
	})

	t.Run("should return no context for empty sources", func(t *testing.T) {
		assert.Empty(t, extractContext("", pos))
	})

	t.Run("should format malformed tag errors", func(t *testing.T) {
		err := NewMalformedTagError(pos, "hide", "missing close tag {% endhide %}", src)
		assert.Contains(t, err.Error(), "malformed tag {% hide %} at line 3, column 7: missing close tag {% endhide %}")
		assert.Contains(t, err.Error(), "Context: ")
	})

	t.Run("should format unmatched tag errors", func(t *testing.T) {
		err := NewUnmatchedTagError(pos, "hide", src)
		assert.Contains(t, err.Error(), "unmatched close tag {% endhide %} at line 3, column 7")
		assert.Equal(t, "close tag has no matching open tag", err.Message)
	})

	t.Run("should format validation errors", func(t *testing.T) {
		err := NewValidationError(pos, "hide", "title required", src)
		assert.Contains(t, err.Error(), "validation failed for tag {% hide %} at line 3, column 7: title required")
	})

	t.Run("should unwrap tag errors", func(t *testing.T) {
		cause := errors.New("renderer failed")
		err := NewTagError(pos, "hide", cause, src)
		assert.Equal(t, "rendering tag {% hide %} at line 3, column 7: renderer failed", err.Error())
		assert.True(t, errors.Is(err, cause))
		assert.Equal(t, "renderer failed", err.Message)
	})

	t.Run("should format parse errors with and without context", func(t *testing.T) {
		assert.Equal(t, "bad input at line 1, column 1", NewParseError(Position{Line: 1, Column: 1}, "bad input", "").Error())
		assert.Contains(t, NewParseError(pos, "bad input", src).Error(), "\nContext: ")
	})
}
