package hideblock

import (
	"bytes"
	"regexp"
)

var (
	openDelim  = []byte("{%")
	closeDelim = []byte("%}")

	// A complete marker: {% name args %}. Whitespace-control dashes are accepted
	// and have no effect.
	markerRe = regexp.MustCompile(`(?s)^\{%-?\s*([A-Za-z_]\w*(?:-\w+)*)\s*(.*?)\s*-?%\}$`)
	// Start of a marker, used to name the tag in errors when the marker is cut off.
	markerNameRe = regexp.MustCompile(`^\{%-?\s*([A-Za-z_]\w*(?:-\w+)*)`)
	endRawRe     = regexp.MustCompile(`\{%-?\s*endraw\s*-?%\}`)
)

const rawTagName = "raw"

// nextMarker locates the first complete marker at or after from. It returns
// the marker bounds and its name and argument string; name is empty when the
// delimiters enclose something that is not a tag. ok is false when no
// complete marker is buffered yet.
func nextMarker(b []byte, from int) (start, end int, name, args string, ok bool) {
	rel := bytes.Index(b[from:], openDelim)
	if rel < 0 {
		return 0, 0, "", "", false
	}
	start = from + rel
	closeRel := bytes.Index(b[start:], closeDelim)
	if closeRel < 0 {
		return start, 0, "", "", false
	}
	end = start + closeRel + len(closeDelim)
	if m := markerRe.FindSubmatch(b[start:end]); m != nil {
		name, args = string(m[1]), string(m[2])
	}
	return start, end, name, args, true
}

// findRawEnd returns the bounds of the {% endraw %} marker closing a raw
// region whose content starts at from.
func findRawEnd(b []byte, from int) (innerEnd, end int, ok bool) {
	loc := endRawRe.FindIndex(b[from:])
	if loc == nil {
		return 0, 0, false
	}
	return from + loc[0], from + loc[1], true
}

// findClose returns the bounds of the close marker balancing the open marker
// of name whose body starts at from. Same-name blocks nest and raw regions
// are skipped.
func findClose(b []byte, from int, name string) (bodyEnd, end int, ok bool) {
	depth := 1
	i := from
	for {
		start, stop, tag, _, found := nextMarker(b, i)
		if !found {
			return 0, 0, false
		}
		switch canonicalName(tag) {
		case name:
			depth++
		case "end" + name:
			depth--
			if depth == 0 {
				return start, stop, true
			}
		case rawTagName:
			_, rawEnd, closed := findRawEnd(b, stop)
			if !closed {
				return 0, 0, false
			}
			stop = rawEnd
		}
		i = stop
	}
}

// peekName returns the tag name of a possibly incomplete marker.
func peekName(b []byte) string {
	if m := markerNameRe.FindSubmatch(b); m != nil {
		return string(m[1])
	}
	return ""
}
