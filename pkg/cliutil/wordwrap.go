package cliutil

import (
	"strings"
)

// Wrap wraps the string `s` to a maximum width `w`.  Pass `w` == 0 to do no
// wrapping.
//
// In order to have some room for slop to avoid things like a short word
// being on a line by itself, most lines are actually wrapped to `w - 5`.
func Wrap(w int, s string) string {
	return wrap(0, w, s)
}

// WrapIndent wraps the string `s` to a maximum width `w` with leading indent
// `i`.  The first line is not indented (this is assumed to be done by the
// caller).  Pass `w` == 0 to do no wrapping.
//
// In order to have some room for slop to avoid things like a short word
// being on a line by itself, most lines are actually wrapped to `w - 5`.
func WrapIndent(i, w int, s string) string {
	return wrap(i, w, s)
}

func wrap(indent, width int, str string) string {
	if width <= 0 {
		return str
	}
	limit := width - 5
	if limit <= indent {
		return str
	}
	inLines := strings.Split(str, "\n")
	outLines := make([]string, 0, len(inLines))
	for _, line := range inLines {
		outLines = append(outLines, wrapLine(indent, limit, line))
	}
	return strings.Join(outLines, "\n")
}

// wrapLine wraps a single line, preserving inter-word spacing (doc strings
// use two spaces between sentences) except at the break points.
func wrapLine(indent, limit int, line string) string {
	var ret strings.Builder
	lineLen := indent
	rest := line
	for rest != "" {
		i := 0
		for i < len(rest) && rest[i] == ' ' {
			i++
		}
		j := i
		for j < len(rest) && rest[j] != ' ' {
			j++
		}
		spaces, word := rest[:i], rest[i:j]
		rest = rest[j:]
		if lineLen > indent && lineLen+len(spaces)+len(word) >= limit {
			ret.WriteString("\n")
			ret.WriteString(strings.Repeat(" ", indent))
			ret.WriteString(word)
			lineLen = indent + len(word)
		} else {
			ret.WriteString(spaces)
			ret.WriteString(word)
			lineLen += len(spaces) + len(word)
		}
	}
	return ret.String()
}
